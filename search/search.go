package search

// Category selects a search vertical.
type Category string

const (
	CategoryText  Category = "text"
	CategoryNews  Category = "news"
	CategoryBooks Category = "books"
)

// Query carries a search request through an engine adapter.
type Query struct {
	Text       string            `json:"query"`
	Region     string            `json:"region,omitempty"`      // e.g. "us-en"
	SafeSearch string            `json:"safesearch,omitempty"`  // on, moderate, off
	TimeLimit  string            `json:"time_limit,omitempty"`  // d, w, m, y
	Page       int               `json:"page,omitempty"`        // 1-based
	MaxResults int               `json:"max_results,omitempty"` // 0 means engine default
	Extra      map[string]string `json:"-"`                     // filled by pre-hooks (vqd tokens etc.)
}

// WithExtra returns a copy of the query with one extra key set. The
// original query is never mutated.
func (q Query) WithExtra(key, value string) Query {
	extra := make(map[string]string, len(q.Extra)+1)
	for k, v := range q.Extra {
		extra[k] = v
	}
	extra[key] = value
	q.Extra = extra
	return q
}

// Result is one text search hit.
type Result struct {
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Body     string            `json:"body"`
	Engine   string            `json:"engine,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// NewsResult is one news hit.
type NewsResult struct {
	Date   string `json:"date"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	URL    string `json:"url"`
	Image  string `json:"image,omitempty"`
	Source string `json:"source,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// BookResult is one books hit.
type BookResult struct {
	Title     string `json:"title"`
	Author    string `json:"author,omitempty"`
	Publisher string `json:"publisher,omitempty"`
	Year      string `json:"year,omitempty"`
	Format    string `json:"format,omitempty"`
	Size      string `json:"size,omitempty"`
	URL       string `json:"url"`
	Engine    string `json:"engine,omitempty"`
}

// Record is the raw field mapping produced per matched node before it is
// shaped into a typed result.
type Record map[string]string

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
