package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball"
)

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "how": true,
	"in": true, "is": true, "it": true, "of": true, "on": true, "or": true,
	"that": true, "the": true, "to": true, "was": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "why": true,
	"will": true, "with": true,
}

var wordRe = regexp.MustCompile(`[^\w\s]`)

// stemSet lowercases, strips punctuation and stop words, and stems what
// remains.
func stemSet(text string) map[string]bool {
	text = wordRe.ReplaceAllString(strings.ToLower(text), " ")
	set := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		if len(w) < 2 || stopWords[w] {
			continue
		}
		stem, err := snowball.Stem(w, "english", true)
		if err != nil {
			stem = w
		}
		set[stem] = true
	}
	return set
}

// overlapScore is the fraction of query stems found in the candidate
// text. 0 when the query has no content words.
func overlapScore(queryStems map[string]bool, text string) float64 {
	if len(queryStems) == 0 {
		return 0
	}
	candidate := stemSet(text)
	matched := 0
	for stem := range queryStems {
		if candidate[stem] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryStems))
}

// mergeResults dedupes results from several engines by canonical URL and
// orders them by stem overlap with the query. Ties keep the engine-chain
// order, so merged output is stable for fixed input.
func mergeResults(query string, batches [][]Result) []Result {
	queryStems := stemSet(query)

	type scored struct {
		res   Result
		score float64
		pos   int
	}
	var merged []scored
	seen := make(map[string]bool)
	pos := 0
	for _, batch := range batches {
		for _, r := range batch {
			key := canonicalURL(r.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, scored{
				res:   r,
				score: overlapScore(queryStems, r.Title+" "+r.Body),
				pos:   pos,
			})
			pos++
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].pos < merged[j].pos
	})

	out := make([]Result, 0, len(merged))
	for _, s := range merged {
		out = append(out, s.res)
	}
	return out
}
