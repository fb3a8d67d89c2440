package search

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var relativeDateRe = regexp.MustCompile(`(?i)^(\d+)\s+(minute|hour|day|week|month|year)s?\s+ago$`)

// normalizeDate turns the provider's date formats (relative offsets,
// epoch seconds, locale strings) into RFC 3339. Unparseable input is
// passed through untouched so no record is dropped over a date.
func normalizeDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if m := relativeDateRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		var d time.Duration
		switch strings.ToLower(m[2]) {
		case "minute":
			d = time.Duration(n) * time.Minute
		case "hour":
			d = time.Duration(n) * time.Hour
		case "day":
			d = time.Duration(n) * 24 * time.Hour
		case "week":
			d = time.Duration(n) * 7 * 24 * time.Hour
		case "month":
			d = time.Duration(n) * 30 * 24 * time.Hour
		case "year":
			d = time.Duration(n) * 365 * 24 * time.Hour
		}
		return now.Add(-d).UTC().Format(time.RFC3339)
	}

	if epoch, err := strconv.ParseInt(s, 10, 64); err == nil && epoch > 1_000_000_000 {
		return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return t.UTC().Format(time.RFC3339)
	}
	return s
}

// absoluteURL resolves a possibly relative href against the engine base.
func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(u).String()
}

// canonicalURL reduces a URL to a dedupe key: scheme and www dropped,
// host lowercased, trailing slash trimmed.
func canonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	host := strings.ToLower(strings.TrimPrefix(u.Host, "www."))
	path := strings.TrimSuffix(u.Path, "/")
	key := host + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}
