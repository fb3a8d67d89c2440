package search

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const annasEndpoint = "https://annas-archive.org/search"

// annasBooks is the books vertical. Result cards carry the metadata as a
// single "lang, format, size, year" info line, split in the post hook.
func annasBooks() *EngineSpec {
	return &EngineSpec{
		Name:     "annasarchive",
		Category: CategoryBooks,
		Build: func(q Query) (*Request, error) {
			params := url.Values{"q": {q.Text}}
			if q.Page > 1 {
				params.Set("page", strconv.Itoa(q.Page))
			}
			return &Request{Method: http.MethodGet, URL: annasEndpoint + "?" + params.Encode()}, nil
		},
		ItemsXPath: `//a[contains(@href,"/md5/")]`,
		Fields: map[string]Field{
			"url":    {XPath: `.`, Attr: "href"},
			"title":  {XPath: `.//h3`},
			"author": {XPath: `.//div[contains(@class,"italic")]`},
			"info":   {XPath: `.//div[contains(@class,"text-gray-500")][1]`},
			"pub":    {XPath: `.//div[contains(@class,"text-sm") and not(contains(@class,"text-gray-500"))]`},
		},
		Post: func(rec Record) (Record, bool) {
			out := rec.clone()
			out["url"] = absoluteURL(annasEndpoint, out["url"])
			format, size, year := splitBookInfo(out["info"])
			delete(out, "info")
			out["format"] = format
			out["size"] = size
			out["year"] = year
			out["publisher"] = out["pub"]
			delete(out, "pub")
			return out, out["title"] != "" && strings.Contains(out["url"], "/md5/")
		},
	}
}

// splitBookInfo parses the "English [en], epub, 1.2MB, 2019" info line.
func splitBookInfo(info string) (format, size, year string) {
	for _, part := range strings.Split(info, ",") {
		part = strings.TrimSpace(part)
		switch {
		case isBookFormat(part):
			format = strings.ToLower(part)
		case strings.HasSuffix(strings.ToUpper(part), "MB") || strings.HasSuffix(strings.ToUpper(part), "KB"):
			size = part
		case len(part) == 4 && part >= "1000" && part <= "2999":
			year = part
		}
	}
	return format, size, year
}

func isBookFormat(s string) bool {
	switch strings.ToLower(s) {
	case "epub", "pdf", "mobi", "azw3", "djvu", "fb2", "cbz", "cbr":
		return true
	}
	return false
}
