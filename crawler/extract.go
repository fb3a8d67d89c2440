package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Content is the readable part of a page.
type Content struct {
	Title    string
	Text     string
	Markdown string
	Excerpt  string
}

// Extractor pulls readable content out of raw HTML. Trafilatura runs
// first, readability second, and a plain DOM walk is the last resort so
// the tool always has something to hand the model.
type Extractor struct {
	logger *zap.Logger
}

func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

func (e *Extractor) Extract(body []byte, pageURL string) (*Content, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}

	if content := e.extractTrafilatura(body, parsedURL); content != nil {
		return content, nil
	}
	if content := e.extractReadability(body, parsedURL); content != nil {
		return content, nil
	}
	return e.extractPlain(body)
}

func (e *Extractor) extractTrafilatura(body []byte, pageURL *url.URL) *Content {
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: pageURL,
	})
	if err != nil {
		e.logger.Debug("trafilatura_failed", zap.String("url", pageURL.String()), zap.Error(err))
		return nil
	}
	if strings.TrimSpace(result.ContentText) == "" {
		return nil
	}

	markdown := ""
	if result.ContentNode != nil {
		if rendered, err := renderNode(result.ContentNode); err == nil {
			if md, err := htmltomarkdown.ConvertString(rendered); err == nil {
				markdown = md
			}
		}
	}

	return &Content{
		Title:    result.Metadata.Title,
		Text:     result.ContentText,
		Markdown: markdown,
		Excerpt:  result.Metadata.Description,
	}
}

func (e *Extractor) extractReadability(body []byte, pageURL *url.URL) *Content {
	parser := readability.NewParser()
	article, err := parser.Parse(bytes.NewReader(body), pageURL)
	if err != nil {
		e.logger.Debug("readability_failed", zap.String("url", pageURL.String()), zap.Error(err))
		return nil
	}
	if strings.TrimSpace(article.TextContent) == "" {
		return nil
	}

	markdown := ""
	if article.Content != "" {
		if md, err := htmltomarkdown.ConvertString(article.Content); err == nil {
			markdown = md
		}
	}

	return &Content{
		Title:    article.Title,
		Text:     article.TextContent,
		Markdown: markdown,
		Excerpt:  article.Excerpt,
	}
}

// extractPlain strips boilerplate tags and joins what text remains.
func (e *Extractor) extractPlain(body []byte) (*Content, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, nav, header, footer, aside, noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	var texts []string
	doc.Find("main, article, section, p, h1, h2, h3, h4, h5, h6, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > 10 {
			texts = append(texts, text)
		}
	})
	if len(texts) == 0 {
		doc.Find("div").Each(func(_ int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > 20 {
				texts = append(texts, text)
			}
		})
	}

	full := strings.Join(strings.Fields(strings.Join(texts, " ")), " ")
	if full == "" {
		return nil, nil
	}
	return &Content{Title: title, Text: full}, nil
}

func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
