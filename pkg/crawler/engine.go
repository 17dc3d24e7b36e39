// Package crawler implements the crawl service's engines: a goquery-based
// static-HTML crawler for crawl and form-extraction requests, and a
// browser-backed login verifier built on the harness.
package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/entrhq/webcheck/pkg/config"
)

// maxBodySize caps how much of a response body is parsed.
const maxBodySize = 10 << 20 // 10 MiB

// Engine crawls static HTML pages without a browser.
type Engine struct {
	client    *http.Client
	userAgent string
	maxLinks  int
	log       *logrus.Entry
}

// NewEngine creates a crawl engine from crawler configuration.
func NewEngine(cfg config.CrawlerConfig, logger *logrus.Logger) *Engine {
	return &Engine{
		client:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		userAgent: cfg.UserAgent,
		maxLinks:  cfg.MaxLinks,
		log:       logger.WithField("component", "crawl-engine"),
	}
}

// PageData is the result of one crawl.
type PageData struct {
	Engine     string            `json:"engine"`
	URL        string            `json:"url"`
	StatusCode int               `json:"status_code"`
	Title      string            `json:"title"`
	Links      LinkStats         `json:"links"`
	Forms      []Form            `json:"forms"`
	Inputs     []InputField      `json:"inputs"`
	MetaTags   map[string]string `json:"meta_tags"`
	PageSize   int               `json:"page_size"`
}

// LinkStats categorizes a page's links.
type LinkStats struct {
	Total         int      `json:"total"`
	Internal      int      `json:"internal"`
	External      int      `json:"external"`
	Email         int      `json:"email"`
	InternalLinks []string `json:"internal_links"`
	ExternalLinks []string `json:"external_links"`
	EmailLinks    []string `json:"email_links"`
}

// Form describes one form and its fields.
type Form struct {
	Name   string       `json:"name"`
	ID     string       `json:"id"`
	Action string       `json:"action"`
	Method string       `json:"method"`
	Fields []InputField `json:"fields"`
}

// InputField describes one input or textarea.
type InputField struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	ID       string `json:"id"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
}

// Crawl fetches and parses the page at rawURL.
func (e *Engine) Crawl(ctx context.Context, rawURL string) (*PageData, error) {
	e.log.WithField("url", rawURL).Info("crawling")

	base, doc, status, size, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	return &PageData{
		Engine:     "goquery",
		URL:        rawURL,
		StatusCode: status,
		Title:      strings.TrimSpace(doc.Find("title").First().Text()),
		Links:      e.extractLinks(doc, base),
		Forms:      extractForms(doc),
		Inputs:     extractInputs(doc),
		MetaTags:   extractMetaTags(doc),
		PageSize:   size,
	}, nil
}

// ExtractForms fetches the page and returns only its forms.
func (e *Engine) ExtractForms(ctx context.Context, rawURL string) ([]Form, error) {
	e.log.WithField("url", rawURL).Info("extracting forms")

	_, doc, _, _, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return extractForms(doc), nil
}

// sensitiveKeywords flags input names and types that suggest credential or
// payment data.
var sensitiveKeywords = []string{
	"password", "pin", "secret", "token", "key",
	"credit", "card", "cvv", "ssn", "api", "auth",
}

// ExtractSensitiveFields fetches the page and returns only the input fields
// whose name or type contains a sensitive keyword.
func (e *Engine) ExtractSensitiveFields(ctx context.Context, rawURL string) ([]InputField, error) {
	e.log.WithField("url", rawURL).Info("scanning for sensitive fields")

	_, doc, _, _, err := e.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	fields := make([]InputField, 0)
	for _, in := range extractInputs(doc) {
		if isSensitiveField(in) {
			fields = append(fields, in)
		}
	}
	return fields, nil
}

func isSensitiveField(in InputField) bool {
	name := strings.ToLower(in.Name)
	typ := strings.ToLower(in.Type)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(name, kw) || strings.Contains(typ, kw) {
			return true
		}
	}
	return false
}

func (e *Engine) fetch(ctx context.Context, rawURL string) (*url.URL, *goquery.Document, int, int, error) {
	base, err := url.Parse(rawURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, nil, 0, 0, fmt.Errorf("invalid url: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, nil, 0, 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("failed to read body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, nil, 0, 0, fmt.Errorf("failed to parse html: %w", err)
	}
	return base, doc, resp.StatusCode, len(body), nil
}

// extractLinks categorizes anchors into internal, external, and email links.
// Duplicates are dropped; first-seen order is preserved so output is stable.
func (e *Engine) extractLinks(doc *goquery.Document, base *url.URL) LinkStats {
	var stats LinkStats
	seenInternal := make(map[string]bool)
	seenExternal := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		switch {
		case href == "" || strings.HasPrefix(href, "javascript:"):
			return
		case strings.HasPrefix(href, "mailto:"):
			stats.EmailLinks = append(stats.EmailLinks, href)
		default:
			resolved, err := base.Parse(href)
			if err != nil {
				return
			}
			abs := resolved.String()
			if resolved.Host == base.Host {
				if !seenInternal[abs] {
					seenInternal[abs] = true
					if len(stats.InternalLinks) < e.maxLinks {
						stats.InternalLinks = append(stats.InternalLinks, abs)
					}
				}
			} else {
				if !seenExternal[abs] {
					seenExternal[abs] = true
					if len(stats.ExternalLinks) < e.maxLinks {
						stats.ExternalLinks = append(stats.ExternalLinks, abs)
					}
				}
			}
		}
	})

	stats.Internal = len(seenInternal)
	stats.External = len(seenExternal)
	stats.Email = len(stats.EmailLinks)
	stats.Total = stats.Internal + stats.External
	return stats
}

func extractForms(doc *goquery.Document) []Form {
	forms := make([]Form, 0)

	doc.Find("form").Each(func(_ int, sel *goquery.Selection) {
		form := Form{
			Name:   sel.AttrOr("name", ""),
			ID:     sel.AttrOr("id", ""),
			Action: sel.AttrOr("action", ""),
			Method: strings.ToUpper(sel.AttrOr("method", "get")),
			Fields: make([]InputField, 0),
		}

		sel.Find("input").Each(func(_ int, in *goquery.Selection) {
			form.Fields = append(form.Fields, inputField(in, in.AttrOr("type", "text")))
		})
		sel.Find("textarea").Each(func(_ int, ta *goquery.Selection) {
			form.Fields = append(form.Fields, inputField(ta, "textarea"))
		})

		forms = append(forms, form)
	})
	return forms
}

func extractInputs(doc *goquery.Document) []InputField {
	inputs := make([]InputField, 0)
	doc.Find("input").Each(func(_ int, in *goquery.Selection) {
		inputs = append(inputs, inputField(in, in.AttrOr("type", "text")))
	})
	return inputs
}

func inputField(sel *goquery.Selection, typ string) InputField {
	_, required := sel.Attr("required")
	return InputField{
		Type:     typ,
		Name:     sel.AttrOr("name", ""),
		ID:       sel.AttrOr("id", ""),
		Value:    sel.AttrOr("value", ""),
		Required: required,
	}
}

func extractMetaTags(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok {
			name, ok = sel.Attr("property")
		}
		content, hasContent := sel.Attr("content")
		if ok && name != "" && hasContent {
			meta[name] = content
		}
	})
	return meta
}
