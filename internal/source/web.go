package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// WebConfig configures the web page adapter.
type WebConfig struct {
	Selectors []string
	UserAgent string
	Timeout   time.Duration
}

// Web downloads an HTML page and keeps the text of the regions matched by
// the configured selectors, or the whole body when none match.
type Web struct {
	selector  string
	userAgent string
	client    *http.Client
}

func NewWeb(cfg WebConfig) *Web {
	selectors := cfg.Selectors
	if len(selectors) == 0 {
		selectors = []string{"body"}
	}
	return &Web{
		selector:  strings.Join(selectors, ", "),
		userAgent: cfg.UserAgent,
		client:    newHTTPClient(cfg.Timeout),
	}
}

func (*Web) Kind() domain.SourceKind { return domain.SourceWeb }
func (*Web) Required() []string      { return []string{"url"} }

func (w *Web) Extract(ctx context.Context, params domain.Params) ([]domain.RawDocument, error) {
	url := params.Get("url")
	body, err := fetch(ctx, w.client, url, w.userAgent, "text/html")
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", domain.ErrFetch, err)
	}

	var parts []string
	doc.Find(w.selector).Each(func(_ int, s *goquery.Selection) {
		// Text() of an outer match already includes nested matches.
		if s.ParentsFiltered(w.selector).Length() > 0 {
			return
		}
		if text := collapseSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	if len(parts) == 0 {
		// no configured region matched: keep the visible body text instead
		body := doc.Find("body").Clone()
		body.Find("script, style, noscript").Remove()
		if text := collapseSpace(body.Text()); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: %s: page has no readable text", domain.ErrFetch, url)
	}

	title := collapseSpace(doc.Find("title").First().Text())
	return []domain.RawDocument{{
		Text:     strings.Join(parts, "\n"),
		Metadata: meta("source", url, "title", title),
	}}, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
