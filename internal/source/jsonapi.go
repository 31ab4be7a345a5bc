package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// Render modes for JSON payloads.
const (
	RenderFlat   = "flat"
	RenderPretty = "pretty"
)

// JSONAPIConfig configures the JSON API adapter.
type JSONAPIConfig struct {
	Render  string
	Timeout time.Duration
}

// JSONAPI fetches a JSON document and renders it as text.
type JSONAPI struct {
	render string
	client *http.Client
}

func NewJSONAPI(cfg JSONAPIConfig) *JSONAPI {
	render := cfg.Render
	if render == "" {
		render = RenderFlat
	}
	return &JSONAPI{render: render, client: newHTTPClient(cfg.Timeout)}
}

func (*JSONAPI) Kind() domain.SourceKind { return domain.SourceAPI }
func (*JSONAPI) Required() []string      { return []string{"url"} }

func (a *JSONAPI) Extract(ctx context.Context, params domain.Params) ([]domain.RawDocument, error) {
	url := params.Get("url")
	body, err := fetch(ctx, a.client, url, "", "application/json")
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: %s did not return valid JSON", domain.ErrDecode, url)
	}
	var text string
	if a.render == RenderPretty {
		text = string(pretty.Pretty(body))
	} else {
		text = flattenJSON(gjson.ParseBytes(body))
	}
	return []domain.RawDocument{{Text: text, Metadata: meta("source", url)}}, nil
}

// flattenJSON renders every leaf as "path: value", one per line, in
// document order. Paths use dots for keys and indices for arrays.
func flattenJSON(root gjson.Result) string {
	var b strings.Builder
	var walk func(path string, v gjson.Result)
	walk = func(path string, v gjson.Result) {
		switch {
		case v.IsObject() || v.IsArray():
			i := 0
			v.ForEach(func(key, value gjson.Result) bool {
				name := key.String()
				if v.IsArray() {
					name = fmt.Sprint(i)
				}
				i++
				if path != "" {
					name = path + "." + name
				}
				walk(name, value)
				return true
			})
		default:
			if path == "" {
				path = "value"
			}
			b.WriteString(path)
			b.WriteString(": ")
			if v.Type == gjson.Null {
				b.WriteString("null")
			} else {
				b.WriteString(v.String())
			}
			b.WriteByte('\n')
		}
	}
	walk("", root)
	return strings.TrimRight(b.String(), "\n")
}
