package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// PDF extracts the text layer of a PDF document, one document per page.
type PDF struct{}

func NewPDF() *PDF { return &PDF{} }

func (*PDF) Kind() domain.SourceKind { return domain.SourcePDF }
func (*PDF) Required() []string      { return []string{"path"} }

func (*PDF) Extract(_ context.Context, params domain.Params) ([]domain.RawDocument, error) {
	path := params.Get("path")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
	}
	pages, err := readPDFPages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrParse, path, err)
	}
	var docs []domain.RawDocument
	for i, text := range pages {
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, domain.RawDocument{
			Text:     text,
			Metadata: meta("source", path, "page", strconv.Itoa(i+1)),
		})
	}
	return docs, nil
}

// readPDFPages returns the plain text of every page. The parser panics on
// some malformed inputs, so panics are turned into errors.
func readPDFPages(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	n := r.NumPage()
	pages = make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
