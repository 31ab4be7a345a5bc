package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// TextFile reads a plain text file.
type TextFile struct{}

func NewTextFile() *TextFile { return &TextFile{} }

func (*TextFile) Kind() domain.SourceKind { return domain.SourceText }
func (*TextFile) Required() []string      { return []string{"path"} }

func (*TextFile) Extract(_ context.Context, params domain.Params) ([]domain.RawDocument, error) {
	path := params.Get("path")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	text, err := decodeText(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrDecode, path, err)
	}
	return []domain.RawDocument{{Text: text, Metadata: meta("source", path)}}, nil
}

// decodeText accepts UTF-8 with or without a BOM and UTF-16 with a BOM.
func decodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return "", fmt.Errorf("utf-16: %w", err)
		}
		data = out
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid UTF-8 text")
	}
	return string(data), nil
}
