package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

func newDefault(t *testing.T) *WindowChunker {
	t.Helper()
	c, err := NewWindowChunker(DefaultChunkSize, DefaultOverlap)
	require.NoError(t, err)
	return c
}

func doc(text string) []domain.RawDocument {
	return []domain.RawDocument{{Text: text, Metadata: map[string]string{"source": "t"}}}
}

func TestNewWindowChunkerRejectsBadOverlap(t *testing.T) {
	_, err := NewWindowChunker(100, 100)
	assert.Error(t, err)
	_, err = NewWindowChunker(100, -1)
	assert.Error(t, err)
	_, err = NewWindowChunker(0, 0)
	assert.Error(t, err)
}

func TestSplitEmptyText(t *testing.T) {
	assert.Empty(t, newDefault(t).Split(doc("")))
	assert.Empty(t, newDefault(t).Split(nil))
}

func TestSplitShortTextIsOneChunk(t *testing.T) {
	text := "The sky is blue. Grass is green."
	chunks := newDefault(t).Split(doc(text))

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, "t", chunks[0].Metadata["source"])
}

func TestSplitExactlyChunkSize(t *testing.T) {
	text := strings.Repeat("a", DefaultChunkSize)
	chunks := newDefault(t).Split(doc(text))
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Text)
}

func TestSplitOverlapAndReconstruction(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 3500; i++ {
		b.WriteString("word")
		b.WriteByte(byte('a' + i%26))
		b.WriteByte(' ')
	}
	text := b.String()
	c := newDefault(t)
	chunks := c.Split(doc(text))
	require.Greater(t, len(chunks), 1)

	rebuilt := chunks[0].Text
	for i := 1; i < len(chunks); i++ {
		prev, cur := []rune(chunks[i-1].Text), []rune(chunks[i].Text)
		assert.Equal(t, string(prev[len(prev)-c.Overlap():]), string(cur[:c.Overlap()]), "chunk %d overlap", i)
		assert.Equal(t, chunks[i-1].StartOffset+c.ChunkSize()-c.Overlap(), chunks[i].StartOffset)
		rebuilt += string(cur[c.Overlap():])
	}
	assert.Equal(t, text, rebuilt)

	for _, ch := range chunks[:len(chunks)-1] {
		assert.Equal(t, c.ChunkSize(), utf8.RuneCountInString(ch.Text))
	}
	assert.LessOrEqual(t, utf8.RuneCountInString(chunks[len(chunks)-1].Text), c.ChunkSize())
}

func TestSplitCountsRunesNotBytes(t *testing.T) {
	c, err := NewWindowChunker(4, 1)
	require.NoError(t, err)

	chunks := c.Split(doc("ŝĝĥĵŭ€xyz"))
	require.Len(t, chunks, 3)
	assert.Equal(t, "ŝĝĥĵ", chunks[0].Text)
	assert.Equal(t, "ĵŭ€x", chunks[1].Text)
	assert.Equal(t, "xyz", chunks[2].Text)
}

func TestSplitMultipleDocumentsKeepsOrderAndIDs(t *testing.T) {
	c, err := NewWindowChunker(5, 2)
	require.NoError(t, err)

	chunks := c.Split([]domain.RawDocument{
		{Text: "abcdefgh", Metadata: map[string]string{"page": "1"}},
		{Text: ""},
		{Text: "xyz", Metadata: map[string]string{"page": "3"}},
	})
	require.Len(t, chunks, 3)
	assert.Equal(t, "0:0", chunks[0].ID)
	assert.Equal(t, "0:1", chunks[1].ID)
	assert.Equal(t, "defgh", chunks[1].Text)
	assert.Equal(t, "2:0", chunks[2].ID)
	assert.Equal(t, 2, chunks[2].Index)
	assert.Equal(t, "3", chunks[2].Metadata["page"])
}
