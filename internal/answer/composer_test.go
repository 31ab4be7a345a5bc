package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

type fakeGenerator struct {
	GenerateFn func(system, question string) (string, error)
	system     string
	question   string
}

func (f *fakeGenerator) Generate(_ context.Context, system, question string) (string, error) {
	f.system, f.question = system, question
	return f.GenerateFn(system, question)
}

func results(texts ...string) []domain.SearchResult {
	out := make([]domain.SearchResult, len(texts))
	for i, t := range texts {
		out[i] = domain.SearchResult{Chunk: domain.Chunk{ID: t, Text: t}}
	}
	return out
}

func TestAnswerGroundsPromptInContext(t *testing.T) {
	gen := &fakeGenerator{GenerateFn: func(system, _ string) (string, error) {
		if strings.Contains(system, "The sky is blue.") {
			return "The sky is blue.", nil
		}
		return "I don't know.", nil
	}}
	c, err := New(gen, "", 0)
	require.NoError(t, err)

	ans, err := c.Answer(context.Background(), "What color is the sky?", results("The sky is blue. Grass is green."))
	require.NoError(t, err)

	assert.Equal(t, "The sky is blue.", ans.Text)
	assert.Equal(t, "What color is the sky?", gen.question)
	assert.Contains(t, gen.system, "If you don't know the answer, say that you don't know.")
	assert.Contains(t, gen.system, "three sentences maximum")
	assert.True(t, strings.HasSuffix(gen.system, "\n\nThe sky is blue. Grass is green."))
	require.Len(t, ans.Sources, 1)
}

func TestContextKeepsRetrievalOrder(t *testing.T) {
	c, err := New(nil, "", 0)
	require.NoError(t, err)
	block, used := c.BuildContext(results("second best", "best", "third"))
	assert.Equal(t, "second best\n\nbest\n\nthird", block)
	assert.Len(t, used, 3)
}

func TestContextIsBounded(t *testing.T) {
	c, err := New(nil, "", 12)
	require.NoError(t, err)
	block, used := c.BuildContext(results("abcdefgh", "ijklmnop", "qrs"))
	assert.Equal(t, "abcdefgh\n\nij", block)
	assert.Len(t, used, 2)
	assert.LessOrEqual(t, len(block), 12)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "aé", truncate("aé", 3))
}

func TestAnswerWrapsGenerationError(t *testing.T) {
	boom := errors.New("503 service unavailable")
	c, err := New(&fakeGenerator{GenerateFn: func(string, string) (string, error) { return "", boom }}, "", 0)
	require.NoError(t, err)

	_, err = c.Answer(context.Background(), "q", results("ctx"))
	assert.ErrorIs(t, err, domain.ErrGeneration)
	assert.ErrorIs(t, err, boom)
}

func TestCustomTemplate(t *testing.T) {
	gen := &fakeGenerator{GenerateFn: func(string, string) (string, error) { return "ok", nil }}
	c, err := New(gen, "Context:\n{{.Context}}\nOnly use it.", 0)
	require.NoError(t, err)
	_, err = c.Answer(context.Background(), "q", results("x"))
	require.NoError(t, err)
	assert.Equal(t, "Context:\nx\nOnly use it.", gen.system)

	_, err = New(gen, "{{.Context", 0)
	assert.Error(t, err)
}
