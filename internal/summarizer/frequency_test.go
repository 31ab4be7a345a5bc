package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Swayam-the-coder/GRASP/internal/config"
)

func TestSummarizeShortTextIsReturnedWhole(t *testing.T) {
	s := NewFrequencySummarizer()
	out, err := s.Summarize("The sky is blue.\n  Grass is   green", 3)
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue. Grass is green", out)
}

func TestSummarizeKeepsOriginalOrder(t *testing.T) {
	text := "Rayleigh scattering makes the sky blue. " +
		"Cats sleep a lot. " +
		"The sky looks blue because scattering favours blue light. " +
		"Bread needs flour."
	out, err := NewFrequencySummarizer().Summarize(text, 2)
	require.NoError(t, err)
	assert.Equal(t, "Rayleigh scattering makes the sky blue. The sky looks blue because scattering favours blue light.", out)
}

func TestSummarizeEmpty(t *testing.T) {
	out, err := NewFrequencySummarizer().Summarize("   ", 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestNew(t *testing.T) {
	s, err := New(config.SummarizerConfig{Type: "frequency"})
	require.NoError(t, err)
	assert.NotNil(t, s)

	s, err = New(config.SummarizerConfig{Type: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = New(config.SummarizerConfig{Type: "lsa"})
	assert.Error(t, err)
}
