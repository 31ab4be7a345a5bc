// Package answer turns retrieved chunks and a question into a grounded answer.
package answer

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// DefaultSystemPrompt is the instruction template. {{.Context}} receives the
// retrieved chunks.
const DefaultSystemPrompt = "You are an assistant for question-answering tasks. " +
	"Use the following pieces of retrieved context to answer " +
	"the question. If you don't know the answer, say that you " +
	"don't know. Use three sentences maximum and keep the " +
	"answer concise." +
	"\n\n" +
	"{{.Context}}"

const contextSeparator = "\n\n"

// Composer assembles the prompt and calls the language model.
type Composer struct {
	generator       domain.Generator
	tmpl            *template.Template
	maxContextChars int
}

// New parses systemPrompt (DefaultSystemPrompt when empty). maxContextChars
// bounds the context block; <= 0 means unbounded.
func New(generator domain.Generator, systemPrompt string, maxContextChars int) (*Composer, error) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	tmpl, err := template.New("system").Option("missingkey=error").Parse(systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("parse system prompt: %w", err)
	}
	return &Composer{generator: generator, tmpl: tmpl, maxContextChars: maxContextChars}, nil
}

// BuildContext joins chunk texts in retrieval order and returns the chunks
// that made it into the block.
func (c *Composer) BuildContext(results []domain.SearchResult) (string, []domain.Chunk) {
	var b strings.Builder
	used := make([]domain.Chunk, 0, len(results))
	for _, r := range results {
		text := r.Chunk.Text
		sep := 0
		if b.Len() > 0 {
			sep = len(contextSeparator)
		}
		if c.maxContextChars > 0 && b.Len()+sep+len(text) > c.maxContextChars {
			room := c.maxContextChars - b.Len() - sep
			if room <= 0 {
				break
			}
			text = truncate(text, room)
		}
		if sep > 0 {
			b.WriteString(contextSeparator)
		}
		b.WriteString(text)
		used = append(used, r.Chunk)
	}
	return b.String(), used
}

// SystemPrompt renders the instruction template around contextBlock.
func (c *Composer) SystemPrompt(contextBlock string) (string, error) {
	var b strings.Builder
	if err := c.tmpl.Execute(&b, struct{ Context string }{Context: contextBlock}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Answer asks the model. Provider failures wrap domain.ErrGeneration.
func (c *Composer) Answer(ctx context.Context, question string, results []domain.SearchResult) (domain.Answer, error) {
	contextBlock, used := c.BuildContext(results)
	prompt, err := c.SystemPrompt(contextBlock)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: render prompt: %w", domain.ErrGeneration, err)
	}
	text, err := c.generator.Generate(ctx, prompt, question)
	if err != nil {
		return domain.Answer{}, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}
	return domain.Answer{Text: text, Sources: used}, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
