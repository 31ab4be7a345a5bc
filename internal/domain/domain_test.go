package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(ErrNotConfigured))
	assert.True(t, IsValidation(fmt.Errorf("%w: url", ErrMissingParam)))
	assert.False(t, IsValidation(fmt.Errorf("%w: boom", ErrFetch)))
	assert.False(t, IsValidation(nil))
}

func TestParamsGetTrims(t *testing.T) {
	p := Params{"url": "  http://example.com \n"}
	assert.Equal(t, "http://example.com", p.Get("url"))
	assert.Empty(t, p.Get("missing"))
}
