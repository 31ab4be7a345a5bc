// Package feedback stores user feedback in an append-only text file.
package feedback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// FileSink appends one "Feedback: <text>" line per submission.
type FileSink struct {
	mu   sync.Mutex
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Submit appends text. Line breaks inside text are folded to spaces so one
// submission stays one line.
func (s *FileSink) Submit(text string) error {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return domain.ErrEmptyFeedback
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open feedback file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "Feedback: %s\n", text); err != nil {
		_ = f.Close()
		return fmt.Errorf("write feedback: %w", err)
	}
	return f.Close()
}
