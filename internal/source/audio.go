package source

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Swayam-the-coder/GRASP/internal/domain"
)

// Container formats accepted by the audio adapter.
const (
	FormatWAV  = "wav"
	FormatAIFF = "aiff"
	FormatFLAC = "flac"
)

const (
	wavFormatPCM        = 0x0001
	wavFormatExtensible = 0xFFFE
)

// KSDATAFORMAT_SUBTYPE_PCM as stored in a WAVE_FORMAT_EXTENSIBLE fmt chunk.
var wavSubtypePCM = []byte{
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

var errNoTranscriber = errors.New("speech recognition is not configured")

// Audio transcribes an audio clip and returns the transcript.
type Audio struct {
	transcriber domain.Transcriber
}

func NewAudio(t domain.Transcriber) *Audio { return &Audio{transcriber: t} }

func (*Audio) Kind() domain.SourceKind { return domain.SourceAudio }
func (*Audio) Required() []string      { return []string{"path"} }

func (a *Audio) Extract(ctx context.Context, params domain.Params) ([]domain.RawDocument, error) {
	path := params.Get("path")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedFormat, err)
	}
	format, err := SniffAudio(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrUnsupportedFormat, path, err)
	}
	if a.transcriber == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecognition, errNoTranscriber)
	}
	name := filepath.Base(path)
	if format == FormatAIFF {
		// transcription providers take WAV but not AIFF
		if data, err = aiffToWAV(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrUnsupportedFormat, path, err)
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".wav"
	}
	text, err := a.transcriber.Transcribe(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRecognition, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty transcript", domain.ErrRecognition)
	}
	return []domain.RawDocument{{Text: text, Metadata: meta("source", path, "format", format)}}, nil
}

// SniffAudio identifies PCM WAV, AIFF/AIFC and FLAC containers by their headers.
func SniffAudio(data []byte) (string, error) {
	switch {
	case len(data) >= 4 && string(data[:4]) == "fLaC":
		return FormatFLAC, nil
	case len(data) >= 12 && string(data[:4]) == "FORM":
		switch string(data[8:12]) {
		case "AIFF", "AIFC":
			return FormatAIFF, nil
		}
	case len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		body, ok := wavFmtChunk(data)
		if !ok || len(body) < 2 {
			return "", errors.New("wav file has no fmt chunk")
		}
		switch tag := binary.LittleEndian.Uint16(body); tag {
		case wavFormatPCM:
			return FormatWAV, nil
		case wavFormatExtensible:
			// SubFormat GUID sits at offset 24 of the extensible fmt body
			if len(body) < 40 || !bytes.Equal(body[24:40], wavSubtypePCM) {
				return "", errors.New("extensible wav sub-format is not PCM")
			}
			return FormatWAV, nil
		default:
			return "", fmt.Errorf("wav encoding 0x%04x is not PCM", tag)
		}
	}
	return "", errors.New("expected PCM WAV, AIFF, AIFF-C or FLAC")
}

// wavFmtChunk returns the body of the fmt chunk, truncated to the data present.
func wavFmtChunk(data []byte) ([]byte, bool) {
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if id == "fmt " {
			end := body + size
			if size < 0 || end < body || end > len(data) {
				end = len(data)
			}
			return data[body:end], true
		}
		if size < 0 || body+size < body {
			return nil, false
		}
		// chunks are word aligned
		off = body + size + size%2
	}
	return nil, false
}
