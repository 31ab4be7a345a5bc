package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// aiffToWAV decodes an AIFF or AIFF-C clip and re-encodes its samples as PCM WAV.
func aiffToWAV(data []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("malformed aiff: %v", r)
		}
	}()
	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, errors.New("invalid aiff stream")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode aiff: %w", err)
	}
	channels, rate, depth := int(dec.NumChans), int(dec.SampleRate), int(dec.BitDepth)
	if channels == 0 || rate == 0 || depth == 0 {
		return nil, errors.New("aiff stream has no sound format")
	}
	if buf.Format == nil {
		buf.Format = &audio.Format{NumChannels: channels, SampleRate: rate}
	}
	if depth == 8 {
		// AIFF 8-bit samples are signed, WAV 8-bit samples are offset binary
		for i := range buf.Data {
			buf.Data[i] += 128
		}
	}

	w := &seekBuffer{}
	enc := wav.NewEncoder(w, rate, depth, channels, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	return w.buf, nil
}

// seekBuffer is an in-memory io.WriteSeeker; the wav encoder seeks back to
// patch chunk sizes on Close.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.buf) {
		b.buf = append(b.buf, make([]byte, end-len(b.buf))...)
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(b.pos)
	case io.SeekEnd:
		base = int64(len(b.buf))
	default:
		return 0, errors.New("seek: invalid whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("seek: negative position")
	}
	b.pos = int(pos)
	return pos, nil
}
