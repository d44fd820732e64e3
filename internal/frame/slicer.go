// Package frame slices an arbitrary-length stream of little-endian s16le PCM
// bytes into a deterministic sequence of fixed-width float32 frames.
//
// The slicer is purely passive: it never inspects sample values, only byte
// counts. This mirrors SileroEngine.ProcessChunk's pcmBuf accumulation in the
// teacher adapter, generalized to an arbitrary frame width instead of a
// hard-coded 512-sample Silero v5 window.
package frame

import (
	"fmt"

	"github.com/silerostream/vad-engine/internal/pcm"
)

// Slicer accumulates PCM bytes and emits fixed-width float32 frames.
type Slicer struct {
	frameSamples int
	leftover     []byte
}

// NewSlicer creates a Slicer that emits frames of frameSamples samples.
func NewSlicer(frameSamples int) (*Slicer, error) {
	if frameSamples <= 0 {
		return nil, fmt.Errorf("frame: frameSamples must be positive, got %d", frameSamples)
	}
	return &Slicer{frameSamples: frameSamples}, nil
}

// FrameBytes returns the number of raw bytes consumed per emitted frame.
func (s *Slicer) FrameBytes() int {
	return s.frameSamples * 2
}

// Push appends bytes to the internal queue and returns every complete frame
// that can be drained from it. Bytes left over (not a multiple of
// FrameBytes()) remain queued for the next call.
func (s *Slicer) Push(b []byte) [][]float32 {
	frameBytes := s.FrameBytes()
	buf := b
	if len(s.leftover) > 0 {
		buf = make([]byte, 0, len(s.leftover)+len(b))
		buf = append(buf, s.leftover...)
		buf = append(buf, b...)
	}

	var frames [][]float32
	i := 0
	for ; i+frameBytes <= len(buf); i += frameBytes {
		frames = append(frames, pcm.BytesToFrame(buf[i:i+frameBytes]))
	}

	if i < len(buf) {
		rem := make([]byte, len(buf)-i)
		copy(rem, buf[i:])
		s.leftover = rem
	} else {
		s.leftover = nil
	}

	return frames
}

// Reset clears any buffered partial frame, without altering configuration.
func (s *Slicer) Reset() {
	s.leftover = nil
}
