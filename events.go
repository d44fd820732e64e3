package vad

import (
	"github.com/silerostream/vad-engine/internal/detector"
	"github.com/silerostream/vad-engine/internal/pcm"
)

// Kind identifies which of the seven event variants of §6 an Event carries.
type Kind = detector.Kind

// The seven event variants, re-exported from internal/detector so callers
// never need to import it directly.
const (
	FrameProcessed = detector.FrameProcessed
	Start          = detector.Start
	RealStart      = detector.RealStart
	Chunk          = detector.Chunk
	End            = detector.End
	Misfire        = detector.Misfire
	Error          = detector.Error
)

// Event is the single type carrying all seven event variants. Only the
// fields relevant to Kind are populated; the rest are left zero. Audio is
// little-endian s16le PCM, matching the input byte format (§6).
type Event struct {
	Kind Kind
	T    float64

	IsSpeech  float32
	NotSpeech float32
	Frame     []float32

	Audio   []byte
	IsFinal bool

	Message string
}

func toPublicEvent(e detector.Event) Event {
	return Event{
		Kind:      e.Kind,
		T:         e.T,
		IsSpeech:  e.IsSpeech,
		NotSpeech: e.NotSpeech,
		Frame:     e.Frame,
		Audio:     pcm.Int16ToBytesLE(e.Audio),
		IsFinal:   e.IsFinal,
		Message:   e.Message,
	}
}

func toPublicEvents(events []detector.Event) []Event {
	if len(events) == 0 {
		return nil
	}
	out := make([]Event, len(events))
	for i, e := range events {
		out[i] = toPublicEvent(e)
	}
	return out
}
