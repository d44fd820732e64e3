package vad

import (
	"testing"

	"github.com/silerostream/vad-engine/internal/inference"
)

func testConfig() Config {
	return Config{
		Backend:    BackendStub,
		Model:      inference.VariantV5,
		SampleRate: inference.ExpectedSampleRate,
	}
}

func pcmSilence(frames, frameSamples int) []byte {
	return make([]byte, frames*frameSamples*2)
}

func TestNewAppliesModelDefaults(t *testing.T) {
	e, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Release()

	if e.cfg.FrameSamples != inference.V5DefaultFrameSamples {
		t.Fatalf("FrameSamples = %d, want %d", e.cfg.FrameSamples, inference.V5DefaultFrameSamples)
	}
	if e.cfg.RedemptionFrames != inference.V5DefaultRedemptionFrames {
		t.Fatalf("RedemptionFrames = %d, want %d", e.cfg.RedemptionFrames, inference.V5DefaultRedemptionFrames)
	}
}

func TestNewRejectsBadSampleRate(t *testing.T) {
	cfg := testConfig()
	cfg.SampleRate = 44100
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error for non-16kHz sample rate")
	}
}

func TestNewRejectsUnavailableSileroBackend(t *testing.T) {
	cfg := testConfig()
	cfg.Backend = BackendSilero
	if _, err := New(cfg, nil); err == nil {
		t.Fatal("expected error requesting silero backend in a stub-only build")
	}
}

func TestProcessAudioDataCarriesLeftoverBytes(t *testing.T) {
	e, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Release()

	frameBytes := inference.V5DefaultFrameSamples * 2
	// One exact frame plus a partial frame that must be carried over.
	data := make([]byte, frameBytes+frameBytes/2)
	events := e.ProcessAudioData(data)

	got := 0
	for _, ev := range events {
		if ev.Kind == FrameProcessed {
			got++
		}
	}
	if got != 1 {
		t.Fatalf("expected exactly 1 frameProcessed event from one exact frame, got %d", got)
	}

	// Completing the partial frame on the next call must emit exactly one
	// more frameProcessed event.
	more := e.ProcessAudioData(make([]byte, frameBytes/2))
	got = 0
	for _, ev := range more {
		if ev.Kind == FrameProcessed {
			got++
		}
	}
	if got != 1 {
		t.Fatalf("expected exactly 1 frameProcessed event after completing the leftover frame, got %d", got)
	}
}

func TestForceEndSpeechAndResetThroughEngine(t *testing.T) {
	e, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer e.Release()

	// The stub adapter returns low confidence for its first
	// StubToggleInterval-1 frames, then toggles to StubHighConfidence for
	// the next StubToggleInterval frames. 60 frames crosses that
	// boundary and holds high confidence for 11 frames, more than
	// minSpeechFrames (9), enough to open and validate an utterance.
	events := e.ProcessAudioData(pcmSilence(60, inference.V5DefaultFrameSamples))
	sawStart := false
	for _, ev := range events {
		if ev.Kind == Start {
			sawStart = true
		}
	}
	if !sawStart {
		t.Fatal("expected a start event from stub high-confidence frames")
	}

	forced := e.ForceEndSpeech()
	sawEnd := false
	for _, ev := range forced {
		if ev.Kind == End {
			sawEnd = true
		}
		if ev.Kind == Chunk {
			t.Fatal("ForceEndSpeech must never emit a chunk event")
		}
	}
	if !sawEnd {
		t.Fatal("expected an end event from ForceEndSpeech")
	}

	e.Reset()
	if e.TotalFramesProcessed() != 60 {
		t.Fatalf("TotalFramesProcessed must survive Reset, got %d", e.TotalFramesProcessed())
	}
}
