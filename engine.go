package vad

import (
	"fmt"
	"log/slog"

	"github.com/silerostream/vad-engine/internal/detector"
	"github.com/silerostream/vad-engine/internal/frame"
	"github.com/silerostream/vad-engine/internal/inference"
)

// Engine is a single streaming VAD pipeline: slicer -> inference adapter ->
// detector. It assumes the single-threaded cooperative scheduling model of
// §5 — callers serialize calls to ProcessAudioData and must not invoke it
// re-entrantly on the same instance. Two Engines may run concurrently on
// independent goroutines without sharing any state.
type Engine struct {
	cfg    Config
	log    *slog.Logger
	slicer *frame.Slicer
	det    *detector.Detector
}

// New constructs an Engine. Model load / initialization failures surface
// here, not through the event stream (§7) — no Engine is returned on error.
func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	cfg = cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	adapter, err := newAdapter(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("vad: adapter init: %w", err)
	}

	slicer, err := frame.NewSlicer(cfg.FrameSamples)
	if err != nil {
		adapter.Close()
		return nil, err
	}

	det, err := detector.New(cfg.detectorConfig(), adapter, logger)
	if err != nil {
		adapter.Close()
		return nil, err
	}

	return &Engine{cfg: cfg, log: logger, slicer: slicer, det: det}, nil
}

// newAdapter resolves cfg.Backend to a concrete inference.Adapter,
// generalizing the teacher adapter's auto/silero/stub engine-selection
// logic in cmd/adapter/main.go into a construction-time decision made once
// per Engine rather than once per process.
func newAdapter(cfg Config, logger *slog.Logger) (inference.Adapter, error) {
	backend := cfg.Backend
	if backend == BackendAuto {
		if inference.NativeAvailable() {
			backend = BackendSilero
		} else {
			backend = BackendStub
			logger.Warn("auto-detected backend: stub (native silero not compiled in, build with -tags silero for production)")
		}
	}

	switch backend {
	case BackendSilero:
		if !inference.NativeAvailable() {
			return nil, fmt.Errorf("vad: backend %q requested but native backend not compiled in (build with -tags silero)", BackendSilero)
		}
		return inference.NewNativeAdapter(cfg.Model, cfg.ModelSource, cfg.FrameSamples)
	case BackendStub:
		logger.Warn("using stub backend — VAD results are deterministic and NOT based on audio content")
		return inference.NewStubAdapter(cfg.FrameSamples), nil
	default:
		return nil, fmt.Errorf("vad: unknown backend %q", backend)
	}
}

// ProcessAudioData slices raw PCM bytes into frames and runs each through
// the detector, returning every event produced, strictly ordered (§5).
func (e *Engine) ProcessAudioData(pcmBytes []byte) []Event {
	frames := e.slicer.Push(pcmBytes)
	if len(frames) == 0 {
		return nil
	}

	var events []detector.Event
	for _, f := range frames {
		events = append(events, e.det.ProcessFrame(f)...)
	}
	return toPublicEvents(events)
}

// ForceEndSpeech closes the current utterance immediately, carrying the
// entire speech accumulator as a single `end` event. It never flushes a
// final chunk, even with chunking enabled (§4.3). No-op if not speaking or
// the utterance has not yet reached minSpeechFrames.
func (e *Engine) ForceEndSpeech() []Event {
	return toPublicEvents(e.det.ForceEndSpeech())
}

// Reset clears all buffers, zeroes the per-stream counters, and resets the
// inference adapter's neural state, without releasing resources (§4.3).
// The lifetime TotalFramesProcessed counter is kept.
func (e *Engine) Reset() {
	e.slicer.Reset()
	e.det.Reset()
}

// Release drops the inference adapter. Terminal — the Engine must not be
// used afterward.
func (e *Engine) Release() error {
	return e.det.Close()
}

// TotalFramesProcessed returns the monotonic lifetime frame counter (§3).
func (e *Engine) TotalFramesProcessed() uint64 {
	return e.det.TotalFramesProcessed()
}
