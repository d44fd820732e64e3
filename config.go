package vad

import (
	"fmt"

	"github.com/silerostream/vad-engine/internal/detector"
	"github.com/silerostream/vad-engine/internal/inference"
)

// Backend selects which inference implementation an Engine is built on.
type Backend string

const (
	// BackendAuto picks BackendSilero when the native build is compiled
	// in, falling back to BackendStub otherwise.
	BackendAuto Backend = "auto"
	// BackendSilero drives real ONNX Runtime inference; requires a build
	// with the "silero" tag.
	BackendSilero Backend = "silero"
	// BackendStub returns deterministic, content-independent
	// probabilities and never touches an ONNX runtime.
	BackendStub Backend = "stub"
)

// Config is the construction configuration of §6. Zero-valued fields are
// filled in by applyDefaults: Backend defaults to BackendAuto, Model to
// VariantV5, and numeric fields to the selected Model's defaults.
// ModelSource has no default and must be set explicitly when Backend can
// resolve to BackendSilero.
type Config struct {
	Backend     Backend
	Model       inference.Variant
	ModelSource string

	SampleRate   int
	FrameSamples int

	PositiveSpeechThreshold float32
	NegativeSpeechThreshold float32

	RedemptionFrames   int
	PreSpeechPadFrames int
	MinSpeechFrames    int
	EndSpeechPadFrames int

	NumFramesToEmit int
}

// applyDefaults fills zero-valued fields from the per-model defaults of
// §6, without mutating fields the caller already set.
func (c Config) applyDefaults() Config {
	if c.Backend == "" {
		c.Backend = BackendAuto
	}
	if c.Model == "" {
		c.Model = inference.VariantV5
	}
	if c.SampleRate == 0 {
		c.SampleRate = inference.ExpectedSampleRate
	}
	if c.PositiveSpeechThreshold == 0 {
		c.PositiveSpeechThreshold = 0.5
	}
	if c.NegativeSpeechThreshold == 0 {
		c.NegativeSpeechThreshold = 0.35
	}

	switch c.Model {
	case inference.VariantV4:
		if c.FrameSamples == 0 {
			c.FrameSamples = inference.V4DefaultFrameSamples
		}
		if c.RedemptionFrames == 0 {
			c.RedemptionFrames = inference.V4DefaultRedemptionFrames
		}
		if c.MinSpeechFrames == 0 {
			c.MinSpeechFrames = inference.V4DefaultMinSpeechFrames
		}
		if c.PreSpeechPadFrames == 0 {
			c.PreSpeechPadFrames = inference.V4DefaultPreSpeechPadFrames
		}
		if c.EndSpeechPadFrames == 0 {
			c.EndSpeechPadFrames = inference.V4DefaultEndSpeechPadFrames
		}
	default:
		if c.FrameSamples == 0 {
			c.FrameSamples = inference.V5DefaultFrameSamples
		}
		if c.RedemptionFrames == 0 {
			c.RedemptionFrames = inference.V5DefaultRedemptionFrames
		}
		if c.MinSpeechFrames == 0 {
			c.MinSpeechFrames = inference.V5DefaultMinSpeechFrames
		}
		if c.PreSpeechPadFrames == 0 {
			c.PreSpeechPadFrames = inference.V5DefaultPreSpeechPadFrames
		}
		if c.EndSpeechPadFrames == 0 {
			c.EndSpeechPadFrames = inference.V5DefaultEndSpeechPadFrames
		}
	}
	return c
}

func (c Config) detectorConfig() detector.Config {
	return detector.Config{
		SampleRate:              c.SampleRate,
		FrameSamples:            c.FrameSamples,
		PositiveSpeechThreshold: c.PositiveSpeechThreshold,
		NegativeSpeechThreshold: c.NegativeSpeechThreshold,
		RedemptionFrames:        c.RedemptionFrames,
		PreSpeechPadFrames:      c.PreSpeechPadFrames,
		MinSpeechFrames:         c.MinSpeechFrames,
		EndSpeechPadFrames:      c.EndSpeechPadFrames,
		NumFramesToEmit:         c.NumFramesToEmit,
	}
}

func (c Config) validate() error {
	if c.SampleRate != inference.ExpectedSampleRate {
		return fmt.Errorf("vad: sampleRate must be %d, got %d", inference.ExpectedSampleRate, c.SampleRate)
	}
	switch c.Model {
	case inference.VariantV4, inference.VariantV5:
	default:
		return fmt.Errorf("vad: unknown model variant %q", c.Model)
	}
	switch c.Backend {
	case BackendAuto, BackendSilero, BackendStub:
	default:
		return fmt.Errorf("vad: unknown backend %q", c.Backend)
	}
	return c.detectorConfig().Validate()
}
