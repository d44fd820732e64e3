// Package config is the ambient service configuration for cmd/vad-adapter:
// listen address, logging, and the vad.Config construction options,
// layered from defaults, an optional YAML file, an env-var JSON blob, and
// individual env-var overrides, in that priority order. Adapted from the
// teacher adapter's config.Config/Loader split, generalized from a fixed
// threshold/duration-ms shape to the frame/threshold shape vad.Config
// needs, and carrying an Engine selector ("auto"|"silero"|"stub") the
// teacher's cmd/adapter/main.go already assumed existed.
package config

import (
	vad "github.com/silerostream/vad-engine"
	"github.com/silerostream/vad-engine/internal/inference"
)

const (
	DefaultListenAddr = "localhost:0"
	DefaultLogLevel   = "info"
	DefaultEngine     = "auto"
	DefaultModel      = "v5"
)

// Config holds the adapter's full runtime configuration.
type Config struct {
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	LogLevel   string `json:"log_level" yaml:"log_level"`

	Engine      string `json:"engine" yaml:"engine"`
	Model       string `json:"model" yaml:"model"`
	ModelSource string `json:"model_source" yaml:"model_source"`

	PositiveSpeechThreshold float32 `json:"positive_speech_threshold" yaml:"positive_speech_threshold"`
	NegativeSpeechThreshold float32 `json:"negative_speech_threshold" yaml:"negative_speech_threshold"`
	RedemptionFrames        int     `json:"redemption_frames" yaml:"redemption_frames"`
	PreSpeechPadFrames      int     `json:"pre_speech_pad_frames" yaml:"pre_speech_pad_frames"`
	MinSpeechFrames         int     `json:"min_speech_frames" yaml:"min_speech_frames"`
	EndSpeechPadFrames      int     `json:"end_speech_pad_frames" yaml:"end_speech_pad_frames"`
	NumFramesToEmit         int     `json:"num_frames_to_emit" yaml:"num_frames_to_emit"`
}

// VADConfig converts the loaded service configuration into the engine's
// construction configuration. Zero-valued frame/threshold fields are left
// zero here; vad.New fills them from the selected model's defaults.
func (c Config) VADConfig() vad.Config {
	return vad.Config{
		Backend:                 vad.Backend(c.Engine),
		Model:                   inference.Variant(c.Model),
		ModelSource:             c.ModelSource,
		SampleRate:              16000,
		PositiveSpeechThreshold: c.PositiveSpeechThreshold,
		NegativeSpeechThreshold: c.NegativeSpeechThreshold,
		RedemptionFrames:        c.RedemptionFrames,
		PreSpeechPadFrames:      c.PreSpeechPadFrames,
		MinSpeechFrames:         c.MinSpeechFrames,
		EndSpeechPadFrames:      c.EndSpeechPadFrames,
		NumFramesToEmit:         c.NumFramesToEmit,
	}
}
