package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// Loader loads configuration from an optional YAML file, an env-var JSON
// blob, and individual env-var overrides. Tests can override Lookup to
// inject deterministic maps, same as the teacher loader.
type Loader struct {
	Lookup func(string) (string, bool)
}

// LoadResult carries the resolved configuration plus any non-fatal
// warnings accumulated while loading it (e.g. an unrecognized engine name).
type LoadResult struct {
	Config   Config
	Warnings []string
}

// Load retrieves the adapter configuration, layering (lowest to highest
// priority): built-in defaults, a YAML file named by
// VADENGINE_CONFIG_FILE, a JSON blob in VADENGINE_ADAPTER_CONFIG, then
// individual VADENGINE_* env var overrides.
func (l Loader) Load() (LoadResult, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Config{
		ListenAddr: DefaultListenAddr,
		LogLevel:   DefaultLogLevel,
		Engine:     DefaultEngine,
		Model:      DefaultModel,
	}

	var warnings []string

	if path, ok := l.Lookup("VADENGINE_CONFIG_FILE"); ok && strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return LoadResult{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return LoadResult{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if raw, ok := l.Lookup("VADENGINE_ADAPTER_CONFIG"); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return LoadResult{}, err
		}
	}

	overrideString(l.Lookup, "VADENGINE_ADAPTER_LISTEN_ADDR", &cfg.ListenAddr)
	overrideString(l.Lookup, "VADENGINE_LOG_LEVEL", &cfg.LogLevel)
	overrideString(l.Lookup, "VADENGINE_ENGINE", &cfg.Engine)
	overrideString(l.Lookup, "VADENGINE_MODEL", &cfg.Model)
	overrideString(l.Lookup, "VADENGINE_MODEL_SOURCE", &cfg.ModelSource)

	if err := overrideFloat32(l.Lookup, "VADENGINE_POSITIVE_SPEECH_THRESHOLD", &cfg.PositiveSpeechThreshold); err != nil {
		return LoadResult{}, err
	}
	if err := overrideFloat32(l.Lookup, "VADENGINE_NEGATIVE_SPEECH_THRESHOLD", &cfg.NegativeSpeechThreshold); err != nil {
		return LoadResult{}, err
	}
	if err := overrideInt(l.Lookup, "VADENGINE_REDEMPTION_FRAMES", &cfg.RedemptionFrames); err != nil {
		return LoadResult{}, err
	}
	if err := overrideInt(l.Lookup, "VADENGINE_PRE_SPEECH_PAD_FRAMES", &cfg.PreSpeechPadFrames); err != nil {
		return LoadResult{}, err
	}
	if err := overrideInt(l.Lookup, "VADENGINE_MIN_SPEECH_FRAMES", &cfg.MinSpeechFrames); err != nil {
		return LoadResult{}, err
	}
	if err := overrideInt(l.Lookup, "VADENGINE_END_SPEECH_PAD_FRAMES", &cfg.EndSpeechPadFrames); err != nil {
		return LoadResult{}, err
	}
	if err := overrideInt(l.Lookup, "VADENGINE_NUM_FRAMES_TO_EMIT", &cfg.NumFramesToEmit); err != nil {
		return LoadResult{}, err
	}

	if cfg.Engine != "auto" && cfg.Engine != "silero" && cfg.Engine != "stub" {
		warnings = append(warnings, fmt.Sprintf("config: unrecognized engine %q, treating as \"auto\"", cfg.Engine))
		cfg.Engine = "auto"
	}

	return LoadResult{Config: cfg, Warnings: warnings}, nil
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		ListenAddr              string   `json:"listen_addr"`
		LogLevel                string   `json:"log_level"`
		Engine                  string   `json:"engine"`
		Model                   string   `json:"model"`
		ModelSource             string   `json:"model_source"`
		PositiveSpeechThreshold *float32 `json:"positive_speech_threshold"`
		NegativeSpeechThreshold *float32 `json:"negative_speech_threshold"`
		RedemptionFrames        *int     `json:"redemption_frames"`
		PreSpeechPadFrames      *int     `json:"pre_speech_pad_frames"`
		MinSpeechFrames         *int     `json:"min_speech_frames"`
		EndSpeechPadFrames      *int     `json:"end_speech_pad_frames"`
		NumFramesToEmit         *int     `json:"num_frames_to_emit"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode VADENGINE_ADAPTER_CONFIG: %w", err)
	}
	if payload.ListenAddr != "" {
		cfg.ListenAddr = payload.ListenAddr
	}
	if payload.LogLevel != "" {
		cfg.LogLevel = payload.LogLevel
	}
	if payload.Engine != "" {
		cfg.Engine = payload.Engine
	}
	if payload.Model != "" {
		cfg.Model = payload.Model
	}
	if payload.ModelSource != "" {
		cfg.ModelSource = payload.ModelSource
	}
	if payload.PositiveSpeechThreshold != nil {
		cfg.PositiveSpeechThreshold = *payload.PositiveSpeechThreshold
	}
	if payload.NegativeSpeechThreshold != nil {
		cfg.NegativeSpeechThreshold = *payload.NegativeSpeechThreshold
	}
	if payload.RedemptionFrames != nil {
		cfg.RedemptionFrames = *payload.RedemptionFrames
	}
	if payload.PreSpeechPadFrames != nil {
		cfg.PreSpeechPadFrames = *payload.PreSpeechPadFrames
	}
	if payload.MinSpeechFrames != nil {
		cfg.MinSpeechFrames = *payload.MinSpeechFrames
	}
	if payload.EndSpeechPadFrames != nil {
		cfg.EndSpeechPadFrames = *payload.EndSpeechPadFrames
	}
	if payload.NumFramesToEmit != nil {
		cfg.NumFramesToEmit = *payload.NumFramesToEmit
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideFloat32(lookup func(string) (string, bool), key string, target *float32) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 32)
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = float32(parsed)
	}
	return nil
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) error {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("config: invalid value for %s: %w", key, err)
		}
		*target = parsed
	}
	return nil
}
