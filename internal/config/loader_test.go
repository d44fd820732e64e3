package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderDefaults(t *testing.T) {
	loader := Loader{
		Lookup: func(string) (string, bool) { return "", false },
	}
	result, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg := result.Config
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.Engine != DefaultEngine {
		t.Errorf("Engine = %q, want %q", cfg.Engine, DefaultEngine)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want %q", cfg.Model, DefaultModel)
	}
}

func TestLoaderJSON(t *testing.T) {
	env := map[string]string{
		"VADENGINE_ADAPTER_CONFIG": `{"positive_speech_threshold":0.7,"redemption_frames":10,"listen_addr":"localhost:9999"}`,
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	result, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg := result.Config
	if cfg.PositiveSpeechThreshold != 0.7 {
		t.Errorf("PositiveSpeechThreshold = %v, want 0.7", cfg.PositiveSpeechThreshold)
	}
	if cfg.RedemptionFrames != 10 {
		t.Errorf("RedemptionFrames = %d, want 10", cfg.RedemptionFrames)
	}
	if cfg.ListenAddr != "localhost:9999" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, "localhost:9999")
	}
	// Unset fields keep defaults.
	if cfg.Model != DefaultModel {
		t.Errorf("Model = %q, want default %q", cfg.Model, DefaultModel)
	}
}

func TestLoaderEnvOverride(t *testing.T) {
	env := map[string]string{
		"VADENGINE_ADAPTER_CONFIG":            `{"positive_speech_threshold":0.3}`,
		"VADENGINE_ADAPTER_LISTEN_ADDR":        "127.0.0.1:5555",
		"VADENGINE_POSITIVE_SPEECH_THRESHOLD":  "0.8",
		"VADENGINE_MIN_SPEECH_FRAMES":          "5",
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	result, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg := result.Config
	// Env var overrides JSON.
	if cfg.PositiveSpeechThreshold != 0.8 {
		t.Errorf("PositiveSpeechThreshold = %v, want 0.8 (env override)", cfg.PositiveSpeechThreshold)
	}
	if cfg.ListenAddr != "127.0.0.1:5555" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, "127.0.0.1:5555")
	}
	if cfg.MinSpeechFrames != 5 {
		t.Errorf("MinSpeechFrames = %d, want 5", cfg.MinSpeechFrames)
	}
}

func TestLoaderInvalidJSON(t *testing.T) {
	env := map[string]string{
		"VADENGINE_ADAPTER_CONFIG": `{bad json}`,
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	if _, err := loader.Load(); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoaderYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "listen_addr: \"0.0.0.0:7000\"\nengine: \"stub\"\nmodel: \"v4\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{
		"VADENGINE_CONFIG_FILE": path,
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	result, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg := result.Config
	if cfg.ListenAddr != "0.0.0.0:7000" {
		t.Errorf("ListenAddr = %q, want %q", cfg.ListenAddr, "0.0.0.0:7000")
	}
	if cfg.Engine != "stub" {
		t.Errorf("Engine = %q, want %q", cfg.Engine, "stub")
	}
	if cfg.Model != "v4" {
		t.Errorf("Model = %q, want %q", cfg.Model, "v4")
	}
}

func TestLoaderUnrecognizedEngineWarnsAndFallsBackToAuto(t *testing.T) {
	env := map[string]string{
		"VADENGINE_ENGINE": "bogus",
	}
	loader := Loader{
		Lookup: func(key string) (string, bool) {
			v, ok := env[key]
			return v, ok
		},
	}
	result, err := loader.Load()
	if err != nil {
		t.Fatal(err)
	}
	if result.Config.Engine != "auto" {
		t.Errorf("Engine = %q, want fallback %q", result.Config.Engine, "auto")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %d", len(result.Warnings))
	}
}
