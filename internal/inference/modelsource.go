//go:build silero

package inference

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// loadModelBytes resolves a model source (a local filesystem path or an
// http(s) URL) to the raw ONNX bytes the session constructor needs.
//
// URL sources are fetched once and cached under the OS temp directory keyed
// by variant, so repeated adapter construction (e.g. one instance per
// stream, as the teacher's per-stream engine factory does) never re-fetches
// over the network. This mirrors the search-order/caching discipline of the
// teacher's resolveORTLibPath, applied to model bytes instead of the ONNX
// Runtime shared library.
func loadModelBytes(variant Variant, source string) ([]byte, error) {
	if source == "" {
		return nil, fmt.Errorf("inference: model source must not be empty")
	}
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("inference: read model %q: %w", source, err)
		}
		return data, nil
	}

	cachePath := filepath.Join(os.TempDir(), fmt.Sprintf("silero-%s-%x.onnx", variant, hashString(source)))
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(source)
	if err != nil {
		return nil, fmt.Errorf("inference: fetch model %q: %w", source, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference: fetch model %q: unexpected status %s", source, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("inference: read fetched model %q: %w", source, err)
	}

	// Best-effort cache write; failure to cache is not fatal.
	_ = os.WriteFile(cachePath, data, 0o644)

	return data, nil
}

// hashString is a tiny FNV-1a hash, good enough for a cache filename and
// avoiding a dependency on crypto/hashing libraries for a non-security use.
func hashString(s string) uint64 {
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime64
	}
	return h
}
