//go:build !silero

package inference

import "errors"

// ErrNativeUnavailable indicates the ONNX-backed adapter is not compiled in.
var ErrNativeUnavailable = errors.New("inference: onnx backend not available (build with -tags silero)")

// NativeAvailable reports that no native adapter is compiled in.
func NativeAvailable() bool { return false }

// NewNativeAdapter returns an error when built without the silero tag.
func NewNativeAdapter(_ Variant, _ string, _ int) (Adapter, error) {
	return nil, ErrNativeUnavailable
}
