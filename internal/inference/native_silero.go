//go:build silero

package inference

// NativeAvailable reports that a real ONNX-backed adapter is compiled in.
func NativeAvailable() bool { return true }

// NewNativeAdapter creates an ONNX Runtime-backed Adapter for the requested
// model variant, loading weights from modelSource (a local path or URL).
func NewNativeAdapter(variant Variant, modelSource string, frameSamples int) (Adapter, error) {
	return newSileroAdapter(variant, modelSource, frameSamples)
}
