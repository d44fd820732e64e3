// Package inference implements the pure "process(frame) -> probability"
// contract of §4.1: a recurrent speech-probability model that carries
// opaque neural state across calls. Two concrete variants are provided:
//
//   - Variant v4 (two state tensors, h and c, shape [2,1,64]) behind the
//     "silero" build tag, driving real ONNX Runtime inference.
//   - Variant v5 (one combined state tensor, shape [2,1,128]) behind the
//     same build tag.
//   - A Stub adapter (always compiled in) that returns deterministic,
//     content-independent probabilities — used when the native backend is
//     unavailable, and to give the detector state machine a collaborator
//     it can be tested against without real model weights (§4.1 rationale).
//
// Isolating inference behind this interface is grounded directly on the
// teacher adapter's engine.Engine contract (ProcessChunk/Reset/Close),
// generalized from "PCM bytes in, bool+confidence out" to "one float32
// frame in, one speech probability out, with explicit state reset/release".
package inference

import "errors"

// Variant identifies which Silero VAD model architecture an Adapter drives.
type Variant string

const (
	VariantV4 Variant = "v4"
	VariantV5 Variant = "v5"
)

// Defaults per model variant, per spec §6.
const (
	V4DefaultFrameSamples       = 1536
	V4DefaultRedemptionFrames   = 8
	V4DefaultPreSpeechPadFrames = 1
	V4DefaultMinSpeechFrames    = 3
	V4DefaultEndSpeechPadFrames = 1
	V4StateSize                 = 64

	V5DefaultFrameSamples       = 512
	V5DefaultRedemptionFrames   = 24
	V5DefaultPreSpeechPadFrames = 3
	V5DefaultMinSpeechFrames    = 9
	V5DefaultEndSpeechPadFrames = 3
	V5StateSize                 = 128
)

// ExpectedSampleRate is the only sample rate the state-machine boundary
// accepts (§1 Non-goals).
const ExpectedSampleRate = 16000

// ErrWrongFrameSize is returned by Process when the supplied frame does not
// match the adapter's configured window size.
var ErrWrongFrameSize = errors.New("inference: frame size does not match adapter window size")

// Adapter is the contract every model variant (and the stub) implements.
type Adapter interface {
	// Process runs inference on exactly one frame and returns the speech
	// probability in [0,1]. It mutates the adapter's recurrent state.
	Process(frame []float32) (isSpeech float32, err error)
	// ResetState zeroes the recurrent neural state without releasing
	// model resources.
	ResetState()
	// Close releases model resources. Safe to call multiple times.
	Close() error
	// WindowSize returns the number of samples Process expects per frame.
	WindowSize() int
}
