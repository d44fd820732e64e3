// Package vad is a streaming Voice Activity Detection engine. It consumes
// an arbitrary-length little-endian s16le monaural 16 kHz PCM byte stream
// and produces a timestamped event sequence: speech-start, validated
// speech-start, in-flight and final speech chunks, speech-end, and
// misfires, driven by a Silero VAD v4 or v5 recurrent probability model.
//
// An Engine composes three independently testable layers:
//
//   - internal/frame slices raw PCM bytes into fixed-width float32 frames.
//   - internal/inference drives the recurrent neural model (or a
//     deterministic stub when no model backend is compiled in).
//   - internal/detector runs the hysteresis-threshold state machine and
//     chunk scheduler over the frame/probability stream.
//
// This layering is adapted from the teacher adapter's
// engine.Engine/config.Config split (ProcessChunk + bool/Confidence
// result), generalized to a multi-stage pipeline that exposes the full
// seven-variant event stream instead of a single per-chunk result.
package vad
