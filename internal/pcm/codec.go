// Package pcm converts between little-endian s16le PCM bytes and the
// float32 frames the detector and inference adapters operate on.
//
// The float/int16 conversion deliberately uses a mismatched scale: bytes are
// normalized by dividing by 32768 (so the full int16 range lands in
// [-1.0, 0.99997]), but frames are rescaled back to int16 by multiplying by
// 32767. This one-LSB asymmetry is inherited from Silero's own reference
// implementation and is preserved exactly rather than "fixed", since
// downstream consumers have already been tuned against it.
package pcm

import "math"

// BytesToFrame decodes a little-endian s16le byte buffer into a float32
// frame normalized to [-1, 1]. len(b) must be even; callers guarantee this.
func BytesToFrame(b []byte) []float32 {
	n := len(b) / 2
	if n == 0 {
		return nil
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		u := uint16(b[2*i]) | uint16(b[2*i+1])<<8
		out[i] = float32(int16(u)) / 32768.0
	}
	return out
}

// FloatToInt16 converts a single float32 sample to int16 PCM using
// round(clamp(f*32767, -32768, 32767)).
func FloatToInt16(f float32) int16 {
	v := math.Round(float64(f) * 32767)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}

// Int16ToFloat converts a single int16 PCM sample back to float32 via s/32768.0.
func Int16ToFloat(s int16) float32 {
	return float32(s) / 32768.0
}

// FramesToInt16 flattens an ordered sequence of frames into a single int16
// PCM buffer, converting each sample with FloatToInt16.
func FramesToInt16(frames [][]float32) []int16 {
	total := 0
	for _, f := range frames {
		total += len(f)
	}
	if total == 0 {
		return nil
	}
	out := make([]int16, 0, total)
	for _, f := range frames {
		for _, s := range f {
			out = append(out, FloatToInt16(s))
		}
	}
	return out
}

// Int16ToBytesLE serializes int16 PCM samples to little-endian bytes for
// wire transport.
func Int16ToBytesLE(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		u := uint16(s)
		out[2*i] = byte(u)
		out[2*i+1] = byte(u >> 8)
	}
	return out
}
