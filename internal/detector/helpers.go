package detector

import "errors"

var errNilAdapter = errors.New("detector: adapter must not be nil")

// sliceOrPad implements the slice-or-zero-pad rule of §4.4 step 3: trim
// framesToRemove frames off the tail of acc, or, when framesToRemove is
// negative, append that many silent frames instead.
func sliceOrPad(acc [][]float32, framesToRemove, frameSamples int) [][]float32 {
	if framesToRemove >= 0 {
		end := len(acc) - framesToRemove
		if end < 0 {
			end = 0
		}
		return acc[:end]
	}

	extra := -framesToRemove
	out := make([][]float32, len(acc), len(acc)+extra)
	copy(out, acc)
	zero := make([]float32, frameSamples)
	for i := 0; i < extra; i++ {
		out = append(out, zero)
	}
	return out
}

// sliceFromIndex returns a copy of full[startIndex:], or nil when
// startIndex is at or past the end.
func sliceFromIndex(full [][]float32, startIndex int) [][]float32 {
	if startIndex < 0 {
		startIndex = 0
	}
	if startIndex >= len(full) {
		return nil
	}
	out := make([][]float32, len(full)-startIndex)
	copy(out, full[startIndex:])
	return out
}

// lastN returns a copy of the last n frames of acc (fewer if acc is
// shorter), oldest first.
func lastN(acc [][]float32, n int) [][]float32 {
	if n <= 0 {
		return nil
	}
	if n > len(acc) {
		n = len(acc)
	}
	out := make([][]float32, n)
	copy(out, acc[len(acc)-n:])
	return out
}

// truncateToCap keeps only the most recent cap frames of frames, oldest
// first, matching the pre-speech ring's bounded-FIFO semantics.
func truncateToCap(frames [][]float32, cap int) [][]float32 {
	if len(frames) <= cap {
		return frames
	}
	return frames[len(frames)-cap:]
}
