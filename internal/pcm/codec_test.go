package pcm

import "testing"

func TestBytesToFrame(t *testing.T) {
	if got := BytesToFrame(nil); got != nil {
		t.Fatalf("BytesToFrame(nil) = %v, want nil", got)
	}
	if got := BytesToFrame([]byte{0x00, 0x00}); len(got) != 1 || got[0] != 0 {
		t.Fatalf("BytesToFrame(silence) = %v, want [0]", got)
	}
	// int16 max = 0x7FFF -> LE bytes 0xFF, 0x7F
	got := BytesToFrame([]byte{0xFF, 0x7F})
	want := float32(32767) / 32768.0
	if len(got) != 1 || got[0] != want {
		t.Fatalf("BytesToFrame(max) = %v, want [%v]", got, want)
	}
	// int16 min = -32768 -> LE bytes 0x00, 0x80
	got = BytesToFrame([]byte{0x00, 0x80})
	if len(got) != 1 || got[0] != -1.0 {
		t.Fatalf("BytesToFrame(min) = %v, want [-1.0]", got)
	}
}

func TestRoundTripAsymmetry(t *testing.T) {
	// For every s in [-32768, 32767], s -> float -> int16 round-trips to s,
	// except -32768 which lands on -32767 (the documented one-LSB asymmetry).
	for s := -32768; s <= 32767; s++ {
		f := Int16ToFloat(int16(s))
		got := FloatToInt16(f)
		if s == -32768 {
			if got != -32767 {
				t.Fatalf("round-trip(-32768) = %d, want -32767", got)
			}
			continue
		}
		if int(got) != s {
			t.Fatalf("round-trip(%d) = %d, want %d", s, got, s)
		}
	}
}

func TestFramesToInt16(t *testing.T) {
	frames := [][]float32{{0, 0.5}, {-0.5}}
	got := FramesToInt16(frames)
	want := []int16{0, FloatToInt16(0.5), FloatToInt16(-0.5)}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFramesToInt16Empty(t *testing.T) {
	if got := FramesToInt16(nil); got != nil {
		t.Fatalf("FramesToInt16(nil) = %v, want nil", got)
	}
	if got := FramesToInt16([][]float32{}); got != nil {
		t.Fatalf("FramesToInt16(empty) = %v, want nil", got)
	}
}

func TestInt16ToBytesLE(t *testing.T) {
	got := Int16ToBytesLE([]int16{0, 32767, -32768})
	want := []byte{0x00, 0x00, 0xFF, 0x7F, 0x00, 0x80}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte[%d] = %02x, want %02x", i, got[i], want[i])
		}
	}
}
