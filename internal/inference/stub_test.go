package inference

import "testing"

func TestStubAdapterAlternates(t *testing.T) {
	a := NewStubAdapter(4)
	frame := make([]float32, 4)

	for i := 0; i < StubToggleInterval-1; i++ {
		p, err := a.Process(frame)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if p != StubLowConfidence {
			t.Fatalf("frame %d: p = %v, want low", i, p)
		}
	}

	p, err := a.Process(frame)
	if err != nil {
		t.Fatal(err)
	}
	if p != StubHighConfidence {
		t.Fatalf("expected toggle to high confidence, got %v", p)
	}
}

func TestStubAdapterResetState(t *testing.T) {
	a := NewStubAdapter(4)
	frame := make([]float32, 4)
	for i := 0; i <= StubToggleInterval; i++ {
		if _, err := a.Process(frame); err != nil {
			t.Fatal(err)
		}
	}
	a.ResetState()
	p, err := a.Process(frame)
	if err != nil {
		t.Fatal(err)
	}
	if p != StubLowConfidence {
		t.Fatalf("after reset, p = %v, want low", p)
	}
}

func TestStubAdapterWrongFrameSize(t *testing.T) {
	a := NewStubAdapter(4)
	_, err := a.Process(make([]float32, 3))
	if err != ErrWrongFrameSize {
		t.Fatalf("err = %v, want ErrWrongFrameSize", err)
	}
}

func TestScriptedAdapter(t *testing.T) {
	script := []float32{0.1, 0.9, 0.9, 0.0}
	a := NewScriptedAdapter(4, script)
	frame := make([]float32, 4)

	for i, want := range script {
		got, err := a.Process(frame)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("frame %d: got %v, want %v", i, got, want)
		}
	}

	// Past the end of the script, repeat the final value.
	got, err := a.Process(frame)
	if err != nil {
		t.Fatal(err)
	}
	if got != script[len(script)-1] {
		t.Fatalf("past end of script: got %v, want %v", got, script[len(script)-1])
	}
}

func TestScriptedAdapterReset(t *testing.T) {
	a := NewScriptedAdapter(4, []float32{0.1, 0.9})
	frame := make([]float32, 4)
	a.Process(frame)
	a.Process(frame)
	a.ResetState()
	if a.Resets() != 1 {
		t.Fatalf("Resets() = %d, want 1", a.Resets())
	}
	got, err := a.Process(frame)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.1 {
		t.Fatalf("after reset, got %v, want 0.1 (replay from start)", got)
	}
}
