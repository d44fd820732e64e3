package inference

// StubToggleInterval is the number of frames after which the stub adapter
// toggles between a high and low probability band. Grounded on the
// teacher's StubEngine.StubToggleInterval (50 chunks ~= 1s at 20ms/chunk);
// here it is expressed in frames since the adapter operates on frames, not
// raw PCM chunks.
const StubToggleInterval = 50

// StubHighConfidence / StubLowConfidence are the fixed probabilities the
// stub adapter alternates between. Unlike the teacher's single fixed
// StubConfidence (0.42, always below a 0.5 threshold so the stub never
// "speaks"), this stub actually crosses the default thresholds so it
// exercises the full detector state machine end to end when no real model
// is compiled in.
const (
	StubHighConfidence float32 = 0.9
	StubLowConfidence  float32 = 0.1
)

// StubAdapter returns deterministic, content-independent probabilities by
// alternating between StubHighConfidence and StubLowConfidence every
// StubToggleInterval frames. It does not process audio data.
type StubAdapter struct {
	windowSize int
	counter    int
	high       bool
}

// NewStubAdapter creates a StubAdapter with the given window size, starting
// in the low-confidence band.
func NewStubAdapter(windowSize int) *StubAdapter {
	return &StubAdapter{windowSize: windowSize}
}

func (s *StubAdapter) Process(frame []float32) (float32, error) {
	if len(frame) != s.windowSize {
		return 0, ErrWrongFrameSize
	}
	s.counter++
	if s.counter >= StubToggleInterval {
		s.counter = 0
		s.high = !s.high
	}
	if s.high {
		return StubHighConfidence, nil
	}
	return StubLowConfidence, nil
}

func (s *StubAdapter) ResetState() {
	s.counter = 0
	s.high = false
}

func (s *StubAdapter) Close() error { return nil }

func (s *StubAdapter) WindowSize() int { return s.windowSize }

// ScriptedAdapter replays a fixed sequence of probabilities, one per call to
// Process, then repeats the final value once the script is exhausted. This
// is the deterministic-mock-probabilities collaborator the design notes in
// §4.1 call for when testing the detector state machine in isolation.
type ScriptedAdapter struct {
	windowSize int
	script     []float32
	index      int
	resets     int
}

// NewScriptedAdapter creates a ScriptedAdapter that yields script[i] on the
// i-th call to Process.
func NewScriptedAdapter(windowSize int, script []float32) *ScriptedAdapter {
	return &ScriptedAdapter{windowSize: windowSize, script: script}
}

func (s *ScriptedAdapter) Process(frame []float32) (float32, error) {
	if len(frame) != s.windowSize {
		return 0, ErrWrongFrameSize
	}
	if len(s.script) == 0 {
		return 0, nil
	}
	i := s.index
	if i >= len(s.script) {
		i = len(s.script) - 1
	} else {
		s.index++
	}
	return s.script[i], nil
}

func (s *ScriptedAdapter) ResetState() {
	s.index = 0
	s.resets++
}

func (s *ScriptedAdapter) Close() error { return nil }

func (s *ScriptedAdapter) WindowSize() int { return s.windowSize }

// Resets reports how many times ResetState has been called, for tests that
// assert reset() reaches the adapter.
func (s *ScriptedAdapter) Resets() int { return s.resets }
