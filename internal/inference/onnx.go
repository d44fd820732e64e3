//go:build silero

package inference

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ortInitOnce/ortInitErr ensure the ONNX Runtime environment is initialized
// exactly once per process, exactly as the teacher's SileroEngine does —
// subsequent adapter constructions surface the first init failure instead of
// silently proceeding with an uninitialized environment.
var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// sileroAdapter runs Silero VAD inference (v4 or v5) via ONNX Runtime. The
// two variants differ only in window size, state tensor shape/count, and
// input/output tensor names — everything else (tensor reuse, session
// lifecycle, sample-rate tensor) is shared, following the teacher's
// SileroEngine field layout and Close()/infer() structure.
type sileroAdapter struct {
	variant Variant
	session *ort.AdvancedSession

	inputTensor  *ort.Tensor[float32]
	srTensor     *ort.Tensor[int64]
	outputTensor *ort.Tensor[float32]

	// v5 uses a single state tensor pair; v4 uses separate h/c pairs.
	stateTensor  *ort.Tensor[float32]
	stateNTensor *ort.Tensor[float32]
	hTensor      *ort.Tensor[float32]
	cTensor      *ort.Tensor[float32]
	hnTensor     *ort.Tensor[float32]
	cnTensor     *ort.Tensor[float32]

	windowSize int
}

func newSileroAdapter(variant Variant, modelSource string, frameSamples int) (*sileroAdapter, error) {
	modelData, err := loadModelBytes(variant, modelSource)
	if err != nil {
		return nil, err
	}
	if len(modelData) == 0 {
		return nil, fmt.Errorf("silero: model data is empty for source %q", modelSource)
	}

	ortInitOnce.Do(func() {
		libPath, err := resolveORTLibPath()
		if err != nil {
			ortInitErr = fmt.Errorf("resolve ORT lib: %w", err)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("silero: %w", ortInitErr)
	}

	switch variant {
	case VariantV4:
		return newV4Adapter(modelData, frameSamples)
	case VariantV5:
		return newV5Adapter(modelData, frameSamples)
	default:
		return nil, fmt.Errorf("silero: unknown variant %q", variant)
	}
}

func newV5Adapter(modelData []byte, frameSamples int) (*sileroAdapter, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(frameSamples)))
	if err != nil {
		return nil, fmt.Errorf("silero: create input tensor: %w", err)
	}
	stateTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, V5StateSize))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("silero: create state tensor: %w", err)
	}
	srTensor, err := ort.NewTensor(ort.NewShape(1), []int64{int64(ExpectedSampleRate)})
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		return nil, fmt.Errorf("silero: create sr tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		srTensor.Destroy()
		return nil, fmt.Errorf("silero: create output tensor: %w", err)
	}
	stateNTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, V5StateSize))
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		srTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("silero: create stateN tensor: %w", err)
	}

	clearFloat32Slice(stateTensor.GetData())
	clearFloat32Slice(stateNTensor.GetData())

	session, err := ort.NewAdvancedSessionWithONNXData(
		modelData,
		[]string{"input", "state", "sr"},
		[]string{"output", "stateN"},
		[]ort.Value{inputTensor, stateTensor, srTensor},
		[]ort.Value{outputTensor, stateNTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		srTensor.Destroy()
		outputTensor.Destroy()
		stateNTensor.Destroy()
		return nil, fmt.Errorf("silero: create session: %w", err)
	}

	return &sileroAdapter{
		variant:      VariantV5,
		session:      session,
		inputTensor:  inputTensor,
		stateTensor:  stateTensor,
		srTensor:     srTensor,
		outputTensor: outputTensor,
		stateNTensor: stateNTensor,
		windowSize:   frameSamples,
	}, nil
}

func newV4Adapter(modelData []byte, frameSamples int) (*sileroAdapter, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(frameSamples)))
	if err != nil {
		return nil, fmt.Errorf("silero: create input tensor: %w", err)
	}
	hTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, V4StateSize))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("silero: create h tensor: %w", err)
	}
	cTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, V4StateSize))
	if err != nil {
		inputTensor.Destroy()
		hTensor.Destroy()
		return nil, fmt.Errorf("silero: create c tensor: %w", err)
	}
	srTensor, err := ort.NewTensor(ort.NewShape(1), []int64{int64(ExpectedSampleRate)})
	if err != nil {
		inputTensor.Destroy()
		hTensor.Destroy()
		cTensor.Destroy()
		return nil, fmt.Errorf("silero: create sr tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		inputTensor.Destroy()
		hTensor.Destroy()
		cTensor.Destroy()
		srTensor.Destroy()
		return nil, fmt.Errorf("silero: create output tensor: %w", err)
	}
	hnTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, V4StateSize))
	if err != nil {
		inputTensor.Destroy()
		hTensor.Destroy()
		cTensor.Destroy()
		srTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("silero: create hn tensor: %w", err)
	}
	cnTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, V4StateSize))
	if err != nil {
		inputTensor.Destroy()
		hTensor.Destroy()
		cTensor.Destroy()
		srTensor.Destroy()
		outputTensor.Destroy()
		hnTensor.Destroy()
		return nil, fmt.Errorf("silero: create cn tensor: %w", err)
	}

	clearFloat32Slice(hTensor.GetData())
	clearFloat32Slice(cTensor.GetData())
	clearFloat32Slice(hnTensor.GetData())
	clearFloat32Slice(cnTensor.GetData())

	session, err := ort.NewAdvancedSessionWithONNXData(
		modelData,
		[]string{"input", "sr", "h", "c"},
		[]string{"output", "hn", "cn"},
		[]ort.Value{inputTensor, srTensor, hTensor, cTensor},
		[]ort.Value{outputTensor, hnTensor, cnTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		hTensor.Destroy()
		cTensor.Destroy()
		srTensor.Destroy()
		outputTensor.Destroy()
		hnTensor.Destroy()
		cnTensor.Destroy()
		return nil, fmt.Errorf("silero: create session: %w", err)
	}

	return &sileroAdapter{
		variant:      VariantV4,
		session:      session,
		inputTensor:  inputTensor,
		srTensor:     srTensor,
		outputTensor: outputTensor,
		hTensor:      hTensor,
		cTensor:      cTensor,
		hnTensor:     hnTensor,
		cnTensor:     cnTensor,
		windowSize:   frameSamples,
	}, nil
}

// Process runs inference on exactly one frame of WindowSize() samples.
func (e *sileroAdapter) Process(frame []float32) (float32, error) {
	if len(frame) != e.windowSize {
		return 0, ErrWrongFrameSize
	}
	copy(e.inputTensor.GetData(), frame)

	if err := e.session.Run(); err != nil {
		return 0, fmt.Errorf("silero: inference: %w", err)
	}

	prob := e.outputTensor.GetData()[0]

	if e.variant == VariantV5 {
		copy(e.stateTensor.GetData(), e.stateNTensor.GetData())
	} else {
		copy(e.hTensor.GetData(), e.hnTensor.GetData())
		copy(e.cTensor.GetData(), e.cnTensor.GetData())
	}

	return prob, nil
}

func (e *sileroAdapter) ResetState() {
	if e.variant == VariantV5 {
		clearFloat32Slice(e.stateTensor.GetData())
	} else {
		clearFloat32Slice(e.hTensor.GetData())
		clearFloat32Slice(e.cTensor.GetData())
	}
}

func (e *sileroAdapter) WindowSize() int { return e.windowSize }

// Close releases ONNX Runtime resources. Safe to call multiple times.
func (e *sileroAdapter) Close() error {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.srTensor != nil {
		e.srTensor.Destroy()
		e.srTensor = nil
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	if e.stateTensor != nil {
		e.stateTensor.Destroy()
		e.stateTensor = nil
	}
	if e.stateNTensor != nil {
		e.stateNTensor.Destroy()
		e.stateNTensor = nil
	}
	if e.hTensor != nil {
		e.hTensor.Destroy()
		e.hTensor = nil
	}
	if e.cTensor != nil {
		e.cTensor.Destroy()
		e.cTensor = nil
	}
	if e.hnTensor != nil {
		e.hnTensor.Destroy()
		e.hnTensor = nil
	}
	if e.cnTensor != nil {
		e.cnTensor.Destroy()
		e.cnTensor = nil
	}
	return nil
}

func clearFloat32Slice(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
