// Command vad-bench runs the streaming VAD engine over a WAV file offline
// and prints the resulting event timeline. Grounded on the teacher pack's
// only WAV-decoding reference (AshBuk-speak-to-ai's whisper.WhisperEngine,
// which opens a file with wav.NewDecoder and walks decoder.FullPCMBuffer()),
// adapted here to feed int16 PCM bytes through a vad.Engine instead of
// normalizing to float32 for a transcription model.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-audio/wav"

	vad "github.com/silerostream/vad-engine"
	"github.com/silerostream/vad-engine/internal/inference"
)

func main() {
	var (
		path        = flag.String("file", "", "path to a 16kHz mono 16-bit PCM WAV file")
		model       = flag.String("model", "v5", "model variant: v4 or v5")
		modelSource = flag.String("model-source", "", "local path or URL to the ONNX model bytes")
		backend     = flag.String("backend", "auto", "backend: auto, silero, or stub")
		numFrames   = flag.Int("chunk-frames", 0, "in-flight chunk width in frames, 0 disables chunking")
	)
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: vad-bench -file <path.wav> [-model v4|v5] [-model-source ...] [-backend auto|silero|stub]")
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	pcmBytes, sampleRate, err := loadWAV(*path)
	if err != nil {
		logger.Error("failed to load WAV file", "error", err)
		os.Exit(1)
	}
	if sampleRate != inference.ExpectedSampleRate {
		logger.Error("unsupported sample rate", "got", sampleRate, "want", inference.ExpectedSampleRate)
		os.Exit(1)
	}

	cfg := vad.Config{
		Backend:     vad.Backend(*backend),
		Model:       inference.Variant(*model),
		ModelSource: *modelSource,
		SampleRate:  inference.ExpectedSampleRate,
	}
	if *numFrames > 0 {
		cfg.NumFramesToEmit = *numFrames
	}

	engine, err := vad.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create engine", "error", err)
		os.Exit(1)
	}
	defer engine.Release()

	events := engine.ProcessAudioData(pcmBytes)
	for _, evt := range events {
		printEvent(evt)
	}
	for _, evt := range engine.ForceEndSpeech() {
		printEvent(evt)
	}

	fmt.Printf("total frames processed: %d\n", engine.TotalFramesProcessed())
}

func printEvent(evt vad.Event) {
	switch evt.Kind {
	case vad.FrameProcessed:
		// Too frequent to print per-frame by default; summarized via the
		// total-frames-processed line instead.
	case vad.Start:
		fmt.Printf("%.3fs  start\n", evt.T)
	case vad.RealStart:
		fmt.Printf("%.3fs  realStart\n", evt.T)
	case vad.Chunk:
		fmt.Printf("%.3fs  chunk       bytes=%d final=%v\n", evt.T, len(evt.Audio), evt.IsFinal)
	case vad.End:
		fmt.Printf("%.3fs  end         bytes=%d\n", evt.T, len(evt.Audio))
	case vad.Misfire:
		fmt.Printf("%.3fs  misfire\n", evt.T)
	case vad.Error:
		fmt.Printf("%.3fs  error       %s\n", evt.T, evt.Message)
	}
}

// loadWAV decodes a WAV file into little-endian s16le PCM bytes, rejecting
// anything but mono 16-bit input.
func loadWAV(path string) ([]byte, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if decoder == nil {
		return nil, 0, fmt.Errorf("vad-bench: failed to create WAV decoder")
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("vad-bench: read PCM buffer: %w", err)
	}
	if buf.Format.NumChannels != 1 {
		return nil, 0, fmt.Errorf("vad-bench: only mono WAV files are supported, got %d channels", buf.Format.NumChannels)
	}
	if buf.SourceBitDepth != 16 {
		return nil, 0, fmt.Errorf("vad-bench: only 16-bit PCM is supported, got %d-bit", buf.SourceBitDepth)
	}

	out := make([]byte, len(buf.Data)*2)
	for i, sample := range buf.Data {
		s := int16(sample)
		u := uint16(s)
		out[2*i] = byte(u)
		out[2*i+1] = byte(u >> 8)
	}
	return out, buf.Format.SampleRate, nil
}
