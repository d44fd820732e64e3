// Package detector implements the streaming speech/silence state machine of
// spec §4.3/§4.4: hysteresis thresholds over per-frame speech probability,
// a bounded pre-speech ring buffer, a per-utterance speech accumulator, a
// redemption counter that closes an utterance after sustained silence, and
// a chunk scheduler that partitions long utterances into in-flight slices
// while guaranteeing a faithful final segment.
//
// This is adapted from the teacher adapter's boundaryDetector
// (internal/server/server.go), generalized from simple consecutive-frame
// hysteresis counting to the full redemption/pre-pad/post-pad/chunk state
// machine the spec requires, and from the teacher's thresholded-bool Result
// to raw float32 probabilities so the positive/negative/intermediate bands
// can be evaluated here instead of inside the inference adapter.
package detector

import (
	"log/slog"

	"github.com/silerostream/vad-engine/internal/inference"
	"github.com/silerostream/vad-engine/internal/pcm"
)

// Detector is the per-stream speech boundary state machine. It is not safe
// for concurrent use — callers serialize frame delivery, same as the
// single-threaded cooperative model of spec §5.
type Detector struct {
	cfg     Config
	adapter inference.Adapter
	log     *slog.Logger

	speaking             bool
	redemptionCounter    int
	speechPositiveFrames int
	realStartFired       bool
	speechStartIndex     int
	sentRedemptionFrames int
	currentSample        int64
	totalFramesProcessed uint64

	preSpeechRing     [][]float32
	speechAccumulator [][]float32
}

// New creates a Detector bound to adapter. cfg is validated before any
// state is initialized — bad configuration is a construction-time failure
// (§7), never a streaming-time one.
func New(cfg Config, adapter inference.Adapter, logger *slog.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if adapter == nil {
		return nil, errNilAdapter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		cfg:     cfg,
		adapter: adapter,
		log:     logger.With("component", "detector"),
	}, nil
}

// TotalFramesProcessed returns the monotonic lifetime frame counter (§3).
func (d *Detector) TotalFramesProcessed() uint64 { return d.totalFramesProcessed }

// ProcessFrame runs one frame through the inference adapter and the state
// machine, returning the ordered events that frame produced. A frame of the
// wrong size is a programming error: it is logged and dropped with state
// left untouched (§4.3, §7).
func (d *Detector) ProcessFrame(frame []float32) []Event {
	if len(frame) != d.cfg.FrameSamples {
		d.log.Warn("dropping frame with wrong size", "got", len(frame), "want", d.cfg.FrameSamples)
		return nil
	}

	t := float64(d.currentSample) / float64(d.cfg.SampleRate)

	prob, err := d.adapter.Process(frame)
	if err != nil {
		return []Event{{Kind: Error, T: t, Message: err.Error()}}
	}

	frameCopy := make([]float32, len(frame))
	copy(frameCopy, frame)

	events := []Event{{Kind: FrameProcessed, T: t, IsSpeech: prob, NotSpeech: 1 - prob, Frame: frameCopy}}

	d.totalFramesProcessed++
	d.currentSample += int64(len(frame))

	switch {
	case prob >= d.cfg.PositiveSpeechThreshold:
		events = append(events, d.handlePositive(t, frameCopy)...)
	case prob < d.cfg.NegativeSpeechThreshold:
		events = append(events, d.handleNegative(t, frameCopy)...)
	default:
		events = append(events, d.handleIntermediate(t, frameCopy)...)
	}

	return events
}

func (d *Detector) handlePositive(t float64, frame []float32) []Event {
	var events []Event
	if !d.speaking {
		d.speaking = true
		d.speechStartIndex = 0
		d.realStartFired = false
		events = append(events, Event{Kind: Start, T: t})
		if len(d.preSpeechRing) > 0 {
			d.speechAccumulator = append(d.speechAccumulator, d.preSpeechRing...)
		}
		d.preSpeechRing = d.preSpeechRing[:0]
	}

	d.redemptionCounter = 0
	d.sentRedemptionFrames = 0

	d.speechAccumulator = append(d.speechAccumulator, frame)
	d.speechPositiveFrames++
	if !d.realStartFired && d.speechPositiveFrames == d.cfg.MinSpeechFrames {
		d.realStartFired = true
		events = append(events, Event{Kind: RealStart, T: t})
	}

	events = append(events, d.maybeEmitChunk(t)...)
	return events
}

func (d *Detector) handleNegative(t float64, frame []float32) []Event {
	if !d.speaking {
		d.pushPreSpeechRing(frame)
		return nil
	}

	d.speechAccumulator = append(d.speechAccumulator, frame)
	d.redemptionCounter++
	if d.redemptionCounter >= d.cfg.RedemptionFrames {
		return d.endOfSpeech(t)
	}
	return nil
}

func (d *Detector) handleIntermediate(t float64, frame []float32) []Event {
	if !d.speaking {
		d.pushPreSpeechRing(frame)
		return nil
	}

	d.speechAccumulator = append(d.speechAccumulator, frame)
	// sent_redemption_frames is intentionally NOT reset here — a long
	// intermediate stretch after a chunk emission leaves a stale
	// snapshot for the end-of-speech final-chunk math (§9 open question,
	// reproduced faithfully rather than "fixed").
	d.redemptionCounter = 0

	return d.maybeEmitChunk(t)
}

// maybeEmitChunk implements the tail-of-every-positive/intermediate-frame
// chunk emission of §4.3.
func (d *Detector) maybeEmitChunk(t float64) []Event {
	if d.cfg.NumFramesToEmit <= 0 {
		return nil
	}
	if len(d.speechAccumulator)-d.speechStartIndex < d.cfg.NumFramesToEmit {
		return nil
	}
	if d.redemptionCounter > d.cfg.EndSpeechPadFrames {
		return nil
	}

	slice := d.speechAccumulator[d.speechStartIndex : d.speechStartIndex+d.cfg.NumFramesToEmit]
	audio := pcm.FramesToInt16(slice)
	d.speechStartIndex += d.cfg.NumFramesToEmit
	d.sentRedemptionFrames = d.redemptionCounter

	return []Event{{Kind: Chunk, T: t, Audio: audio, IsFinal: false}}
}

// endOfSpeech implements the chunk scheduler at end-of-speech, §4.4.
func (d *Detector) endOfSpeech(t float64) []Event {
	var events []Event
	d.speaking = false
	d.redemptionCounter = 0

	if d.speechPositiveFrames < d.cfg.MinSpeechFrames {
		events = append(events, Event{Kind: Misfire, T: t})
	} else {
		framesToRemove := d.cfg.RedemptionFrames - d.cfg.EndSpeechPadFrames
		segment := sliceOrPad(d.speechAccumulator, framesToRemove, d.cfg.FrameSamples)
		events = append(events, Event{Kind: End, T: t, Audio: pcm.FramesToInt16(segment)})

		if d.cfg.NumFramesToEmit > 0 {
			var endFramesToRemove int
			if d.sentRedemptionFrames == 0 {
				endFramesToRemove = d.cfg.RedemptionFrames - d.cfg.EndSpeechPadFrames
			} else {
				endFramesToRemove = d.sentRedemptionFrames - d.cfg.EndSpeechPadFrames
			}
			if d.speechStartIndex < len(d.speechAccumulator) || endFramesToRemove < 0 {
				full := sliceOrPad(d.speechAccumulator, endFramesToRemove, d.cfg.FrameSamples)
				final := sliceFromIndex(full, d.speechStartIndex)
				if len(final) > 0 {
					events = append(events, Event{Kind: Chunk, T: t, Audio: pcm.FramesToInt16(final), IsFinal: true})
				}
			}
		}
	}

	d.finishUtterance()
	return events
}

// ForceEndSpeech closes the current utterance immediately, emitting the
// entire accumulated speech as a single End event and discarding the chunk
// partition — it never flushes a trailing final chunk, even when chunking
// is enabled (§9 open question, preserved as contract). It is a no-op when
// not speaking or the utterance has not reached minSpeechFrames.
func (d *Detector) ForceEndSpeech() []Event {
	t := float64(d.currentSample) / float64(d.cfg.SampleRate)
	if !d.speaking || d.speechPositiveFrames < d.cfg.MinSpeechFrames {
		return nil
	}

	audio := pcm.FramesToInt16(d.speechAccumulator)
	events := []Event{{Kind: End, T: t, Audio: audio}}

	d.speaking = false
	d.redemptionCounter = 0
	d.finishUtterance()

	return events
}

// finishUtterance resets the per-utterance counters and preserves a tail of
// the old speech accumulator into the pre-speech ring for the next
// utterance's context, per §4.4 steps 6-7.
func (d *Detector) finishUtterance() {
	d.speechPositiveFrames = 0
	d.speechStartIndex = 0
	d.sentRedemptionFrames = 0
	d.realStartFired = false

	if d.cfg.EndSpeechPadFrames < d.cfg.RedemptionFrames {
		tailLen := d.cfg.RedemptionFrames - d.cfg.EndSpeechPadFrames
		tail := lastN(d.speechAccumulator, tailLen)
		d.preSpeechRing = truncateToCap(tail, d.cfg.PreSpeechPadFrames)
	} else {
		d.preSpeechRing = d.preSpeechRing[:0]
	}
	d.speechAccumulator = nil
}

func (d *Detector) pushPreSpeechRing(frame []float32) {
	d.preSpeechRing = append(d.preSpeechRing, frame)
	if len(d.preSpeechRing) > d.cfg.PreSpeechPadFrames {
		d.preSpeechRing = d.preSpeechRing[1:]
	}
}

// Reset clears all buffers, zeroes the per-stream counters, and resets the
// inference adapter's neural state, without releasing adapter resources.
// The lifetime totalFramesProcessed counter is kept.
func (d *Detector) Reset() {
	d.speaking = false
	d.redemptionCounter = 0
	d.speechPositiveFrames = 0
	d.realStartFired = false
	d.speechStartIndex = 0
	d.sentRedemptionFrames = 0
	d.currentSample = 0
	d.preSpeechRing = nil
	d.speechAccumulator = nil
	d.adapter.ResetState()
}

// Close releases the inference adapter. Terminal: the detector must not be
// used afterward.
func (d *Detector) Close() error {
	return d.adapter.Close()
}

// PreSpeechRingLen reports the current pre-speech ring occupancy, exposed
// for tests asserting the invariant |pre_speech_buffer| <= preSpeechPadFrames.
func (d *Detector) PreSpeechRingLen() int { return len(d.preSpeechRing) }
