package audio

import (
	"context"
	"errors"
	log "log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"jarvis/internal/audio/vad"
	"jarvis/internal/fault"
)

var ErrWaitTimeout = errors.New("listening timed out while waiting for phrase to start")

// Recorder captures phrases from the default input device. The stream is
// opened and closed around every call.
type Recorder struct {
	mu        sync.Mutex
	threshold float64
}

func NewRecorder() *Recorder { return &Recorder{threshold: vad.MinThreshold} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Calibrate listens to ambient noise for d and adjusts the speech threshold.
func (r *Recorder) Calibrate(ctx context.Context, d time.Duration) error {
	var cal vad.Calibrator
	frames := int(d / vad.FrameDuration)
	if frames < 1 {
		frames = 1
	}

	err := r.stream(ctx, func(buf []float32) bool {
		cal.Feed(buf)
		frames--
		return frames > 0
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.threshold = cal.Threshold()
	r.mu.Unlock()

	log.Debug("Calibrated ambient noise", "threshold", cal.Threshold())
	return nil
}

// Capture waits up to timeout for speech to start and records until a pause
// or until the phrase reaches limit.
func (r *Recorder) Capture(ctx context.Context, timeout, limit time.Duration) ([]float32, error) {
	r.mu.Lock()
	threshold := r.threshold
	r.mu.Unlock()

	seg := vad.NewSegmenter(vad.Config{
		Threshold:   threshold,
		Timeout:     timeout,
		PhraseLimit: limit,
		PreRoll:     25, // 500ms
	})

	err := r.stream(ctx, func(buf []float32) bool {
		st := seg.Feed(buf)
		return st == vad.Waiting || st == vad.Speaking
	})
	if err != nil {
		return nil, err
	}

	if seg.Status() == vad.TimedOut {
		return nil, fault.New(fault.Recognition, "audio.capture", ErrWaitTimeout)
	}
	return seg.Phrase(), nil
}

// stream feeds frames to fn until it returns false.
func (r *Recorder) stream(ctx context.Context, fn func([]float32) bool) error {
	buf := make([]float32, vad.FrameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, vad.SampleRate, len(buf), buf)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return err
	}
	defer stream.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := stream.Read(); err != nil {
			return err
		}
		if !fn(buf) {
			return nil
		}
	}
}
