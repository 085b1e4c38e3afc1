package audio

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"time"

	"jarvis/internal/audio/vad"
	"jarvis/pkg/audioconv"
)

// Replay stands in for the microphone with recorded clips, one clip per
// capture. It reports io.EOF once every clip has been used.
type Replay struct {
	files []string
	next  int
}

func NewReplay(files []string) *Replay {
	return &Replay{files: append([]string(nil), files...)}
}

func (r *Replay) Calibrate(context.Context, time.Duration) error { return nil }

func (r *Replay) Capture(ctx context.Context, _, limit time.Duration) ([]float32, error) {
	if r.next >= len(r.files) {
		return nil, io.EOF
	}
	path := r.files[r.next]
	r.next++

	opt := audioconv.Options{}
	if limit > 0 {
		opt.MaxSamples = int(limit.Seconds() * vad.SampleRate)
	}
	pcm, err := audioconv.DecodeFile(ctx, path, opt)
	if err != nil {
		return nil, fmt.Errorf("replay %s: %w", path, err)
	}

	log.Info("Replaying clip", "file", path, "samples", len(pcm))
	return pcm, nil
}
