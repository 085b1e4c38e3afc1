package audio

import (
	"context"
	log "log/slog"
	"time"

	"jarvis/internal/audio/vad"
	"jarvis/internal/audio/wavfile"
)

type Source interface {
	Calibrate(ctx context.Context, d time.Duration) error
	Capture(ctx context.Context, timeout, limit time.Duration) ([]float32, error)
}

// Dumping saves every captured phrase of src as a WAV file in dir.
type Dumping struct {
	Source
	Dir string
}

func (d Dumping) Capture(ctx context.Context, timeout, limit time.Duration) ([]float32, error) {
	pcm, err := d.Source.Capture(ctx, timeout, limit)
	if err != nil || len(pcm) == 0 {
		return pcm, err
	}
	path, derr := wavfile.Dump(d.Dir, "phrase", pcm, vad.SampleRate)
	if derr != nil {
		log.Warn("Failed to dump phrase", "dir", d.Dir, "err", derr)
	} else {
		log.Debug("Dumped phrase", "path", path)
	}
	return pcm, nil
}
