package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player plays mp3 audio on the default output device. The speaker is
// initialized and closed around every stream.
type Player struct {
	mu sync.Mutex
}

func NewPlayer() *Player { return &Player{} }

func (p *Player) PlayMP3(ctx context.Context, rc io.ReadCloser) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	streamer, format, err := mp3.Decode(rc)
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	defer speaker.Close()

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

// PlayFile plays an mp3 file such as the wake chime.
func (p *Player) PlayFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	return p.PlayMP3(ctx, f)
}
