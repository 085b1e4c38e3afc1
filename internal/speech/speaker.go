package speech

import (
	"context"
	"errors"
	log "log/slog"
	"strings"

	"jarvis/internal/fault"
)

// Synthesizer turns text into audible speech and returns once playback ends.
type Synthesizer interface {
	Name() string
	Say(ctx context.Context, text string) error
}

// Chunks splits text on '.' into trimmed, non-empty segments, each ending
// with a period.
func Chunks(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part+".")
	}
	return out
}

type Speaker struct {
	primary   Synthesizer
	secondary Synthesizer
}

// NewSpeaker builds a speaker. Either synthesizer may be nil.
func NewSpeaker(primary, secondary Synthesizer) *Speaker {
	return &Speaker{primary: primary, secondary: secondary}
}

// Speak says text chunk by chunk. A chunk that fails on the primary is
// retried on the secondary; a chunk that fails on both is dropped. The
// returned error joins the dropped chunks' failures.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	var errs []error
	for _, chunk := range Chunks(text) {
		if err := s.sayChunk(ctx, chunk); err != nil {
			log.Error("Dropped speech chunk", "chunk", chunk, "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Speaker) sayChunk(ctx context.Context, chunk string) error {
	var primaryErr error
	if s.primary != nil {
		primaryErr = s.primary.Say(ctx, chunk)
		if primaryErr == nil {
			return nil
		}
		log.Warn("Primary synthesis failed, falling back", "engine", s.primary.Name(), "err", primaryErr)
	}

	if s.secondary == nil {
		return fault.New(fault.Synthesis, "speech.say", primaryErr)
	}
	if err := s.secondary.Say(ctx, chunk); err != nil {
		return fault.New(fault.Synthesis, "speech.say", errors.Join(primaryErr, err))
	}
	return nil
}
