// Package breaker guards upstream calls so a dead service fails fast
// instead of stalling every command.
package breaker

import (
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/sony/gobreaker"
)

type Settings struct {
	Name string
	// Failures is the number of consecutive failures that opens the breaker.
	Failures uint32
	// Cooldown is how long the breaker stays open.
	Cooldown time.Duration
	// Ignore reports errors that must not count as failures.
	Ignore func(error) bool
}

type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

func New(s Settings) *Breaker {
	if s.Failures == 0 {
		s.Failures = 3
	}
	if s.Cooldown <= 0 {
		s.Cooldown = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || (s.Ignore != nil && s.Ignore(err))
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &Breaker{cb: cb}
}

// Do runs fn unless the breaker is open.
func Do[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if b == nil {
		return fn(ctx)
	}
	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func (b *Breaker) State() string { return b.cb.State().String() }
