package vad

import (
	"math"
	"testing"
	"time"
)

func frameOf(level float32) []float32 {
	f := make([]float32, FrameSize)
	for i := range f {
		f[i] = level
	}
	return f
}

func TestRMS(t *testing.T) {
	if got := RMS(frameOf(0.5)); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("expected 0.5, got %f", got)
	}
	if RMS(nil) != 0 {
		t.Fatalf("expected 0 for empty frame")
	}
}

func TestCalibratorThreshold(t *testing.T) {
	var c Calibrator
	if c.Threshold() != MinThreshold {
		t.Fatalf("expected floor without samples")
	}

	c.Feed(frameOf(0.001))
	if c.Threshold() != MinThreshold {
		t.Fatalf("quiet room should use the floor, got %f", c.Threshold())
	}

	var noisy Calibrator
	noisy.Feed(frameOf(0.1))
	noisy.Feed(frameOf(0.1))
	if got := noisy.Threshold(); math.Abs(got-0.15) > 1e-6 {
		t.Fatalf("expected 0.15, got %f", got)
	}
}

func TestSegmenterTimesOutWithoutSpeech(t *testing.T) {
	s := NewSegmenter(Config{Threshold: 0.05, Timeout: 100 * time.Millisecond})

	var st Status
	for i := 0; i < 10 && st != TimedOut; i++ {
		st = s.Feed(frameOf(0.01))
	}
	if st != TimedOut {
		t.Fatalf("expected timeout, got %v", st)
	}
	if len(s.Phrase()) != 0 {
		t.Fatalf("expected empty phrase")
	}
}

func TestSegmenterCompletesAfterPause(t *testing.T) {
	s := NewSegmenter(Config{
		Threshold: 0.05,
		Timeout:   time.Second,
		Pause:     100 * time.Millisecond,
		PreRoll:   2,
	})

	for i := 0; i < 3; i++ {
		if st := s.Feed(frameOf(0.01)); st != Waiting {
			t.Fatalf("expected waiting, got %v", st)
		}
	}
	for i := 0; i < 5; i++ {
		if st := s.Feed(frameOf(0.2)); st != Speaking {
			t.Fatalf("expected speaking, got %v", st)
		}
	}

	var st Status
	quiet := 0
	for st != Complete {
		st = s.Feed(frameOf(0.01))
		quiet++
		if quiet > 20 {
			t.Fatalf("segmenter never completed")
		}
	}
	// 100ms pause at 20ms frames
	if quiet != 5 {
		t.Fatalf("expected completion after 5 quiet frames, got %d", quiet)
	}
	// 2 preroll + 5 speech + 5 trailing
	if got, want := len(s.Phrase()), 12*FrameSize; got != want {
		t.Fatalf("expected %d samples, got %d", want, got)
	}
}

func TestSegmenterPhraseLimit(t *testing.T) {
	s := NewSegmenter(Config{Threshold: 0.05, PhraseLimit: 60 * time.Millisecond})

	var st Status
	n := 0
	for st != Complete {
		st = s.Feed(frameOf(0.3))
		n++
		if n > 10 {
			t.Fatalf("phrase limit not enforced")
		}
	}
	if n != 3 {
		t.Fatalf("expected 3 frames, got %d", n)
	}
	if s.Feed(frameOf(0.3)) != Complete {
		t.Fatalf("segmenter must stay complete")
	}
}
