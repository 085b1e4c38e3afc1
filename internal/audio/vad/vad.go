// Package vad finds the spoken phrase in a stream of mono PCM frames using
// an energy threshold calibrated against ambient noise.
package vad

import (
	"math"
	"time"
)

const (
	SampleRate = 16000
	FrameSize  = 320 // 20ms

	FrameDuration = time.Second * FrameSize / SampleRate

	// floor for quiet rooms, tuned on a laptop mic
	MinThreshold = 0.015
	// speech must be this much louder than the calibrated noise
	NoiseRatio = 1.5
)

func RMS(frame []float32) float64 {
	if len(frame) == 0 {
		return 0
	}
	var s float64
	for _, x := range frame {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s / float64(len(frame)))
}

// Calibrator estimates the ambient noise level.
type Calibrator struct {
	sum float64
	n   int
}

func (c *Calibrator) Feed(frame []float32) {
	c.sum += RMS(frame)
	c.n++
}

// Threshold is the energy above which a frame counts as speech.
func (c *Calibrator) Threshold() float64 {
	if c.n == 0 {
		return MinThreshold
	}
	return math.Max(MinThreshold, c.sum/float64(c.n)*NoiseRatio)
}

type Config struct {
	Threshold float64
	// Timeout bounds the wait for speech to start; 0 waits forever.
	Timeout time.Duration
	// PhraseLimit bounds the phrase once speech started; 0 is unbounded.
	PhraseLimit time.Duration
	// Pause is the trailing silence that ends a phrase.
	Pause time.Duration
	// PreRoll frames kept from before speech onset.
	PreRoll int
}

type Status int

const (
	Waiting Status = iota
	Speaking
	Complete
	TimedOut
)

type Segmenter struct {
	cfg     Config
	status  Status
	waited  time.Duration
	spoken  time.Duration
	silence time.Duration
	pre     [][]float32
	phrase  []float32
}

func NewSegmenter(cfg Config) *Segmenter {
	if cfg.Threshold <= 0 {
		cfg.Threshold = MinThreshold
	}
	if cfg.Pause <= 0 {
		cfg.Pause = 800 * time.Millisecond
	}
	if cfg.PreRoll < 0 {
		cfg.PreRoll = 0
	}
	return &Segmenter{cfg: cfg}
}

// Feed consumes one frame of FrameSize samples. The frame is copied.
func (s *Segmenter) Feed(frame []float32) Status {
	if s.status == Complete || s.status == TimedOut {
		return s.status
	}

	loud := RMS(frame) > s.cfg.Threshold
	dur := time.Duration(len(frame)) * time.Second / SampleRate

	switch s.status {
	case Waiting:
		s.waited += dur
		if loud {
			s.status = Speaking
			for _, p := range s.pre {
				s.phrase = append(s.phrase, p...)
			}
			s.pre = nil
			s.phrase = append(s.phrase, frame...)
			s.spoken = dur
			return s.status
		}
		if s.cfg.PreRoll > 0 {
			s.pre = append(s.pre, append([]float32(nil), frame...))
			if len(s.pre) > s.cfg.PreRoll {
				s.pre = s.pre[1:]
			}
		}
		if s.cfg.Timeout > 0 && s.waited >= s.cfg.Timeout {
			s.status = TimedOut
		}

	case Speaking:
		s.phrase = append(s.phrase, frame...)
		s.spoken += dur
		if loud {
			s.silence = 0
		} else {
			s.silence += dur
		}
		if s.silence >= s.cfg.Pause {
			s.status = Complete
		}
		if s.cfg.PhraseLimit > 0 && s.spoken >= s.cfg.PhraseLimit {
			s.status = Complete
		}
	}
	return s.status
}

func (s *Segmenter) Status() Status { return s.status }

// Phrase returns the samples captured since speech onset.
func (s *Segmenter) Phrase() []float32 { return s.phrase }
