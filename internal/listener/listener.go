package listener

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"time"

	"jarvis/internal/command"
	"jarvis/internal/dispatch"
	"jarvis/internal/fault"
)

const (
	msgGreeting  = "Initializing Jarvis."
	msgFarewell  = "Shutting down. Goodbye."
	msgAck       = "Yes?"
	msgNotCaught = "Sorry, I didn't catch that."
)

// ErrNothingHeard is a command capture that recognized no words.
var ErrNothingHeard = errors.New("no command heard")

type Capturer interface {
	Calibrate(ctx context.Context, d time.Duration) error
	Capture(ctx context.Context, timeout, limit time.Duration) ([]float32, error)
}

type Recognizer interface {
	Recognize(ctx context.Context, pcm []float32) (string, error)
}

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type Dispatcher interface {
	Dispatch(ctx context.Context, text string) dispatch.Result
}

// Stage bounds one capture: ambient calibration, wait for speech to start,
// and maximum phrase length.
type Stage struct {
	Calibrate   time.Duration
	Timeout     time.Duration
	PhraseLimit time.Duration
}

var (
	WakeStage    = Stage{Calibrate: time.Second, Timeout: 6 * time.Second, PhraseLimit: 5 * time.Second}
	CommandStage = Stage{Calibrate: 500 * time.Millisecond, Timeout: 6 * time.Second, PhraseLimit: 8 * time.Second}
)

type Config struct {
	WakeWord   string
	Capturer   Capturer
	Recognizer Recognizer
	Speaker    Speaker
	Dispatcher Dispatcher

	Wake    Stage
	Command Stage

	// ErrorPause is the wait after a failed iteration.
	ErrorPause time.Duration
	QueueSize  int

	// Chime, when set, plays right before the acknowledgement.
	Chime        func(ctx context.Context) error
	OnTransition func(from, to State)
	OnDispatch   func(dispatch.Result)
}

// Request is an out-of-band instruction from the control channel. A request
// with Text is dispatched directly; otherwise the wake stage is skipped.
type Request struct {
	Text string
}

type Listener struct {
	cfg      Config
	state    State
	requests chan Request
}

func New(cfg Config) *Listener {
	if cfg.WakeWord == "" {
		cfg.WakeWord = "jarvis"
	}
	if cfg.Wake == (Stage{}) {
		cfg.Wake = WakeStage
	}
	if cfg.Command == (Stage{}) {
		cfg.Command = CommandStage
	}
	if cfg.ErrorPause <= 0 {
		cfg.ErrorPause = 500 * time.Millisecond
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 8
	}
	return &Listener{
		cfg:      cfg,
		state:    Idle,
		requests: make(chan Request, cfg.QueueSize),
	}
}

// Enqueue hands r to the loop. It never blocks; a full queue drops r.
func (l *Listener) Enqueue(r Request) bool {
	select {
	case l.requests <- r:
		return true
	default:
		log.Warn("Control queue full, dropping request", "text", r.Text)
		return false
	}
}

// Run speaks the greeting and cycles until ctx is cancelled or the capture
// source is exhausted, then says goodbye.
func (l *Listener) Run(ctx context.Context) error {
	log.Info("Listener started", "wake_word", l.cfg.WakeWord)
	l.say(ctx, msgGreeting)

	for {
		err := l.Cycle(ctx)
		if ctx.Err() != nil || errors.Is(err, io.EOF) {
			break
		}
		if err == nil {
			continue
		}

		if fault.Is(err, fault.Recognition) {
			log.Debug("Nothing recognized", "err", err)
			continue
		}

		log.Error("Listener iteration failed", "kind", fault.KindOf(err), "err", err)
		if !sleep(ctx, l.cfg.ErrorPause) {
			break
		}
	}

	log.Info("Listener stopping")
	farewell, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	l.say(farewell, msgFarewell)
	return nil
}

// Cycle runs one pass from Idle back to Idle and returns the classified
// failure of that pass, if any.
func (l *Listener) Cycle(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fault.New(fault.Internal, "listener."+l.state.String(), fmt.Errorf("panic: %v", p))
		}
		l.transition(Idle)
	}()

	select {
	case req := <-l.requests:
		if req.Text != "" {
			log.Info("Control command", "text", req.Text)
			l.dispatch(ctx, req.Text)
			return nil
		}
		log.Info("Control trigger")
	default:
		l.transition(ListeningForWake)
		text, err := l.listen(ctx, l.cfg.Wake, "listener.wake")
		if err != nil {
			return err
		}
		log.Debug("Heard (wake stage)", "text", text)
		if !command.HasWakeWord(text, l.cfg.WakeWord) {
			return nil
		}
	}

	l.transition(Awake)
	if l.cfg.Chime != nil {
		if err := l.cfg.Chime(ctx); err != nil {
			log.Debug("Chime failed", "err", err)
		}
	}
	l.say(ctx, msgAck)

	l.transition(ListeningForCommand)
	text, err := l.listen(ctx, l.cfg.Command, "listener.command")
	if err != nil {
		if ctx.Err() == nil && !errors.Is(err, io.EOF) {
			l.say(ctx, msgNotCaught)
		}
		return err
	}
	log.Info("Heard command", "text", text)

	text = command.StripWakeWord(text, l.cfg.WakeWord)
	if command.New(text).Empty() {
		l.say(ctx, msgNotCaught)
		return fault.New(fault.Recognition, "listener.command", ErrNothingHeard)
	}

	l.dispatch(ctx, text)
	return nil
}

func (l *Listener) dispatch(ctx context.Context, text string) {
	l.transition(Dispatching)
	res := l.cfg.Dispatcher.Dispatch(ctx, text)
	if l.cfg.OnDispatch != nil && !res.Command.Empty() {
		l.cfg.OnDispatch(res)
	}
}

// listen calibrates, captures one phrase and recognizes it. Capture and
// recognition problems come back as Recognition faults; io.EOF and context
// errors pass through untouched.
func (l *Listener) listen(ctx context.Context, st Stage, op string) (string, error) {
	if err := l.cfg.Capturer.Calibrate(ctx, st.Calibrate); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.Warn("Calibration failed", "err", err)
	}

	pcm, err := l.cfg.Capturer.Capture(ctx, st.Timeout, st.PhraseLimit)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, io.EOF) {
			return "", err
		}
		return "", classify(op, err)
	}

	text, err := l.cfg.Recognizer.Recognize(ctx, pcm)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", classify(op, err)
	}
	return text, nil
}

func classify(op string, err error) error {
	var fe *fault.Error
	if errors.As(err, &fe) {
		return err
	}
	return fault.New(fault.Recognition, op, err)
}

func (l *Listener) say(ctx context.Context, text string) {
	if err := l.cfg.Speaker.Speak(ctx, text); err != nil {
		log.Debug("Speech incomplete", "text", text, "err", err)
	}
}

func (l *Listener) transition(to State) {
	from := l.state
	if from == to {
		return
	}
	l.state = to
	log.Debug("Listener state", "from", from, "to", to)
	if l.cfg.OnTransition != nil {
		l.cfg.OnTransition(from, to)
	}
}

// State is the current state. Only meaningful on the loop goroutine.
func (l *Listener) State() State { return l.state }

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
