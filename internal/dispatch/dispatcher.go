package dispatch

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"jarvis/internal/command"
	"jarvis/internal/fault"
	"jarvis/internal/music"
	"jarvis/internal/news"
)

const (
	msgApology       = "Sorry, I encountered an error while processing the command."
	msgLetMeCheck    = "Let me check."
	msgAINotConfig   = "AI not configured. Set OPENAI_API_KEY in the environment."
	msgAIUnreachable = "Sorry, I couldn't reach the AI service."
	msgNewsNotConfig = "News API key not configured. Set NEWS_API_KEY in the environment."
	msgNewsError     = "Error fetching news."
	msgNewsEmpty     = "No news articles found."
	msgNewsHeadlines = "Here are the top headlines."
	defaultNewsPause = 200 * time.Millisecond
)

type Opener interface {
	Open(url string) error
}

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

type Headliner interface {
	Headlines(ctx context.Context) ([]string, error)
}

type Responder interface {
	Respond(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	Opener  Opener
	Speaker Speaker
	News    Headliner
	AI      Responder
	Catalog *music.Catalog
	// HeadlinePause separates spoken headlines. Zero means the default,
	// negative means no pause.
	HeadlinePause time.Duration
}

type Dispatcher struct {
	cfg Config
}

func New(cfg Config) *Dispatcher {
	if cfg.HeadlinePause == 0 {
		cfg.HeadlinePause = defaultNewsPause
	}
	return &Dispatcher{cfg: cfg}
}

// Result records what one dispatch did.
type Result struct {
	Command command.Command
	Intent  Intent
	Opened  []string
	Spoken  []string
	Err     error
}

// Dispatch classifies text and executes the matching intent. Failures never
// escape: they are logged, recorded on the Result and turned into speech.
func (d *Dispatcher) Dispatch(ctx context.Context, text string) (res Result) {
	res.Command = command.New(text)
	if res.Command.Empty() {
		return res
	}
	res.Intent = Classify(res.Command)

	log.Info("Dispatching", "command", res.Command.Raw, "intent", res.Intent.Kind)

	r := &run{d: d, ctx: ctx, res: &res}
	defer func() {
		if p := recover(); p != nil {
			err := fault.New(fault.Internal, "dispatch."+res.Intent.Kind.String(), fmt.Errorf("panic: %v", p))
			log.Error("Dispatch panicked", "command", res.Command.Raw, "err", err)
			res.Err = err
			r.say(msgApology)
		}
	}()

	var err error
	switch res.Intent.Kind {
	case OpenSite:
		r.open(res.Intent.Site.URL)
		r.say(fmt.Sprintf("Opening %s.", res.Intent.Site.Name))
	case PlayMusic:
		err = r.playMusic(res.Intent.Query)
	case FetchNews:
		err = r.fetchNews()
	case AskAI:
		err = r.askAI(res.Intent.Query)
	}

	if err != nil {
		log.Error("Dispatch failed", "command", res.Command.Raw, "kind", fault.KindOf(err), "err", err)
		res.Err = err
		r.say(msgApology)
	}
	return res
}

// run carries the per-command state of one dispatch.
type run struct {
	d   *Dispatcher
	ctx context.Context
	res *Result
}

func (r *run) say(text string) {
	r.res.Spoken = append(r.res.Spoken, text)
	if r.d.cfg.Speaker == nil {
		return
	}
	if err := r.d.cfg.Speaker.Speak(r.ctx, text); err != nil {
		log.Debug("Speech incomplete", "text", text, "err", err)
	}
}

func (r *run) open(url string) {
	r.res.Opened = append(r.res.Opened, url)
	if r.d.cfg.Opener == nil {
		return
	}
	if err := r.d.cfg.Opener.Open(url); err != nil {
		log.Warn("Failed to open browser", "url", url, "err", err)
	}
}

// handled records an error whose user-facing message was already spoken.
func (r *run) handled(err error) {
	log.Warn("Command failed", "intent", r.res.Intent.Kind, "kind", fault.KindOf(err), "err", err)
	r.res.Err = err
}

func (r *run) playMusic(query string) error {
	action := r.d.cfg.Catalog.Resolve(query)
	log.Debug("Resolved song", "query", query, "tier", action.Tier, "url", action.URL)

	if action.Kind != music.AskWhich {
		r.open(action.URL)
	}
	r.say(action.Utterance())
	return nil
}

func (r *run) fetchNews() error {
	if r.d.cfg.News == nil {
		err := fault.New(fault.ConfigurationMissing, "dispatch.news", news.ErrNotConfigured)
		r.handled(err)
		r.say(msgNewsNotConfig)
		return nil
	}

	headlines, err := r.d.cfg.News.Headlines(r.ctx)
	if err != nil {
		var status *news.StatusError
		switch {
		case fault.Is(err, fault.ConfigurationMissing):
			r.say(msgNewsNotConfig)
		case errors.As(err, &status):
			r.say(fmt.Sprintf("Failed to fetch news: HTTP %d.", status.Code))
		case fault.Is(err, fault.Upstream):
			r.say(msgNewsError)
		default:
			return err
		}
		r.handled(err)
		return nil
	}

	if len(headlines) == 0 {
		r.say(msgNewsEmpty)
		return nil
	}

	r.say(msgNewsHeadlines)
	for i, h := range headlines {
		if i > 0 && !r.pause(r.d.cfg.HeadlinePause) {
			return nil
		}
		r.say(h)
	}
	return nil
}

func (r *run) pause(d time.Duration) bool {
	if d <= 0 {
		return r.ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-r.ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *run) askAI(query string) error {
	r.say(msgLetMeCheck)

	if r.d.cfg.AI == nil {
		r.handled(fault.New(fault.ConfigurationMissing, "dispatch.ai", errors.New("no ai client")))
		r.say(msgAINotConfig)
		return nil
	}

	reply, err := r.d.cfg.AI.Respond(r.ctx, query)
	if err != nil {
		switch fault.KindOf(err) {
		case fault.ConfigurationMissing:
			r.say(msgAINotConfig)
		case fault.Upstream:
			r.say(msgAIUnreachable)
		default:
			return err
		}
		r.handled(err)
		return nil
	}

	r.say(reply)
	return nil
}
