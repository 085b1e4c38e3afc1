package tts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

const DefaultGoogleURL = "https://translate.google.com/translate_tts"

// MaxQueryLen is the longest text sent in one request; the endpoint refuses
// much longer queries.
const MaxQueryLen = 100

// Player plays an mp3 stream and blocks until it has finished.
type Player interface {
	PlayMP3(ctx context.Context, r io.ReadCloser) error
}

type GoogleConfig struct {
	URL    string
	Lang   string
	Client *http.Client
}

// Google synthesizes speech through the Google Translate TTS endpoint.
type Google struct {
	url    string
	lang   string
	client *http.Client
	player Player
}

func NewGoogle(cfg GoogleConfig, player Player) *Google {
	g := &Google{
		url:    cfg.URL,
		lang:   cfg.Lang,
		client: cfg.Client,
		player: player,
	}
	if g.url == "" {
		g.url = DefaultGoogleURL
	}
	if g.lang == "" {
		g.lang = "en"
	}
	if g.client == nil {
		g.client = http.DefaultClient
	}
	return g
}

func (g *Google) Name() string { return "gtts" }

func (g *Google) Say(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	for _, part := range splitWords(text, MaxQueryLen) {
		audio, err := g.fetch(ctx, part)
		if err != nil {
			return err
		}

		log.Debug("Playing synthesized chunk", "bytes", len(audio))
		if err := g.player.PlayMP3(ctx, io.NopCloser(bytes.NewReader(audio))); err != nil {
			return err
		}
	}
	return nil
}

// splitWords cuts text into pieces of at most max bytes on word boundaries.
// A single word longer than max is cut as is.
func splitWords(text string, max int) []string {
	var out []string
	var cur strings.Builder
	for _, w := range strings.Fields(text) {
		for len(w) > max {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			cut := max
			for cut > 0 && !utf8.RuneStart(w[cut]) {
				cut--
			}
			if cut == 0 {
				cut = max
			}
			out = append(out, w[:cut])
			w = w[cut:]
		}
		if cur.Len() > 0 && cur.Len()+1+len(w) > max {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func (g *Google) fetch(ctx context.Context, text string) ([]byte, error) {
	q := url.Values{}
	q.Set("ie", "UTF-8")
	q.Set("client", "tw-ob")
	q.Set("tl", g.lang)
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts request: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts audio: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("tts request: empty audio")
	}
	return body, nil
}
