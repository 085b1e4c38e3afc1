package tts

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

type fakePlayer struct {
	played [][]byte
	err    error
}

func (p *fakePlayer) PlayMP3(_ context.Context, r io.ReadCloser) error {
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	p.played = append(p.played, b)
	return p.err
}

func TestGoogleSayFetchesAndPlays(t *testing.T) {
	var gotQuery, gotLang, gotClient string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotLang = r.URL.Query().Get("tl")
		gotClient = r.URL.Query().Get("client")
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3-fake-mp3"))
	}))
	defer srv.Close()

	player := &fakePlayer{}
	g := NewGoogle(GoogleConfig{URL: srv.URL, Lang: "en"}, player)

	if err := g.Say(context.Background(), "Opening YouTube."); err != nil {
		t.Fatalf("say failed: %v", err)
	}
	if gotQuery != "Opening YouTube." || gotLang != "en" || gotClient != "tw-ob" {
		t.Fatalf("unexpected query q=%q tl=%q client=%q", gotQuery, gotLang, gotClient)
	}
	if len(player.played) != 1 || string(player.played[0]) != "ID3-fake-mp3" {
		t.Fatalf("unexpected playback %q", player.played)
	}
}

func TestGoogleSayHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	player := &fakePlayer{}
	g := NewGoogle(GoogleConfig{URL: srv.URL}, player)

	if err := g.Say(context.Background(), "Hello."); err == nil {
		t.Fatalf("expected error on HTTP 429")
	}
	if len(player.played) != 0 {
		t.Fatalf("nothing should be played on error")
	}
}

func TestGoogleSayPlaybackError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	want := errors.New("no audio device")
	g := NewGoogle(GoogleConfig{URL: srv.URL}, &fakePlayer{err: want})

	if err := g.Say(context.Background(), "Hello."); !errors.Is(err, want) {
		t.Fatalf("expected playback error, got %v", err)
	}
}

func TestGoogleSayBlankIsNoop(t *testing.T) {
	player := &fakePlayer{}
	g := NewGoogle(GoogleConfig{URL: "http://127.0.0.1:0"}, player)
	if err := g.Say(context.Background(), "   "); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestGoogleSaySplitsLongText(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.Query().Get("q"))
		_, _ = w.Write([]byte("mp3"))
	}))
	defer srv.Close()

	text := strings.TrimSpace(strings.Repeat("the quick brown fox jumps over the lazy dog ", 6))
	player := &fakePlayer{}
	g := NewGoogle(GoogleConfig{URL: srv.URL}, player)

	if err := g.Say(context.Background(), text); err != nil {
		t.Fatalf("say failed: %v", err)
	}
	if len(queries) < 3 {
		t.Fatalf("expected the text split into several requests, got %d", len(queries))
	}
	for _, q := range queries {
		if len(q) > MaxQueryLen {
			t.Fatalf("query of %d bytes exceeds limit: %q", len(q), q)
		}
	}
	if got := strings.Join(queries, " "); got != text {
		t.Fatalf("pieces do not rebuild the text:\n%q\n%q", got, text)
	}
	if len(player.played) != len(queries) {
		t.Fatalf("expected one playback per piece, got %d", len(player.played))
	}
}

func TestSplitWords(t *testing.T) {
	if got := splitWords("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Fatalf("unexpected split %q", got)
	}

	long := strings.Repeat("é", 80) // 160 bytes, one word
	parts := splitWords("a "+long, 100)
	if len(parts) != 3 || parts[0] != "a" {
		t.Fatalf("unexpected split %q", parts)
	}
	for _, p := range parts {
		if len(p) > 100 || !utf8.ValidString(p) {
			t.Fatalf("bad piece %q", p)
		}
	}
	if parts[1]+parts[2] != long {
		t.Fatalf("long word not preserved")
	}
}
