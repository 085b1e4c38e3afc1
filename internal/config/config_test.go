package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_MAX_TOKENS",
		"NEWS_API_KEY", "NEWS_API_BASE", "NEWS_COUNTRY", "NEWS_LIMIT", "NEWS_PAUSE_MS",
		"JARVIS_WAKE_WORD", "JARVIS_SOCKS_PROXY", "JARVIS_DUMP_DIR", "JARVIS_CHIME",
		"WHISPER_MODEL", "WHISPER_LANGUAGE", "WHISPER_THREADS",
		"JARVIS_TTS_LANG", "JARVIS_TTS_URL", "JARVIS_ESPEAK_VOICE", "JARVIS_ESPEAK_RATE",
		"JARVIS_MUSIC_FILE", "JARVIS_SOCKET", "JARVIS_BUS_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.OpenAI.APIKey != "" || cfg.News.APIKey != "" {
		t.Fatalf("expected empty keys, got %+v", cfg)
	}
	if cfg.OpenAI.Model != "gpt-5" || cfg.OpenAI.MaxTokens != 250 {
		t.Fatalf("unexpected openai defaults %+v", cfg.OpenAI)
	}
	if cfg.News.Country != "in" || cfg.News.Limit != 5 || cfg.News.Timeout != 8*time.Second {
		t.Fatalf("unexpected news defaults %+v", cfg.News)
	}
	if cfg.News.Pause != 200*time.Millisecond {
		t.Fatalf("unexpected news pause %v", cfg.News.Pause)
	}
	if cfg.Listener.WakeWord != "jarvis" {
		t.Fatalf("unexpected wake word %q", cfg.Listener.WakeWord)
	}
	if cfg.Control.SocketPath != "/tmp/jarvis.sock" || cfg.Control.BusURL != "" {
		t.Fatalf("unexpected control defaults %+v", cfg.Control)
	}
}

func TestLoadRespectsOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("NEWS_API_KEY", "news-key")
	t.Setenv("NEWS_COUNTRY", "us")
	t.Setenv("NEWS_LIMIT", "3")
	t.Setenv("JARVIS_WAKE_WORD", "Friday")
	t.Setenv("JARVIS_MUSIC_FILE", "/etc/jarvis/music.yaml")
	t.Setenv("JARVIS_BUS_URL", "ws://localhost:8092")

	cfg := Load()
	if cfg.OpenAI.APIKey != "sk-test" {
		t.Fatalf("expected trimmed key, got %q", cfg.OpenAI.APIKey)
	}
	if cfg.News.APIKey != "news-key" || cfg.News.Country != "us" || cfg.News.Limit != 3 {
		t.Fatalf("unexpected news config %+v", cfg.News)
	}
	if cfg.Listener.WakeWord != "friday" {
		t.Fatalf("expected lower-cased wake word, got %q", cfg.Listener.WakeWord)
	}
	if cfg.Music.Path != "/etc/jarvis/music.yaml" || cfg.Control.BusURL != "ws://localhost:8092" {
		t.Fatalf("unexpected paths %+v %+v", cfg.Music, cfg.Control)
	}
}

func TestLoadFallsBackOnInvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWS_LIMIT", "many")
	t.Setenv("OPENAI_MAX_TOKENS", "-4")

	cfg := Load()
	if cfg.News.Limit != 5 {
		t.Fatalf("expected default limit, got %d", cfg.News.Limit)
	}
	if cfg.OpenAI.MaxTokens != 250 {
		t.Fatalf("expected default max tokens, got %d", cfg.OpenAI.MaxTokens)
	}
}

func TestLoadKeepsNegativeHeadlinePause(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWS_PAUSE_MS", "-1")

	if got := Load().News.Pause; got != -time.Millisecond {
		t.Fatalf("expected pause disabled (-1ms), got %v", got)
	}
}
