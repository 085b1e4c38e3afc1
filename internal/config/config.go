package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is built once at startup and handed to constructors.
type Config struct {
	OpenAI   OpenAIConfig
	News     NewsConfig
	Listener ListenerConfig
	Whisper  WhisperConfig
	TTS      TTSConfig
	Music    MusicConfig
	Control  ControlConfig
}

type OpenAIConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
}

type NewsConfig struct {
	APIKey  string
	BaseURL string
	Country string
	Limit   int
	Timeout time.Duration
	// Pause separates spoken headlines; negative disables it.
	Pause time.Duration
}

type ListenerConfig struct {
	WakeWord string
	Proxy    string
	DumpDir  string
	// Chime is an mp3 played before the acknowledgement. Empty disables it.
	Chime string
}

type WhisperConfig struct {
	ModelPath string
	Language  string
	Threads   int
}

type TTSConfig struct {
	Lang        string
	URL         string
	EspeakVoice string
	EspeakRate  int
}

type MusicConfig struct {
	Path string
}

type ControlConfig struct {
	SocketPath string
	BusURL     string
}

// Load resolves configuration from environment variables and defaults.
func Load() Config {
	cfg := Config{
		OpenAI: OpenAIConfig{
			APIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			Model:     envOrDefault("OPENAI_MODEL", "gpt-5"),
			MaxTokens: envOrDefaultInt("OPENAI_MAX_TOKENS", 250),
		},
		News: NewsConfig{
			APIKey:  strings.TrimSpace(os.Getenv("NEWS_API_KEY")),
			BaseURL: envOrDefault("NEWS_API_BASE", "https://newsapi.org/v2"),
			Country: envOrDefault("NEWS_COUNTRY", "in"),
			Limit:   envOrDefaultInt("NEWS_LIMIT", 5),
			Timeout: 8 * time.Second,
			Pause:   time.Duration(envOrDefaultInt("NEWS_PAUSE_MS", 200)) * time.Millisecond,
		},
		Listener: ListenerConfig{
			WakeWord: envOrDefault("JARVIS_WAKE_WORD", "jarvis"),
			Proxy:    strings.TrimSpace(os.Getenv("JARVIS_SOCKS_PROXY")),
			DumpDir:  strings.TrimSpace(os.Getenv("JARVIS_DUMP_DIR")),
			Chime:    strings.TrimSpace(os.Getenv("JARVIS_CHIME")),
		},
		Whisper: WhisperConfig{
			ModelPath: envOrDefault("WHISPER_MODEL", "models/ggml-base.en.bin"),
			Language:  envOrDefault("WHISPER_LANGUAGE", "en"),
			Threads:   envOrDefaultInt("WHISPER_THREADS", 0),
		},
		TTS: TTSConfig{
			Lang:        envOrDefault("JARVIS_TTS_LANG", "en"),
			URL:         envOrDefault("JARVIS_TTS_URL", "https://translate.google.com/translate_tts"),
			EspeakVoice: envOrDefault("JARVIS_ESPEAK_VOICE", "en"),
			EspeakRate:  envOrDefaultInt("JARVIS_ESPEAK_RATE", 175),
		},
		Music: MusicConfig{
			Path: strings.TrimSpace(os.Getenv("JARVIS_MUSIC_FILE")),
		},
		Control: ControlConfig{
			SocketPath: envOrDefault("JARVIS_SOCKET", "/tmp/jarvis.sock"),
			BusURL:     strings.TrimSpace(os.Getenv("JARVIS_BUS_URL")),
		},
	}

	if cfg.OpenAI.MaxTokens <= 0 {
		cfg.OpenAI.MaxTokens = 250
	}
	if cfg.News.Limit <= 0 {
		cfg.News.Limit = 5
	}
	if cfg.Whisper.Threads < 0 {
		cfg.Whisper.Threads = 0
	}
	cfg.Listener.WakeWord = strings.ToLower(cfg.Listener.WakeWord)

	return cfg
}

func envOrDefault(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrDefaultInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
