package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"github.com/lmittmann/tint"
	log "log/slog"

	"jarvis/internal/ai"
	"jarvis/internal/audio"
	"jarvis/internal/browser"
	"jarvis/internal/bus"
	"jarvis/internal/config"
	"jarvis/internal/dispatch"
	"jarvis/internal/ipc"
	"jarvis/internal/listener"
	"jarvis/internal/music"
	"jarvis/internal/news"
	"jarvis/internal/proxy"
	"jarvis/internal/speech"
	"jarvis/internal/tts"
	"jarvis/internal/tts/espeak"
	"jarvis/pkg/stt"
)

var logLevelMap = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	proxyAddr := cli.StringP("proxy", "p", "", "Socks proxy address (empty = direct)")
	model := cli.StringP("model", "m", "", "Whisper model path")
	musicFile := cli.String("music", "", "Music catalog YAML file")
	wakeWord := cli.StringP("wake-word", "w", "", "Wake word")
	socket := cli.String("socket", "", "Control socket path")
	busURL := cli.String("bus", "", "Websocket bus url for dispatch events")
	dumpDir := cli.String("dump-dir", "", "Directory to save captured phrases as WAV")
	replay := cli.StringSlice("replay", nil, "Audio files to use instead of the microphone")
	cli.Parse()

	log.SetDefault(log.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      logLevelMap[*logLevel],
		TimeFormat: time.TimeOnly,
	})))

	log.Info("Booting up")

	if err := godotenv.Load(*envFile); err != nil {
		log.Debug("No env file loaded", "path", *envFile, "err", err)
	}

	cfg := config.Load()
	overrideString(&cfg.Listener.Proxy, "proxy", *proxyAddr)
	overrideString(&cfg.Whisper.ModelPath, "model", *model)
	overrideString(&cfg.Music.Path, "music", *musicFile)
	overrideString(&cfg.Listener.WakeWord, "wake-word", *wakeWord)
	overrideString(&cfg.Control.SocketPath, "socket", *socket)
	overrideString(&cfg.Control.BusURL, "bus", *busURL)
	overrideString(&cfg.Listener.DumpDir, "dump-dir", *dumpDir)

	if cfg.OpenAI.APIKey == "" {
		log.Warn("OPENAI_API_KEY not set, AI answers disabled")
	}
	if cfg.News.APIKey == "" {
		log.Warn("NEWS_API_KEY not set, news disabled")
	}

	httpClient, err := proxy.NewClient(cfg.Listener.Proxy, proxy.DefaultTimeout)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.Listener.Proxy, "err", err)
		os.Exit(1)
	}
	// the AI call has no deadline
	aiHTTPClient, err := proxy.NewClient(cfg.Listener.Proxy, 0)
	if err != nil {
		log.Error("Failed to dial socks proxy", "proxy", cfg.Listener.Proxy, "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded http client", "proxy", cfg.Listener.Proxy)

	catalog, err := music.LoadFile(cfg.Music.Path)
	if err != nil {
		log.Error("Failed to load music catalog", "path", cfg.Music.Path, "err", err)
		os.Exit(1)
	}

	log.Debug("Loaded music catalog", "songs", catalog.Len())

	player := audio.NewPlayer()
	speaker := speech.NewSpeaker(
		tts.NewGoogle(tts.GoogleConfig{
			URL:    cfg.TTS.URL,
			Lang:   cfg.TTS.Lang,
			Client: httpClient,
		}, player),
		espeak.New(cfg.TTS.EspeakVoice, cfg.TTS.EspeakRate),
	)

	dispatcher := dispatch.New(dispatch.Config{
		Opener:  browser.New(),
		Speaker: speaker,
		News: news.NewClient(news.Config{
			APIKey:   cfg.News.APIKey,
			BaseURL:  cfg.News.BaseURL,
			Country:  cfg.News.Country,
			PageSize: cfg.News.Limit,
			Timeout:  cfg.News.Timeout,
			Client:   httpClient,
		}),
		AI: ai.NewClient(ai.Config{
			APIKey:    cfg.OpenAI.APIKey,
			Model:     cfg.OpenAI.Model,
			MaxTokens: int64(cfg.OpenAI.MaxTokens),
			Client:    aiHTTPClient,
		}),
		Catalog:       catalog,
		HeadlinePause: cfg.News.Pause,
	})

	var source audio.Source
	if len(*replay) > 0 {
		source = audio.NewReplay(*replay)
		log.Info("Replaying audio files", "count", len(*replay))
	} else {
		rec := audio.NewRecorder()
		if err := rec.Init(); err != nil {
			log.Error("Failed to init audio", "err", err)
			os.Exit(1)
		}
		defer rec.Close()
		source = rec
	}
	if cfg.Listener.DumpDir != "" {
		source = audio.Dumping{Source: source, Dir: cfg.Listener.DumpDir}
	}

	log.Debug("Loaded audio source")

	whisper, err := stt.NewTranscriber(cfg.Whisper.ModelPath, stt.Options{
		Language: cfg.Whisper.Language,
		Threads:  cfg.Whisper.Threads,
	})
	if err != nil {
		log.Error("Failed to init whisper", "model", cfg.Whisper.ModelPath, "err", err)
		os.Exit(1)
	}
	defer whisper.Close()

	log.Debug("Loaded whisper")

	lcfg := listener.Config{
		WakeWord:   cfg.Listener.WakeWord,
		Capturer:   source,
		Recognizer: whisper,
		Speaker:    speaker,
		Dispatcher: dispatcher,
	}
	if cfg.Listener.Chime != "" {
		lcfg.Chime = func(ctx context.Context) error {
			return player.PlayFile(ctx, cfg.Listener.Chime)
		}
	}
	if cfg.Control.BusURL != "" {
		pub := bus.NewPublisher(cfg.Control.BusURL, 5*time.Second)
		defer pub.Close()
		lcfg.OnDispatch = func(res dispatch.Result) {
			publish(pub, res)
		}
	}
	l := listener.New(lcfg)

	srv, err := ipc.StartServer(cfg.Control.SocketPath, func(msg ipc.ControlMessage) {
		l.Enqueue(listener.Request{Text: msg.Text})
	})
	if err != nil {
		log.Error("Failed ipc server", "socket", cfg.Control.SocketPath, "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	log.Info("Boot up - successful", "wake_word", cfg.Listener.WakeWord, "socket", cfg.Control.SocketPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := l.Run(ctx); err != nil {
		log.Error("Listener stopped", "err", err)
	}
	log.Info("Bye")
}

// overrideString replaces *dst with v when the named flag was set.
func overrideString(dst *string, flag, v string) {
	if cli.CommandLine.Changed(flag) {
		*dst = v
	}
}

func publish(pub *bus.Publisher, res dispatch.Result) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ev := bus.DispatchEvent(res.Command.Raw, res.Intent.Kind.String(), res.Opened, res.Spoken, res.Err)
	if err := pub.Publish(ctx, ev); err != nil {
		log.Warn("Failed to publish dispatch event", "err", err)
	}
}
