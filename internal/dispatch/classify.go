package dispatch

import (
	"strings"

	"jarvis/internal/command"
)

type Kind int

const (
	None Kind = iota
	OpenSite
	PlayMusic
	FetchNews
	AskAI
)

func (k Kind) String() string {
	switch k {
	case OpenSite:
		return "open_site"
	case PlayMusic:
		return "play_music"
	case FetchNews:
		return "fetch_news"
	case AskAI:
		return "ask_ai"
	default:
		return "none"
	}
}

// Intent is the single action derived from a command.
type Intent struct {
	Kind Kind
	// Site is set for OpenSite.
	Site Site
	// Query is the raw command text for PlayMusic and AskAI.
	Query string
}

type Site struct {
	Phrase string
	URL    string
	Name   string
}

// Sites are matched in order; the first phrase contained in the command wins.
var Sites = []Site{
	{Phrase: "open google", URL: "https://google.com", Name: "Google"},
	{Phrase: "open facebook", URL: "https://facebook.com", Name: "Facebook"},
	{Phrase: "open youtube", URL: "https://youtube.com", Name: "YouTube"},
	{Phrase: "open linkedin", URL: "https://linkedin.com", Name: "LinkedIn"},
}

func Classify(cmd command.Command) Intent {
	text := cmd.Normalized
	if text == "" {
		return Intent{Kind: None}
	}

	for _, s := range Sites {
		if strings.Contains(text, s.Phrase) {
			return Intent{Kind: OpenSite, Site: s}
		}
	}

	switch {
	case strings.HasPrefix(text, "play"):
		return Intent{Kind: PlayMusic, Query: cmd.Raw}
	case strings.Contains(text, "news"):
		return Intent{Kind: FetchNews}
	default:
		return Intent{Kind: AskAI, Query: cmd.Raw}
	}
}
