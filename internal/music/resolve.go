package music

import (
	"fmt"
	"net/url"
	"strings"

	"jarvis/internal/command"
)

const searchURL = "https://www.youtube.com/results?search_query="

type ActionKind int

const (
	AskWhich ActionKind = iota
	OpenDirect
	PlayCatalog
	SearchWeb
)

type Tier int

const (
	NoMatch Tier = iota
	Exact
	Contains
	Prefix
)

func (t Tier) String() string {
	switch t {
	case Exact:
		return "exact"
	case Contains:
		return "contains"
	case Prefix:
		return "prefix"
	default:
		return "none"
	}
}

// Action is what the assistant should do for a play request.
type Action struct {
	Kind  ActionKind
	URL   string
	Label string
	Tier  Tier
}

// Utterance is the sentence spoken for the action.
func (a Action) Utterance() string {
	switch a.Kind {
	case AskWhich:
		return "Which song should I play?"
	case OpenDirect:
		return "Playing from URL."
	case PlayCatalog:
		return fmt.Sprintf("Playing %s.", a.Label)
	default:
		return fmt.Sprintf("Couldn't find the exact song locally. Searching YouTube for %s.", a.Label)
	}
}

// Remainder lower-cases a play command, removes the first "play" from it and
// drops sentence punctuation around what is left.
func Remainder(commandText string) string {
	return command.TrimPunct(strings.Replace(strings.ToLower(commandText), "play", "", 1))
}

// Resolve turns a play command into an Action. Matching runs exact, then
// substring, then prefix against the catalog, and falls back to a web search.
func (c *Catalog) Resolve(commandText string) Action {
	rest := Remainder(commandText)
	if rest == "" {
		return Action{Kind: AskWhich}
	}
	if strings.HasPrefix(rest, "http://") || strings.HasPrefix(rest, "https://") {
		return Action{Kind: OpenDirect, URL: rest}
	}

	key := command.Normalize(rest)
	if u, ok := c.Get(key); ok {
		return Action{Kind: PlayCatalog, URL: u, Label: rest, Tier: Exact}
	}
	if e, ok := c.find(key, strings.Contains); ok {
		return Action{Kind: PlayCatalog, URL: e.URL, Label: e.Name, Tier: Contains}
	}
	if e, ok := c.find(key, strings.HasPrefix); ok {
		return Action{Kind: PlayCatalog, URL: e.URL, Label: e.Name, Tier: Prefix}
	}

	return Action{Kind: SearchWeb, URL: SearchURL(rest), Label: rest}
}

func (c *Catalog) find(key string, match func(name, key string) bool) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	for _, e := range c.entries {
		if match(e.Name, key) {
			return e, true
		}
	}
	return Entry{}, false
}

func SearchURL(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = url.QueryEscape(w)
	}
	return searchURL + strings.Join(words, "+")
}
