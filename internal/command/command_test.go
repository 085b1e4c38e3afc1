package command

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"Despacito",
		"  Shape   of\tYou \n",
		"ALREADY normal",
		"play  Bohemian\t\tRhapsody",
		"ünïcode   Straße",
		"Play despacito.",
		" , hello , world !",
		"...",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("normalize not idempotent for %q: %q != %q", in, twice, once)
		}
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  Shape   of\tYou \n"); got != "shape of you" {
		t.Fatalf("unexpected normalized form %q", got)
	}
}

func TestNormalizeDropsSentencePunctuation(t *testing.T) {
	cases := map[string]string{
		"Play despacito.":          "play despacito",
		"Open YouTube, please!":    "open youtube please",
		"What's the news?":         "what's the news",
		"...":                      "",
		"shape of you":             "shape of you",
		"Jarvis, open google now.": "jarvis open google now",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Fatalf("normalize %q: got %q want %q", in, got, want)
		}
	}
}

func TestNewCommand(t *testing.T) {
	c := New("  Open   YouTube please ")
	if c.Raw != "Open   YouTube please" {
		t.Fatalf("unexpected raw %q", c.Raw)
	}
	if c.Normalized != "open youtube please" {
		t.Fatalf("unexpected normalized %q", c.Normalized)
	}
	if New(" \t ").Empty() != true {
		t.Fatalf("expected whitespace command to be empty")
	}
}

func TestHasWakeWord(t *testing.T) {
	if !HasWakeWord("hey jarvis", "jarvis") {
		t.Fatalf("expected wake word match")
	}
	if !HasWakeWord("Hey JARVIS!", "Jarvis") {
		t.Fatalf("expected case-insensitive match")
	}
	if HasWakeWord("hello there", "jarvis") {
		t.Fatalf("unexpected wake word match")
	}
	if HasWakeWord("anything", "  ") {
		t.Fatalf("empty wake word must never match")
	}
}

func TestStripWakeWord(t *testing.T) {
	cases := map[string]string{
		"Jarvis play despacito":   "play despacito",
		"Jarvis, play despacito.": "play despacito.",
		"Jarvis. Open YouTube.":   "Open YouTube.",
		"jarvis":                  "",
		"Jarvis.":                 "",
		"play despacito":          "play despacito",
		"hey jarvis open google":  "hey jarvis open google",
		"jar":                     "jar",
	}
	for in, want := range cases {
		if got := StripWakeWord(in, "jarvis"); got != want {
			t.Fatalf("strip %q: got %q want %q", in, got, want)
		}
	}
}
