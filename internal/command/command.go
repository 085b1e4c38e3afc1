package command

import "strings"

// Command is one recognized utterance.
type Command struct {
	Raw        string
	Normalized string
}

func New(raw string) Command {
	return Command{Raw: strings.TrimSpace(raw), Normalized: Normalize(raw)}
}

func (c Command) Empty() bool { return c.Normalized == "" }

// sentence punctuation the recognizer puts around words
const punct = ".,!?;:"

// Normalize lower-cases s, turns commas into spaces, collapses runs of
// whitespace and drops sentence punctuation at both ends.
func Normalize(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), ",", " ")
	return TrimPunct(strings.Join(strings.Fields(s), " "))
}

// TrimPunct removes whitespace and sentence punctuation at both ends of s.
// "Play despacito." -> "Play despacito".
func TrimPunct(s string) string {
	return strings.Trim(s, punct+" \t\r\n")
}

// HasWakeWord reports whether text contains the wake word, ignoring case.
func HasWakeWord(text, wake string) bool {
	wake = strings.ToLower(strings.TrimSpace(wake))
	if wake == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), wake)
}

// StripWakeWord removes one leading occurrence of the wake word and the
// punctuation after it. "Jarvis, play despacito" -> "play despacito".
func StripWakeWord(text, wake string) string {
	text = strings.TrimSpace(text)
	wake = strings.TrimSpace(wake)
	if wake == "" || len(text) < len(wake) {
		return text
	}
	if strings.EqualFold(text[:len(wake)], wake) {
		return strings.TrimLeft(text[len(wake):], punct+" \t\r\n")
	}
	return text
}
