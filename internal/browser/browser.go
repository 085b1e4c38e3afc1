package browser

import (
	"fmt"
	"io"
	log "log/slog"

	"github.com/pkg/browser"
)

func init() {
	// xdg-open and friends chatter on the terminal; keep the console for logs.
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// Launcher opens URLs in the system's default web browser.
type Launcher struct{}

func New() Launcher { return Launcher{} }

func (Launcher) Open(url string) error {
	log.Debug("Opening browser", "url", url)
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
