package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"jarvis/internal/breaker"
	"jarvis/internal/fault"
)

const DefaultBaseURL = "https://newsapi.org/v2"

var ErrNotConfigured = errors.New("news api key not configured")

// StatusError is a non-200 answer from the headline service.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string { return fmt.Sprintf("news api: HTTP %d", e.Code) }

type Config struct {
	APIKey   string
	BaseURL  string
	Country  string
	PageSize int
	Timeout  time.Duration
	Client   *http.Client
}

type Client struct {
	cfg     Config
	breaker *breaker.Breaker
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = "in"
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 8 * time.Second
	}
	if cfg.Client == nil {
		cfg.Client = http.DefaultClient
	}
	return &Client{
		cfg:     cfg,
		breaker: breaker.New(breaker.Settings{Name: "news", Ignore: isCanceled}),
	}
}

type response struct {
	Status   string    `json:"status"`
	Message  string    `json:"message"`
	Articles []article `json:"articles"`
}

type article struct {
	Title string `json:"title"`
}

// Headlines returns up to PageSize top headline titles. It never calls the
// service when no API key is configured.
func (c *Client) Headlines(ctx context.Context) ([]string, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fault.New(fault.ConfigurationMissing, "news.headlines", ErrNotConfigured)
	}

	titles, err := breaker.Do(ctx, c.breaker, c.fetch)
	if err != nil {
		return nil, fault.New(fault.Upstream, "news.headlines", err)
	}
	return titles, nil
}

func (c *Client) fetch(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("country", c.cfg.Country)
	q.Set("pageSize", strconv.Itoa(c.cfg.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.cfg.APIKey)

	resp, err := c.cfg.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Warn("News API error", "status", resp.StatusCode, "body", string(body))
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	titles := make([]string, 0, len(out.Articles))
	for _, a := range out.Articles {
		if len(titles) == c.cfg.PageSize {
			break
		}
		title := strings.TrimSpace(a.Title)
		if title == "" {
			title = "Untitled"
		}
		titles = append(titles, title)
	}
	return titles, nil
}

func isCanceled(err error) bool { return errors.Is(err, context.Canceled) }
