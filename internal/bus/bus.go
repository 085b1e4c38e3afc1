package bus

import (
	"context"
	"encoding/json"
	"fmt"
	log "log/slog"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"
)

const (
	Self      = "jarvis"
	Broadcast = "*"

	KindDispatch = "dispatch"
)

// Event is one JSON text frame on the bus.
type Event struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Kind    string   `json:"kind"`
	Content string   `json:"content"`
	Intent  string   `json:"intent,omitempty"`
	Opened  []string `json:"opened,omitempty"`
	Spoken  []string `json:"spoken,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// DispatchEvent describes a handled command as a broadcast from jarvis.
func DispatchEvent(content, intent string, opened, spoken []string, err error) Event {
	ev := Event{
		From:    Self,
		To:      Broadcast,
		Kind:    KindDispatch,
		Content: content,
		Intent:  intent,
		Opened:  opened,
		Spoken:  spoken,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	return ev
}

// Publisher writes events to a websocket endpoint. The connection is dialed
// lazily and redialed once when a write fails.
type Publisher struct {
	url     string
	timeout time.Duration
	dialer  *ws.Dialer

	mu   sync.Mutex
	conn *ws.Conn
}

func NewPublisher(url string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Publisher{
		url:     url,
		timeout: timeout,
		dialer:  &ws.Dialer{HandshakeTimeout: timeout},
	}
}

func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.write(ctx, payload)
	if err == nil {
		return nil
	}

	log.Debug("Bus write failed, redialing", "url", p.url, "err", err)
	p.drop()
	if err := p.write(ctx, payload); err != nil {
		p.drop()
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *Publisher) write(ctx context.Context, payload []byte) error {
	if p.conn == nil {
		conn, _, err := p.dialer.DialContext(ctx, p.url, nil)
		if err != nil {
			return fmt.Errorf("dial %s: %w", p.url, err)
		}
		log.Info("Connected to bus", "url", p.url)
		p.conn = conn
	}

	_ = p.conn.SetWriteDeadline(time.Now().Add(p.timeout))
	return p.conn.WriteMessage(ws.TextMessage, payload)
}

func (p *Publisher) drop() {
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	msg := ws.FormatCloseMessage(ws.CloseNormalClosure, "")
	_ = p.conn.WriteControl(ws.CloseMessage, msg, time.Now().Add(time.Second))
	err := p.conn.Close()
	p.conn = nil
	return err
}

// IsClosed reports whether err is an orderly or abnormal close of the peer.
func IsClosed(err error) bool {
	return ws.IsCloseError(err,
		ws.CloseNormalClosure,
		ws.CloseGoingAway,
		ws.CloseAbnormalClosure)
}
