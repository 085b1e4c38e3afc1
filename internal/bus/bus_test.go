package bus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
)

func newBusServer(t *testing.T) (*httptest.Server, <-chan Event) {
	t.Helper()

	events := make(chan Event, 8)
	upgrader := ws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var ev Event
			if err := json.Unmarshal(msg, &ev); err != nil {
				t.Errorf("decode event: %v", err)
				return
			}
			events <- ev
		}
	}))
	return srv, events
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestPublishDispatchEvent(t *testing.T) {
	srv, events := newBusServer(t)
	defer srv.Close()

	p := NewPublisher(wsURL(srv), time.Second)
	defer p.Close()

	ev := DispatchEvent("open youtube", "open_site", []string{"https://youtube.com"}, []string{"Opening YouTube."}, nil)
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	select {
	case got := <-events:
		if got.From != Self || got.To != Broadcast || got.Kind != KindDispatch {
			t.Fatalf("unexpected envelope %+v", got)
		}
		if got.Content != "open youtube" || got.Intent != "open_site" {
			t.Fatalf("unexpected payload %+v", got)
		}
		if len(got.Opened) != 1 || got.Opened[0] != "https://youtube.com" {
			t.Fatalf("unexpected opened %v", got.Opened)
		}
		if got.Error != "" {
			t.Fatalf("unexpected error field %q", got.Error)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event not received")
	}
}

func TestDispatchEventCarriesError(t *testing.T) {
	ev := DispatchEvent("x", "ask_ai", nil, nil, errors.New("boom"))
	if ev.Error != "boom" {
		t.Fatalf("expected error text, got %q", ev.Error)
	}
}

func TestPublishUnreachable(t *testing.T) {
	srv, _ := newBusServer(t)
	url := wsURL(srv)
	srv.Close()

	p := NewPublisher(url, 200*time.Millisecond)
	if err := p.Publish(context.Background(), Event{Kind: KindDispatch}); err == nil {
		t.Fatalf("expected publish error for closed server")
	}
}
