package ipc

import (
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
	"time"
)

const DefaultSocketPath = "/tmp/jarvis.sock"

const (
	CmdTrigger = "trigger"
	CmdCommand = "command"
)

// ControlMessage is the single JSON object sent per connection.
type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

func (m ControlMessage) Validate() error {
	switch m.Cmd {
	case CmdTrigger:
		return nil
	case CmdCommand:
		if m.Text == "" {
			return errors.New("command without text")
		}
		return nil
	default:
		return fmt.Errorf("unknown cmd %q", m.Cmd)
	}
}

type Server struct {
	path string
	ln   net.Listener
	done chan struct{}
}

// StartServer listens on the unix socket at path and calls handler for each
// valid message. A stale socket file is removed first.
func StartServer(path string, handler func(ControlMessage)) (*Server, error) {
	if path == "" {
		path = DefaultSocketPath
	}
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}

	s := &Server{path: path, ln: ln, done: make(chan struct{})}
	go s.serve(handler)
	return s, nil
}

func (s *Server) serve(handler func(ControlMessage)) {
	defer close(s.done)
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Warn("IPC accept failed", "err", err)
			continue
		}
		go handleConn(conn, handler)
	}
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		log.Warn("IPC decode failed", "err", err)
		return
	}
	if err := msg.Validate(); err != nil {
		log.Warn("IPC message rejected", "err", err)
		return
	}
	handler(msg)
}

func (s *Server) Close() error {
	err := s.ln.Close()
	<-s.done
	_ = os.Remove(s.path)
	return err
}

func Send(path string, msg ControlMessage) error {
	if path == "" {
		path = DefaultSocketPath
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return fmt.Errorf("dial %s: %w", path, err)
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(msg)
}
