package ipc

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSendAndReceive(t *testing.T) {
	// unix socket paths are length limited; keep it short.
	dir, err := os.MkdirTemp("", "jv")
	if err != nil {
		t.Fatalf("tempdir: %v", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "s.sock")

	got := make(chan ControlMessage, 2)
	srv, err := StartServer(path, func(m ControlMessage) { got <- m })
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Close()

	if err := Send(path, ControlMessage{Cmd: CmdCommand, Text: "open google"}); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case m := <-got:
		if m.Cmd != CmdCommand || m.Text != "open google" {
			t.Fatalf("unexpected message %+v", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("message not delivered")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		msg ControlMessage
		ok  bool
	}{
		{ControlMessage{Cmd: CmdTrigger}, true},
		{ControlMessage{Cmd: CmdCommand, Text: "news"}, true},
		{ControlMessage{Cmd: CmdCommand}, false},
		{ControlMessage{Cmd: "reboot"}, false},
	}
	for _, c := range cases {
		if err := c.msg.Validate(); (err == nil) != c.ok {
			t.Fatalf("validate %+v: got err=%v", c.msg, err)
		}
	}
}

func TestSendWithoutServer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.sock")
	if err := Send(path, ControlMessage{Cmd: CmdTrigger}); err == nil {
		t.Fatalf("expected dial error")
	}
}

func TestCloseRemovesSocket(t *testing.T) {
	dir, err := os.MkdirTemp("", "jv")
	if err != nil {
		t.Fatalf("tempdir: %v", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "s.sock")

	srv, err := StartServer(path, func(ControlMessage) {})
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	_ = srv.Close()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected socket removed, stat err=%v", err)
	}
}
