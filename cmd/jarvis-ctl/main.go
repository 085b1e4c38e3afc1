package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"jarvis/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: jarvis-ctl [--socket path] [command text...]\n\n")
		fmt.Fprintf(os.Stderr, "Without text the assistant skips the wake word and listens for a command.\n\n")
		cli.PrintDefaults()
	}
	cli.Parse()

	msg := ipc.ControlMessage{Cmd: ipc.CmdTrigger}
	if text := strings.TrimSpace(strings.Join(cli.Args(), " ")); text != "" {
		msg = ipc.ControlMessage{Cmd: ipc.CmdCommand, Text: text}
	}

	if err := ipc.Send(*socket, msg); err != nil {
		fmt.Println("jarvis not running:", err)
		os.Exit(1)
	}
}
