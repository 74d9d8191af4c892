package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Register(ctx context.Context) error
	Verify(ctx context.Context) error
	Update(ctx context.Context) error
	Remove(ctx context.Context) error
}

const helpText = "Available commands: register, verify (login), update (passwd), remove, help, exit"

// runREPL reads a command per line from reader and dispatches it to a.
// Commands:
//
//	register         store a new username/password
//	verify | login   check a username/password
//	update | passwd  change the password of a username
//	remove           delete a username
//	help             show available commands
//	exit | quit      leave the program
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages. The loop ends on EOF, "exit" or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprint(w, "credkeeper> ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)

		case "register":
			_ = a.Register(ctx)

		case "verify", "login":
			_ = a.Verify(ctx)

		case "update", "passwd":
			_ = a.Update(ctx)

		case "remove":
			_ = a.Remove(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
