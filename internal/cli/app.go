package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/logging"
)

// CredentialStore is the part of credentials.Store the CLI uses.
type CredentialStore interface {
	Register(ctx context.Context, identifier string, password []byte) error
	Verify(ctx context.Context, identifier string, password []byte) (bool, error)
	Update(ctx context.Context, identifier string, newPassword []byte) error
	Remove(ctx context.Context, identifier string) error
}

type App struct {
	store  CredentialStore
	logger logging.Logger
	reader *bufio.Reader
	out    io.Writer
	// ttyFd is the descriptor passwords are read from without echo, or -1.
	ttyFd int
}

func NewApp(store CredentialStore, logger logging.Logger, in io.Reader, out io.Writer) *App {
	fd := -1
	if f, ok := in.(*os.File); ok {
		fd = int(f.Fd())
	}
	return &App{store: store, logger: logger.With("component", "cli"), reader: bufio.NewReader(in), out: out, ttyFd: fd}
}

// Run starts the prompt loop and returns when input ends or the user exits.
func (a *App) Run(ctx context.Context) {
	a.println("credkeeper. Type help for the list of commands.")
	runREPL(ctx, a, a.reader, a.out)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
