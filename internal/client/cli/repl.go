package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errQuit is returned by the exit command to stop the loop.
var errQuit = errors.New("quit")

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Help() []string
	Dispatch(ctx context.Context, cmd string, args []string) error
}

// runREPL starts a simple read–eval–print loop.
//
// Each line is split into fields; the first is the command and the rest its
// arguments. Commands are dispatched through a.Dispatch, which applies the
// route guard before running anything. Errors are printed and the loop
// continues. The loop exits on end of input or "exit"/"quit".
//
// The REPL reads from the same reader as the interactive prompts so no input
// is lost to a second buffer.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("dd %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd, args := parts[0], parts[1:]
		if cmd == "help" {
			for _, l := range a.Help() {
				printlnFn(l)
			}
			continue
		}

		if err := a.Dispatch(ctx, cmd, args); err != nil {
			if errors.Is(err, errQuit) {
				printlnFn("Bye!")
				return
			}
			printlnFn("error:", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}
