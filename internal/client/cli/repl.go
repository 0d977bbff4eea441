package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(a ...any) { fmt.Println(a...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Dispatch(ctx context.Context) error
	Delete(ctx context.Context) error
	Sync(ctx context.Context) error
	Suggest(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues;
// a failed command never takes the client down.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sareebook (%s) > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		var err error
		switch cmd := parts[0]; cmd {
		case "help":
			printlnFn("Available commands: (l)ist, show, add, edit, dispatch, delete, sync, suggest, exit")

		case "l", "list":
			err = a.List(ctx)

		case "show":
			err = a.Show(ctx)

		case "add":
			err = a.Add(ctx)

		case "edit":
			err = a.Edit(ctx)

		case "dispatch":
			err = a.Dispatch(ctx)

		case "delete":
			err = a.Delete(ctx)

		case "sync":
			err = a.Sync(ctx)

		case "suggest":
			err = a.Suggest(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
