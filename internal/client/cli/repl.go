package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	hasUser() bool
	User(ctx context.Context, name string) error
	Create(ctx context.Context) error
	Join(ctx context.Context, code string) error
	Send(ctx context.Context, path string) error
	Poll(ctx context.Context) error
	Watch(ctx context.Context) error
	StopWatch(ctx context.Context) error
	Latest(ctx context.Context) error
	Confirm(ctx context.Context) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the handshare CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Before an identity exists:
//	  - help           — show available commands
//	  - user <name>    — create an identity
//	  - exit | quit    — leave the program
//
//	With an identity:
//	  - create         — open a session and print its share code
//	  - join <code>    — pair into a partner's session
//	  - send <path>    — upload a .glb file into the session
//	  - poll           — run one poll round by hand
//	  - watch          — start the background poll loop
//	  - stop           — stop the background poll loop
//	  - latest         — fetch the newest model of the session
//	  - confirm        — acknowledge the received model
//	  - status         — print the current view state
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("hs> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.hasUser() {
				printlnFn("Available commands: create, join <code>, send <path>, poll, watch, stop, latest, confirm, status, exit")
			} else {
				printlnFn("Available commands: user <name>, exit")
			}

		case "user":
			_ = a.User(ctx, strings.Join(args, " "))

		case "create":
			_ = a.Create(ctx)

		case "join":
			if len(args) != 1 {
				printlnFn("Usage: join <code>")
				continue
			}
			_ = a.Join(ctx, args[0])

		case "send":
			if len(args) != 1 {
				printlnFn("Usage: send <path-to-glb>")
				continue
			}
			_ = a.Send(ctx, args[0])

		case "poll":
			_ = a.Poll(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "stop":
			_ = a.StopWatch(ctx)

		case "latest":
			_ = a.Latest(ctx)

		case "confirm":
			_ = a.Confirm(ctx)

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
