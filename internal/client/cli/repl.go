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
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Collect(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Status(ctx context.Context) error
	Delete(ctx context.Context) error
	Clear(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the HerbLock CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate (online, offline fallback)
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - collect        — record a new collection event
//	  - list [filter]  — show history (all | pending | synced)
//	  - sync           — push pending events to the ledger
//	  - status         — show sync counters
//	  - delete         — delete one event by id
//	  - clear          — wipe the local history
//	  - logout         — log out and wipe cached credentials
//	  - exit | quit    — leave the program
//
// Commands from the logged-in set are refused with a prompt to login first
// while nobody is logged in.
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("herb> %s > ", statusFn()))
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
		case "c", "collect", "l", "list", "sync", "status", "delete", "clear", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (c)ollect, (l)ist [all|pending|synced], sync, status, delete, clear, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "c", "collect":
			_ = a.Collect(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "status":
			_ = a.Status(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "clear":
			_ = a.Clear(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
