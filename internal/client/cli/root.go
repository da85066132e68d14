package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// stdout is a test seam for user-facing output.
var stdout io.Writer = os.Stdout

// printlnFn is a test seam for the command loop's own messages.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the loop needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	Step(ctx context.Context, n int) error
	Next(ctx context.Context) error
	Back(ctx context.Context) error
	Review(ctx context.Context) error
	Submit(ctx context.Context) error
	Plan(ctx context.Context) error
	Restart(ctx context.Context) error
}

// runLoop reads a command per line and dispatches to methods on 'a'. Unknown
// commands are reported back to the user. The loop exits on EOF or when the
// user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the loop resilient and focused on I/O.
func runLoop(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sf> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: step <1-6>, next, back, review, submit, plan, restart, resetpw, logout, exit")
			} else {
				printlnFn("Available commands: login, step <1-6>, next, back, review, restart, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "resetpw":
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				continue
			}
			_ = a.ResetPassword(ctx)

		case "step":
			if len(parts) < 2 {
				printlnFn("Usage: step <1-6>")
				continue
			}
			n, err := strconv.Atoi(parts[1])
			if err != nil || n < 1 || n > 6 {
				printlnFn("Usage: step <1-6>")
				continue
			}
			_ = a.Step(ctx, n)

		case "next":
			_ = a.Next(ctx)

		case "back":
			_ = a.Back(ctx)

		case "review":
			_ = a.Review(ctx)

		case "submit":
			if !a.isLoggedIn() {
				printlnFn("Please log in before submitting.")
				continue
			}
			_ = a.Submit(ctx)

		case "plan":
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				continue
			}
			_ = a.Plan(ctx)

		case "restart":
			_ = a.Restart(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

// root runs the command loop over stdin until the user exits.
func (a *App) root(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runLoop(ctx, a, a.status, scanner)
}

// status renders the prompt segment: who is logged in and how far along the
// assessment is.
func (a *App) status() string {
	who := "anonymous"
	if s := a.authEngine.Session(); s != nil && a.isLoggedIn() {
		who = s.PhoneNumber
	}
	return fmt.Sprintf("%s | step %d/6", who, a.formEngine.CurrentStep())
}
