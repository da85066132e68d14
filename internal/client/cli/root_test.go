package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	steps []int
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) ResetPassword(ctx context.Context) error {
	f.calls = append(f.calls, "resetpw")
	return nil
}
func (f *fakeExec) Step(ctx context.Context, n int) error {
	f.calls = append(f.calls, "step")
	f.steps = append(f.steps, n)
	return nil
}
func (f *fakeExec) Next(ctx context.Context) error { f.calls = append(f.calls, "next"); return nil }
func (f *fakeExec) Back(ctx context.Context) error { f.calls = append(f.calls, "back"); return nil }
func (f *fakeExec) Review(ctx context.Context) error {
	f.calls = append(f.calls, "review")
	return nil
}
func (f *fakeExec) Submit(ctx context.Context) error {
	f.calls = append(f.calls, "submit")
	return nil
}
func (f *fakeExec) Plan(ctx context.Context) error { f.calls = append(f.calls, "plan"); return nil }
func (f *fakeExec) Restart(ctx context.Context) error {
	f.calls = append(f.calls, "restart")
	return nil
}

func runScripted(exec *fakeExec, lines ...string) []string {
	origPrint := printlnFn
	var out []string
	printlnFn = func(args ...any) (int, error) {
		out = append(out, fmt.Sprintln(args...))
		return 0, nil
	}
	defer func() { printlnFn = origPrint }()

	sc := bufio.NewScanner(strings.NewReader(strings.Join(lines, "\n")))
	runLoop(context.Background(), exec, func() string { return "status" }, sc)
	return out
}

func TestRunLoop_LoginFlowAndCommands(t *testing.T) {
	exec := &fakeExec{}
	runScripted(exec,
		"help",
		"login",
		"step 3",
		"next",
		"back",
		"review",
		"submit",
		"plan",
		"logout",
		"exit",
	)

	wantOrder := []string{"login", "step", "next", "back", "review", "submit", "plan", "logout"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
	if len(exec.steps) != 1 || exec.steps[0] != 3 {
		t.Fatalf("step args: %v", exec.steps)
	}
}

func TestRunLoop_SubmitRequiresLogin(t *testing.T) {
	exec := &fakeExec{}
	out := runScripted(exec, "submit", "plan", "resetpw", "exit")

	for _, c := range exec.calls {
		if c == "submit" || c == "plan" || c == "resetpw" {
			t.Fatalf("%s dispatched while anonymous", c)
		}
	}
	joined := strings.Join(out, "")
	if !strings.Contains(joined, "log in") {
		t.Fatalf("expected a login hint, got %q", joined)
	}
}

func TestRunLoop_BadStepArgument(t *testing.T) {
	exec := &fakeExec{}
	out := runScripted(exec, "step", "step seven", "step 0", "step 7", "exit")

	if len(exec.steps) != 0 {
		t.Fatalf("invalid step arguments dispatched: %v", exec.steps)
	}
	if !strings.Contains(strings.Join(out, ""), "Usage: step <1-6>") {
		t.Fatalf("expected usage hint, got %v", out)
	}
}

func TestRunLoop_UnknownCommandAndEOF(t *testing.T) {
	exec := &fakeExec{}
	out := runScripted(exec, "frobnicate", "")

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected dispatch: %v", exec.calls)
	}
	if !strings.Contains(strings.Join(out, ""), "Unknown command") {
		t.Fatalf("expected unknown-command message, got %v", out)
	}
}
