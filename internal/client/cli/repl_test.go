package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls    []string
	listArgs []string
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
func (f *fakeExec) Collect(ctx context.Context) error {
	f.calls = append(f.calls, "collect")
	return nil
}
func (f *fakeExec) List(ctx context.Context, args []string) error {
	f.calls = append(f.calls, "list")
	f.listArgs = args
	return nil
}
func (f *fakeExec) Sync(ctx context.Context) error { f.calls = append(f.calls, "sync"); return nil }
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) Delete(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return nil
}
func (f *fakeExec) Clear(ctx context.Context) error {
	f.calls = append(f.calls, "clear")
	return nil
}

func silencePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			if s, ok := a.(string); ok {
				parts = append(parts, s)
			}
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.Join([]string{
		"login",
		"collect",
		"list pending",
		"sync",
		"status",
		"delete",
		"clear",
		"logout",
		"exit",
	}, "\n")

	f := &fakeExec{}
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), f, func() string { return "" }, scanner)

	want := []string{"login", "collect", "list", "sync", "status", "delete", "clear", "logout"}
	if len(f.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", f.calls, want)
	}
	for i := range want {
		if f.calls[i] != want[i] {
			t.Fatalf("calls[%d] = %q, want %q", i, f.calls[i], want[i])
		}
	}
	if len(f.listArgs) != 1 || f.listArgs[0] != "pending" {
		t.Fatalf("list args = %v, want [pending]", f.listArgs)
	}
}

func TestRunREPL_ShortAliasesAndUnknown(t *testing.T) {
	lines := silencePrintln(t)

	input := strings.Join([]string{"c", "l", "frobnicate", "quit"}, "\n")

	f := &fakeExec{loggedIn: true}
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), f, func() string { return "" }, scanner)

	if len(f.calls) != 2 || f.calls[0] != "collect" || f.calls[1] != "list" {
		t.Fatalf("calls = %v, want [collect list]", f.calls)
	}

	foundUnknown := false
	for _, l := range *lines {
		if strings.Contains(l, "Unknown command") {
			foundUnknown = true
		}
	}
	if !foundUnknown {
		t.Fatalf("expected an 'Unknown command' line, got %v", *lines)
	}
}

func TestRunREPL_HelpDependsOnLoginState(t *testing.T) {
	lines := silencePrintln(t)

	f := &fakeExec{}
	scanner := bufio.NewScanner(strings.NewReader("help\nlogin\nhelp\nexit\n"))
	runREPL(context.Background(), f, func() string { return "" }, scanner)

	joined := strings.Join(*lines, "\n")
	if !strings.Contains(joined, "login, exit") {
		t.Fatalf("expected the logged-out help, got:\n%s", joined)
	}
	if !strings.Contains(joined, "(c)ollect") {
		t.Fatalf("expected the logged-in help to mention (c)ollect, got:\n%s", joined)
	}
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	lines := silencePrintln(t)

	input := strings.Join([]string{
		"collect",
		"c",
		"list",
		"sync",
		"status",
		"delete",
		"clear",
		"logout",
		"exit",
	}, "\n")

	f := &fakeExec{}
	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), f, func() string { return "" }, scanner)

	if len(f.calls) != 0 {
		t.Fatalf("nothing should dispatch while logged out, got %v", f.calls)
	}

	prompted := 0
	for _, l := range *lines {
		if strings.Contains(l, "Please login first") {
			prompted++
		}
	}
	if prompted != 8 {
		t.Fatalf("expected 8 login prompts, got %d in %v", prompted, *lines)
	}
}
