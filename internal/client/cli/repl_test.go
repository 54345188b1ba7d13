package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubExec struct {
	user bool

	calls []string
	args  []string
}

func (s *stubExec) hasUser() bool { return s.user }

func (s *stubExec) record(name string, args ...string) error {
	s.calls = append(s.calls, name)
	s.args = append(s.args, args...)
	return nil
}

func (s *stubExec) User(ctx context.Context, name string) error { return s.record("user", name) }
func (s *stubExec) Create(ctx context.Context) error            { return s.record("create") }
func (s *stubExec) Join(ctx context.Context, code string) error { return s.record("join", code) }
func (s *stubExec) Send(ctx context.Context, path string) error { return s.record("send", path) }
func (s *stubExec) Poll(ctx context.Context) error              { return s.record("poll") }
func (s *stubExec) Watch(ctx context.Context) error             { return s.record("watch") }
func (s *stubExec) StopWatch(ctx context.Context) error         { return s.record("stop") }
func (s *stubExec) Latest(ctx context.Context) error            { return s.record("latest") }
func (s *stubExec) Confirm(ctx context.Context) error           { return s.record("confirm") }
func (s *stubExec) Status(ctx context.Context) error            { return s.record("status") }

func runWithInput(t *testing.T, a execIface, input string) []string {
	t.Helper()

	var out []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		out = append(out, strings.TrimSpace(fmt.Sprintln(args...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	scanner := bufio.NewScanner(strings.NewReader(input))
	runREPL(context.Background(), a, func() string { return "" }, scanner)
	return out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	s := &stubExec{user: true}

	runWithInput(t, s, strings.Join([]string{
		"user Alice Smith",
		"create",
		"join ABC234",
		"send hand.glb",
		"poll",
		"watch",
		"stop",
		"latest",
		"confirm",
		"status",
		"exit",
	}, "\n"))

	assert.Equal(t, []string{"user", "create", "join", "send", "poll",
		"watch", "stop", "latest", "confirm", "status"}, s.calls)
	assert.Contains(t, s.args, "Alice Smith")
	assert.Contains(t, s.args, "ABC234")
	assert.Contains(t, s.args, "hand.glb")
}

func TestREPL_UnknownCommand(t *testing.T) {
	s := &stubExec{}

	out := runWithInput(t, s, "frobnicate\nexit\n")

	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "Unknown command")
	assert.Empty(t, s.calls)
}

func TestREPL_JoinRequiresCode(t *testing.T) {
	s := &stubExec{user: true}

	out := runWithInput(t, s, "join\nexit\n")

	joined := strings.Join(out, "\n")
	assert.Contains(t, joined, "Usage: join")
	assert.Empty(t, s.calls)
}

func TestREPL_HelpDependsOnIdentity(t *testing.T) {
	withUser := runWithInput(t, &stubExec{user: true}, "help\nexit\n")
	assert.Contains(t, strings.Join(withUser, "\n"), "create, join")

	withoutUser := runWithInput(t, &stubExec{user: false}, "help\nexit\n")
	assert.Contains(t, strings.Join(withoutUser, "\n"), "user <name>")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	s := &stubExec{}

	runWithInput(t, s, "")

	assert.Empty(t, s.calls)
}
