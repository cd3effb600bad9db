// =============================================================================
// repl_test.go - Tests for the REPL loop and event dispatch (repl.go, session.go)
// =============================================================================

package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ircbot/ircclient/ircprotocol"
)

// scriptedInput feeds fixed lines to the REPL, then reports EOF.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) GetLine(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type recordingSink struct {
	mu     sync.Mutex
	events []ircprotocol.Event
}

func (r *recordingSink) Name() string { return "recording" }
func (r *recordingSink) Write(_ context.Context, event ircprotocol.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}
func (r *recordingSink) Close() error { return nil }

type staticHistory []string

func (h staticHistory) Recent(context.Context, int64) ([]string, error) {
	return h, nil
}

// pipeSession returns a session whose client is attached to one end of a
// pipe, plus a channel of lines the server end received.
func pipeSession(t *testing.T) (*session, *bytes.Buffer, <-chan string) {
	t.Helper()
	server, conn := net.Pipe()
	client := ircprotocol.NewClient()
	if err := client.Attach(conn); err != nil {
		t.Fatalf("attach: %v", err)
	}
	t.Cleanup(func() {
		client.Disconnect()
		server.Close()
	})

	received := make(chan string, 32)
	go func() {
		defer close(received)
		scanner := bufio.NewScanner(server)
		for scanner.Scan() {
			received <- strings.TrimSuffix(scanner.Text(), "\r")
		}
	}()

	out := &bytes.Buffer{}
	return &session{
		ctx:      context.Background(),
		client:   client,
		logger:   zerolog.Nop(),
		suppress: map[ircprotocol.EventType]bool{},
		out:      out,
	}, out, received
}

func collect(t *testing.T, received <-chan string, n int) []string {
	t.Helper()
	var lines []string
	timeout := time.After(5 * time.Second)
	for len(lines) < n {
		select {
		case line, ok := <-received:
			if !ok {
				t.Fatalf("server closed after %v", lines)
			}
			lines = append(lines, line)
		case <-timeout:
			t.Fatalf("timed out after %v", lines)
		}
	}
	return lines
}

func TestREPLSendsCommandsAndTracksChannel(t *testing.T) {
	sess, out, received := pipeSession(t)
	input := &scriptedInput{lines: []string{
		"/join #go",
		"hello gophers",
		"/channel",
		"/help part",
		"/history",
		"/bogus",
		"/quit bye",
	}}

	done := make(chan bool, 1)
	go func() { done <- runREPL(input, sess) }()

	got := collect(t, received, 3)
	want := []string{"JOIN #go", "PRIVMSG #go :hello gophers", "QUIT :bye"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("server received %q, want %q", got, want)
	}
	if quit := <-done; !quit {
		t.Error("runREPL() = false, want true after /quit")
	}

	text := out.String()
	for _, wantOut := range []string{"Current channel: #go", "/part [#channel] [reason]", "History requires a Redis event log"} {
		if !strings.Contains(text, wantOut) {
			t.Errorf("output missing %q:\n%s", wantOut, text)
		}
	}
	if input.prompts[0] != "> " || input.prompts[1] != "[#go] > " {
		t.Errorf("prompts = %q", input.prompts)
	}
}

func TestREPLReturnsFalseOnEOF(t *testing.T) {
	sess, _, _ := pipeSession(t)
	if quit := runREPL(&scriptedInput{}, sess); quit {
		t.Error("runREPL() = true on EOF")
	}
}

func TestREPLHistory(t *testing.T) {
	sess, out, _ := pipeSession(t)
	sess.history = staticHistory{"[t1] TOPIC bob: hi"}
	runREPL(&scriptedInput{lines: []string{"/history 1"}}, sess)
	if !strings.Contains(out.String(), "[t1] TOPIC bob: hi") {
		t.Errorf("output = %q", out.String())
	}
}

func TestHandleEventSuppressesButStillLogs(t *testing.T) {
	sess, out, _ := pipeSession(t)
	sink := &recordingSink{}
	sess.sink = sink
	sess.suppress = map[ircprotocol.EventType]bool{ircprotocol.EventServerPing: true}

	sess.handleEvent(ircprotocol.Classify("PING :irc.test"))
	sess.handleEvent(ircprotocol.Classify(":bob!Bob@host PRIVMSG #go :hi"))

	if strings.Contains(out.String(), "SERVER_PING") {
		t.Errorf("suppressed event printed: %q", out.String())
	}
	if !strings.Contains(out.String(), "<bob> hi") {
		t.Errorf("message not printed: %q", out.String())
	}
	if len(sink.events) != 2 {
		t.Errorf("sink saw %d events, want 2", len(sink.events))
	}
}

func TestHandleEventServerErrorDisconnects(t *testing.T) {
	sess, out, _ := pipeSession(t)
	sess.handleEvent(ircprotocol.Classify("ERROR :Closing Link: too many pings"))

	if sess.client.IsConnected() {
		t.Error("client still connected after SERVER_ERROR")
	}
	if !strings.Contains(out.String(), "server error: Closing Link: too many pings") {
		t.Errorf("output = %q", out.String())
	}
	if err := sess.client.Say("#go", "hi"); !errors.Is(err, ircprotocol.ErrNotConnected) {
		t.Errorf("Say after disconnect = %v", err)
	}
}

func TestHandleEventJSONOutput(t *testing.T) {
	sess, out, _ := pipeSession(t)
	sess.json = true
	sess.handleEvent(ircprotocol.Classify(":irc.test 001 bob :Welcome"))
	if !strings.Contains(out.String(), "    \"type\": \"MOTD\"") {
		t.Errorf("output = %q", out.String())
	}
}
