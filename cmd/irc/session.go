package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ircbot/ircclient/internal/eventlog"
	"github.com/ircbot/ircclient/ircprotocol"
)

// historySource is satisfied by *eventlog.RedisSink.
type historySource interface {
	Recent(ctx context.Context, count int64) ([]string, error)
}

// session ties one connected client to the terminal and the event sinks.
// handleEvent runs on the client read goroutine; the REPL owns current.
type session struct {
	ctx      context.Context
	client   *ircprotocol.Client
	logger   zerolog.Logger
	sink     eventlog.Sink
	history  historySource
	suppress map[ircprotocol.EventType]bool
	json     bool

	outMu sync.Mutex
	out   io.Writer

	current string
}

func (s *session) handleEvent(event ircprotocol.Event) {
	if s.sink != nil {
		// Failures are counted and logged by the sink.
		_ = s.sink.Write(s.ctx, event)
	}

	if !s.suppress[event.Type] {
		text, err := formatEvent(event, s.json)
		if err != nil {
			s.logger.Warn().Err(err).Stringer("type", event.Type).Msg("failed to format event")
		} else {
			s.println(text)
		}
	}

	if event.Type == ircprotocol.EventServerError {
		s.logger.Info().Str("message", event.MessageText()).Msg("server error, disconnecting")
		s.client.Disconnect()
	}
}

func (s *session) println(text string) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, text)
}

func (s *session) prompt() string {
	if s.current == "" {
		return "> "
	}
	return "[" + s.current + "] > "
}

// sendAll sends commands in order and stops at the first failure.
func (s *session) sendAll(commands []ircprotocol.Command) error {
	for _, cmd := range commands {
		if err := s.client.Send(cmd); err != nil {
			return err
		}
	}
	return nil
}

func (s *session) printHistory(count int64) {
	if s.history == nil {
		s.println("History requires a Redis event log (set [redis] addr).")
		return
	}
	lines, err := s.history.Recent(s.ctx, count)
	if err != nil {
		printError(fmt.Sprintf("history: %v", err))
		return
	}
	if len(lines) == 0 {
		s.println("No stored events.")
		return
	}
	for _, line := range lines {
		s.println(line)
	}
}
