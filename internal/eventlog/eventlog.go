// Package eventlog persists classified events outside the process.
package eventlog

import (
	"context"
	stderrors "errors"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ircbot/ircclient/internal/observability"
	"github.com/ircbot/ircclient/ircprotocol"
)

type Sink interface {
	Name() string
	Write(ctx context.Context, event ircprotocol.Event) error
	Close() error
}

// Fields flattens an event into string values. Absent message and channel
// become empty strings.
func Fields(event ircprotocol.Event) map[string]interface{} {
	return map[string]interface{}{
		"type":        event.Type.String(),
		"sender":      event.Sender.Name(),
		"sender_kind": event.Sender.Kind.String(),
		"channel":     event.ChannelName(),
		"message":     event.MessageText(),
		"timestamp":   event.Timestamp.Format(ircprotocol.TimestampLayout),
		"raw":         event.Raw,
	}
}

// Multi writes every event to each sink in order. A failing sink does not
// stop the others.
type Multi struct {
	sinks  []Sink
	logger zerolog.Logger
}

func NewMulti(logger zerolog.Logger, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, logger: logger}
}

func (m *Multi) Name() string { return "multi" }

func (m *Multi) Len() int { return len(m.sinks) }

func (m *Multi) Write(ctx context.Context, event ircprotocol.Event) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Write(ctx, event); err != nil {
			observability.RecordSinkError(s.Name())
			m.logger.Warn().Err(err).Str("sink", s.Name()).Msg("event sink write failed")
			errs = append(errs, errors.Wrap(err, s.Name()))
		}
	}
	return stderrors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "close %s", s.Name()))
		}
	}
	return stderrors.Join(errs...)
}
