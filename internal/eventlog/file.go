package eventlog

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ircbot/ircclient/ircprotocol"
)

// FileSink appends one JSON event document per line to a size-rotated file.
type FileSink struct {
	mu  sync.Mutex
	out *lumberjack.Logger
}

type FileOptions struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

func NewFileSink(opts FileOptions) (*FileSink, error) {
	if opts.Path == "" {
		return nil, errors.New("eventlog: file path is required")
	}
	return &FileSink{
		out: &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		},
	}, nil
}

func (s *FileSink) Name() string { return "file" }

func (s *FileSink) Write(_ context.Context, event ircprotocol.Event) error {
	doc, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "encode event")
	}
	doc = append(doc, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(doc); err != nil {
		return errors.Wrap(err, "write event log")
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}
