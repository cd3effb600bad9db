package eventlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/ircbot/ircclient/ircprotocol"
)

var fixedTime = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func classify(line string) ircprotocol.Event {
	c := ircprotocol.NewClassifier(ircprotocol.WithClock(func() time.Time { return fixedTime }))
	return c.Classify(line)
}

func TestFields(t *testing.T) {
	tests := []struct {
		name string
		line string
		want map[string]interface{}
	}{
		{
			name: "channel message",
			line: ":bob!Bob@host PRIVMSG #go :hello",
			want: map[string]interface{}{
				"type": "USER_MESSAGE", "sender": "bob", "sender_kind": "USER",
				"channel": "#go", "message": "hello",
			},
		},
		{
			name: "ping has no channel or message",
			line: "PING :irc.test",
			want: map[string]interface{}{
				"type": "SERVER_PING", "sender": "irc.test", "sender_kind": "SYSTEM",
				"channel": "", "message": "",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fields(classify(tt.line))
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("Fields()[%q] = %v, want %v", k, got[k], v)
				}
			}
			if got["raw"] != tt.line || got["timestamp"] != "2024-05-01 12:30:00" {
				t.Errorf("raw/timestamp = %v/%v", got["raw"], got["timestamp"])
			}
		})
	}
}

func TestFileSinkWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	sink, err := NewFileSink(FileOptions{Path: path, MaxSizeMB: 1})
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	ctx := context.Background()
	for _, line := range []string{":bob!Bob@host PRIVMSG #go :hi", "ERROR :Closing Link"} {
		if err := sink.Write(ctx, classify(line)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var types []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var doc map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			t.Fatalf("line %q is not JSON: %v", scanner.Text(), err)
		}
		types = append(types, doc["type"].(string))
	}
	if strings.Join(types, ",") != "USER_MESSAGE,SERVER_ERROR" {
		t.Errorf("types = %v", types)
	}
}

func TestNewFileSinkRequiresPath(t *testing.T) {
	if _, err := NewFileSink(FileOptions{}); err == nil {
		t.Error("expected error for empty path")
	}
}

type fakeStream struct {
	added  []*redis.XAddArgs
	stored []redis.XMessage
	err    error
	closed bool
}

func (f *fakeStream) XAdd(_ context.Context, a *redis.XAddArgs) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	f.added = append(f.added, a)
	return redis.NewStringResult("1-0", nil)
}

func (f *fakeStream) XRevRangeN(_ context.Context, _, _, _ string, count int64) *redis.XMessageSliceCmd {
	msgs := f.stored
	if int64(len(msgs)) > count {
		msgs = msgs[:count]
	}
	return redis.NewXMessageSliceCmdResult(msgs, f.err)
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

func TestRedisSinkWrite(t *testing.T) {
	fake := &fakeStream{}
	sink := newRedisSink(fake, "irc:events", 100)

	if err := sink.Write(context.Background(), classify(":srv 474 bob #go :Cannot join")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(fake.added) != 1 {
		t.Fatalf("XAdd calls = %d", len(fake.added))
	}
	args := fake.added[0]
	if args.Stream != "irc:events" || args.MaxLen != 100 || !args.Approx {
		t.Errorf("args = %+v", args)
	}
	values := args.Values.(map[string]interface{})
	if values["type"] != "BANNED" || values["sender"] != "srv" {
		t.Errorf("values = %v", values)
	}

	if err := sink.Close(); err != nil || !fake.closed {
		t.Errorf("Close() = %v, closed = %v", err, fake.closed)
	}
}

func TestRedisSinkRecentIsOldestFirst(t *testing.T) {
	fake := &fakeStream{stored: []redis.XMessage{
		{ID: "2-0", Values: map[string]interface{}{"timestamp": "t2", "type": "TOPIC", "sender": "bob", "message": "new topic"}},
		{ID: "1-0", Values: map[string]interface{}{"timestamp": "t1", "type": "SERVER_PING", "sender": "irc.test", "message": ""}},
	}}
	sink := newRedisSink(fake, "irc:events", 100)

	got, err := sink.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"[t1] SERVER_PING irc.test", "[t2] TOPIC bob: new topic"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Recent() = %q, want %q", got, want)
	}
}

type failingSink struct{ closed bool }

func (f *failingSink) Name() string { return "broken" }
func (f *failingSink) Write(context.Context, ircprotocol.Event) error {
	return errors.New("disk full")
}
func (f *failingSink) Close() error {
	f.closed = true
	return nil
}

func TestMultiContinuesPastFailures(t *testing.T) {
	fake := &fakeStream{}
	broken := &failingSink{}
	m := NewMulti(zerolog.Nop(), broken, newRedisSink(fake, "s", 10))

	err := m.Write(context.Background(), classify("PING :irc.test"))
	if err == nil || !strings.Contains(err.Error(), "broken: disk full") {
		t.Errorf("Write() = %v", err)
	}
	if len(fake.added) != 1 {
		t.Errorf("second sink skipped after first failed")
	}
	if err := m.Close(); err != nil || !broken.closed || !fake.closed {
		t.Errorf("Close() = %v", err)
	}
}
