package ircprotocol

import (
	"testing"
)

func TestDecoderFeedClassifiesCompletedLines(t *testing.T) {
	dec := NewDecoder()

	if events := dec.Feed([]byte(":nick!real@host PRIVMSG #chan :hel")); len(events) != 0 {
		t.Fatalf("expected no events for a partial line, got %d", len(events))
	}

	events := dec.Feed([]byte("lo\r\nPING :irc.example.com\r\n:server 474 nick #chan :Banned\r\n"))
	want := []EventType{EventUserMessage, EventServerPing, EventBanned}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, typ := range want {
		if events[i].Type != typ {
			t.Errorf("event %d: type = %v, want %v", i, events[i].Type, typ)
		}
	}
	if events[0].MessageText() != "hello" || events[0].ChannelName() != "#chan" {
		t.Errorf("joined line decoded as message=%q channel=%q", events[0].MessageText(), events[0].ChannelName())
	}
	if events[0].Raw != ":nick!real@host PRIVMSG #chan :hello" {
		t.Errorf("raw = %q", events[0].Raw)
	}
}

func TestDecoderEventsStopsEarly(t *testing.T) {
	dec := NewDecoder()
	for ev := range dec.Events([]byte("PING :a\r\nPING :b\r\n")) {
		if ev.Sender.Name() != "a" {
			t.Fatalf("first event host = %q", ev.Sender.Name())
		}
		break
	}
	events := dec.Feed(nil)
	if len(events) != 1 || events[0].Sender.Name() != "b" {
		t.Fatalf("remaining events = %+v", events)
	}
}

func TestDecoderCloseDropsRemainder(t *testing.T) {
	dec := NewDecoder()
	dec.Feed([]byte("PING :a\r\nPING :b"))
	if dec.Pending() != len("PING :b") {
		t.Errorf("pending = %d", dec.Pending())
	}
	if n := dec.Close(); n != len("PING :b") {
		t.Errorf("Close() = %d", n)
	}
	if events := dec.Feed([]byte("\r\n")); len(events) != 0 {
		t.Errorf("truncated line was emitted: %+v", events)
	}
}

func TestDecoderClassifyLocalLine(t *testing.T) {
	ev := NewDecoder().Classify("PONG irc.example.com")
	if ev.Type != EventClientPong || ev.Sender.Kind != SenderLocal {
		t.Errorf("got %v from %v", ev.Type, ev.Sender.Kind)
	}
}
