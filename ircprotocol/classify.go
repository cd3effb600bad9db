package ircprotocol

import (
	"strconv"
	"strings"
	"time"
)

// Classifier turns complete protocol lines into Events.
//
// Rules are tried in a fixed order and the first match wins; several rules
// could match the same line, so the order is part of the contract:
//
//  1. PING ...               -> EventServerPing
//  2. ERROR ...              -> EventServerError
//  3. PONG ...               -> EventClientPong
//  4. :<sender> <verb> ...   -> NOTICE, JOIN, KICK, MODE, numeric, PRIVMSG, TOPIC
//  5. anything else          -> EventUnknown
type Classifier struct {
	now func() time.Time
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithClock sets the function used to stamp events.
func WithClock(now func() time.Time) ClassifierOption {
	return func(c *Classifier) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClassifier creates a classifier stamping events with time.Now.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultClassifier = NewClassifier()

// Classify classifies a single line using the wall clock.
func Classify(line string) Event {
	return defaultClassifier.Classify(line)
}

// classification is the intermediate result of matching a line.
type classification struct {
	typ     EventType
	sender  Sender
	message *string
	channel *string
}

func unknown() classification {
	return classification{typ: EventUnknown, sender: UnknownSender()}
}

// Classify maps one line (delimiter already stripped) onto exactly one Event.
// It never fails: lines that match no rule become EventUnknown and missing
// payload pieces are left nil.
func (c *Classifier) Classify(line string) Event {
	m := classifyLine(line)
	return Event{
		Type:      m.typ,
		Sender:    m.sender,
		Message:   m.message,
		Channel:   m.channel,
		Timestamp: c.now(),
		Raw:       line,
	}
}

func classifyLine(line string) classification {
	segments := strings.Split(line, ":")
	head := segments[0]

	switch {
	case strings.HasPrefix(head, "PING"):
		host := strings.TrimSpace(strings.TrimPrefix(line, "PING"))
		if len(segments) > 1 {
			host = afterFirstColon(line)
		}
		return classification{typ: EventServerPing, sender: NewSystemSender(host)}

	case strings.HasPrefix(head, "ERROR"):
		m := classification{typ: EventServerError, sender: HostlessSystemSender()}
		if len(segments) > 1 {
			m.message = stringPtr(afterFirstColon(line))
		}
		return m

	case strings.HasPrefix(head, "PONG"):
		return classification{
			typ:     EventClientPong,
			sender:  NewLocalSender(line),
			channel: token(strings.Split(head, " "), 1),
		}
	}

	return classifyPrefixed(line, segments)
}

// classifyPrefixed handles ":<sender> <verb> <params...>" lines.
func classifyPrefixed(line string, segments []string) classification {
	if len(segments) < 2 {
		return unknown()
	}
	words := strings.Split(segments[1], " ")
	if len(words) < 2 {
		return unknown()
	}
	origin, verb := words[0], words[1]
	trailing := token(segments, 2)

	switch {
	case verb == "NOTICE":
		return classification{
			typ:     EventNotice,
			sender:  NewSystemSender(origin),
			message: trailing,
			channel: stringPtr(origin),
		}

	case verb == "JOIN":
		return classification{typ: EventChannelJoin, sender: userSender(origin), channel: trailing}

	case verb == "KICK":
		return classification{typ: EventKick, sender: userSender(origin), channel: trailing}

	case verb == "MODE":
		return classification{
			typ:     EventUserModeChange,
			sender:  NewSystemSender(origin),
			message: stringPtr(segments[len(segments)-1]),
		}

	case isDigits(verb):
		return classifyNumeric(line, origin, verb)

	case verb == "PRIVMSG":
		m := classification{
			typ:     EventUserMessage,
			sender:  userSender(origin),
			message: trailing,
			channel: token(words, 2),
		}
		if m.channel == nil || !strings.HasPrefix(*m.channel, ChannelPrefix) {
			m.typ = EventReceivedPrivateMessage
		}
		return m

	case verb == "TOPIC":
		return classification{
			typ:     EventTopic,
			sender:  userSender(origin),
			message: trailing,
			channel: token(words, 2),
		}
	}

	return unknown()
}

// classifyNumeric handles three-digit server replies. Every numeric starts as
// EventMOTD; the override step then routes 474 and 473. Codes 471 and 405
// have event types but stay EventMOTD.
func classifyNumeric(line, origin, verb string) classification {
	m := classification{
		typ:     EventMOTD,
		sender:  NewSystemSender(origin),
		channel: stringPtr(origin),
	}

	// :<sender> <code> <target> :<text...>
	if words := strings.Split(line, " "); len(words) > 3 {
		m.message = stringPtr(strings.TrimPrefix(strings.Join(words[3:], " "), ":"))
	}

	code, err := strconv.Atoi(verb)
	if err != nil {
		return m
	}
	switch code {
	case ReplyBannedFromChannel:
		m.typ = EventBanned
	case ReplyInviteOnlyChannel:
		m.typ = EventInviteOnly
	}
	return m
}

// userSender parses a nick!user@host token. A token without the separators
// yields an unknown sender carrying the raw token, so one odd prefix never
// aborts classification of the line.
func userSender(origin string) Sender {
	s, err := ParseSender(origin, SenderUser)
	if err != nil {
		return Sender{Kind: SenderUnknown, Host: stringPtr(origin)}
	}
	return s
}

func afterFirstColon(line string) string {
	return line[strings.IndexByte(line, ':')+1:]
}

func token(parts []string, i int) *string {
	if i < len(parts) {
		return stringPtr(parts[i])
	}
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
