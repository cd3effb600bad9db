package ircprotocol

import (
	"encoding/json"
	"strings"
	"time"
)

// EventType represents the kind of a classified line.
type EventType int

const (
	// EventMOTD covers welcome, luser and message-of-the-day numerics.
	EventMOTD EventType = iota
	// EventServerPing is a keepalive PING from the server.
	EventServerPing
	// EventClientPing is a PING sent by this client.
	EventClientPing
	// EventClientPong is a PONG sent by this client.
	EventClientPong
	// EventNotice is a server NOTICE.
	EventNotice
	// EventChannelJoin is a user joining a channel.
	EventChannelJoin
	// EventUserModeChange is a MODE change.
	EventUserModeChange
	// EventUserMessage is a PRIVMSG to a channel.
	EventUserMessage
	// EventReceivedPrivateMessage is a PRIVMSG addressed to a nick.
	EventReceivedPrivateMessage
	// EventTopic is a channel topic change.
	EventTopic
	// EventServerError is an ERROR line, usually sent right before the server disconnects.
	EventServerError
	// EventKick is a user being kicked from a channel.
	EventKick
	// EventBanned is numeric 474.
	EventBanned
	// EventInviteOnly is numeric 473.
	EventInviteOnly
	// EventChannelLimit is numeric 471.
	EventChannelLimit
	// EventTooManyChannels is numeric 405.
	EventTooManyChannels
	// EventUnknown is any line no rule matched.
	EventUnknown
)

var eventTypeNames = map[EventType]string{
	EventMOTD:                   "MOTD",
	EventServerPing:             "SERVER_PING",
	EventClientPing:             "CLIENT_PING",
	EventClientPong:             "CLIENT_PONG",
	EventNotice:                 "NOTICE",
	EventChannelJoin:            "CHANNEL_JOIN",
	EventUserModeChange:         "USER_MODE_CHANGE",
	EventUserMessage:            "USER_MESSAGE",
	EventReceivedPrivateMessage: "RECEIVED_PRIVATE_MESSAGE",
	EventTopic:                  "TOPIC",
	EventServerError:            "SERVER_ERROR",
	EventKick:                   "KICK",
	EventBanned:                 "BANNED",
	EventInviteOnly:             "INVITE_ONLY",
	EventChannelLimit:           "CHANNEL_LIMIT",
	EventTooManyChannels:        "TOO_MANY_CHANNELS",
	EventUnknown:                "UNKNOWN",
}

// replyCodes maps the numeric-backed event types onto their reply codes.
var replyCodes = map[EventType]int{
	EventBanned:          ReplyBannedFromChannel,
	EventInviteOnly:      ReplyInviteOnlyChannel,
	EventChannelLimit:    ReplyChannelIsFull,
	EventTooManyChannels: ReplyTooManyChannels,
}

// String returns the upper-snake name of the event type.
func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// ReplyCode returns the numeric reply code behind the type, or 0.
func (t EventType) ReplyCode() int {
	return replyCodes[t]
}

// ParseEventType resolves a name produced by EventType.String.
// Matching is case-insensitive.
func ParseEventType(name string) (EventType, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for t, n := range eventTypeNames {
		if n == name {
			return t, true
		}
	}
	return EventUnknown, false
}

// EventTypes returns every event type in declaration order.
func EventTypes() []EventType {
	types := make([]EventType, 0, len(eventTypeNames))
	for t := EventMOTD; t <= EventUnknown; t++ {
		types = append(types, t)
	}
	return types
}

// TimestampLayout is the layout used for Event timestamps in documents.
const TimestampLayout = "2006-01-02 15:04:05"

// Event is one classified protocol line. Events are built once by the
// classifier and never modified afterwards.
type Event struct {
	Type   EventType
	Sender Sender

	// Message is the text payload, nil when the line has none.
	Message *string
	// Channel is the channel or target, nil when the line has none.
	Channel *string

	// Timestamp is when the line was classified.
	Timestamp time.Time
	// Raw is the untouched input line.
	Raw string
}

// MessageText returns the message payload or "".
func (e Event) MessageText() string {
	if e.Message == nil {
		return ""
	}
	return *e.Message
}

// ChannelName returns the channel or target, or "".
func (e Event) ChannelName() string {
	if e.Channel == nil {
		return ""
	}
	return *e.Channel
}

// Equivalent reports whether two events match field for field, ignoring Timestamp.
func (e Event) Equivalent(other Event) bool {
	return e.Type == other.Type &&
		e.Sender.Equal(other.Sender) &&
		equalPtr(e.Message, other.Message) &&
		equalPtr(e.Channel, other.Channel) &&
		e.Raw == other.Raw
}

// eventDocument is the key-value form of an Event.
type eventDocument struct {
	Type      string  `json:"type"`
	Sender    Sender  `json:"sender"`
	Message   *string `json:"message"`
	Timestamp string  `json:"timestamp"`
	Channel   *string `json:"channel"`
	Raw       string  `json:"raw"`
}

// MarshalJSON encodes the event as a flat document with null for absent fields.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventDocument{
		Type:      e.Type.String(),
		Sender:    e.Sender,
		Message:   e.Message,
		Timestamp: e.Timestamp.Format(TimestampLayout),
		Channel:   e.Channel,
		Raw:       e.Raw,
	})
}
