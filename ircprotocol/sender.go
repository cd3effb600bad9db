package ircprotocol

import (
	"encoding/json"
	"strings"
)

// SenderKind classifies the origin of a line.
type SenderKind int

const (
	// SenderSystem is the server itself (PING, NOTICE, numerics).
	SenderSystem SenderKind = iota
	// SenderUser is another client identified by nick!user@host.
	SenderUser
	// SenderLocal is a line this client produced, echoed back for display.
	SenderLocal
	// SenderUnknown is used when the origin could not be determined.
	SenderUnknown
)

var senderKindNames = map[SenderKind]string{
	SenderSystem:  "SYSTEM",
	SenderUser:    "USER",
	SenderLocal:   "LOCAL",
	SenderUnknown: "UNKNOWN",
}

// String returns the upper-case kind name.
func (k SenderKind) String() string {
	if name, ok := senderKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// unknownHost is the host recorded on the default unknown sender.
const unknownHost = "Unknown"

// Sender is the normalized identity of a line's origin.
//
// Nick and Realname are only set for SenderUser. Host holds the parsed host
// for users and the raw origin token for every other kind; it is nil when the
// line carried no origin at all.
type Sender struct {
	Kind     SenderKind
	Nick     *string
	Realname *string
	Host     *string
}

// ParseSender builds a Sender of the given kind from a raw origin token.
//
// For SenderUser the token must have the form nick!realname@host; a token
// without both separators returns an error wrapping ErrMalformedSender.
// Every other kind stores the whole token as the host.
func ParseSender(identity string, kind SenderKind) (Sender, error) {
	if kind != SenderUser {
		return Sender{Kind: kind, Host: stringPtr(identity)}, nil
	}

	bang := strings.IndexByte(identity, '!')
	if bang < 0 {
		return Sender{}, newMalformedSenderError(identity)
	}
	at := strings.IndexByte(identity[bang+1:], '@')
	if at < 0 {
		return Sender{}, newMalformedSenderError(identity)
	}
	at += bang + 1

	return Sender{
		Kind:     SenderUser,
		Nick:     stringPtr(identity[:bang]),
		Realname: stringPtr(identity[bang+1 : at]),
		Host:     stringPtr(identity[at+1:]),
	}, nil
}

// NewSystemSender creates a server sender for the given host.
func NewSystemSender(host string) Sender {
	return Sender{Kind: SenderSystem, Host: stringPtr(host)}
}

// HostlessSystemSender creates a server sender that carries no host.
func HostlessSystemSender() Sender {
	return Sender{Kind: SenderSystem}
}

// NewLocalSender creates a sender for a line produced by this client.
func NewLocalSender(line string) Sender {
	return Sender{Kind: SenderLocal, Host: stringPtr(line)}
}

// UnknownSender returns the default sender used for unclassified lines.
func UnknownSender() Sender {
	return Sender{Kind: SenderUnknown, Host: stringPtr(unknownHost)}
}

// Name returns the nick for users, otherwise the host, or "" when neither is set.
func (s Sender) Name() string {
	if s.Nick != nil {
		return *s.Nick
	}
	if s.Host != nil {
		return *s.Host
	}
	return ""
}

// Equal reports whether two senders carry the same kind and fields.
func (s Sender) Equal(other Sender) bool {
	return s.Kind == other.Kind &&
		equalPtr(s.Nick, other.Nick) &&
		equalPtr(s.Realname, other.Realname) &&
		equalPtr(s.Host, other.Host)
}

// senderDocument is the key-value form of a Sender.
type senderDocument struct {
	Nick     *string `json:"nick"`
	Realname *string `json:"realname"`
	Host     *string `json:"host"`
	Type     string  `json:"type"`
}

// MarshalJSON encodes the sender with null for absent fields.
func (s Sender) MarshalJSON() ([]byte, error) {
	return json.Marshal(senderDocument{
		Nick:     s.Nick,
		Realname: s.Realname,
		Host:     s.Host,
		Type:     s.Kind.String(),
	})
}

func stringPtr(s string) *string {
	return &s
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
