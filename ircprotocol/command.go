package ircprotocol

import (
	"strings"
)

// CommandType represents the type of outbound IRC command.
type CommandType int

const (
	// Registration
	CmdUser CommandType = iota
	CmdNick
	CmdIdentify

	// Channels
	CmdJoin
	CmdPart
	CmdTopic

	// Messaging
	CmdPrivmsg
	CmdNotice

	// Connection
	CmdPing
	CmdPong
	CmdQuit

	// Passthrough
	CmdRaw
)

// Command represents an outbound command with its arguments.
// Use the constructor functions (NewNickCommand, NewJoinCommand, etc.)
// to create Command instances.
type Command struct {
	Type CommandType

	// Fields used by various commands (only relevant fields are populated)
	Nick     string  // For nick, user
	Realname string  // For user
	Channel  string  // For join, part, topic
	Key      string  // For join
	Target   string  // For privmsg, notice
	Text     *string // Trailing parameter; nil when omitted
	Token    string  // For ping, pong
	Line     string  // For raw
}

// Command constructors - these provide a clean API for creating commands.

// NewUserCommand creates the USER registration command.
func NewUserCommand(user, realname string) Command {
	return Command{Type: CmdUser, Nick: user, Realname: realname}
}

// NewNickCommand creates a NICK command.
func NewNickCommand(nick string) Command {
	return Command{Type: CmdNick, Nick: nick}
}

// NewIdentifyCommand creates a NickServ IDENTIFY request.
func NewIdentifyCommand(password string) Command {
	return Command{Type: CmdIdentify, Text: stringPtr("IDENTIFY " + password)}
}

// NewJoinCommand creates a JOIN command. key may be empty.
func NewJoinCommand(channel, key string) Command {
	return Command{Type: CmdJoin, Channel: channel, Key: key}
}

// NewPartCommand creates a PART command. An empty reason is omitted.
func NewPartCommand(channel, reason string) Command {
	return Command{Type: CmdPart, Channel: channel, Text: optionalText(reason)}
}

// NewTopicCommand creates a TOPIC command. A nil topic queries the current one.
func NewTopicCommand(channel string, topic *string) Command {
	return Command{Type: CmdTopic, Channel: channel, Text: topic}
}

// NewPrivmsgCommand creates a PRIVMSG to a channel or nick.
func NewPrivmsgCommand(target, text string) Command {
	return Command{Type: CmdPrivmsg, Target: target, Text: stringPtr(text)}
}

// NewNoticeCommand creates a NOTICE to a channel or nick.
func NewNoticeCommand(target, text string) Command {
	return Command{Type: CmdNotice, Target: target, Text: stringPtr(text)}
}

// NewPingCommand creates a PING with the given token.
func NewPingCommand(token string) Command {
	return Command{Type: CmdPing, Token: token}
}

// NewPongCommand creates the reply to a server PING.
func NewPongCommand(token string) Command {
	return Command{Type: CmdPong, Token: token}
}

// NewQuitCommand creates a QUIT command. An empty reason is omitted.
func NewQuitCommand(reason string) Command {
	return Command{Type: CmdQuit, Text: optionalText(reason)}
}

// NewRawCommand sends a line verbatim.
func NewRawCommand(line string) Command {
	return Command{Type: CmdRaw, Line: line}
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return stringPtr(s)
}

// Format returns the command formatted for transmission over the protocol.
// This does not include the trailing delimiter.
func (c Command) Format() string {
	switch c.Type {
	case CmdUser:
		return joinParams("USER", []string{c.Nick, "0", "*"}, stringPtr(c.Realname))
	case CmdNick:
		return joinParams("NICK", []string{c.Nick}, nil)
	case CmdIdentify:
		return joinParams("PRIVMSG", []string{NickServ}, c.Text)
	case CmdJoin:
		params := []string{c.Channel}
		if c.Key != "" {
			params = append(params, c.Key)
		}
		return joinParams("JOIN", params, nil)
	case CmdPart:
		return joinParams("PART", []string{c.Channel}, c.Text)
	case CmdTopic:
		return joinParams("TOPIC", []string{c.Channel}, c.Text)
	case CmdPrivmsg:
		return joinParams("PRIVMSG", []string{c.Target}, c.Text)
	case CmdNotice:
		return joinParams("NOTICE", []string{c.Target}, c.Text)
	case CmdPing:
		return joinParams("PING", []string{c.Token}, nil)
	case CmdPong:
		return joinParams("PONG", []string{c.Token}, nil)
	case CmdQuit:
		return joinParams("QUIT", nil, c.Text)
	case CmdRaw:
		return c.Line
	default:
		return ""
	}
}

// FormatLine returns the command formatted as a complete protocol line with delimiter.
func (c Command) FormatLine() string {
	return c.Format() + Delimiter
}

// Validate rejects commands that would break line framing on the server or
// are missing their required parameter.
func (c Command) Validate() error {
	line := c.Format()
	if strings.ContainsAny(line, "\r\n") {
		return newMalformedCommandError(line)
	}

	var required string
	switch c.Type {
	case CmdUser, CmdNick:
		required = c.Nick
	case CmdJoin, CmdPart, CmdTopic:
		required = c.Channel
	case CmdPrivmsg, CmdNotice:
		required = c.Target
	case CmdPing, CmdPong:
		required = c.Token
	case CmdRaw:
		required = c.Line
	default:
		return nil
	}
	if strings.TrimSpace(required) == "" {
		return newMissingArgumentError(strings.SplitN(line, " ", 2)[0])
	}
	return nil
}

func joinParams(verb string, params []string, trailing *string) string {
	var b strings.Builder
	b.WriteString(verb)
	for _, p := range params {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	if trailing != nil {
		b.WriteString(" :")
		b.WriteString(*trailing)
	}
	return b.String()
}
