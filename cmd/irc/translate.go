// =============================================================================
// translate.go - REPL Input to IRC Commands
// =============================================================================
//
// Slash-commands map onto protocol commands; everything else is a message to
// the current channel. Local-only commands (/help, /channel, /history, /quit)
// come back as actions for the REPL to carry out.
//
// =============================================================================

package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ircbot/ircclient/ircprotocol"
)

type actionKind int

const (
	actionNone actionKind = iota
	actionSend
	actionQuit
	actionHelp
	actionSwitch
	actionHistory
)

// inputAction is the result of translating one REPL line.
type inputAction struct {
	kind     actionKind
	commands []ircprotocol.Command
	// switchTo becomes the current channel once the commands are sent.
	switchTo string
	// topic is the /help topic.
	topic string
	// count is the /history entry count.
	count int64
}

const defaultHistoryCount = 20

func translateInput(line, current string) (inputAction, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return inputAction{kind: actionNone}, nil
	}

	if !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") {
		text := strings.TrimPrefix(trimmed, "/")
		if current == "" {
			return inputAction{}, errors.New("no current channel; use /join or /channel first")
		}
		return send(ircprotocol.NewPrivmsgCommand(current, text)), nil
	}

	parts := strings.SplitN(trimmed, " ", 2)
	keyword := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	switch keyword {
	case "/join", "/j":
		channel, key := splitFirst(args)
		if channel == "" {
			return inputAction{}, errors.New("usage: /join #channel [key]")
		}
		channel = withChannelPrefix(channel)
		a := send(ircprotocol.NewJoinCommand(channel, key))
		a.switchTo = channel
		return a, nil

	case "/part", "/leave":
		channel, reason := current, args
		if first, rest := splitFirst(args); strings.HasPrefix(first, ircprotocol.ChannelPrefix) {
			channel, reason = first, rest
		}
		if channel == "" {
			return inputAction{}, errors.New("usage: /part [#channel] [reason]")
		}
		return send(ircprotocol.NewPartCommand(channel, reason)), nil

	case "/msg", "/query":
		target, text := splitFirst(args)
		if target == "" || text == "" {
			return inputAction{}, errors.Errorf("usage: %s target text", keyword)
		}
		return send(ircprotocol.NewPrivmsgCommand(target, text)), nil

	case "/notice":
		target, text := splitFirst(args)
		if target == "" || text == "" {
			return inputAction{}, errors.New("usage: /notice target text")
		}
		return send(ircprotocol.NewNoticeCommand(target, text)), nil

	case "/nick":
		if args == "" || strings.Contains(args, " ") {
			return inputAction{}, errors.New("usage: /nick newnick")
		}
		return send(ircprotocol.NewNickCommand(args)), nil

	case "/topic":
		channel, text := current, args
		if first, rest := splitFirst(args); strings.HasPrefix(first, ircprotocol.ChannelPrefix) {
			channel, text = first, rest
		}
		if channel == "" {
			return inputAction{}, errors.New("usage: /topic [#channel] [text]")
		}
		var topic *string
		if text != "" {
			topic = &text
		}
		return send(ircprotocol.NewTopicCommand(channel, topic)), nil

	case "/ping":
		token := args
		if token == "" {
			token = "ircclient"
		}
		return send(ircprotocol.NewPingCommand(token)), nil

	case "/raw", "/quote":
		if args == "" {
			return inputAction{}, errors.New("usage: /raw line")
		}
		return send(ircprotocol.NewRawCommand(args)), nil

	case "/quit", "/exit":
		return inputAction{
			kind:     actionQuit,
			commands: []ircprotocol.Command{ircprotocol.NewQuitCommand(args)},
		}, nil

	case "/help", "/?":
		return inputAction{kind: actionHelp, topic: strings.TrimPrefix(strings.ToLower(args), "/")}, nil

	case "/channel", "/c":
		if args == "" {
			return inputAction{kind: actionSwitch}, nil
		}
		return inputAction{kind: actionSwitch, switchTo: withChannelPrefix(args)}, nil

	case "/history":
		count := int64(defaultHistoryCount)
		if args != "" {
			n, err := strconv.ParseInt(args, 10, 64)
			if err != nil || n <= 0 {
				return inputAction{}, errors.Errorf("invalid history count %q", args)
			}
			count = n
		}
		return inputAction{kind: actionHistory, count: count}, nil
	}

	return inputAction{}, errors.Errorf("unknown command %s (try /help)", parts[0])
}

func send(cmd ircprotocol.Command) inputAction {
	return inputAction{kind: actionSend, commands: []ircprotocol.Command{cmd}}
}

// splitFirst splits s into its first word and the trimmed remainder.
func splitFirst(s string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(s), " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func withChannelPrefix(name string) string {
	if strings.HasPrefix(name, ircprotocol.ChannelPrefix) {
		return name
	}
	return ircprotocol.ChannelPrefix + name
}
