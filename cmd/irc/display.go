package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ircbot/ircclient/ircprotocol"
)

const clockLayout = "15:04:05"

// formatEvent renders an event for the terminal. JSON output is the full
// event document indented by four spaces.
func formatEvent(event ircprotocol.Event, jsonOutput bool) (string, error) {
	if jsonOutput {
		doc, err := json.MarshalIndent(event, "", "    ")
		if err != nil {
			return "", err
		}
		return string(doc), nil
	}
	return norm.NFC.String(formatPlain(event)), nil
}

func formatPlain(event ircprotocol.Event) string {
	ts := event.Timestamp.Format(clockLayout)
	sender := event.Sender.Name()
	channel := event.ChannelName()
	message := event.MessageText()

	switch event.Type {
	case ircprotocol.EventUnknown:
		return event.Raw
	case ircprotocol.EventUserMessage:
		return fmt.Sprintf("%s %s <%s> %s", ts, channel, sender, message)
	case ircprotocol.EventReceivedPrivateMessage:
		return fmt.Sprintf("%s *%s* %s", ts, sender, message)
	case ircprotocol.EventNotice:
		return fmt.Sprintf("%s -%s- %s", ts, sender, message)
	case ircprotocol.EventChannelJoin:
		return fmt.Sprintf("%s --> %s joined %s", ts, sender, channel)
	case ircprotocol.EventServerError:
		return fmt.Sprintf("%s !!! server error: %s", ts, message)
	}

	var b strings.Builder
	b.WriteString(ts)
	b.WriteByte(' ')
	b.WriteString(event.Type.String())
	if sender != "" {
		b.WriteString(" " + sender)
	}
	if channel != "" && channel != sender {
		b.WriteString(" " + channel)
	}
	if message != "" {
		b.WriteString(": " + message)
	}
	return b.String()
}
