// =============================================================================
// help.go - Help System
// =============================================================================
//
//   /help          full command listing
//   /help <topic>  detailed help for one command
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

var helpTopics = map[string]string{
	"join": `/join #channel [key]
    Join a channel and make it the current channel. The leading # may be
    omitted. Alias: /j`,
	"part": `/part [#channel] [reason]
    Leave a channel. Without a channel, leaves the current one.
    Alias: /leave`,
	"msg": `/msg target text
    Send a private message to a nick or a channel. Alias: /query`,
	"notice": `/notice target text
    Send a NOTICE to a nick or a channel.`,
	"nick": `/nick newnick
    Change your nickname.`,
	"topic": `/topic [#channel] [text]
    Set the topic of a channel, or ask the server for it when no text is
    given. Without a channel, uses the current one.`,
	"ping": `/ping [token]
    Send a PING to the server.`,
	"raw": `/raw line
    Send a line to the server exactly as typed. Alias: /quote`,
	"channel": `/channel [#channel]
    Switch the current channel without joining, or show it when no channel
    is given. Plain text is sent to the current channel. Alias: /c`,
	"history": `/history [count]
    Show the most recent stored events (default 20). Requires a Redis
    event log.`,
	"quit": `/quit [reason]
    Disconnect from the server and exit. Alias: /exit`,
	"help": `/help [topic]
    Show all commands, or detailed help for one. Alias: /?`,
}

var helpSummary = []struct{ usage, text string }{
	{"/join #channel [key]", "join a channel"},
	{"/part [#channel] [reason]", "leave a channel"},
	{"/msg target text", "private message"},
	{"/notice target text", "send a notice"},
	{"/nick newnick", "change nickname"},
	{"/topic [#channel] [text]", "set or query topic"},
	{"/ping [token]", "ping the server"},
	{"/raw line", "send a raw protocol line"},
	{"/channel [#channel]", "switch current channel"},
	{"/history [count]", "show stored events"},
	{"/quit [reason]", "disconnect and exit"},
	{"/help [topic]", "show help"},
}

func printHelp(w io.Writer, topic string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		fmt.Fprintln(w, "Commands:")
		for _, entry := range helpSummary {
			fmt.Fprintf(w, "  %-28s %s\n", entry.usage, entry.text)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Any other text is sent to the current channel. Start a line with // to")
		fmt.Fprintln(w, "send text that begins with a slash.")
		return
	}

	if text, ok := helpTopics[resolveHelpAlias(topic)]; ok {
		fmt.Fprintln(w, text)
		return
	}
	fmt.Fprintf(w, "No help for %q. Topics: %s\n", topic, strings.Join(helpTopicNames(), ", "))
}

func resolveHelpAlias(topic string) string {
	switch topic {
	case "j":
		return "join"
	case "leave":
		return "part"
	case "query":
		return "msg"
	case "quote":
		return "raw"
	case "c":
		return "channel"
	case "exit":
		return "quit"
	case "?":
		return "help"
	}
	return topic
}

func helpTopicNames() []string {
	names := make([]string, 0, len(helpTopics))
	for name := range helpTopics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
