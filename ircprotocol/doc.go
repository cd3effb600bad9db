// Package ircprotocol provides a Go implementation of a minimal IRC client:
// a line framer, an event classifier, outbound command formatting and a
// sequential read/dispatch loop over a TCP or WebSocket transport.
//
// # Protocol Overview
//
// IRC is a line-oriented text protocol. Every message is terminated by a
// carriage-return line-feed pair, but TCP delivers bytes in arbitrary chunks,
// so incoming data first passes through a Framer which buffers partial lines
// across chunk boundaries:
//
//	chunk 1: ":irc.example.com 001 bob :Wel"
//	chunk 2: "come\r\nPING :irc.example.com\r\n"
//	lines:   ":irc.example.com 001 bob :Welcome"
//	         "PING :irc.example.com"
//
// Each complete line is then classified into an Event with a normalized
// Sender:
//
//	PING :irc.example.com                  -> EventServerPing  (SYSTEM sender)
//	:nick!real@host PRIVMSG #chan :hello   -> EventUserMessage (USER sender)
//	:nick!real@host PRIVMSG bob :hi        -> EventReceivedPrivateMessage
//	:server 474 bob #chan :Banned          -> EventBanned
//
// Classification is total: a line that matches no rule becomes an
// EventUnknown rather than an error.
//
// # Basic Usage
//
//	client := ircprotocol.NewClient()
//	if err := client.Connect(ctx, "irc.libera.chat:6667"); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	client.Register(ircprotocol.Identity{Nick: "bob", Realname: "Bob"})
//	client.Join("#go-nuts", "")
//
//	err := client.Run(ctx, func(event ircprotocol.Event) {
//	    if event.Type == ircprotocol.EventUserMessage {
//	        fmt.Printf("<%s> %s\n", event.Sender.Name(), event.MessageText())
//	    }
//	})
//	if errors.Is(err, ircprotocol.ErrTransportClosed) {
//	    // server hung up
//	}
//
// # Decoding Without a Connection
//
// The Decoder runs the Framer and the classifier over chunks supplied by the
// caller:
//
//	dec := ircprotocol.NewDecoder()
//	for _, event := range dec.Feed(chunk) {
//	    handle(event)
//	}
//
// # Thread Safety
//
// Framer, Decoder and Classifier are not safe for concurrent use; run one per
// connection. Client serializes writes, so commands may be sent from another
// goroutine while Run is dispatching.
package ircprotocol
