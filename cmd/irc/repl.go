package main

import (
	"errors"
	"fmt"
	"io"
)

// lineReader is the part of LineEditor the REPL needs.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// runREPL reads input until EOF or /quit. It reports whether the user
// asked to quit.
func runREPL(editor lineReader, sess *session) bool {
	for {
		line, err := editor.GetLine(sess.prompt())
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printError(fmt.Sprintf("input: %v", err))
			}
			return false
		}

		action, err := translateInput(line, sess.current)
		if err != nil {
			printError(err.Error())
			continue
		}

		switch action.kind {
		case actionNone:
		case actionHelp:
			sess.outMu.Lock()
			printHelp(sess.out, action.topic)
			sess.outMu.Unlock()
		case actionSwitch:
			if action.switchTo == "" {
				if sess.current == "" {
					sess.println("No current channel.")
				} else {
					sess.println("Current channel: " + sess.current)
				}
				continue
			}
			sess.current = action.switchTo
		case actionHistory:
			sess.printHistory(action.count)
		case actionQuit:
			if err := sess.sendAll(action.commands); err != nil {
				sess.logger.Debug().Err(err).Msg("quit not delivered")
			}
			return true
		case actionSend:
			if err := sess.sendAll(action.commands); err != nil {
				printError(err.Error())
				continue
			}
			if action.switchTo != "" {
				sess.current = action.switchTo
			}
		}
	}
}
