package ircprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the IRC client.
var (
	// ErrMalformedSender indicates a user identity lacked the nick!user@host separators.
	ErrMalformedSender = errors.New("malformed sender")

	// ErrTransportClosed indicates the server closed the connection.
	ErrTransportClosed = errors.New("transport closed")

	// ErrNotConnected indicates an operation was attempted without a connection.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates connect was called while already connected.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrInvalidCommand indicates an outbound command could not be formatted.
	ErrInvalidCommand = errors.New("invalid command")

	// ErrUnsupportedScheme indicates an address scheme the client cannot dial.
	ErrUnsupportedScheme = errors.New("unsupported address scheme")
)

// ParseError represents an error that occurred while parsing part of a line.
type ParseError struct {
	Kind  ParseErrorKind
	Value string // The input that caused the error
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindMalformedSender indicates an identity string without the expected separators.
	ErrKindMalformedSender ParseErrorKind = iota
	// ErrKindMalformedCommand indicates an outbound command containing line breaks.
	ErrKindMalformedCommand
	// ErrKindMissingArgument indicates a command was built without a required parameter.
	ErrKindMissingArgument
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindMalformedSender:
		return fmt.Sprintf("malformed sender '%s'", e.Value)
	case ErrKindMalformedCommand:
		return fmt.Sprintf("malformed command '%s'", e.Value)
	case ErrKindMissingArgument:
		return fmt.Sprintf("missing argument for %s", e.Value)
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

// Unwrap maps each kind onto its sentinel for errors.Is support.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case ErrKindMalformedSender:
		return ErrMalformedSender
	case ErrKindMalformedCommand, ErrKindMissingArgument:
		return ErrInvalidCommand
	default:
		return nil
	}
}

func newMalformedSenderError(identity string) error {
	return &ParseError{Kind: ErrKindMalformedSender, Value: identity}
}

func newMalformedCommandError(value string) error {
	return &ParseError{Kind: ErrKindMalformedCommand, Value: value}
}

func newMissingArgumentError(verb string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Value: verb}
}

// ConnectionError represents a connection-related error.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}
