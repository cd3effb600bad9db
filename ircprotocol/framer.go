package ircprotocol

import (
	"bytes"
	"iter"
)

var delimiter = []byte(Delimiter)

// Framer splits an arbitrarily chunked byte stream into complete protocol
// lines. Bytes after the last delimiter are carried over to the next chunk.
//
// A Framer belongs to exactly one connection and is not safe for concurrent use.
type Framer struct {
	carry []byte
}

// NewFramer creates an empty framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Write appends a chunk to the carry buffer without extracting any lines.
func (f *Framer) Write(chunk []byte) {
	f.carry = append(f.carry, chunk...)
}

// Next extracts the oldest complete line from the carry buffer.
// Empty lines produced by consecutive delimiters are skipped.
// It returns false when no delimiter remains in the buffer.
func (f *Framer) Next() (string, bool) {
	for {
		i := bytes.Index(f.carry, delimiter)
		if i < 0 {
			return "", false
		}
		line := string(f.carry[:i])
		f.carry = f.carry[i+len(delimiter):]
		if len(f.carry) == 0 {
			f.carry = nil
		}
		if line != "" {
			return line, true
		}
	}
}

// Lines returns a lazy sequence of the complete lines currently buffered.
// Lines are removed as they are yielded; if the caller stops early the rest
// stay buffered and a later call to Lines picks up where this one stopped.
func (f *Framer) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			line, ok := f.Next()
			if !ok || !yield(line) {
				return
			}
		}
	}
}

// Feed appends a chunk and returns the lines it completed.
func (f *Framer) Feed(chunk []byte) iter.Seq[string] {
	f.Write(chunk)
	return f.Lines()
}

// Pending returns the number of carried bytes not yet terminated by a delimiter.
func (f *Framer) Pending() int {
	return len(f.carry)
}

// Reset discards the carry buffer and returns how many bytes were dropped.
// An unterminated line at end of stream is never emitted.
func (f *Framer) Reset() int {
	n := len(f.carry)
	f.carry = nil
	return n
}
