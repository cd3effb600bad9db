package ircprotocol

import "iter"

// Decoder runs a Framer and a Classifier over chunks received from one
// connection.
type Decoder struct {
	framer     *Framer
	classifier *Classifier
}

// NewDecoder creates a decoder with its own carry buffer.
func NewDecoder(opts ...ClassifierOption) *Decoder {
	return &Decoder{
		framer:     NewFramer(),
		classifier: NewClassifier(opts...),
	}
}

// Feed appends a chunk and returns the events for every line it completed,
// in arrival order.
func (d *Decoder) Feed(chunk []byte) []Event {
	var events []Event
	for event := range d.Events(chunk) {
		events = append(events, event)
	}
	return events
}

// Events is the lazy form of Feed. Lines not consumed stay buffered.
func (d *Decoder) Events(chunk []byte) iter.Seq[Event] {
	lines := d.framer.Feed(chunk)
	return func(yield func(Event) bool) {
		for line := range lines {
			if !yield(d.classifier.Classify(line)) {
				return
			}
		}
	}
}

// Classify classifies a line that did not come from the transport, such as
// an outbound command echoed for display.
func (d *Decoder) Classify(line string) Event {
	return d.classifier.Classify(line)
}

// Pending returns the number of buffered bytes not yet forming a line.
func (d *Decoder) Pending() int {
	return d.framer.Pending()
}

// Close discards any unterminated remainder and returns its length.
func (d *Decoder) Close() int {
	return d.framer.Reset()
}
