// Package reader is the input layer of the template engine: it turns a text
// source (an in-memory string, a file, a URL or an open stream) into a
// Cursor supporting line and column oriented reads, bounded substring
// search, single-character look-ahead and end-of-input detection.
//
// The parser only ever talks to a Cursor; whether the underlying source is
// fully materialized or streamed a chunk at a time is hidden behind the
// LineSource interface.
package reader

// LineSource produces one line at a time from some text source.
//
// Lines keep their trailing newline, except possibly the last one. Together
// the returned lines cover the source exactly once, in order.
type LineSource interface {
	// ReadLine returns the next line from the source.
	//
	// Once the source is exhausted, *string will be nil. Exhaustion is not
	// an error; a non-nil error means the underlying device failed.
	ReadLine() (*string, error)

	// End reports whether the source is known to have no more lines.
	//
	// A streaming source that has consumed a full buffer fill returns false
	// here even if the device happens to be exhausted; the next ReadLine
	// settles the question.
	End() bool

	// Close releases any underlying device. Safe to call more than once.
	Close() error
}
