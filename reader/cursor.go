package reader

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Cursor is what the parser holds: a line-buffering wrapper around a
// LineSource that adds column-level positioning, bounded substring search
// and single-character look-ahead.
//
// Positions are byte offsets and ReadChar reads one byte. Template
// delimiters are ASCII, and multi-byte runes pass through the chunked reads
// (ReadLine, ReadUntil) intact, so byte granularity is all the parser needs.
//
// A Cursor is single-owner: no operation may be invoked concurrently.
type Cursor struct {
	source LineSource

	// The line being consumed, nil before the first fetch and after the
	// source runs out
	line *string

	lineNumber int
	column     int
}

// NewCursor returns a Cursor over the given source. Closing the cursor
// closes the source.
func NewCursor(source LineSource) *Cursor {
	return &Cursor{source: source}
}

// NewCursorFromString returns a Cursor over an in-memory template.
func NewCursorFromString(text string) *Cursor {
	return NewCursor(NewStringSource(text))
}

// LineNumber returns the zero-based number of the line being consumed. It
// stays 0 throughout the first line.
func (c *Cursor) LineNumber() int {
	return c.lineNumber
}

// Column returns the zero-based byte offset into the current line where the
// next read will start.
func (c *Cursor) Column() int {
	return c.column
}

// fetchLine pulls the next line from the source, making it current. The
// line number only moves when an earlier line existed and the fetch
// actually produced one: never on the first fetch, never at end of input.
func (c *Cursor) fetchLine() error {
	hadLine := c.line != nil

	line, err := c.source.ReadLine()
	if err != nil {
		return err
	}

	c.line = line
	c.column = 0
	if hadLine && line != nil {
		c.lineNumber++
	}
	return nil
}

// ensureLine makes sure the current line has unread bytes left, fetching
// the next line when the column has run off the end. After end of input
// c.line stays nil.
func (c *Cursor) ensureLine() error {
	if c.line != nil && c.column < len(*c.line) {
		return nil
	}
	return c.fetchLine()
}

// ReadLine returns the unread remainder of the current line, fetching the
// next line first if the current one is used up. nil at end of input.
func (c *Cursor) ReadLine() (*string, error) {
	if err := c.ensureLine(); err != nil {
		return nil, err
	}
	if c.line == nil {
		return nil, nil
	}

	rest := (*c.line)[c.column:]
	c.column = len(*c.line)
	return &rest, nil
}

// ReadToLineEnd returns the unread remainder of the current line, like
// ReadLine, but never crosses a line boundary: it only fetches if no line
// has been fetched yet. nil if the remainder is empty.
func (c *Cursor) ReadToLineEnd() (*string, error) {
	if c.line == nil {
		if err := c.fetchLine(); err != nil {
			return nil, err
		}
		if c.line == nil {
			return nil, nil
		}
	}

	rest := (*c.line)[c.column:]
	if len(rest) == 0 {
		return nil, nil
	}
	c.column = len(*c.line)
	return &rest, nil
}

// ReadUntil searches the remainder of the current line for terminator. On a
// hit it returns the text before the match and leaves the cursor on the
// match's first byte, so the next read starts at the terminator. nil if the
// current line has no match; callers wanting cross-line search loop with
// ReadLine and End.
func (c *Cursor) ReadUntil(terminator string) (*string, error) {
	if err := c.ensureLine(); err != nil {
		return nil, err
	}
	if c.line == nil {
		return nil, nil
	}

	rest := (*c.line)[c.column:]
	matchIndex := strings.Index(rest, terminator)
	if matchIndex < 0 {
		return nil, nil
	}

	prefix := rest[:matchIndex]
	c.column += matchIndex
	return &prefix, nil
}

// ReadChar returns the single byte at the cursor as a one-character string
// and moves past it. nil at end of line or input; crossing into the next
// line is ReadLine's job, which keeps UnreadChar a same-line affair.
func (c *Cursor) ReadChar() (*string, error) {
	if c.line == nil {
		if err := c.fetchLine(); err != nil {
			return nil, err
		}
		if c.line == nil {
			return nil, nil
		}
	}
	if c.column >= len(*c.line) {
		return nil, nil
	}

	char := (*c.line)[c.column : c.column+1]
	c.column++
	return &char, nil
}

// UnreadChar steps the cursor back one byte, undoing the most recent
// ReadChar. Only valid immediately after a successful ReadChar on the same
// line; anything else is a caller bug. The column is clamped at 0 rather
// than going negative.
func (c *Cursor) UnreadChar() {
	if c.column <= 0 {
		log.Debug("UnreadChar with nothing read on this line, ignoring")
		return
	}
	c.column--
}

// End reports whether the whole input has been consumed. When the current
// line is used up and the source can't rule out more data, deciding takes a
// one-line look-ahead: the fetched line either becomes current (not at end,
// and the consumed position is unchanged) or turns out not to exist.
func (c *Cursor) End() (bool, error) {
	if c.line != nil {
		if c.column < len(*c.line) {
			return false, nil
		}
		if c.source.End() {
			return true, nil
		}
	}

	if err := c.fetchLine(); err != nil {
		return false, err
	}
	return c.line == nil, nil
}

// BlankTrailing reports whether everything from the cursor to the end of
// the current line is whitespace (space, tab, CR, LF). The parser uses this
// to spot standalone tags. nil when the current line is already fully
// consumed.
func (c *Cursor) BlankTrailing() (*bool, error) {
	if c.line == nil {
		if err := c.fetchLine(); err != nil {
			return nil, err
		}
		if c.line == nil {
			return nil, nil
		}
	}

	rest := (*c.line)[c.column:]
	if len(rest) == 0 {
		return nil, nil
	}

	blank := strings.TrimRight(rest, " \t\r\n") == ""
	return &blank, nil
}

// Close releases the underlying source.
func (c *Cursor) Close() error {
	return c.source.Close()
}
