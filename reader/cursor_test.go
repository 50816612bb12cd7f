package reader

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

// The canonical walk: bounded search, single-character read, line reads,
// end detection, and stable exhaustion, over a source with no final newline.
func testCursorWalk(t *testing.T, cursor *Cursor) {
	prefix, err := cursor.ReadUntil("b")
	assert.NilError(t, err)
	assert.Equal(t, "a", *prefix)
	assert.Equal(t, 0, cursor.LineNumber())
	assert.Equal(t, 1, cursor.Column())

	char, err := cursor.ReadChar()
	assert.NilError(t, err)
	assert.Equal(t, "b", *char)

	rest, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "c\n", *rest)

	line, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "def", *line)
	assert.Equal(t, 1, cursor.LineNumber())

	atEnd, err := cursor.End()
	assert.NilError(t, err)
	assert.Assert(t, atEnd)

	line, err = cursor.ReadLine()
	assert.NilError(t, err)
	assert.Assert(t, line == nil)
}

func TestCursorWalkMaterialized(t *testing.T) {
	testCursorWalk(t, NewCursorFromString("abc\ndef"))
}

func TestCursorWalkStreaming(t *testing.T) {
	testCursorWalk(t, NewCursor(NewStreamSource(strings.NewReader("abc\ndef"))))
}

func TestCursorReadCharUnreadChar(t *testing.T) {
	cursor := NewCursorFromString("xy\n")

	first, err := cursor.ReadChar()
	assert.NilError(t, err)
	assert.Equal(t, "x", *first)
	columnAfterRead := cursor.Column()

	cursor.UnreadChar()
	assert.Equal(t, 0, cursor.Column())

	again, err := cursor.ReadChar()
	assert.NilError(t, err)
	assert.Equal(t, "x", *again)
	assert.Equal(t, columnAfterRead, cursor.Column())
}

func TestCursorUnreadCharClamps(t *testing.T) {
	cursor := NewCursorFromString("xy\n")

	// Nothing read yet; the column must not go negative
	cursor.UnreadChar()
	assert.Equal(t, 0, cursor.Column())

	char, err := cursor.ReadChar()
	assert.NilError(t, err)
	assert.Equal(t, "x", *char)

	cursor.UnreadChar()
	cursor.UnreadChar()
	assert.Equal(t, 0, cursor.Column())
}

func TestCursorReadCharStopsAtLineEnd(t *testing.T) {
	cursor := NewCursorFromString("a\nb")

	char, err := cursor.ReadChar()
	assert.NilError(t, err)
	assert.Equal(t, "a", *char)

	char, err = cursor.ReadChar()
	assert.NilError(t, err)
	assert.Equal(t, "\n", *char)

	// End of line; crossing is ReadLine's job
	char, err = cursor.ReadChar()
	assert.NilError(t, err)
	assert.Assert(t, char == nil)

	line, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "b", *line)
}

func TestCursorLineNumber(t *testing.T) {
	cursor := NewCursorFromString("one\ntwo\nthree")

	// Zero before the first fetch and throughout the first line
	assert.Equal(t, 0, cursor.LineNumber())

	line, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "one\n", *line)
	assert.Equal(t, 0, cursor.LineNumber())

	line, err = cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "two\n", *line)
	assert.Equal(t, 1, cursor.LineNumber())

	line, err = cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "three", *line)
	assert.Equal(t, 2, cursor.LineNumber())

	// Exhausting the input does not bump the counter
	line, err = cursor.ReadLine()
	assert.NilError(t, err)
	assert.Assert(t, line == nil)
	assert.Equal(t, 2, cursor.LineNumber())
}

func TestCursorReadUntil(t *testing.T) {
	cursor := NewCursorFromString("hello {{name}}!\n")

	prefix, err := cursor.ReadUntil("{{")
	assert.NilError(t, err)
	assert.Equal(t, "hello ", *prefix)

	// The cursor sits on the terminator itself
	char, err := cursor.ReadChar()
	assert.NilError(t, err)
	assert.Equal(t, "{", *char)
	cursor.UnreadChar()

	prefix, err = cursor.ReadUntil("}}")
	assert.NilError(t, err)
	assert.Equal(t, "{{name", *prefix)

	// Terminator not on this line
	missing, err := cursor.ReadUntil("{{")
	assert.NilError(t, err)
	assert.Assert(t, missing == nil)
}

func TestCursorReadUntilCrossesConsumedLine(t *testing.T) {
	cursor := NewCursorFromString("first\nsee}}\n")

	line, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "first\n", *line)

	// The current line is used up, so the search refills onto the next one
	prefix, err := cursor.ReadUntil("}}")
	assert.NilError(t, err)
	assert.Equal(t, "see", *prefix)
	assert.Equal(t, 1, cursor.LineNumber())
	assert.Equal(t, 3, cursor.Column())
}

func TestCursorReadToLineEnd(t *testing.T) {
	cursor := NewCursorFromString("abc\ndef\n")

	// Performs the very first fetch
	rest, err := cursor.ReadToLineEnd()
	assert.NilError(t, err)
	assert.Equal(t, "abc\n", *rest)

	// But never crosses into the next line
	rest, err = cursor.ReadToLineEnd()
	assert.NilError(t, err)
	assert.Assert(t, rest == nil)

	line, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "def\n", *line)
}

func TestCursorEnd(t *testing.T) {
	cursor := NewCursorFromString("abc\ndef\n")

	atEnd, err := cursor.End()
	assert.NilError(t, err)
	assert.Assert(t, !atEnd)

	line, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "abc\n", *line)

	// Sitting at the end of a non-final line is not the end
	atEnd, err = cursor.End()
	assert.NilError(t, err)
	assert.Assert(t, !atEnd)

	// The look-ahead left the consumed position unchanged
	line, err = cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "def\n", *line)

	atEnd, err = cursor.End()
	assert.NilError(t, err)
	assert.Assert(t, atEnd)

	// Asking again is fine
	atEnd, err = cursor.End()
	assert.NilError(t, err)
	assert.Assert(t, atEnd)
}

func TestCursorEndEmptyInput(t *testing.T) {
	cursor := NewCursorFromString("")

	atEnd, err := cursor.End()
	assert.NilError(t, err)
	assert.Assert(t, atEnd)
}

func TestCursorBlankTrailing(t *testing.T) {
	blank, err := NewCursorFromString("  \n").BlankTrailing()
	assert.NilError(t, err)
	assert.Assert(t, *blank)

	blank, err = NewCursorFromString("x \n").BlankTrailing()
	assert.NilError(t, err)
	assert.Assert(t, !*blank)

	blank, err = NewCursorFromString(" \t\r\n").BlankTrailing()
	assert.NilError(t, err)
	assert.Assert(t, *blank)
}

func TestCursorBlankTrailingAfterTag(t *testing.T) {
	cursor := NewCursorFromString("{{#list}}  \nitem\n")

	prefix, err := cursor.ReadUntil("}}")
	assert.NilError(t, err)
	assert.Equal(t, "{{#list", *prefix)

	// Skip the terminator
	for i := 0; i < 2; i++ {
		_, err := cursor.ReadChar()
		assert.NilError(t, err)
	}

	blank, err := cursor.BlankTrailing()
	assert.NilError(t, err)
	assert.Assert(t, *blank)
}

func TestCursorBlankTrailingConsumedLine(t *testing.T) {
	cursor := NewCursorFromString("ab\n")

	line, err := cursor.ReadLine()
	assert.NilError(t, err)
	assert.Equal(t, "ab\n", *line)

	// Fully consumed line: no data, which is not the same as false
	blank, err := cursor.BlankTrailing()
	assert.NilError(t, err)
	assert.Assert(t, blank == nil)
}

func TestCursorClose(t *testing.T) {
	closer := &countingCloser{Reader: strings.NewReader("apor\n")}
	cursor := NewCursor(NewStreamSourceCloser(closer))

	assert.NilError(t, cursor.Close())
	assert.Equal(t, 1, closer.closeCount)
}
