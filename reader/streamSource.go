package reader

import (
	"bytes"
	"io"
)

// How many bytes we ask the device for per refill. Tuning constant, not part
// of the contract; lines longer than this span multiple refills.
const chunkSize = 256

// StreamSource is the streaming LineSource backend: a fixed-size read-ahead
// buffer refilled from the device on demand, with lines accumulated across
// refills into a growable pending buffer.
type StreamSource struct {
	reader         io.Reader
	closer         io.Closer
	pending        []byte
	buffer         []byte
	bufferSize     int
	bufferPosition int
	err            error
	done           bool
	eof            bool
}

// NewStreamSource returns a LineSource that reads the device incrementally.
// Closing the source does not close the reader; use NewStreamSourceCloser
// when the source should own the device handle.
func NewStreamSource(reader io.Reader) *StreamSource {
	return &StreamSource{
		reader: reader,
		buffer: make([]byte, chunkSize),
	}
}

// NewStreamSourceCloser is NewStreamSource for a device the source owns;
// Close releases it exactly once.
func NewStreamSourceCloser(reader io.ReadCloser) *StreamSource {
	source := NewStreamSource(reader)
	source.closer = reader
	return source
}

func (s *StreamSource) ReadLine() (*string, error) {
	if s.done {
		return nil, s.err
	}

	for {
		s.refillBuffer()
		if s.done {
			return nil, s.err
		}

		// INVARIANT: At this point the buffer has data to go through

		activeBuffer := s.buffer[s.bufferPosition:s.bufferSize]
		nextLinefeedIndex := bytes.IndexByte(activeBuffer, '\n')

		if nextLinefeedIndex >= 0 {
			// Line ends here, newline included
			s.pending = append(s.pending, activeBuffer[:nextLinefeedIndex+1]...)
			s.bufferPosition += nextLinefeedIndex + 1

			line := string(s.pending)
			s.pending = s.pending[:0]
			return &line, nil
		}

		// No newline in this fill, keep accumulating
		s.pending = append(s.pending, activeBuffer...)
		s.bufferPosition = s.bufferSize

		if s.eof {
			s.done = true

			if len(s.pending) == 0 {
				return nil, nil
			}

			// Final line without a trailing newline, hand it out once
			line := string(s.pending)
			s.pending = s.pending[:0]
			return &line, nil
		}
	}
}

func (s *StreamSource) refillBuffer() {
	if s.bufferPosition < s.bufferSize {
		// More buffered data to go through before asking for more
		return
	}
	if s.eof {
		if len(s.pending) == 0 {
			s.done = true
		}
		return
	}

	s.bufferSize, s.err = s.reader.Read(s.buffer)
	s.bufferPosition = 0
	if s.err == io.EOF {
		// Not an error, just the end of the device
		s.err = nil
		s.eof = true
	}

	if s.err != nil {
		// Device failure, can't go on
		s.done = true
		return
	}

	if s.eof && s.bufferSize <= 0 && len(s.pending) == 0 {
		s.done = true
	}
}

// End reports true once the device is known exhausted and everything
// buffered has been handed out. A consumed buffer from a full fill reports
// false; the next ReadLine refills to find out.
func (s *StreamSource) End() bool {
	if s.done {
		return true
	}
	if s.bufferPosition < s.bufferSize || len(s.pending) > 0 {
		return false
	}
	return s.eof
}

// Close releases the device, if this source owns one. Calling it again is a
// no-op.
func (s *StreamSource) Close() error {
	if s.closer == nil {
		return nil
	}

	closer := s.closer
	s.closer = nil
	return closer.Close()
}
