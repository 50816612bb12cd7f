package reader

import (
	"strings"
)

// StringSource is the materialized LineSource backend: the whole template is
// already in memory and line boundaries are found by scanning for '\n' from
// the current offset.
type StringSource struct {
	text string
	pos  int
}

// NewStringSource returns a LineSource over an in-memory template.
func NewStringSource(text string) *StringSource {
	return &StringSource{text: text}
}

func (s *StringSource) ReadLine() (*string, error) {
	if s.pos >= len(s.text) {
		return nil, nil
	}

	linefeedIndex := strings.IndexByte(s.text[s.pos:], '\n')
	if linefeedIndex < 0 {
		// Last line, no trailing newline
		line := s.text[s.pos:]
		s.pos = len(s.text)
		return &line, nil
	}

	line := s.text[s.pos : s.pos+linefeedIndex+1]
	s.pos += linefeedIndex + 1
	return &line, nil
}

func (s *StringSource) End() bool {
	return s.pos >= len(s.text)
}

// Close is a no-op; there is no device to release.
func (s *StringSource) Close() error {
	return nil
}
