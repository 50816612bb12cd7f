package cmd

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlight renders text with terminal escape codes, with the lexer picked
// from the template's file name.
//
// Returns nil with no error if highlighting would be a no-op.
func highlight(text string, filename string) (*string, error) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		// No highlighter available for this file type
		return nil, nil
	}

	if lexer.Config().Name == "plaintext" {
		// This highlighter doesn't do anything, skipping it is cheaper
		return nil, nil
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	err = formatters.TTY256.Format(&buffer, styles.Get("native"), iterator)
	if err != nil {
		return nil, err
	}

	// Chroma likes to put an SGR reset by itself on the last line, which
	// would make us print one line too many. Drop it.
	highlighted := strings.TrimSuffix(buffer.String(), "\x1b[0m")

	return &highlighted, nil
}
