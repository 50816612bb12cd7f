package reader

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

var urlSchemes = []string{"http", "https"}

// OpenFile opens a template file as a streaming LineSource, transparently
// decompressing it if needed. The second return value is the file name with
// any compression extension removed.
//
// The returned source owns the file handle; Close it.
func OpenFile(filename string) (*StreamSource, string, error) {
	stream, decompressedName, err := zOpen(filename)
	if err != nil {
		return nil, "", err
	}

	log.Debug("Reading template from file: ", filename)
	return NewStreamSourceCloser(stream), decompressedName, nil
}

// OpenURL fetches a template over http(s) as a streaming LineSource. The
// returned source owns the response body; Close it.
func OpenURL(url string) (*StreamSource, error) {
	response, err := http.Get(url)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()
		return nil, fmt.Errorf("got HTTP %s fetching %s", response.Status, url)
	}

	log.Debug("Reading template from URL: ", url)
	return NewStreamSourceCloser(response.Body), nil
}

// OpenStream wraps an already-open device as a streaming LineSource,
// transparently decompressing it if needed. The device is not closed by the
// returned source.
func OpenStream(input io.Reader) (*StreamSource, error) {
	decompressed, err := zReader(input)
	if err != nil {
		return nil, err
	}
	return NewStreamSource(decompressed), nil
}

// Open maps a template name to the right LineSource: an http(s) URL is
// fetched, anything else is treated as a file path. This is the only place
// that cares about the concrete source kind; everything above it sees
// LineSource / Cursor only.
//
// The second return value is a display name for the template.
func Open(name string) (LineSource, string, error) {
	scheme, _, found := strings.Cut(name, "://")
	if found && slices.Contains(urlSchemes, scheme) {
		source, err := OpenURL(name)
		if err != nil {
			return nil, "", err
		}
		return source, name, nil
	}

	source, displayName, err := OpenFile(name)
	if err != nil {
		return nil, "", err
	}
	return source, displayName, nil
}
