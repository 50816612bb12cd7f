package reader

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	log "github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz"
)

// Template files are allowed to be compressed; detection is by magic bytes,
// never by extension.
var gzipMagic = []byte{0x1f, 0x8b}
var bzip2Magic = []byte{0x42, 0x5a, 0x68}
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
var xzMagic = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}

// zOpen opens a template file, transparently decompressing it if needed.
//
// The second return value is the file name with any compression extension
// removed, suitable for picking a highlighting lexer.
func zOpen(filename string) (io.ReadCloser, string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, "", err
	}

	// Sniff the longest magic number we know about
	firstBytes := make([]byte, 6)
	_, err = file.Read(firstBytes)
	if err != nil {
		if err == io.EOF {
			// File was empty
			return file, filename, nil
		}
		return nil, "", fmt.Errorf("failed to read template file: %w", err)
	}

	_, err = file.Seek(0, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to seek to start of template file: %w", err)
	}

	switch {
	case bytes.HasPrefix(firstBytes, gzipMagic):
		log.Debug("Template file is gzip compressed: ", filename)
		decompressed, err := gzip.NewReader(file)
		if err != nil {
			return nil, "", err
		}
		return decompressed, strings.TrimSuffix(filename, ".gz"), nil

	case bytes.HasPrefix(firstBytes, bzip2Magic):
		log.Debug("Template file is bzip2 compressed: ", filename)
		return struct {
			io.Reader
			io.Closer
		}{bzip2.NewReader(file), file}, strings.TrimSuffix(filename, ".bz2"), nil

	case bytes.HasPrefix(firstBytes, zstdMagic):
		log.Debug("Template file is zstd compressed: ", filename)
		decoder, err := zstd.NewReader(file)
		if err != nil {
			return nil, "", err
		}

		newName := strings.TrimSuffix(filename, ".zst")
		newName = strings.TrimSuffix(newName, ".zstd")
		return decoder.IOReadCloser(), newName, nil

	case bytes.HasPrefix(firstBytes, xzMagic):
		log.Debug("Template file is xz compressed: ", filename)
		xzReader, err := xz.NewReader(file)
		if err != nil {
			return nil, "", err
		}

		return struct {
			io.Reader
			io.Closer
		}{xzReader, file}, strings.TrimSuffix(filename, ".xz"), nil
	}

	return file, filename, nil
}

// zReader decompresses a template stream if its first bytes say it is
// compressed. Uncompressed streams are returned as-is. The stream cannot be
// rewound, so the sniffed bytes are stitched back in front.
func zReader(input io.Reader) (io.Reader, error) {
	firstBytes := make([]byte, 6)
	count, err := input.Read(firstBytes)
	if err != nil {
		if err == io.EOF {
			// Stream was empty
			return input, nil
		}
		return nil, fmt.Errorf("failed to read template stream: %w", err)
	}

	input = io.MultiReader(bytes.NewReader(firstBytes[:count]), input)

	switch {
	case bytes.HasPrefix(firstBytes, gzipMagic):
		log.Info("Template stream is gzip compressed")
		return gzip.NewReader(input)
	case bytes.HasPrefix(firstBytes, zstdMagic):
		log.Info("Template stream is zstd compressed")
		return zstd.NewReader(input)
	case bytes.HasPrefix(firstBytes, bzip2Magic):
		log.Info("Template stream is bzip2 compressed")
		return bzip2.NewReader(input), nil
	case bytes.HasPrefix(firstBytes, xzMagic):
		log.Info("Template stream is xz compressed")
		return xz.NewReader(input)
	default:
		return input, nil
	}
}
