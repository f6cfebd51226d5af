package sdk

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
)

// HeaderLength is the number of leading bytes translators may sniff.
const HeaderLength = 1024

// ErrStreamTooLarge is returned when an input exceeds the configured buffer limit.
var ErrStreamTooLarge = errors.New("input stream exceeds the size limit")

// InputStream is a request input buffered once in memory. Every call to Reader
// returns a fresh cursor, so commands in the same batch never starve each other.
type InputStream struct {
	data      []byte
	mediaType string
}

// NewInputStream reads r to the end. A positive limit bounds the buffered size.
func NewInputStream(r io.Reader, mediaType string, limit int64) (*InputStream, error) {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.Wrap(err, "failed to buffer input stream")
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, ErrStreamTooLarge
	}
	return &InputStream{data: data, mediaType: mediaType}, nil
}

// NewInputStreamBytes wraps an in-memory payload.
func NewInputStreamBytes(data []byte, mediaType string) *InputStream {
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return &InputStream{data: data, mediaType: mediaType}
}

// Reader returns a new read-only cursor positioned at the start of the data.
func (s *InputStream) Reader() io.Reader {
	return bytes.NewReader(s.data)
}

// Header returns up to HeaderLength leading bytes.
func (s *InputStream) Header() []byte {
	if len(s.data) > HeaderLength {
		return s.data[:HeaderLength]
	}
	return s.data
}

// Bytes returns the whole buffered payload. Callers must not modify it.
func (s *InputStream) Bytes() []byte {
	return s.data
}

// Len returns the payload size.
func (s *InputStream) Len() int {
	return len(s.data)
}

// MediaType returns the declared media type of the stream.
func (s *InputStream) MediaType() string {
	return s.mediaType
}
