package sdk

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputStreamReaders(t *testing.T) {
	s, err := NewInputStream(strings.NewReader("hello"), "", 0)
	require.NoError(t, err)
	assert.Equal(t, "application/octet-stream", s.MediaType())

	first, err := io.ReadAll(s.Reader())
	require.NoError(t, err)
	second, err := io.ReadAll(s.Reader())
	require.NoError(t, err)

	assert.Equal(t, "hello", string(first))
	assert.Equal(t, "hello", string(second))
	assert.Equal(t, 5, s.Len())
}

func TestInputStreamLimit(t *testing.T) {
	_, err := NewInputStream(strings.NewReader("0123456789"), "text/plain", 5)
	assert.ErrorIs(t, err, ErrStreamTooLarge)

	s, err := NewInputStream(strings.NewReader("01234"), "text/plain", 5)
	require.NoError(t, err)
	assert.Equal(t, "01234", string(s.Bytes()))
}

func TestInputStreamHeader(t *testing.T) {
	payload := bytes.Repeat([]byte{'a'}, HeaderLength+10)
	s := NewInputStreamBytes(payload, "text/plain")
	assert.Len(t, s.Header(), HeaderLength)

	small := NewInputStreamBytes([]byte("abc"), "")
	assert.Equal(t, []byte("abc"), small.Header())
}
