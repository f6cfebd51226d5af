package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/yozuk/yozuk-sub000/pkg/sdk"
)

const octetStream = "application/octet-stream"

// openStreams buffers piped stdin followed by every named file.
func openStreams(cmd *cobra.Command, files []string, limit int64) ([]*sdk.InputStream, error) {
	var streams []*sdk.InputStream
	if stdinPiped(cmd.InOrStdin()) {
		s, err := sdk.NewInputStream(cmd.InOrStdin(), octetStream, limit)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		streams = append(streams, s)
	}
	for _, name := range files {
		s, err := readStream(name, limit)
		if err != nil {
			return nil, err
		}
		streams = append(streams, s)
	}
	return streams, nil
}

func readStream(name string, limit int64) (*sdk.InputStream, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", name)
	}
	defer f.Close()
	s, err := sdk.NewInputStream(f, octetStream, limit)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", name)
	}
	return s, nil
}

// stdinPiped reports whether r is anything but a terminal. Readers other
// than *os.File count as piped.
func stdinPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
