package util

import (
	"errors"
	"io"
	"net/http"
)

// GetSafeContentType sniffs the real content type from the first bytes of
// the file instead of trusting the client header, then rewinds the reader.
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}
