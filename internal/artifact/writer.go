package artifact

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ErrClosed is returned when writing to a closed Writer.
var ErrClosed = errors.New("artifact is closed")

// ErrLineBreak is returned when a line contains a newline character.
var ErrLineBreak = errors.New("line contains a line break")

// Writer appends pages of lines to an artifact file.
// It is not safe for concurrent use; the crawler writes from one goroutine.
type Writer struct {
	path   string
	file   *os.File
	buf    *bufio.Writer
	digest hash.Hash
	lines  int
	// size is the length of the committed content.
	size   int64
	closed bool
}

// Create creates (or truncates) the artifact at path, making parent
// directories as needed.
func Create(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// 0644: the file is read by another local program.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // user-selected output path
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}

	return &Writer{
		path:   path,
		file:   f,
		buf:    bufio.NewWriter(f),
		digest: sha3.New256(),
	}, nil
}

// Path returns the artifact path.
func (w *Writer) Path() string {
	return w.path
}

// WritePage appends each line followed by "\n", then flushes and syncs the
// file. The page is all or nothing: if any step fails, the file is cut back
// to its length before the call and the error is returned.
func (w *Writer) WritePage(lines []string) error {
	if w.closed {
		return ErrClosed
	}
	for _, line := range lines {
		if strings.ContainsAny(line, "\r\n") {
			return fmt.Errorf("%w: %q", ErrLineBreak, line)
		}
	}

	var n int64
	for _, line := range lines {
		written, err := w.buf.WriteString(line + "\n")
		n += int64(written)
		if err != nil {
			return w.rollback(fmt.Errorf("failed to write artifact: %w", err))
		}
	}
	if err := w.buf.Flush(); err != nil {
		return w.rollback(fmt.Errorf("failed to flush artifact: %w", err))
	}
	if err := w.file.Sync(); err != nil {
		return w.rollback(fmt.Errorf("failed to sync artifact: %w", err))
	}

	for _, line := range lines {
		_, _ = w.digest.Write([]byte(line + "\n")) //nolint:errcheck // hash.Hash never fails
	}
	w.lines += len(lines)
	w.size += n
	return nil
}

// rollback drops buffered bytes and truncates the file to the committed size.
func (w *Writer) rollback(cause error) error {
	w.buf.Reset(w.file)
	truncErr := w.file.Truncate(w.size)
	_, seekErr := w.file.Seek(w.size, io.SeekStart)
	return errors.Join(cause, truncErr, seekErr)
}

// Close closes the file. Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// Lines returns the number of lines committed so far.
func (w *Writer) Lines() int {
	return w.lines
}

// Checksum returns the SHA3-256 hex digest of every committed line.
func (w *Writer) Checksum() string {
	return hex.EncodeToString(w.digest.Sum(nil))
}
