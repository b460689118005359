package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// maxMessageSize bounds a single wire line. Lines beyond this fail the read
// loop with bufio.ErrTooLong instead of exhausting memory.
const maxMessageSize = 1024 * 1024

// Framer reads and writes newline-delimited JSON messages over a byte
// stream. Every message is exactly one JSON object followed by one '\n';
// writes are atomic, so concurrent senders never interleave bytes within a
// message.
type Framer struct {
	scanner *bufio.Scanner

	mu     sync.Mutex // guards writer
	writer *bufio.Writer
}

// NewFramer creates a framer over the given stream ends.
func NewFramer(r io.Reader, w io.Writer) *Framer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)

	return &Framer{
		scanner: scanner,
		writer:  bufio.NewWriter(w),
	}
}

// WriteMessage serializes v as a single JSON line and flushes it to the
// stream.
func (f *Framer) WriteMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := f.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := f.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("failed to write message delimiter: %w", err)
	}
	if err := f.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush message: %w", err)
	}
	return nil
}

// ReadMessage returns the next non-empty line from the stream. It returns
// io.EOF once the underlying input is closed and drained.
func (f *Framer) ReadMessage() ([]byte, error) {
	for f.scanner.Scan() {
		line := bytes.TrimSpace(f.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		// The scanner reuses its buffer on the next Scan, so hand back a
		// copy the caller can hold on to.
		msg := make([]byte, len(line))
		copy(msg, line)
		return msg, nil
	}

	if err := f.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}
