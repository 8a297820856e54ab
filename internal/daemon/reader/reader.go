// Package reader reads newly appended lines from append-only JSONL files.
package reader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Reader tracks a byte offset per file. Offsets live in memory only;
// after a restart every file is read again from the start.
type Reader struct {
	mu      sync.Mutex
	offsets map[string]int64
}

// New creates a reader with an empty cursor table.
func New() *Reader {
	return &Reader{offsets: make(map[string]int64)}
}

// Offset returns the recorded offset for path (0 if unseen).
func (r *Reader) Offset(path string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offsets[path]
}

// Reset rewinds path to the start so the next read returns the whole file.
func (r *Reader) Reset(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.offsets, path)
}

// Len returns the number of files with a recorded offset.
func (r *Reader) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.offsets)
}

// ReadNew returns the complete lines appended to path since the last call.
//
// A file no larger than the recorded offset (unchanged, truncated or
// rotated) yields no lines and leaves the offset alone. Bytes after the
// last newline are returned only when they already form a complete JSON
// value; otherwise the offset stops at the newline and the fragment is
// read again once the writer finishes it. On error the offset is unchanged.
func (r *Reader) ReadNew(path string) ([][]byte, error) {
	prev := r.Offset(path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := info.Size()
	if size <= prev {
		return nil, nil
	}

	buf := make([]byte, size-prev)
	n, err := f.ReadAt(buf, prev)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	lines, consumed := splitLines(buf[:n])

	r.mu.Lock()
	r.offsets[path] = prev + consumed
	r.mu.Unlock()

	return lines, nil
}

// splitLines splits data on newlines, dropping blank lines, and reports how
// many bytes were consumed.
func splitLines(data []byte) ([][]byte, int64) {
	end := bytes.LastIndexByte(data, '\n')

	var lines [][]byte
	for _, line := range bytes.Split(data[:end+1], []byte{'\n'}) {
		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	consumed := int64(end + 1)

	tail := bytes.TrimSpace(data[end+1:])
	switch {
	case len(tail) == 0:
		consumed = int64(len(data))
	case json.Valid(tail):
		lines = append(lines, tail)
		consumed = int64(len(data))
	}

	return lines, consumed
}
