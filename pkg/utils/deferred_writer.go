package utils

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// DeferredWriter buffers all writes in memory until flushed, so the
// target file is only ever touched with the complete rendered document.
// Safe for concurrent use.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write stores data in the internal buffer.
func (d *DeferredWriter) Write(p []byte) (n int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Len reports the number of buffered bytes.
func (d *DeferredWriter) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Len()
}

// Flush writes all buffered data to w and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(w)
	return err
}

// FlushFile writes the buffered data to path in a single whole-file
// write, creating parent directories as needed.
func (d *DeferredWriter) FlushFile(path string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, d.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	d.buf.Reset()
	return nil
}
