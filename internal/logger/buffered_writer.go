package logger

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	fileBufferSize = 32 * 1024

	// DefaultFlushInterval bounds how long a log line may sit in the buffer.
	DefaultFlushInterval = 5 * time.Second
)

var errWriterClosed = errors.New("log writer is closed")

// BufferedFileWriter appends to a log file through a buffer that a
// background goroutine flushes every interval. Safe for concurrent use.
type BufferedFileWriter struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer

	stop chan struct{}
	done chan struct{}
}

// NewBufferedFileWriter opens path for appending. An interval of zero
// disables the background flush; Flush and Close still write.
func NewBufferedFileWriter(path string, interval time.Duration) (*BufferedFileWriter, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions) //nolint:gosec // path comes from the config file
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	w := &BufferedFileWriter{
		file: file,
		buf:  bufio.NewWriterSize(file, fileBufferSize),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if interval > 0 {
		go w.flushEvery(interval)
	} else {
		close(w.done)
	}
	return w, nil
}

func (w *BufferedFileWriter) flushEvery(interval time.Duration) {
	defer close(w.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			// a failing flush surfaces on the next Write
			_ = w.Flush()
		}
	}
}

func (w *BufferedFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf == nil {
		return 0, errWriterClosed
	}
	return w.buf.Write(p)
}

// Flush hands buffered lines to the operating system without fsync.
func (w *BufferedFileWriter) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf == nil {
		return nil
	}
	return w.buf.Flush()
}

// Close flushes, syncs and closes the file. Later calls return nil.
func (w *BufferedFileWriter) Close() error {
	w.mu.Lock()
	if w.buf == nil {
		w.mu.Unlock()
		return nil
	}
	buf, file := w.buf, w.file
	w.buf, w.file = nil, nil
	w.mu.Unlock()

	close(w.stop)
	<-w.done

	return errors.Join(buf.Flush(), file.Sync(), file.Close())
}
