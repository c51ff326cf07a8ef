package source

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// lineBufferPool holds the scratch buffers a LineReader borrows for one
// line extraction at a time. Acquisition and release are scoped to a
// single Next call on every exit path, including the error path, so a
// buffer is never held across reads and never leaked on a lex error
// upstream (spec.md §5).
var lineBufferPool = sync.Pool{
	New: func() any { return new(bytes.Buffer) },
}

// LineReader consumes a byte stream and yields logical lines together with
// a monotonically increasing 1-based line counter. \n is the line
// terminator; a trailing line without a newline is emitted once; empty
// input yields no lines. A LineReader is single-use — construct a fresh
// one per file so the line counter restarts at 1.
type LineReader struct {
	r      *bufio.Reader
	lineNo int
	done   bool
}

// NewLineReader wraps data for lazy line-by-line extraction.
func NewLineReader(data []byte) *LineReader {
	return &LineReader{r: bufio.NewReader(bytes.NewReader(data))}
}

// Next returns the next logical line (without its terminator), the
// 1-based line number, and true — or ok=false once the stream is
// exhausted.
func (lr *LineReader) Next() (line []byte, lineNo int, ok bool) {
	if lr.done {
		return nil, 0, false
	}

	buf := lineBufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer func() {
		lineBufferPool.Put(buf)
	}()

	for {
		chunk, err := lr.r.ReadBytes('\n')
		buf.Write(chunk)
		if err == io.EOF {
			lr.done = true
			break
		}
		if err != nil {
			lr.done = true
			break
		}
		break
	}

	if buf.Len() == 0 {
		return nil, 0, false
	}

	raw := buf.Bytes()
	if n := len(raw); n > 0 && raw[n-1] == '\n' {
		raw = raw[:n-1]
	}
	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
	}

	out := make([]byte, len(raw))
	copy(out, raw)

	lr.lineNo++
	return out, lr.lineNo, true
}
