package draw

import (
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"golang.org/x/term"
)

// maxChunkSize keeps each write under a typical 1500 byte MTU so frames
// stream smoothly over SSH.
const maxChunkSize = 1400

const (
	seqClear      = "\033[H\033[2J"
	seqHideCursor = "\033[?25l"
	seqShowCursor = "\033[?25h"
)

// ChunkWriter collects one frame of text output and sends it in
// network-sized chunks on Flush. Positions are 1-based canvas cells; the
// centering offset is added when the cursor sequence is written.
// It implements io.Writer so Canvas.Render can draw into the same frame.
type ChunkWriter struct {
	w      io.Writer
	buf    []byte
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that flushes to w.
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		w:      w,
		buf:    make([]byte, 0, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the centering offset after a resize.
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (int, error) {
	cw.buf = append(cw.buf, p...)
	return len(p), nil
}

// Clear queues a full screen clear.
func (cw *ChunkWriter) Clear() {
	cw.buf = append(cw.buf, seqClear...)
}

// WriteAt queues s at the given canvas cell.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.buf = appendCursor(cw.buf, row+cw.offRow, col+cw.offCol)
	cw.buf = append(cw.buf, s...)
}

// WriteCentered queues s centered on col.
func (cw *ChunkWriter) WriteCentered(col, row int, s string) {
	cw.WriteAt(col-utf8.RuneCountInString(s)/2, row, s)
}

// WriteCenteredColor queues s centered on col in the given SGR color.
// Centering uses the visible width, not the escape sequences.
func (cw *ChunkWriter) WriteCenteredColor(col, row int, color, s string) {
	cw.WriteAt(col-utf8.RuneCountInString(s)/2, row, Colorize(color, s))
}

// Flush sends the queued frame and resets the buffer.
func (cw *ChunkWriter) Flush() error {
	err := writeChunked(cw.w, cw.buf)
	cw.buf = cw.buf[:0]
	return err
}

var _ io.Writer = (*ChunkWriter)(nil)

// appendCursor appends a cursor position sequence for a 1-based terminal cell.
func appendCursor(dst []byte, row, col int) []byte {
	dst = append(dst, "\033["...)
	dst = strconv.AppendInt(dst, int64(row), 10)
	dst = append(dst, ';')
	dst = strconv.AppendInt(dst, int64(col), 10)
	return append(dst, 'H')
}

func writeChunked(w io.Writer, data []byte) error {
	for len(data) > 0 {
		n := min(len(data), maxChunkSize)
		if _, err := w.Write(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// TermSizeFunc returns the terminal dimensions. SSH sessions supply one fed
// by window-change events; local play uses DefaultTermSizeFunc.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns the size of the terminal attached to stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	_, _ = io.WriteString(w, seqClear)
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqHideCursor)
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	_, _ = io.WriteString(w, seqShowCursor)
}
