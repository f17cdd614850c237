package format

import "strings"

// Writer is the output buffer of the printer. Indentation is written
// lazily, on the first byte of each line, so blank lines stay empty.
type Writer struct {
	buf     []byte
	unit    string // one indentation step
	depth   int
	midLine bool
}

func NewWriter(opt Options) *Writer {
	opt = opt.withDefaults()
	unit := "\t"
	if !opt.UseTabs {
		unit = strings.Repeat(" ", opt.IndentWidth)
	}
	return &Writer{buf: make([]byte, 0, 256), unit: unit}
}

func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) String() string { return string(w.buf) }

func (w *Writer) startLine() {
	if w.midLine {
		return
	}
	for range w.depth {
		w.buf = append(w.buf, w.unit...)
	}
	w.midLine = true
}

func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	w.startLine()
	w.buf = append(w.buf, s...)
	w.midLine = s[len(s)-1] != '\n'
}

func (w *Writer) WriteByte(c byte) error {
	w.startLine()
	w.buf = append(w.buf, c)
	w.midLine = c != '\n'
	return nil
}

func (w *Writer) lastByte(back int) byte {
	if len(w.buf) < back {
		return 0
	}
	return w.buf[len(w.buf)-back]
}

// Newline ends the current line; it never produces an empty line.
func (w *Writer) Newline() {
	if len(w.buf) > 0 && w.lastByte(1) != '\n' {
		w.buf = append(w.buf, '\n')
	}
	w.midLine = false
}

// BlankLine ends the current line and leaves exactly one empty line.
func (w *Writer) BlankLine() {
	w.Newline()
	if len(w.buf) > 1 && w.lastByte(2) != '\n' {
		w.buf = append(w.buf, '\n')
	}
}

func (w *Writer) Indent() { w.depth++ }

func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}
