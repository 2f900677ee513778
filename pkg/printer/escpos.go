package printer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ESC/POS control bytes
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

const (
	FontNormal = 0x00
	FontDouble = 0x11
)

// Document lays out a ticket in fixed-width columns. An ESC/POS document
// carries printer commands; a plain one renders the same layout as text,
// with centering done by padding.
type Document struct {
	buf   bytes.Buffer
	width int
	plain bool
	align int
}

// NewDocument starts an ESC/POS document. Width is in characters: 32 for
// 58mm paper, 48 for 80mm.
func NewDocument(width int) *Document {
	d := newDocument(width, false)
	d.buf.Write([]byte{ESC, '@'})
	return d
}

// NewPlainDocument starts a text-only document with the same layout
func NewPlainDocument(width int) *Document {
	return newDocument(width, true)
}

func newDocument(width int, plain bool) *Document {
	if width <= 0 {
		width = 32
	}
	return &Document{width: width, plain: plain}
}

func (d *Document) command(b ...byte) *Document {
	if !d.plain {
		d.buf.Write(b)
	}
	return d
}

func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

func (d *Document) SetAlign(align int) *Document {
	d.align = align
	return d.command(ESC, 'a', byte(align))
}

func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	return d.command(ESC, 'E', b)
}

func (d *Document) SetFontSize(size byte) *Document {
	return d.command(GS, '!', size)
}

// Text writes one line, cut to the paper width
func (d *Document) Text(s string) *Document {
	s = fit(s, d.width)
	if d.plain {
		pad := d.width - utf8.RuneCountInString(s)
		switch d.align {
		case AlignCenter:
			s = strings.Repeat(" ", pad/2) + s
		case AlignRight:
			s = strings.Repeat(" ", pad) + s
		}
	}
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

func (d *Document) TextF(format string, args ...any) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

func (d *Document) Separator(char rune) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue puts key on the left and value on the right of one line. The
// key is shortened when both do not fit.
func (d *Document) KeyValue(key, value string) *Document {
	room := d.width - utf8.RuneCountInString(value) - 1
	key = fit(key, room)
	spaces := d.width - utf8.RuneCountInString(key) - utf8.RuneCountInString(value)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(value)
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints "2x Name" and the line total right-aligned
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.KeyValue(fmt.Sprintf("%dx %s", qty, name), total)
}

func (d *Document) PartialCut() *Document {
	return d.command(GS, 'V', 0x01)
}

func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

func (d *Document) String() string {
	return d.buf.String()
}

func fit(s string, width int) string {
	if width < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width])
}
