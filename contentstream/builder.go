package contentstream

import (
	"bytes"
	"fmt"

	"github.com/corepdf/corepdf/model"
)

// Builder accumulates content-stream bytes operator by operator. It is a
// single stateful buffer rather than a typed Operation value per call:
// authoring straightforward page content never needs to inspect or rewrite
// operations after emitting them.
type Builder struct {
	buf bytes.Buffer
}

// NewBuilder returns an empty content-stream Builder.
func NewBuilder() *Builder { return &Builder{} }

// Bytes returns the accumulated content-stream bytes.
func (b *Builder) Bytes() []byte { return b.buf.Bytes() }

func (b *Builder) op(format string, args ...interface{}) *Builder {
	fmt.Fprintf(&b.buf, format, args...)
	b.buf.WriteByte('\n')
	return b
}

// Save emits "q".
func (b *Builder) Save() *Builder { return b.op("q") }

// Restore emits "Q".
func (b *Builder) Restore() *Builder { return b.op("Q") }

// Concat emits "cm" with the given matrix.
func (b *Builder) Concat(m Matrix) *Builder {
	return b.op("%.4f %.4f %.4f %.4f %.4f %.4f cm", m.A, m.B, m.C, m.D, m.E, m.F)
}

// Rectangle emits "re".
func (b *Builder) Rectangle(x, y, w, h float64) *Builder {
	return b.op("%.2f %.2f %.2f %.2f re", x, y, w, h)
}

// Fill emits "f".
func (b *Builder) Fill() *Builder { return b.op("f") }

// Stroke emits "S".
func (b *Builder) Stroke() *Builder { return b.op("S") }

// SetFillGray emits "g".
func (b *Builder) SetFillGray(gray float64) *Builder { return b.op("%.3f g", gray) }

// SetFillRGB emits "rg".
func (b *Builder) SetFillRGB(r, g, bl float64) *Builder { return b.op("%.3f %.3f %.3f rg", r, g, bl) }

// SetLineWidth emits "w".
func (b *Builder) SetLineWidth(w float64) *Builder { return b.op("%.2f w", w) }

// BeginText emits "BT".
func (b *Builder) BeginText() *Builder { return b.op("BT") }

// EndText emits "ET".
func (b *Builder) EndText() *Builder { return b.op("ET") }

// SetFont emits "Tf" selecting a resource-dict font name and size.
func (b *Builder) SetFont(name model.Name, size float64) *Builder {
	return b.op("/%s %.2f Tf", string(name), size)
}

// MoveText emits "Td".
func (b *Builder) MoveText(tx, ty float64) *Builder { return b.op("%.2f %.2f Td", tx, ty) }

// SetTextMatrix emits "Tm".
func (b *Builder) SetTextMatrix(m Matrix) *Builder {
	return b.op("%.4f %.4f %.4f %.4f %.4f %.4f Tm", m.A, m.B, m.C, m.D, m.E, m.F)
}

// ShowText emits "Tj" for a literal text string, backslash-escaping the
// three bytes that are meaningful inside PDF's "( ... )" syntax and
// writing CR and LF as \r and \n (7.3.4.2).
func (b *Builder) ShowText(s string) *Builder {
	return b.op("(%s) Tj", escapeLiteral(s))
}

// NextLineShowText emits "'" : move to the next line then show text.
func (b *Builder) NextLineShowText(s string) *Builder {
	return b.op("(%s) '", escapeLiteral(s))
}

// SetLeading emits "TL".
func (b *Builder) SetLeading(leading float64) *Builder { return b.op("%.2f TL", leading) }

// Clip emits "W" followed by the required no-op path-painting operator "n"
// (the clipping path operator only takes effect on the operator that
// follows it, per 8.5.4).
func (b *Builder) Clip() *Builder { return b.op("W n") }

func escapeLiteral(s string) string {
	var out bytes.Buffer
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '(', ')', '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case '\r':
			out.WriteString("\\r")
		case '\n':
			out.WriteString("\\n")
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
