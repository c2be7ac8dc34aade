package writer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/corepdf/corepdf/model"
)

// writeObjectBody serializes any model.Object into its PDF literal syntax,
// recursing into Array/Dict. Refs are written "n 0 R" (authored objects are
// always generation 0). Stream is handled separately by emitDirect (via
// finalizeStream), since a stream's body needs filter/Length decisions the
// generic serializer doesn't make.
func writeObjectBody(buf *bytes.Buffer, o model.Object) {
	switch v := o.(type) {
	case nil, model.Null:
		buf.WriteString("null")
	case model.Bool:
		if v {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case model.Integer:
		fmt.Fprintf(buf, "%d", int64(v))
	case model.Real:
		fmt.Fprintf(buf, "%s", formatReal(float64(v)))
	case model.Name:
		writeName(buf, v)
	case model.StringLiteral:
		buf.WriteString(encodeLiteralOrHex([]byte(v)))
	case model.StringHex:
		fmt.Fprintf(buf, "<%x>", string(v))
	case model.Ref:
		fmt.Fprintf(buf, "%d %d R", v.Number, v.Generation)
	case model.Array:
		buf.WriteByte('[')
		for i, e := range v {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeObjectBody(buf, e)
		}
		buf.WriteByte(']')
	case model.Dict:
		writeDict(buf, v)
	default:
		buf.WriteString("null")
	}
}

func writeDict(buf *bytes.Buffer, d model.Dict) {
	buf.WriteString("<<")
	for _, k := range d.Keys() {
		buf.WriteByte('\n')
		writeName(buf, k)
		buf.WriteByte(' ')
		v, _ := d.Get(k)
		writeObjectBody(buf, v)
	}
	buf.WriteString("\n>>")
}

// writeName emits a PDF name, #xx-escaping delimiter/whitespace/non-ASCII
// bytes (7.3.5) so round-tripped names that happen to contain them survive.
func writeName(buf *bytes.Buffer, n model.Name) {
	buf.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c <= 0x20 || c >= 0x7F || isDelimiter(c) || c == '#' {
			fmt.Fprintf(buf, "#%02x", c)
			continue
		}
		buf.WriteByte(c)
	}
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return false
	}
}

func formatReal(f float64) string {
	s := fmt.Sprintf("%.6f", f)
	// trim trailing zeros but keep at least one digit after the point
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i++
	}
	return s[:i]
}

// encodeLiteralOrHex chooses literal "( ... )" syntax when raw is mostly
// printable ASCII with cheap escapes, hex "< ... >" otherwise.
func encodeLiteralOrHex(raw []byte) string {
	printable := 0
	for _, b := range raw {
		if b == '\t' || b == '\n' || b == '\r' || (b >= 0x20 && b < 0x7F) {
			printable++
		}
	}
	if len(raw) == 0 || printable*10 < len(raw)*9 {
		return fmt.Sprintf("<%x>", raw)
	}
	var out bytes.Buffer
	out.WriteByte('(')
	for _, b := range raw {
		switch b {
		case '(', ')', '\\':
			out.WriteByte('\\')
			out.WriteByte(b)
		case '\r':
			out.WriteString("\\r")
		case '\n':
			out.WriteString("\\n")
		default:
			out.WriteByte(b)
		}
	}
	out.WriteByte(')')
	return out.String()
}

// dateString formats t as a PDF date string body (7.9.4).
func dateString(t time.Time) string {
	_, tz := t.Zone()
	sign := "+"
	if tz < 0 {
		sign = "-"
		tz = -tz
	}
	return fmt.Sprintf("D:%04d%02d%02d%02d%02d%02d%s%02d'%02d'",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		sign, tz/3600, (tz/60)%60)
}
