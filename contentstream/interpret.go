package contentstream

import (
	"errors"
	"fmt"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/parser"
	"github.com/corepdf/corepdf/pdferr"
)

// maxGraphicsStateDepth is the q/Q nesting ceiling old Annex C of the PDF
// spec recommends; exceeding it is a warning, not a fatal error, since
// malformed-but-recoverable content streams are common.
const maxGraphicsStateDepth = 28

// Operation is one parsed (operator, operands) pair.
type Operation struct {
	Operator string
	Operands []model.Object
}

// GlyphRun is one text-showing operator's effective position and font
// context, the unit the text extractor consumes.
type GlyphRun struct {
	Bytes    []byte
	X, Y     float64
	Font     model.Name
	FontSize float64
}

// Result is everything the interpreter produced from one content stream.
type Result struct {
	Operations []Operation
	Runs       []GlyphRun
	Warnings   []pdferr.Warning
}

type textState struct {
	tm, tlm                Matrix
	tc, tw, tz, tl, ts      float64
	tr                      int
	font                    model.Name
	fontSize                float64
}

func newTextState() textState {
	return textState{tm: Identity(), tlm: Identity(), tz: 100}
}

// Interpret tokenizes content (the concatenated bytes of a page's
// /Contents) into an ordered operator sequence and drives the graphics-
// and text-state tracking needed to produce glyph runs. In
// strict mode, an unbalanced q/Q or a text operator outside BT/ET is a
// fatal error; in tolerant mode both are recorded as warnings and parsing
// continues.
func Interpret(content []byte, strict bool) (*Result, error) {
	p := parser.New(content)
	p.ContentStreamMode = true

	res := &Result{}
	var stack []model.Object
	var gsStack []int // sentinel stack just to count q/Q depth
	inText := false
	ts := newTextState()

	for {
		obj, err := p.ParseObject()
		if err != nil {
			if isContentEOF(err) {
				break
			}
			return res, pdferr.New(pdferr.Syntax, "content_interpret", err)
		}
		op, isOp := obj.(parser.Operator)
		if !isOp {
			stack = append(stack, obj)
			continue
		}
		operands := stack
		stack = nil
		opStr := string(op)
		res.Operations = append(res.Operations, Operation{Operator: opStr, Operands: operands})

		if info, known := Operators[opStr]; known && !inText &&
			(info.Category == CategoryTextShowing || info.Category == CategoryTextPositioning) {
			msg := fmt.Sprintf("text operator %s outside BT/ET", opStr)
			if strict {
				return res, pdferr.New(pdferr.Syntax, "content_interpret", errors.New(msg))
			}
			res.Warnings = append(res.Warnings, pdferr.Warning{Kind: pdferr.Syntax, Msg: msg})
		}

		switch opStr {
		case "q":
			gsStack = append(gsStack, 0)
			if len(gsStack) > maxGraphicsStateDepth {
				res.Warnings = append(res.Warnings, pdferr.Warning{Kind: pdferr.Limits, Msg: fmt.Sprintf("graphics state stack depth exceeds recommended max %d", maxGraphicsStateDepth)})
			}
		case "Q":
			if len(gsStack) == 0 {
				msg := "unbalanced Q with no matching q"
				if strict {
					return res, pdferr.New(pdferr.Syntax, "content_interpret", fmt.Errorf(msg))
				}
				res.Warnings = append(res.Warnings, pdferr.Warning{Kind: pdferr.Syntax, Msg: msg})
			} else {
				gsStack = gsStack[:len(gsStack)-1]
			}
		case "BT":
			if inText {
				msg := "nested BT without matching ET"
				if strict {
					return res, pdferr.New(pdferr.Syntax, "content_interpret", fmt.Errorf(msg))
				}
				res.Warnings = append(res.Warnings, pdferr.Warning{Kind: pdferr.Syntax, Msg: msg})
			}
			inText = true
			ts = newTextState()
		case "ET":
			if !inText {
				msg := "ET without matching BT"
				if strict {
					return res, pdferr.New(pdferr.Syntax, "content_interpret", fmt.Errorf(msg))
				}
				res.Warnings = append(res.Warnings, pdferr.Warning{Kind: pdferr.Syntax, Msg: msg})
			}
			inText = false
		case "Tc":
			ts.tc = numAt(operands, 0)
		case "Tw":
			ts.tw = numAt(operands, 0)
		case "Tz":
			ts.tz = numAt(operands, 0)
		case "TL":
			ts.tl = numAt(operands, 0)
		case "Ts":
			ts.ts = numAt(operands, 0)
		case "Tr":
			ts.tr = int(numAt(operands, 0))
		case "Tf":
			if len(operands) >= 2 {
				if n, ok := operands[0].(model.Name); ok {
					ts.font = n
				}
				ts.fontSize = numAt(operands, 1)
			}
		case "Td":
			tx, ty := numAt(operands, 0), numAt(operands, 1)
			ts.tlm = Translate(tx, ty).Mul(ts.tlm)
			ts.tm = ts.tlm
		case "TD":
			tx, ty := numAt(operands, 0), numAt(operands, 1)
			ts.tl = -ty
			ts.tlm = Translate(tx, ty).Mul(ts.tlm)
			ts.tm = ts.tlm
		case "Tm":
			if len(operands) >= 6 {
				m := Matrix{A: numAt(operands, 0), B: numAt(operands, 1), C: numAt(operands, 2), D: numAt(operands, 3), E: numAt(operands, 4), F: numAt(operands, 5)}
				ts.tlm = m
				ts.tm = m
			}
		case "T*":
			ts.tlm = Translate(0, -ts.tl).Mul(ts.tlm)
			ts.tm = ts.tlm
		case "Tj":
			if b, ok := model.Bytes(firstOperand(operands)); ok {
				res.Runs = append(res.Runs, runFrom(ts, b))
			}
			advanceByApproxWidth(&ts, operands)
		case "'":
			ts.tlm = Translate(0, -ts.tl).Mul(ts.tlm)
			ts.tm = ts.tlm
			if b, ok := model.Bytes(firstOperand(operands)); ok {
				res.Runs = append(res.Runs, runFrom(ts, b))
			}
		case "\"":
			if len(operands) >= 3 {
				ts.tw = numAt(operands, 0)
				ts.tc = numAt(operands, 1)
			}
			ts.tlm = Translate(0, -ts.tl).Mul(ts.tlm)
			ts.tm = ts.tlm
			if len(operands) >= 3 {
				if b, ok := model.Bytes(operands[2]); ok {
					res.Runs = append(res.Runs, runFrom(ts, b))
				}
			}
		case "TJ":
			if len(operands) == 1 {
				if arr, ok := operands[0].(model.Array); ok {
					for _, el := range arr {
						if b, ok := model.Bytes(el); ok {
							res.Runs = append(res.Runs, runFrom(ts, b))
						} else if n, ok := numericOf(el); ok {
							// a TJ number is a thousandths-of-em adjustment
							// applied against the horizontal scaling (9.4.3)
							dx := -n / 1000 * ts.fontSize * (ts.tz / 100)
							ts.tm = Translate(dx, 0).Mul(ts.tm)
						}
					}
				}
			}
		}
	}

	if inText {
		msg := "content stream ends inside BT/ET"
		if strict {
			return res, pdferr.New(pdferr.Syntax, "content_interpret", errors.New(msg))
		}
		res.Warnings = append(res.Warnings, pdferr.Warning{Kind: pdferr.Syntax, Msg: msg})
	}
	if len(gsStack) != 0 {
		msg := fmt.Sprintf("content stream ends with %d unmatched q", len(gsStack))
		if strict {
			return res, pdferr.New(pdferr.Syntax, "content_interpret", errors.New(msg))
		}
		res.Warnings = append(res.Warnings, pdferr.Warning{Kind: pdferr.Syntax, Msg: msg})
	}
	return res, nil
}

func runFrom(ts textState, b []byte) GlyphRun {
	x, y := ts.tm.Apply(0, 0)
	return GlyphRun{Bytes: b, X: x, Y: y, Font: ts.font, FontSize: ts.fontSize}
}

// advanceByApproxWidth nudges the text matrix forward by a rough estimate
// of the shown string's width, so that consecutive Tj operators in the
// same stream produce plausible increasing X coordinates even without
// consulting font metrics (exact advances need the font's widths, which is
// the text package's job once it has resolved the font resource).
func advanceByApproxWidth(ts *textState, operands []model.Object) {
	b, ok := model.Bytes(firstOperand(operands))
	if !ok {
		return
	}
	avgGlyphWidth := 0.5 // em fraction, good enough for a same-stream ordering heuristic
	width := float64(len(b)) * avgGlyphWidth * ts.fontSize * (ts.tz / 100)
	width += float64(len(b)) * ts.tc
	ts.tm = Translate(width, 0).Mul(ts.tm)
}

func firstOperand(operands []model.Object) model.Object {
	if len(operands) == 0 {
		return model.Null{}
	}
	return operands[0]
}

func numAt(operands []model.Object, i int) float64 {
	if i >= len(operands) {
		return 0
	}
	n, _ := numericOf(operands[i])
	return n
}

func numericOf(o model.Object) (float64, bool) {
	switch v := o.(type) {
	case model.Integer:
		return float64(v), true
	case model.Real:
		return float64(v), true
	default:
		return 0, false
	}
}

// isContentEOF reports whether err is simply "ran out of tokens", which is
// the normal way a content stream's operand/operator loop terminates
// (ParseObject has no explicit end-of-stream sentinel, unlike array/dict
// parsing which sees a closing delimiter).
func isContentEOF(err error) bool {
	return errors.Is(err, parser.ErrUnexpectedEOF)
}
