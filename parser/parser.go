// Package parser turns a token stream from the tokenizer package into the
// tagged-variant model.Object tree (7.3): numbers, names, strings, arrays
// and dictionaries, plus indirect references ("12 0 R"), which need two
// tokens of lookahead. Streams are not parsed here: ParseObject returns a
// stream's dictionary, and the caller (the xref package) checks for the
// "stream" keyword after it and reads the payload.
//
// A Parser only ever sees one object definition's worth of tokens; it knows
// nothing about the cross-reference table or about resolving indirect
// references to their target, which is the xref package's job.
package parser

import (
	"errors"
	"fmt"

	"github.com/corepdf/corepdf/model"
	"github.com/corepdf/corepdf/tokenizer"
)

var (
	errArrayNotTerminated      = errors.New("parser: unterminated array")
	errDictNotTerminated       = errors.New("parser: unterminated dictionary")
	errDictCorrupt             = errors.New("parser: corrupted dictionary")
	errDictDuplicateKey        = errors.New("parser: duplicate dictionary key")
	errUnexpectedEOF           = errors.New("parser: unexpected end of input")
)

// ErrUnexpectedEOF is returned by ParseObject when the token stream ends
// before an object is found. Content-stream consumers, which have no other
// end-of-stream sentinel, use this to detect a clean finish.
var ErrUnexpectedEOF = errUnexpectedEOF

// defaultMaxDepth bounds array/dictionary nesting: a hostile input of
// nothing but "[" must fail with a structured error, not a stack overflow.
const defaultMaxDepth = 1000

// Parser consumes tokens from a tokenizer.Tokenizer and builds model.Object
// values. ContentStreamMode relaxes two PDF-file-only rules to match
// content-stream syntax (7.8.2): indirect references never occur, and bare
// keywords other than true/false/null are operators rather than errors.
type Parser struct {
	tok               *tokenizer.Tokenizer
	ContentStreamMode bool

	// MaxDepth caps array/dict nesting; 0 means defaultMaxDepth.
	MaxDepth int
	depth    int
}

func (p *Parser) enter() error {
	max := p.MaxDepth
	if max == 0 {
		max = defaultMaxDepth
	}
	p.depth++
	if p.depth > max {
		return fmt.Errorf("parser: nesting depth exceeds %d", max)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// New builds a Parser reading from data.
func New(data []byte) *Parser {
	tk := tokenizer.New(data)
	return FromTokenizer(&tk)
}

// FromTokenizer builds a Parser on top of an existing tokenizer, so the
// caller can track byte offsets (e.g. for stream position bookkeeping) as
// it is shared between parser and reader.
func FromTokenizer(tok *tokenizer.Tokenizer) *Parser { return &Parser{tok: tok} }

// ParseObject parses a single PDF object: a number, indirect reference,
// name, string, array or dictionary, but never a bare stream.
func (p *Parser) ParseObject() (model.Object, error) {
	tk, err := p.tok.Next()
	if err != nil {
		return nil, err
	}
	switch tk.Kind {
	case tokenizer.EOF:
		return nil, errUnexpectedEOF
	case tokenizer.Name:
		return model.Name(tk.Value), nil
	case tokenizer.String:
		return model.StringLiteral(tk.Value), nil
	case tokenizer.HexString:
		return model.StringHex(tk.Value), nil
	case tokenizer.StartArray:
		return p.parseArray()
	case tokenizer.StartDict:
		return p.parseDict()
	case tokenizer.Real:
		f, err := tk.Float()
		if err != nil {
			return nil, fmt.Errorf("parser: invalid real number %q: %w", tk.Value, err)
		}
		return model.Real(f), nil
	case tokenizer.Keyword:
		return p.parseKeyword(tk.Value)
	case tokenizer.Integer:
		return p.parseIntegerOrRef(tk)
	default:
		return nil, fmt.Errorf("parser: unexpected token kind %v", tk.Kind)
	}
}

func (p *Parser) parseArray() (model.Array, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	arr := model.Array{}
	for {
		tk, err := p.tok.Peek()
		if err != nil {
			return nil, err
		}
		switch tk.Kind {
		case tokenizer.EndArray:
			_, _ = p.tok.Next()
			return arr, nil
		case tokenizer.EOF:
			return nil, errArrayNotTerminated
		default:
			obj, err := p.ParseObject()
			if err != nil {
				return nil, err
			}
			arr = append(arr, obj)
		}
	}
}

func (p *Parser) parseDict() (model.Dict, error) {
	if err := p.enter(); err != nil {
		return model.Dict{}, err
	}
	defer p.leave()

	d := model.NewDict()
	for {
		tk, err := p.tok.Peek()
		if err != nil {
			return model.Dict{}, err
		}
		switch tk.Kind {
		case tokenizer.EndDict:
			_, _ = p.tok.Next()
			return d, nil
		case tokenizer.EOF:
			return model.Dict{}, errDictNotTerminated
		case tokenizer.Name:
			key := model.Name(tk.Value)
			_, _ = p.tok.Next() // consume the key

			val, err := p.ParseObject()
			if err != nil {
				return model.Dict{}, err
			}
			// "Specifying the null object as the value of a dictionary
			// entry shall be equivalent to omitting the entry entirely"
			// (7.3.7); storing it anyway is harmless and keeps callers
			// from special-casing it, so we do store it.
			if _, exists := d.Get(key); exists {
				return model.Dict{}, errDictDuplicateKey
			}
			d.Set(key, val)
		default:
			return model.Dict{}, errDictCorrupt
		}
	}
}

func (p *Parser) parseKeyword(kw string) (model.Object, error) {
	switch kw {
	case "null":
		return model.Null{}, nil
	case "true":
		return model.Bool(true), nil
	case "false":
		return model.Bool(false), nil
	default:
		if p.ContentStreamMode {
			return Operator(kw), nil
		}
		return nil, fmt.Errorf("parser: unexpected keyword %q outside of a content stream", kw)
	}
}

// Operator is a content-stream operator token (e.g. "re", "Tj", "q"; 7.8.2).
// It only ever appears as a top-level object returned by ParseObject in
// ContentStreamMode - operators never nest inside arrays or dictionaries -
// so it satisfies model.Object purely to flow through the same ParseObject
// entry point the interpreter loop calls.
type Operator string

func (o Operator) String() string { return string(o) }
func (o Operator) Clone() model.Object { return o }

// parseIntegerOrRef resolves the "123" vs "123 0 R" ambiguity (7.3.10) by
// peeking two tokens ahead without consuming them unless both match.
func (p *Parser) parseIntegerOrRef(tk tokenizer.Token) (model.Object, error) {
	n, err := tk.Int()
	if err != nil {
		return nil, fmt.Errorf("parser: invalid integer %q: %w", tk.Value, err)
	}

	if p.ContentStreamMode {
		return model.Integer(n), nil
	}

	next, err := p.tok.Peek()
	if err != nil {
		return nil, err
	}
	if next.Kind != tokenizer.Integer {
		return model.Integer(n), nil
	}
	gen, err := next.Int()
	if err != nil {
		return model.Integer(n), nil
	}

	nextNext, err := p.tok.PeekPeek()
	if err != nil || !nextNext.IsKeyword("R") {
		return model.Integer(n), nil
	}

	_, _ = p.tok.Next() // consume generation
	_, _ = p.tok.Next() // consume "R"
	return model.Ref{Number: uint32(n), Generation: uint16(gen)}, nil
}

// ParseObjectHeader reads an "N G obj" header, returning the declared
// object number and generation. Used by the xref package before parsing
// the object body at a given offset.
func ParseObjectHeader(tok *tokenizer.Tokenizer) (number uint32, generation uint16, err error) {
	numTk, err := tok.Next()
	if err != nil {
		return 0, 0, err
	}
	n, err := numTk.Int()
	if numTk.Kind != tokenizer.Integer || err != nil {
		return 0, 0, fmt.Errorf("parser: expected object number, got %v", numTk)
	}
	genTk, err := tok.Next()
	if err != nil {
		return 0, 0, err
	}
	g, err := genTk.Int()
	if genTk.Kind != tokenizer.Integer || err != nil {
		return 0, 0, fmt.Errorf("parser: expected generation number, got %v", genTk)
	}
	kwTk, err := tok.Next()
	if err != nil {
		return 0, 0, err
	}
	if !kwTk.IsKeyword("obj") {
		return 0, 0, fmt.Errorf("parser: expected \"obj\", got %v", kwTk)
	}
	return uint32(n), uint16(g), nil
}
