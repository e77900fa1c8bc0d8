package core

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// maxNesting bounds array/dictionary depth so hostile input cannot exhaust
// the stack.
const maxNesting = 256

// ErrUnexpectedEOF is returned when the input ends inside an object.
var ErrUnexpectedEOF = errors.New("unexpected end of data")

// ReferenceResolver resolves indirect references encountered while parsing,
// currently only an indirect stream /Length.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

type lookahead struct {
	tok Token
	err error
}

// Parser builds Objects from the token stream of a Lexer.
type Parser struct {
	lex      *Lexer
	buf      []lookahead
	resolver ReferenceResolver
	depth    int
}

// NewParser returns a parser over data.
func NewParser(data []byte) *Parser {
	return &Parser{lex: NewLexer(data)}
}

// NewParserFromLexer returns a parser sharing lex.
func NewParserFromLexer(lex *Lexer) *Parser {
	return &Parser{lex: lex}
}

// SetReferenceResolver installs r for indirect /Length values.
func (p *Parser) SetReferenceResolver(r ReferenceResolver) {
	p.resolver = r
}

// Seek moves to an absolute offset and drops any lookahead.
func (p *Parser) Seek(pos int) {
	p.buf = p.buf[:0]
	p.lex.SetPos(pos)
}

// Pos returns the offset of the next token not yet consumed.
func (p *Parser) Pos() int {
	if len(p.buf) > 0 {
		return p.buf[0].tok.Pos
	}
	return p.lex.Pos()
}

func (p *Parser) next() (Token, error) {
	if len(p.buf) > 0 {
		la := p.buf[0]
		p.buf = p.buf[1:]
		return la.tok, la.err
	}
	return p.lex.Next()
}

func (p *Parser) peek(n int) (Token, error) {
	for len(p.buf) <= n {
		tok, err := p.lex.Next()
		p.buf = append(p.buf, lookahead{tok, err})
		if err != nil || tok.Type == TokenEOF {
			break
		}
	}
	if n >= len(p.buf) {
		return Token{Type: TokenEOF, Pos: p.lex.Pos()}, nil
	}
	return p.buf[n].tok, p.buf[n].err
}

// NextToken returns the next raw token, honouring any lookahead.
func (p *Parser) NextToken() (Token, error) {
	return p.next()
}

// ParseObjectFrom parses an object whose first token has already been
// read with NextToken.
func (p *Parser) ParseObjectFrom(tok Token) (Object, error) {
	return p.parseFrom(tok)
}

// Data returns the buffer being parsed.
func (p *Parser) Data() []byte {
	return p.lex.Data()
}

// ParseObject parses one direct object. A trailing "stream" keyword is not
// consumed; use ParseIndirectObject for streams.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *Parser) parseFrom(tok Token) (Object, error) {
	switch tok.Type {
	case TokenEOF:
		return nil, ErrUnexpectedEOF
	case TokenInteger:
		n, _ := strconv.ParseInt(string(tok.Value), 10, 64)
		if ref, ok := p.tryReference(n); ok {
			return ref, nil
		}
		return Int(n), nil
	case TokenReal:
		f, _ := strconv.ParseFloat(string(tok.Value), 64)
		return Real(f), nil
	case TokenString, TokenHexString:
		return String(tok.Value), nil
	case TokenName:
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDict()
	case TokenKeyword:
		switch string(tok.Value) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "null":
			return Null{}, nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at offset %d", tok.Value, tok.Pos)
	}
	return nil, fmt.Errorf("unexpected token at offset %d", tok.Pos)
}

// tryReference consumes "gen R" after an integer when present.
func (p *Parser) tryReference(num int64) (IndirectRef, bool) {
	gen, err := p.peek(0)
	if err != nil || gen.Type != TokenInteger {
		return IndirectRef{}, false
	}
	r, err := p.peek(1)
	if err != nil || !r.Is("R") {
		return IndirectRef{}, false
	}
	g, _ := strconv.Atoi(string(gen.Value))
	p.buf = p.buf[2:]
	return IndirectRef{Number: int(num), Generation: g}, true
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return fmt.Errorf("objects nested deeper than %d", maxNesting)
	}
	return nil
}

func (p *Parser) parseArray() (Object, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	arr := Array{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenArrayEnd {
			return arr, nil
		}
		if tok.Type == TokenEOF {
			return nil, fmt.Errorf("array: %w", ErrUnexpectedEOF)
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Object, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer func() { p.depth-- }()

	dict := Dict{}
	for {
		tok, err := p.next()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenDictEnd:
			return dict, nil
		case TokenEOF:
			return nil, fmt.Errorf("dictionary: %w", ErrUnexpectedEOF)
		case TokenName:
		default:
			return nil, fmt.Errorf("dictionary key at offset %d is not a name", tok.Pos)
		}

		key := string(tok.Value)
		valTok, err := p.next()
		if err != nil {
			return nil, err
		}
		if valTok.Type == TokenDictEnd {
			// Key without a value: tolerated, read as null.
			dict[key] = Null{}
			return dict, nil
		}
		val, err := p.parseFrom(valTok)
		if err != nil {
			return nil, fmt.Errorf("value of /%s: %w", key, err)
		}
		dict[key] = val
	}
}

// ParseIndirectObject parses "num gen obj ... endobj" at the current
// position, including stream data.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	numTok, err := p.next()
	if err != nil {
		return nil, err
	}
	genTok, err := p.next()
	if err != nil {
		return nil, err
	}
	objTok, err := p.next()
	if err != nil {
		return nil, err
	}
	if numTok.Type != TokenInteger || genTok.Type != TokenInteger || !objTok.Is("obj") {
		return nil, fmt.Errorf("expected object header at offset %d", numTok.Pos)
	}
	num, _ := strconv.Atoi(string(numTok.Value))
	gen, _ := strconv.Atoi(string(genTok.Value))
	ref := IndirectRef{Number: num, Generation: gen}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", ref, err)
	}

	tok, err := p.peek(0)
	if err == nil && tok.Is("stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %s: stream keyword after non-dictionary", ref)
		}
		stream, err := p.readStream(dict, tok.Pos+len("stream"))
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", ref, err)
		}
		obj = stream
	}

	if tok, err := p.peek(0); err == nil && tok.Is("endobj") {
		p.next()
	}
	return &IndirectObject{Ref: ref, Object: obj}, nil
}

// readStream reads stream data starting just after the "stream" keyword.
// A /Length that does not land on "endstream" falls back to a scan.
func (p *Parser) readStream(dict Dict, afterKeyword int) (*Stream, error) {
	data := p.lex.Data()
	start := afterKeyword
	if start < len(data) && data[start] == '\r' {
		start++
	}
	if start < len(data) && data[start] == '\n' {
		start++
	}

	end := -1
	if length, ok := p.streamLength(dict); ok && length >= 0 && start+length <= len(data) {
		if hasEndstream(data, start+length) {
			end = start + length
		}
	}
	if end < 0 {
		idx := bytes.Index(data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, fmt.Errorf("stream without endstream: %w", ErrUnexpectedEOF)
		}
		end = start + idx
		// The EOL before endstream is not part of the data.
		if end > start && data[end-1] == '\n' {
			end--
		}
		if end > start && data[end-1] == '\r' {
			end--
		}
	}

	p.Seek(end)
	tok, err := p.next()
	if err != nil || !tok.Is("endstream") {
		return nil, fmt.Errorf("missing endstream at offset %d", end)
	}
	return &Stream{Dict: dict, Data: data[start:end:end]}, nil
}

func (p *Parser) streamLength(dict Dict) (int, bool) {
	switch v := dict.Get("Length").(type) {
	case Int:
		return int(v), true
	case IndirectRef:
		if p.resolver == nil {
			return 0, false
		}
		obj, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, false
		}
		if n, ok := obj.(Int); ok {
			return int(n), true
		}
	}
	return 0, false
}

func hasEndstream(data []byte, pos int) bool {
	for pos < len(data) && IsWhitespace(data[pos]) {
		pos++
	}
	return bytes.HasPrefix(data[pos:], []byte("endstream"))
}
