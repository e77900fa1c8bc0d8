package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// TokenType is the lexical class of a Token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenInteger
	TokenReal
	TokenString    // (literal), escapes already processed
	TokenHexString // <hex>, already decoded to bytes
	TokenName      // /Name, # escapes already processed
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
	TokenKeyword // true, obj, stream, R, and content stream operators
)

// Token is one lexical unit. Pos is the offset of its first byte.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int
}

// Is reports whether the token is the keyword kw.
func (t Token) Is(kw string) bool {
	return t.Type == TokenKeyword && string(t.Value) == kw
}

// Lexer tokenizes PDF syntax held in memory. Comments are skipped.
type Lexer struct {
	data []byte
	pos  int
}

// NewLexer returns a lexer positioned at the start of data.
func NewLexer(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the offset of the next unread byte.
func (l *Lexer) Pos() int { return l.pos }

// SetPos moves the lexer to an absolute offset.
func (l *Lexer) SetPos(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(l.data) {
		pos = len(l.data)
	}
	l.pos = pos
}

// Data returns the underlying buffer.
func (l *Lexer) Data() []byte { return l.data }

// Next returns the next token.
func (l *Lexer) Next() (Token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.data) {
		return Token{Type: TokenEOF, Pos: l.pos}, nil
	}

	start := l.pos
	c := l.data[l.pos]
	switch c {
	case '[':
		l.pos++
		return Token{Type: TokenArrayStart, Pos: start}, nil
	case ']':
		l.pos++
		return Token{Type: TokenArrayEnd, Pos: start}, nil
	case '(':
		return l.readLiteralString()
	case '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			l.pos += 2
			return Token{Type: TokenDictStart, Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
			l.pos += 2
			return Token{Type: TokenDictEnd, Pos: start}, nil
		}
		l.pos++
		return Token{}, fmt.Errorf("unexpected '>' at offset %d", start)
	case '/':
		return l.readName()
	case ')', '{', '}':
		l.pos++
		return Token{}, fmt.Errorf("unexpected %q at offset %d", c, start)
	}

	return l.readRegular(), nil
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if IsWhitespace(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		return
	}
}

// readRegular reads a run of regular characters and classifies it as a
// number or a keyword.
func (l *Lexer) readRegular() Token {
	start := l.pos
	for l.pos < len(l.data) && !IsWhitespace(l.data[l.pos]) && !IsDelimiter(l.data[l.pos]) {
		l.pos++
	}
	val := l.data[start:l.pos]

	if looksNumeric(val) {
		if bytes.IndexByte(val, '.') < 0 {
			if _, err := strconv.ParseInt(string(val), 10, 64); err == nil {
				return Token{Type: TokenInteger, Value: val, Pos: start}
			}
		}
		if _, err := strconv.ParseFloat(string(val), 64); err == nil {
			return Token{Type: TokenReal, Value: val, Pos: start}
		}
	}
	return Token{Type: TokenKeyword, Value: val, Pos: start}
}

func looksNumeric(val []byte) bool {
	if len(val) == 0 {
		return false
	}
	c := val[0]
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

func (l *Lexer) readLiteralString() (Token, error) {
	start := l.pos
	l.pos++ // (
	var buf bytes.Buffer
	depth := 1

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
			buf.WriteByte(c)
		case '\\':
			l.readEscape(&buf)
		case '\r':
			// An unescaped end-of-line is read as a single newline.
			if l.pos < len(l.data) && l.data[l.pos] == '\n' {
				l.pos++
			}
			buf.WriteByte('\n')
		default:
			buf.WriteByte(c)
		}
	}
	return Token{}, fmt.Errorf("unterminated string starting at offset %d", start)
}

func (l *Lexer) readEscape(buf *bytes.Buffer) {
	if l.pos >= len(l.data) {
		return
	}
	c := l.data[l.pos]
	l.pos++
	switch c {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		if l.pos < len(l.data) && l.data[l.pos] == '\n' {
			l.pos++
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := int(c - '0')
		for i := 0; i < 2 && l.pos < len(l.data); i++ {
			d := l.data[l.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v*8 + int(d-'0')
			l.pos++
		}
		buf.WriteByte(byte(v))
	default:
		// \( \) \\ and unknown escapes keep the character.
		buf.WriteByte(c)
	}
}

func (l *Lexer) readHexString() (Token, error) {
	start := l.pos
	l.pos++ // <
	var out []byte
	var hi byte
	half := false

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			if half {
				out = append(out, hi<<4)
			}
			return Token{Type: TokenHexString, Value: out, Pos: start}, nil
		}
		if IsWhitespace(c) {
			continue
		}
		v, ok := hexNibble(c)
		if !ok {
			return Token{}, fmt.Errorf("invalid hex digit %q at offset %d", c, l.pos-1)
		}
		if half {
			out = append(out, hi<<4|v)
		} else {
			hi = v
		}
		half = !half
	}
	return Token{}, fmt.Errorf("unterminated hex string starting at offset %d", start)
}

func (l *Lexer) readName() (Token, error) {
	start := l.pos
	l.pos++ // /
	var buf bytes.Buffer

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if IsWhitespace(c) || IsDelimiter(c) {
			break
		}
		l.pos++
		if c == '#' && l.pos+1 < len(l.data) {
			h, ok1 := hexNibble(l.data[l.pos])
			lo, ok2 := hexNibble(l.data[l.pos+1])
			if ok1 && ok2 {
				buf.WriteByte(h<<4 | lo)
				l.pos += 2
				continue
			}
		}
		buf.WriteByte(c)
	}
	return Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

// IsWhitespace reports whether c is PDF white-space.
func IsWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

// IsDelimiter reports whether c is a PDF delimiter character.
func IsDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
