// Package lexer splits s-expression source text into tokens.
package lexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chrisvm/chris/errors"
	"github.com/chrisvm/chris/internal/token"
)

// Error is a lexing error. Code classifies the problem.
type Error struct {
	Code    errors.ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Lexer reads tokens from an input string. A Lexer is used once.
type Lexer struct {
	input    string
	pos      int // current byte offset
	line     int
	lineFrom int // byte offset of the start of the current line
	filename string
}

// New returns a Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// SetFilename sets the file name recorded in token positions.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the file name recorded in token positions.
func (l *Lexer) Filename() string {
	return l.filename
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineFrom,
		Line:      l.line,
		Column:    l.pos - l.lineFrom,
		File:      l.filename,
	}
}

func (l *Lexer) advance() {
	if l.input[l.pos] == '\n' {
		l.line++
		l.lineFrom = l.pos + 1
	}
	l.pos++
}

func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ';':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case isWhitespace(ch):
			l.advance()
		default:
			return
		}
	}
}

// Next returns the next token. At the end of input it returns an EOF token
// on every call. On malformed input it returns an ILLEGAL token and an error.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespaceAndComments()
	start := l.position()
	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start}, nil
	}
	switch ch := l.input[l.pos]; ch {
	case '(':
		l.pos++
		return l.token(token.LPAREN, "(", start), nil
	case ')':
		l.pos++
		return l.token(token.RPAREN, ")", start), nil
	case '"':
		return l.readString(start)
	default:
		return l.readAtom(start)
	}
}

func (l *Lexer) token(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) illegal(start token.Position, literal string, code errors.ErrorCode, format string, args ...any) (token.Token, error) {
	return l.token(token.ILLEGAL, literal, start), &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// readString consumes a double-quoted string. The token literal holds the
// decoded contents.
func (l *Lexer) readString(start token.Position) (token.Token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.illegal(start, l.input[start.Char:], errors.E1002, "unterminated string literal")
		}
		ch := l.input[l.pos]
		switch ch {
		case '"':
			l.pos++
			return l.token(token.STRING, sb.String(), start), nil
		case '\\':
			if l.pos+1 >= len(l.input) {
				l.pos++
				return l.illegal(start, l.input[start.Char:], errors.E1002, "unterminated string literal")
			}
			esc := l.input[l.pos+1]
			switch esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				l.pos += 2
				return l.illegal(start, l.input[start.Char:l.pos], errors.E1010, "invalid escape sequence \\%c", esc)
			}
			l.pos += 2
		default:
			sb.WriteByte(ch)
			l.advance()
		}
	}
}

// readAtom consumes a number or a symbol.
func (l *Lexer) readAtom(start token.Position) (token.Token, error) {
	from := l.pos
	for l.pos < len(l.input) && !isDelimiter(l.input[l.pos]) {
		l.pos++
	}
	literal := l.input[from:l.pos]
	if !looksNumeric(literal) {
		return l.token(token.SYMBOL, literal, start), nil
	}
	if _, err := strconv.ParseFloat(literal, 64); err != nil {
		return l.illegal(start, literal, errors.E1008, "invalid number literal %q", literal)
	}
	return l.token(token.NUMBER, literal, start), nil
}

// GetLineText returns the full source line on which tok starts.
func (l *Lexer) GetLineText(tok token.Token) string {
	return LineText(l.input, tok.StartPosition)
}

// LineText returns the line of input containing pos, without the newline.
func LineText(input string, pos token.Position) string {
	from := pos.LineStart
	if from > len(input) {
		return ""
	}
	end := strings.IndexByte(input[from:], '\n')
	if end < 0 {
		return strings.TrimRight(input[from:], "\r")
	}
	return strings.TrimRight(input[from:from+end], "\r")
}

// looksNumeric reports whether an atom starts like a number: a digit, or a
// sign or dot followed by a digit.
func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	if isDigit(s[0]) {
		return true
	}
	if s[0] == '+' || s[0] == '-' {
		s = s[1:]
	}
	if s != "" && s[0] == '.' {
		s = s[1:]
	}
	return s != "" && isDigit(s[0])
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	return isWhitespace(ch) || ch == '(' || ch == ')' || ch == '"' || ch == ';'
}
