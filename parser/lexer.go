package parser

import (
	"bytes"
	"strconv"
)

// Lexer turns raw DSL text into tokens, one NextToken call at a time.
// It never allocates the whole token stream itself; lexAll does that
// for the parser.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// NewLexer returns a lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token, or a ParseError with code CodeLex
// on an unterminated string or unrecognized character.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	tok := Token{Offset: l.position, Line: l.line, Column: l.column}

	switch l.ch {
	case 0:
		tok.Kind = EOF
		return tok, nil
	case '(':
		tok.Kind, tok.Literal = LPAREN, "("
	case ')':
		tok.Kind, tok.Literal = RPAREN, ")"
	case '[':
		tok.Kind, tok.Literal = LBRACKET, "["
	case ']':
		tok.Kind, tok.Literal = RBRACKET, "]"
	case ',':
		tok.Kind, tok.Literal = COMMA, ","
	case '"':
		text, err := l.readString()
		if err != nil {
			return tok, err
		}
		tok.Kind, tok.Literal = STRING, text
		return tok, nil
	case '$':
		l.readChar()
		if !isLetter(l.ch) {
			return tok, lexError(l.position, l.ch, "variable name expected after '$'")
		}
		tok.Kind, tok.Literal = VAR, l.readIdentifier()
		return tok, nil
	case '-':
		if !isDigit(l.peekChar()) {
			return tok, lexError(l.position, l.ch, "unexpected character")
		}
		l.readChar()
		tok.Kind, tok.Literal = NUMBER, "-"+l.readNumber()
		return tok, nil
	default:
		if isLetter(l.ch) {
			tok.Kind, tok.Literal = IDENT, l.readIdentifier()
			return tok, nil
		}
		if isDigit(l.ch) {
			tok.Kind, tok.Literal = NUMBER, l.readNumber()
			return tok, nil
		}
		return tok, lexError(l.position, l.ch, "unexpected character")
	}

	l.readChar()
	return tok, nil
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readString consumes a double-quoted string literal, decoding the
// escapes \" \\ \/ \n \t \r and \uXXXX. The opening quote is the
// current char on entry; on return the char after the closing quote
// is current.
func (l *Lexer) readString() (string, error) {
	opener := l.position
	var buf bytes.Buffer
	for {
		l.readChar()
		switch l.ch {
		case 0:
			return "", lexError(opener, '"', "unterminated string")
		case '"':
			l.readChar()
			return buf.String(), nil
		case '\\':
			l.readChar()
			switch l.ch {
			case '"':
				buf.WriteByte('"')
			case '\\':
				buf.WriteByte('\\')
			case '/':
				buf.WriteByte('/')
			case 'n':
				buf.WriteByte('\n')
			case 't':
				buf.WriteByte('\t')
			case 'r':
				buf.WriteByte('\r')
			case 'u':
				r, err := l.readUnicodeEscape()
				if err != nil {
					return "", err
				}
				buf.WriteRune(r)
			case 0:
				return "", lexError(opener, '"', "unterminated string")
			default:
				return "", lexError(l.position, l.ch, "invalid escape sequence")
			}
		default:
			buf.WriteByte(l.ch)
		}
	}
}

func (l *Lexer) readUnicodeEscape() (rune, error) {
	start := l.position
	var hex [4]byte
	for i := 0; i < 4; i++ {
		l.readChar()
		if !isHexDigit(l.ch) {
			return 0, lexError(start, l.ch, "invalid unicode escape")
		}
		hex[i] = l.ch
	}
	n, err := strconv.ParseUint(string(hex[:]), 16, 32)
	if err != nil {
		return 0, lexError(start, l.ch, "invalid unicode escape")
	}
	return rune(n), nil
}

// lexAll tokenizes the whole input up front so the parser can look
// ahead freely. The trailing EOF token is included.
func lexAll(input string) ([]Token, error) {
	l := NewLexer(input)
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
