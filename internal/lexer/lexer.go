package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/tycore/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = len(l.input)
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
	}
	l.column++
}

// operators maps every operator spelling to its token, longest first
// within a shared prefix.
var operators = []struct {
	text string
	typ  token.TokenType
}{
	{"...", token.ELLIPSIS},
	{"**", token.POWER},
	{"//", token.FLOOR_DIV},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LTE},
	{">=", token.GTE},
	{"<<", token.LSHIFT},
	{">>", token.RSHIFT},
	{"&&", token.BIT_AND},
	{"^^", token.BIT_XOR},
	{"||", token.BIT_OR},
	{"->", token.ARROW},
	{"=>", token.FAT_PROC},
	{"|>", token.PIPE_GT},
	{":=", token.WALRUS},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.ASTERISK},
	{"/", token.SLASH},
	{"%", token.PERCENT},
	{"<", token.LT},
	{">", token.GT},
	{"~", token.PRE_BIT_NOT},
	{"=", token.ASSIGN},
	{".", token.DOT},
	{":", token.COLON},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{",", token.COMMA},
	{";", token.SEMI},
}

// NextToken returns the next token. At the end of input it keeps
// returning EOF.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()
	line, col := l.line, l.column

	switch {
	case l.ch == 0:
		return token.Token{Type: token.EOF, Line: line, Column: col}
	case isDigit(l.ch):
		return l.readNumber()
	case isLetter(l.ch):
		word := l.readIdentifier()
		typ := token.LookupIdent(word)
		tok := token.Token{Type: typ, Lexeme: word, Literal: word, Line: line, Column: col}
		if typ == token.BOOL {
			tok.Literal = word == "True"
		}
		return tok
	case l.ch == '"':
		return l.readString()
	}

	rest := l.input[l.position:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			for range op.text {
				l.readChar()
			}
			return token.Token{Type: op.typ, Lexeme: op.text, Literal: op.text, Line: line, Column: col}
		}
	}
	tok := newToken(token.ILLEGAL, l.ch, line, col)
	l.readChar()
	return tok
}

// Tokenize reads the whole input. The trailing EOF is not included.
func Tokenize(input string) []token.Token {
	l := New(input)
	var out []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return out
		}
		out = append(out, tok)
	}
}

// readString reads a double quoted literal. An unterminated literal or a
// bad escape yields ILLEGAL.
func (l *Lexer) readString() token.Token {
	line, col := l.line, l.column
	start := l.position
	escaped := false
	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{Type: token.ILLEGAL, Lexeme: l.input[start:l.position], Literal: "unterminated string", Line: line, Column: col}
		}
		if escaped {
			escaped = false
			continue
		}
		if l.ch == '\\' {
			escaped = true
			continue
		}
		if l.ch == '"' {
			break
		}
	}
	l.readChar()
	lexeme := l.input[start:l.position]
	s, err := strconv.Unquote(lexeme)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: line, Column: col}
	}
	return token.Token{Type: token.STRING, Lexeme: lexeme, Literal: s, Line: line, Column: col}
}

// Identifiers may end in '!' to name procedures.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '!' && l.peekChar() != '=' {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a Nat (decimal, 0x, 0o or 0b, underscores allowed) or
// a Ratio. Signs are prefix operators, never part of the literal.
func (l *Lexer) readNumber() token.Token {
	line, col := l.line, l.column
	position := l.position
	typ := token.NAT
	base := 10

	if l.ch == '0' {
		switch l.peekChar() {
		case 'x', 'X':
			typ, base = token.HEX, 16
		case 'o', 'O':
			typ, base = token.OCT, 8
		case 'b', 'B':
			typ, base = token.BIN, 2
		}
		if base != 10 {
			l.readChar()
			l.readChar()
		}
	}

	digit := isDigit
	if base == 16 {
		digit = isHexDigit
	}
	for digit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if base == 10 && l.ch == '.' && isDigit(l.peekChar()) {
		typ = token.RATIO
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}

	lexeme := l.input[position:l.position]
	text := strings.ReplaceAll(lexeme, "_", "")
	if typ == token.RATIO {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: line, Column: col}
		}
		return token.Token{Type: typ, Lexeme: lexeme, Literal: f, Line: line, Column: col}
	}
	if base != 10 {
		text = text[2:]
	}
	n, err := strconv.ParseUint(text, base, 64)
	if err != nil {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: err.Error(), Line: line, Column: col}
	}
	return token.Token{Type: typ, Lexeme: lexeme, Literal: n, Line: line, Column: col}
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || (ch >= 0x80 && unicode.IsLetter(ch))
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func newToken(tokenType token.TokenType, ch rune, line, col int) token.Token {
	literal := string(ch)
	return token.Token{Type: tokenType, Lexeme: literal, Literal: literal, Line: line, Column: col}
}

// skipWhitespace also drops `#` comments up to the end of the line.
func (l *Lexer) skipWhitespace() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
			l.readChar()
		}
		if l.ch != '#' {
			return
		}
		for l.ch != '\n' && l.ch != 0 {
			l.readChar()
		}
	}
}
