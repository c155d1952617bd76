package token

import "fmt"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

const (
	ILLEGAL TokenType = "ILLEGAL"
	EOF     TokenType = "EOF"

	// Literals
	NAT         TokenType = "NAT"
	INT         TokenType = "INT"
	BIN         TokenType = "BIN"
	OCT         TokenType = "OCT"
	HEX         TokenType = "HEX"
	RATIO       TokenType = "RATIO"
	STRING      TokenType = "STRING"
	DOC_COMMENT TokenType = "DOC_COMMENT"
	BOOL        TokenType = "BOOL"
	NONE        TokenType = "NONE"
	ELLIPSIS    TokenType = "ELLIPSIS"
	INF         TokenType = "INF"

	IDENT_LOWER TokenType = "IDENT_LOWER"
	IDENT_UPPER TokenType = "IDENT_UPPER"

	// Binary operators
	PLUS      TokenType = "+"
	MINUS     TokenType = "-"
	ASTERISK  TokenType = "*"
	SLASH     TokenType = "/"
	FLOOR_DIV TokenType = "//"
	POWER     TokenType = "**"
	PERCENT   TokenType = "%"
	EQ        TokenType = "=="
	NOT_EQ    TokenType = "!="
	LT        TokenType = "<"
	GT        TokenType = ">"
	LTE       TokenType = "<="
	GTE       TokenType = ">="
	AND       TokenType = "and"
	OR        TokenType = "or"
	BIT_AND   TokenType = "&&"
	BIT_XOR   TokenType = "^^"
	BIT_OR    TokenType = "||"
	LSHIFT    TokenType = "<<"
	RSHIFT    TokenType = ">>"

	// Prefix operators
	PRE_PLUS    TokenType = "+_"
	PRE_MINUS   TokenType = "-_"
	PRE_BIT_NOT TokenType = "~"
	NOT         TokenType = "not"

	// Other operators that are never constant
	ASSIGN   TokenType = "="
	ARROW    TokenType = "->"
	FAT_PROC TokenType = "=>"
	DOT      TokenType = "."
	COLON    TokenType = ":"
	WALRUS   TokenType = ":="
	PIPE_GT  TokenType = "|>"

	// Delimiters
	LPAREN   TokenType = "("
	RPAREN   TokenType = ")"
	LBRACKET TokenType = "["
	RBRACKET TokenType = "]"
	LBRACE   TokenType = "{"
	RBRACE   TokenType = "}"
	COMMA    TokenType = ","
	SEMI     TokenType = ";"
)

var keywords = map[string]TokenType{
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"True":     BOOL,
	"False":    BOOL,
	"None":     NONE,
	"Inf":      INF,
	"Ellipsis": ELLIPSIS,
}

// LookupIdent classifies a word as a keyword or an identifier.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if ident != "" && ident[0] >= 'A' && ident[0] <= 'Z' {
		return IDENT_UPPER
	}
	return IDENT_LOWER
}

// Symbol returns a synthetic identifier token with no source location.
func Symbol(name string) Token {
	tok := IDENT_LOWER
	if name != "" && name[0] >= 'A' && name[0] <= 'Z' {
		tok = IDENT_UPPER
	}
	return Token{Type: tok, Lexeme: name, Literal: name}
}

// IsUnknown reports whether the token carries no source position.
func (t Token) IsUnknown() bool {
	return t.Line == 0 && t.Column == 0
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %d:%d", t.Type, t.Lexeme, t.Line, t.Column)
}
