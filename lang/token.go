package lang

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenKind enumerates the lexical categories of the prototyping language.
type TokenKind int

const (
	// TokTypeName is an uppercase-initial identifier (object type name).
	TokTypeName TokenKind = iota
	// TokName is a lowercase-initial identifier. Whether it is a
	// relationship, variable, or property name is decided by the parser,
	// which validates the role-specific character set.
	TokName
	// TokInt is a positive decimal integer (count prefix).
	TokInt
	// TokString is a double-quoted string literal, stored unescaped.
	TokString

	TokLBrace   // {
	TokRBrace   // }
	TokLParen   // (
	TokRParen   // )
	TokLBracket // [
	TokRBracket // ]
	TokComma    // ,
	TokColon    // :
	TokDot      // .

	// TokEOF marks the end of input.
	TokEOF
)

// String returns a human-readable name for the kind, used in error messages.
func (k TokenKind) String() string {
	switch k {
	case TokTypeName:
		return "type name"
	case TokName:
		return "name"
	case TokInt:
		return "integer"
	case TokString:
		return "string"
	case TokLBrace:
		return "'{'"
	case TokRBrace:
		return "'}'"
	case TokLParen:
		return "'('"
	case TokRParen:
		return "')'"
	case TokLBracket:
		return "'['"
	case TokRBracket:
		return "']'"
	case TokComma:
		return "','"
	case TokColon:
		return "':'"
	case TokDot:
		return "'.'"
	case TokEOF:
		return "end of input"
	}

	return fmt.Sprintf("token(%d)", int(k))
}

// Token is one lexical element, with its source position (1-based).
type Token struct {
	Kind   TokenKind
	Text   string // identifier text or unescaped string value
	Int    int    // value for TokInt
	Line   int
	Column int
}

// lexer converts source text into a token slice in one pass.
type lexer struct {
	src  []rune
	pos  int
	line int
	col  int
}

// lex tokenizes src fully, returning the token stream terminated by TokEOF.
func lex(src string) ([]Token, error) {
	lx := &lexer{src: []rune(src), line: 1, col: 1}

	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks, nil
		}
	}
}

// peekRune returns the current rune without consuming it, or -1 at EOF.
func (lx *lexer) peekRune() rune {
	if lx.pos >= len(lx.src) {
		return -1
	}

	return lx.src[lx.pos]
}

// advance consumes one rune, tracking line/column.
func (lx *lexer) advance() rune {
	r := lx.src[lx.pos]
	lx.pos++
	if r == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}

	return r
}

// next scans and returns the next token.
func (lx *lexer) next() (Token, error) {
	// Skip whitespace between tokens.
	for lx.pos < len(lx.src) && unicode.IsSpace(lx.peekRune()) {
		lx.advance()
	}

	line, col := lx.line, lx.col
	r := lx.peekRune()

	switch {
	case r == -1:
		return Token{Kind: TokEOF, Line: line, Column: col}, nil

	case r == '{':
		lx.advance()
		return Token{Kind: TokLBrace, Line: line, Column: col}, nil
	case r == '}':
		lx.advance()
		return Token{Kind: TokRBrace, Line: line, Column: col}, nil
	case r == '(':
		lx.advance()
		return Token{Kind: TokLParen, Line: line, Column: col}, nil
	case r == ')':
		lx.advance()
		return Token{Kind: TokRParen, Line: line, Column: col}, nil
	case r == '[':
		lx.advance()
		return Token{Kind: TokLBracket, Line: line, Column: col}, nil
	case r == ']':
		lx.advance()
		return Token{Kind: TokRBracket, Line: line, Column: col}, nil
	case r == ',':
		lx.advance()
		return Token{Kind: TokComma, Line: line, Column: col}, nil
	case r == ':':
		lx.advance()
		return Token{Kind: TokColon, Line: line, Column: col}, nil
	case r == '.':
		lx.advance()
		return Token{Kind: TokDot, Line: line, Column: col}, nil

	case r == '"':
		return lx.scanString(line, col)

	case r >= '0' && r <= '9':
		return lx.scanInt(line, col)

	case isIdentStart(r):
		return lx.scanIdent(line, col)
	}

	return Token{}, syntaxErrorf(line, col, "unexpected character %q", r)
}

// scanString consumes a double-quoted literal, handling \" and \\ escapes.
func (lx *lexer) scanString(line, col int) (Token, error) {
	lx.advance() // opening quote

	var sb strings.Builder
	for {
		r := lx.peekRune()
		switch r {
		case -1, '\n':
			return Token{}, syntaxErrorf(line, col, "unterminated string literal")
		case '"':
			lx.advance()
			return Token{Kind: TokString, Text: sb.String(), Line: line, Column: col}, nil
		case '\\':
			lx.advance()
			esc := lx.peekRune()
			if esc != '"' && esc != '\\' {
				return Token{}, syntaxErrorf(lx.line, lx.col, "invalid escape %q in string literal", esc)
			}
			sb.WriteRune(lx.advance())
		default:
			sb.WriteRune(lx.advance())
		}
	}
}

// scanInt consumes a positive integer. Counts must not start with zero.
func (lx *lexer) scanInt(line, col int) (Token, error) {
	if lx.peekRune() == '0' {
		return Token{}, syntaxErrorf(line, col, "counts must be positive integers with no leading zero")
	}

	n := 0
	for {
		r := lx.peekRune()
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(lx.advance()-'0')
	}

	return Token{Kind: TokInt, Int: n, Line: line, Column: col}, nil
}

// scanIdent consumes an identifier and classifies it by its first rune.
// The full identifier charset is the union of all name roles; the parser
// narrows it per role.
func (lx *lexer) scanIdent(line, col int) (Token, error) {
	upper := unicode.IsUpper(lx.peekRune())

	var sb strings.Builder
	for isIdentPart(lx.peekRune()) {
		sb.WriteRune(lx.advance())
	}
	text := sb.String()

	if upper {
		if !isTypeName(text) {
			return Token{}, syntaxErrorf(line, col,
				"invalid type name %q: type names contain letters and underscores only", text)
		}

		return Token{Kind: TokTypeName, Text: text, Line: line, Column: col}, nil
	}

	return Token{Kind: TokName, Text: text, Line: line, Column: col}, nil
}

func isIdentStart(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || r >= '0' && r <= '9' || r == '_' || r == '-'
}

// isTypeName reports whether text matches [A-Z][A-Za-z_]*.
func isTypeName(text string) bool {
	for i, r := range text {
		if i == 0 {
			if !(r >= 'A' && r <= 'Z') {
				return false
			}
			continue
		}
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			return false
		}
	}

	return text != ""
}

// isRelationshipName reports whether text matches [a-z][a-z0-9-]*.
func isRelationshipName(text string) bool {
	for i, r := range text {
		if i == 0 {
			if !(r >= 'a' && r <= 'z') {
				return false
			}
			continue
		}
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}

	return text != ""
}

// isPropertyName reports whether text matches [a-z][a-z0-9_]*.
func isPropertyName(text string) bool {
	for i, r := range text {
		if i == 0 {
			if !(r >= 'a' && r <= 'z') {
				return false
			}
			continue
		}
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_') {
			return false
		}
	}

	return text != ""
}

// isVariableName reports whether text matches [a-z][a-z0-9_-]*.
func isVariableName(text string) bool {
	for i, r := range text {
		if i == 0 {
			if !(r >= 'a' && r <= 'z') {
				return false
			}
			continue
		}
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return false
		}
	}

	return text != ""
}
