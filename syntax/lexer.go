package syntax

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer errors.
var (
	ErrUnterminatedString       = &LexError{msg: "unterminated string"}
	ErrUnterminatedChar         = &LexError{msg: "unterminated character literal"}
	ErrUnterminatedBlockComment = &LexError{msg: "unterminated block comment"}
	ErrUnexpectedCharacter      = &LexError{msg: "unexpected character"}
)

// LexError represents a lexer error with position.
type LexError struct {
	msg string
	pos lexer.Position
	ch  rune
}

func (e *LexError) Error() string {
	if e.ch != 0 {
		return e.pos.String() + ": " + e.msg + ": " + string(e.ch)
	}

	return e.pos.String() + ": " + e.msg
}

func (e *LexError) withPos(pos lexer.Position) *LexError {
	return &LexError{msg: e.msg, pos: pos, ch: e.ch}
}

func (e *LexError) withChar(ch rune) *LexError {
	return &LexError{msg: e.msg, pos: e.pos, ch: ch}
}

// Lex tokenizes source text, including whitespace and comment trivia.
// Lexing never stops early: an invalid character is emitted as an Op
// token so that completion can still classify positions around it.
func Lex(filename, input string) []lexer.Token {
	l := newLexerState(filename, input)

	var tokens []lexer.Token

	for {
		// Every error path of next still consumes input and yields the
		// partial token, so lexing always terminates.
		tok, _ := l.next()
		if tok.Type == TokenEOF {
			break
		}

		tokens = append(tokens, tok)
	}

	return tokens
}

// lexerState holds the state for lexing.
type lexerState struct {
	filename string
	input    string
	offset   int
	line     int
	col      int
}

func newLexerState(filename, input string) *lexerState {
	return &lexerState{
		filename: filename,
		input:    input,
		offset:   0,
		line:     1,
		col:      1,
	}
}

// next returns the next token.
func (l *lexerState) next() (lexer.Token, error) {
	if l.eof() {
		return lexer.EOFToken(l.pos()), nil
	}

	start := l.pos()
	r := l.peek()

	// Whitespace
	if isSpace(r) {
		for !l.eof() && isSpace(l.peek()) {
			l.advance()
		}

		return l.token(TokenWhitespace, start), nil
	}

	// Line comments; /// and //! are doc comments.
	if r == '/' && l.peekAt(1) == '/' {
		for !l.eof() && l.peek() != '\n' {
			l.advance()
		}

		tok := l.token(TokenComment, start)
		if strings.HasPrefix(tok.Value, "///") || strings.HasPrefix(tok.Value, "//!") {
			tok.Type = TokenDocComment
		}

		return tok, nil
	}

	// Block comments, nested.
	if r == '/' && l.peekAt(1) == '*' {
		return l.scanBlockComment(start)
	}

	// Strings
	if r == '"' {
		return l.scanString(start)
	}

	// Lifetimes and character literals both start with a single quote.
	if r == '\'' {
		return l.scanQuote(start)
	}

	// Numbers
	if isDigit(r) {
		return l.scanNumber(start), nil
	}

	// Identifier or keyword
	if isIdentStart(r) {
		l.advance()

		for !l.eof() && isIdentContinue(l.peek()) {
			l.advance()
		}

		tok := l.token(TokenIdent, start)
		tok.Type = KeywordFor(tok.Value)

		return tok, nil
	}

	// Multi-character operators (check before single-char)
	if tok, ok := l.scanMultiCharOp(start); ok {
		return tok, nil
	}

	// Single character tokens
	l.advance()

	switch r {
	case '.':
		return l.token(TokenDot, start), nil
	case ',':
		return l.token(TokenComma, start), nil
	case ';':
		return l.token(TokenSemi, start), nil
	case ':':
		return l.token(TokenColon, start), nil
	case '#':
		return l.token(TokenPound, start), nil
	case '!':
		return l.token(TokenBang, start), nil
	case '&':
		return l.token(TokenAmp, start), nil
	case '=':
		return l.token(TokenEq, start), nil
	case '<':
		return l.token(TokenLt, start), nil
	case '>':
		return l.token(TokenGt, start), nil
	case '(':
		return l.token(TokenLParen, start), nil
	case ')':
		return l.token(TokenRParen, start), nil
	case '[':
		return l.token(TokenLBracket, start), nil
	case ']':
		return l.token(TokenRBracket, start), nil
	case '{':
		return l.token(TokenLBrace, start), nil
	case '}':
		return l.token(TokenRBrace, start), nil
	}

	// Single-character operators
	if strings.ContainsRune("+-*/%^|?@~", r) {
		return l.token(TokenOp, start), nil
	}

	tok := l.token(TokenOp, start)

	return tok, ErrUnexpectedCharacter.withPos(start).withChar(r)
}

func (l *lexerState) pos() lexer.Position {
	return lexer.Position{
		Filename: l.filename,
		Offset:   l.offset,
		Line:     l.line,
		Column:   l.col,
	}
}

func (l *lexerState) eof() bool {
	return l.offset >= len(l.input)
}

func (l *lexerState) peek() rune {
	if l.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])

	return r
}

func (l *lexerState) peekAt(n int) rune {
	off := l.offset + n
	if off >= len(l.input) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.input[off:])

	return r
}

func (l *lexerState) advance() rune {
	if l.eof() {
		return 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.offset:])
	l.offset += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

func (l *lexerState) match(s string) bool {
	return strings.HasPrefix(l.input[l.offset:], s)
}

func (l *lexerState) token(typ lexer.TokenType, start lexer.Position) lexer.Token {
	return lexer.Token{
		Type:  typ,
		Value: l.input[start.Offset:l.offset],
		Pos:   start,
	}
}

func (l *lexerState) scanBlockComment(start lexer.Position) (lexer.Token, error) {
	l.advance() // /
	l.advance() // *

	depth := 1

	for !l.eof() {
		switch {
		case l.peek() == '/' && l.peekAt(1) == '*':
			depth++

			l.advance()
			l.advance()
		case l.peek() == '*' && l.peekAt(1) == '/':
			depth--

			l.advance()
			l.advance()

			if depth == 0 {
				return l.token(TokenComment, start), nil
			}
		default:
			l.advance()
		}
	}

	return l.token(TokenComment, start), ErrUnterminatedBlockComment.withPos(start)
}

func (l *lexerState) scanString(start lexer.Position) (lexer.Token, error) {
	l.advance() // opening quote

	for !l.eof() {
		ch := l.peek()
		if ch == '\\' && l.peekAt(1) != 0 {
			l.advance() // backslash
			l.advance() // escaped char

			continue
		}

		if ch == '"' {
			l.advance() // closing quote

			return l.token(TokenString, start), nil
		}

		l.advance()
	}

	return l.token(TokenString, start), ErrUnterminatedString.withPos(start)
}

// scanQuote disambiguates lifetimes ('static) from character literals ('a').
// A quote followed by an identifier that is not closed by another quote is a
// lifetime.
func (l *lexerState) scanQuote(start lexer.Position) (lexer.Token, error) {
	l.advance() // opening quote

	if isIdentStart(l.peek()) {
		// Scan the identifier run, then decide by the closing quote.
		n := 0
		for {
			r := l.peekAt(n)
			if r == 0 || !isIdentContinue(r) {
				break
			}

			n += utf8.RuneLen(r)
		}

		if l.peekAt(n) != '\'' {
			for i := 0; i < n; i++ {
				l.advance()
			}

			return l.token(TokenLifetime, start), nil
		}
	}

	// Character literal.
	for !l.eof() {
		ch := l.peek()
		if ch == '\\' && l.peekAt(1) != 0 {
			l.advance()
			l.advance()

			continue
		}

		if ch == '\'' {
			l.advance()

			return l.token(TokenChar, start), nil
		}

		if ch == '\n' {
			return l.token(TokenChar, start), ErrUnterminatedChar.withPos(start)
		}

		l.advance()
	}

	return l.token(TokenChar, start), ErrUnterminatedChar.withPos(start)
}

func (l *lexerState) scanMultiCharOp(start lexer.Position) (lexer.Token, bool) {
	typed := map[string]lexer.TokenType{
		"::": TokenPathSep,
		"->": TokenArrow,
		"=>": TokenFatArrow,
	}

	for op, typ := range typed {
		if l.match(op) {
			l.advance()
			l.advance()

			return l.token(typ, start), true
		}
	}

	multiOps := []string{
		"..=", "..", "==", "!=", "<=", ">=", "&&", "||",
		"+=", "-=", "*=", "/=", "%=", "<<", ">>",
	}

	for _, op := range multiOps {
		if l.match(op) {
			for i := 0; i < len(op); i++ {
				l.advance()
			}

			return l.token(TokenOp, start), true
		}
	}

	return lexer.Token{}, false
}

func (l *lexerState) scanNumber(start lexer.Position) lexer.Token {
	// Hex, octal, binary.
	if l.peek() == '0' {
		switch l.peekAt(1) {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.advance()
			l.advance()

			for !l.eof() && (isHexDigit(l.peek()) || l.peek() == '_') {
				l.advance()
			}

			return l.token(TokenNumber, start)
		}
	}

	for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}

	// Fractional part. A plain dot suffix (1.foo) stays a separate token.
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()

		for !l.eof() && (isDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	}

	// Type suffix (1u32, 1.5f64).
	for !l.eof() && isIdentContinue(l.peek()) {
		l.advance()
	}

	return l.token(TokenNumber, start)
}

// Character helpers.

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
