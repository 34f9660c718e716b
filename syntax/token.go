package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Token type constants - negative values as per participle convention.
// Exported for use in pattern matching and completion logic.
const (
	TokenEOF        lexer.TokenType = lexer.EOF
	TokenComment    lexer.TokenType = -(iota + 2) //nolint:mnd // participle convention
	TokenDocComment                               // /// and //! doc comments
	TokenString                                   // quoted strings
	TokenChar                                     // character literals
	TokenLifetime                                 // 'ident lifetimes
	TokenNumber                                   // all number formats
	TokenIdent                                    // identifiers
	TokenOp                                       // operators
	TokenDot                                      // .
	TokenComma                                    // ,
	TokenSemi                                     // ;
	TokenColon                                    // :
	TokenPathSep                                  // ::
	TokenArrow                                    // ->
	TokenFatArrow                                 // =>
	TokenPound                                    // #
	TokenBang                                     // !
	TokenAmp                                      // &
	TokenEq                                       // =
	TokenLt                                       // <
	TokenGt                                       // >
	TokenLParen                                   // (
	TokenRParen                                   // )
	TokenLBracket                                 // [
	TokenRBracket                                 // ]
	TokenLBrace                                   // {
	TokenRBrace                                   // }
	TokenWhitespace                               // spaces, tabs, newlines
	// Keywords - distinct token types so the parser can distinguish them
	// from identifiers.
	TokenFn
	TokenLet
	TokenStruct
	TokenEnum
	TokenTrait
	TokenImpl
	TokenFor
	TokenWhile
	TokenLoop
	TokenIf
	TokenElse
	TokenMatch
	TokenReturn
	TokenUse
	TokenMod
	TokenPub
	TokenConst
	TokenStatic
	TokenIn
	TokenAs
	TokenMut
	TokenRef
	TokenSelfValue
	TokenSelfType
	TokenWhere
	TokenBreak
	TokenContinue
	TokenTrue
	TokenFalse
	TokenCrate
	TokenSuper
	TokenDyn
	TokenMove
	TokenUnsafe
)

// keywords maps keyword strings to their token types.
var keywords = map[string]lexer.TokenType{
	"fn":       TokenFn,
	"let":      TokenLet,
	"struct":   TokenStruct,
	"enum":     TokenEnum,
	"trait":    TokenTrait,
	"impl":     TokenImpl,
	"for":      TokenFor,
	"while":    TokenWhile,
	"loop":     TokenLoop,
	"if":       TokenIf,
	"else":     TokenElse,
	"match":    TokenMatch,
	"return":   TokenReturn,
	"use":      TokenUse,
	"mod":      TokenMod,
	"pub":      TokenPub,
	"const":    TokenConst,
	"static":   TokenStatic,
	"in":       TokenIn,
	"as":       TokenAs,
	"mut":      TokenMut,
	"ref":      TokenRef,
	"self":     TokenSelfValue,
	"Self":     TokenSelfType,
	"where":    TokenWhere,
	"break":    TokenBreak,
	"continue": TokenContinue,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"crate":    TokenCrate,
	"super":    TokenSuper,
	"dyn":      TokenDyn,
	"move":     TokenMove,
	"unsafe":   TokenUnsafe,
}

// IsKeywordToken returns true if the token type is a keyword.
func IsKeywordToken(typ lexer.TokenType) bool {
	return typ <= TokenFn && typ >= TokenUnsafe
}

// IsTrivia returns true for whitespace and non-doc comments.
func IsTrivia(typ lexer.TokenType) bool {
	return typ == TokenWhitespace || typ == TokenComment
}

// KeywordFor returns the keyword token type for an identifier string,
// or TokenIdent if the string is not a keyword.
func KeywordFor(s string) lexer.TokenType {
	if typ, ok := keywords[s]; ok {
		return typ
	}

	return TokenIdent
}
