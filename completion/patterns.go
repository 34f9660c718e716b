package completion

import (
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/nitsky/rust-analyzer/syntax"
)

// forBindingPosition reports whether the token at idx sits where a
// for-loop binds its pattern, before the `in` keyword. Completing there
// would suggest names for a binding the user is inventing, so the
// engine stays silent. Both `for <caret>` and `for i i<caret>` count.
func forBindingPosition(tokens []lexer.Token, idx int) bool {
	if idx < 0 || tokens[idx].Type != syntax.TokenIdent {
		return false
	}

	prev := syntax.PrevNonTrivia(tokens, idx)
	if prev < 0 {
		return false
	}

	if tokens[prev].Type == syntax.TokenFor {
		return true
	}

	if tokens[prev].Type != syntax.TokenIdent {
		return false
	}

	prev2 := syntax.PrevNonTrivia(tokens, prev)

	return prev2 >= 0 && tokens[prev2].Type == syntax.TokenFor
}

// prevToken returns the non-trivia token before the cursor token, if any.
func (ctx *Context) prevToken() (lexer.Token, bool) {
	prev := syntax.PrevNonTrivia(ctx.SpecTokens, ctx.tokenIdx)
	if prev < 0 {
		return lexer.Token{}, false
	}

	return ctx.SpecTokens[prev], true
}

// afterDot reports whether the cursor token directly follows a dot.
func (ctx *Context) afterDot() bool {
	tok, ok := ctx.prevToken()

	return ok && tok.Type == syntax.TokenDot
}

// atStmtStart reports whether the cursor token begins a statement: it
// is the first token after `{`, `;` or a closing brace.
func (ctx *Context) atStmtStart() bool {
	tok, ok := ctx.prevToken()
	if !ok {
		return true
	}

	switch tok.Type {
	case syntax.TokenLBrace, syntax.TokenRBrace, syntax.TokenSemi:
		return true
	default:
		return false
	}
}
