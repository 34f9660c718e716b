package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// ----------------------------------------------------------------------------
// Blocks and statements
// ----------------------------------------------------------------------------

func (p *parser) parseBlock() *Block {
	start := p.cur().Pos
	block := &Block{}

	save := p.noRecord
	p.noRecord = false

	p.expect(TokenLBrace)

	for !p.eof() && !p.is(TokenRBrace) {
		stmt := p.parseStmt()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}

	p.expect(TokenRBrace)

	p.noRecord = save
	block.span = spanned2(start, p.prevEnd())

	return block
}

//nolint:ireturn // AST node polymorphism.
func (p *parser) parseStmt() Stmt {
	switch p.cur().Type {
	case TokenLet:
		return p.parseLet()
	case TokenSemi:
		p.bump()

		return nil
	case TokenFn, TokenStruct, TokenEnum, TokenTrait, TokenImpl,
		TokenUse, TokenMod, TokenConst, TokenStatic, TokenPound, TokenDocComment:
		start := p.cur().Pos

		item := p.parseItem()
		if item == nil {
			return nil
		}

		stmt := &ItemStmt{Item: item}
		stmt.span = spanned2(start, p.prevEnd())

		return stmt
	default:
		start := p.cur().Pos

		before := p.pos
		x := p.parseExpr()

		if p.pos == before {
			// No progress; drop the token to avoid looping.
			p.bump()

			return nil
		}

		stmt := &ExprStmt{X: x, Semi: p.eat(TokenSemi)}
		stmt.span = spanned2(start, p.prevEnd())

		return stmt
	}
}

func (p *parser) parseLet() *LetStmt {
	start := p.cur().Pos
	p.expect(TokenLet)

	stmt := &LetStmt{}
	stmt.Pat = p.parsePattern()

	if p.eat(TokenColon) {
		stmt.Type = p.parseTypeRef()
	}

	if p.eat(TokenEq) {
		stmt.Init = p.parseExpr()
	}

	p.eat(TokenSemi)
	stmt.span = spanned2(start, p.prevEnd())

	return stmt
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

//nolint:ireturn // AST node polymorphism.
func (p *parser) parseExpr() Expr {
	lhs := p.parseUnary()

	for {
		op, ok := p.binaryOp()
		if !ok {
			break
		}

		p.bump()

		rhs := p.parseUnary()

		bin := &BinExpr{Op: op, X: lhs, Y: rhs}
		bin.span = spanned2(lhs.Span().Start, p.prevEnd())
		lhs = bin
	}

	return lhs
}

// binaryOp reports whether the current token is a binary operator.
// Precedence is deliberately flat; completion needs operands and spans,
// not evaluation order.
func (p *parser) binaryOp() (string, bool) {
	tok := p.cur()

	switch tok.Type {
	case TokenOp:
		switch tok.Value {
		case "?":
			return "", false
		default:
			return tok.Value, true
		}
	case TokenEq, TokenLt, TokenGt:
		return tok.Value, true
	default:
		return "", false
	}
}

// parseCond parses an expression in a position where a brace opens a
// block rather than a struct literal.
//
//nolint:ireturn // AST node polymorphism.
func (p *parser) parseCond() Expr {
	save := p.noRecord
	p.noRecord = true

	x := p.parseExpr()

	p.noRecord = save

	return x
}

//nolint:ireturn // AST node polymorphism.
func (p *parser) parseUnary() Expr {
	start := p.cur().Pos

	switch {
	case p.is(TokenAmp):
		p.bump()

		ref := &RefExpr{Mut: p.eat(TokenMut)}
		ref.X = p.parseUnary()
		ref.span = spanned2(start, p.prevEnd())

		return ref
	case p.is(TokenBang):
		p.bump()

		un := &UnaryExpr{Op: "!"}
		un.X = p.parseUnary()
		un.span = spanned2(start, p.prevEnd())

		return un
	case p.is(TokenOp) && (p.cur().Value == "-" || p.cur().Value == "*"):
		op := p.bump().Value

		un := &UnaryExpr{Op: op}
		un.X = p.parseUnary()
		un.span = spanned2(start, p.prevEnd())

		return un
	default:
		return p.parsePostfix()
	}
}

//nolint:ireturn // AST node polymorphism.
func (p *parser) parsePostfix() Expr {
	x := p.parsePrimary()

	for {
		switch {
		case p.is(TokenDot):
			x = p.parseDotSuffix(x)
		case p.is(TokenLParen):
			call := &CallExpr{Fun: x}
			call.Args = p.parseCallArgs()
			call.span = spanned2(x.Span().Start, p.prevEnd())
			x = call
		case p.is(TokenLBracket):
			p.skipBalanced(TokenLBracket, TokenRBracket)

			idx := &UnaryExpr{Op: "index", X: x}
			idx.span = spanned2(x.Span().Start, p.prevEnd())
			x = idx
		case p.is(TokenOp) && p.cur().Value == "?":
			p.bump()

			try := &UnaryExpr{Op: "?", X: x}
			try.span = spanned2(x.Span().Start, p.prevEnd())
			x = try
		case p.is(TokenAs):
			p.bump()
			p.parseTypeRef()

			cast := &UnaryExpr{Op: "as", X: x}
			cast.span = spanned2(x.Span().Start, p.prevEnd())
			x = cast
		default:
			return x
		}
	}
}

// parseDotSuffix parses `.name`, `.name(args)` and `.0`. Keywords are
// accepted as member names: `expr.if` must produce a field access so
// postfix completion can classify it.
//
//nolint:ireturn // AST node polymorphism.
func (p *parser) parseDotSuffix(recv Expr) Expr {
	p.expect(TokenDot)

	tok := p.cur()
	if tok.Type != TokenIdent && tok.Type != TokenNumber && !IsKeywordToken(tok.Type) {
		p.errorf("expected member name after '.'")

		fe := &FieldExpr{Recv: recv, Name: &Ident{Name: ""}}
		fe.Name.span = spanned2(p.prevEnd(), p.prevEnd())
		fe.span = spanned2(recv.Span().Start, p.prevEnd())

		return fe
	}

	p.bump()

	name := &Ident{Name: tok.Value}
	name.span = spanned2(tok.Pos, endPos(tok))

	if p.is(TokenLParen) {
		call := &MethodCallExpr{Recv: recv, Name: name}
		call.Args = p.parseCallArgs()
		call.span = spanned2(recv.Span().Start, p.prevEnd())

		return call
	}

	fe := &FieldExpr{Recv: recv, Name: name}
	fe.span = spanned2(recv.Span().Start, p.prevEnd())

	return fe
}

func (p *parser) parseCallArgs() []Expr {
	save := p.noRecord
	p.noRecord = false

	p.expect(TokenLParen)

	var args []Expr

	for !p.eof() && !p.is(TokenRParen) {
		before := p.pos
		args = append(args, p.parseExpr())

		if p.pos == before {
			p.bump()
		}

		if !p.eat(TokenComma) {
			break
		}
	}

	p.expect(TokenRParen)

	p.noRecord = save

	return args
}

//nolint:ireturn,funlen,gocyclo // AST node polymorphism; one arm per expression form.
func (p *parser) parsePrimary() Expr {
	start := p.cur().Pos

	switch p.cur().Type {
	case TokenNumber, TokenString, TokenChar, TokenTrue, TokenFalse:
		tok := p.bump()

		lit := &Lit{Kind: tok.Type, Text: tok.Value}
		lit.span = spanned2(start, p.prevEnd())

		return lit

	case TokenIf:
		return p.parseIf()

	case TokenWhile:
		p.bump()

		wh := &WhileExpr{}

		if p.eat(TokenLet) {
			p.parsePattern()
			p.eat(TokenEq)
		}

		wh.Cond = p.parseCond()
		wh.Body = p.parseBlock()
		wh.span = spanned2(start, p.prevEnd())

		return wh

	case TokenLoop:
		p.bump()

		lp := &LoopExpr{Body: p.parseBlock()}
		lp.span = spanned2(start, p.prevEnd())

		return lp

	case TokenFor:
		p.bump()

		f := &ForExpr{}
		f.Pat = p.parsePattern()
		p.expect(TokenIn)
		f.Iter = p.parseCond()
		f.Body = p.parseBlock()
		f.span = spanned2(start, p.prevEnd())

		return f

	case TokenMatch:
		return p.parseMatch()

	case TokenReturn:
		p.bump()

		ret := &ReturnExpr{}
		if p.exprAhead() {
			ret.X = p.parseExpr()
		}

		ret.span = spanned2(start, p.prevEnd())

		return ret

	case TokenBreak, TokenContinue:
		tok := p.bump()

		lit := &Lit{Kind: tok.Type, Text: tok.Value}
		lit.span = spanned2(start, p.prevEnd())

		return lit

	case TokenLParen:
		p.bump()

		save := p.noRecord
		p.noRecord = false

		if p.is(TokenRParen) {
			p.bump()

			p.noRecord = save

			unit := &Lit{Kind: TokenLParen, Text: "()"}
			unit.span = spanned2(start, p.prevEnd())

			return unit
		}

		inner := p.parseExpr()

		for p.eat(TokenComma) {
			if p.is(TokenRParen) {
				break
			}

			p.parseExpr()
		}

		p.expect(TokenRParen)

		p.noRecord = save

		paren := &ParenExpr{X: inner}
		paren.span = spanned2(start, p.prevEnd())

		return paren

	case TokenLBrace:
		be := &BlockExpr{Block: p.parseBlock()}
		be.span = spanned2(start, p.prevEnd())

		return be

	case TokenIdent, TokenSelfValue, TokenSelfType, TokenCrate, TokenSuper:
		return p.parsePathOperand()

	default:
		tok := p.cur()
		p.errorf("expected expression, found %q", tok.Value)

		if !p.eof() {
			p.bump()
		}

		lit := &Lit{Kind: TokenOp, Text: tok.Value}
		lit.span = spanned2(start, p.prevEnd())

		return lit
	}
}

//nolint:ireturn // AST node polymorphism.
func (p *parser) parsePathOperand() Expr {
	start := p.cur().Pos
	path := p.parsePath(false)

	switch {
	case p.is(TokenBang) && p.at(1).Type != TokenEq:
		p.bump()

		call := &MacroCall{Path: path}

		switch p.cur().Type {
		case TokenLParen:
			s, e := p.skipBalanced(TokenLParen, TokenRParen)
			call.BodyText = p.sliceSrc(s, e)
		case TokenLBracket:
			s, e := p.skipBalanced(TokenLBracket, TokenRBracket)
			call.BodyText = p.sliceSrc(s, e)
		case TokenLBrace:
			s, e := p.skipBalanced(TokenLBrace, TokenRBrace)
			call.BodyText = p.sliceSrc(s, e)
		default:
			p.errorf("expected macro arguments")
		}

		call.span = spanned2(start, p.prevEnd())

		me := &MacroExpr{Call: call}
		me.span = call.span

		return me

	case p.is(TokenLBrace) && !p.noRecord:
		return p.parseRecordExpr(path)

	default:
		pe := &PathExpr{Path: path}
		pe.span = path.span

		return pe
	}
}

func (p *parser) parseRecordExpr(path *Path) *RecordExpr {
	rec := &RecordExpr{Path: path}

	p.expect(TokenLBrace)

	save := p.noRecord
	p.noRecord = false

	for !p.eof() && !p.is(TokenRBrace) {
		if p.is(TokenOp) && p.cur().Value == ".." {
			p.bump()

			rec.Spread = p.parseExpr()

			break
		}

		if !p.is(TokenIdent) {
			p.errorf("expected field initializer")
			p.bump()

			continue
		}

		field := &RecordExprField{Name: p.parseIdent()}
		if p.eat(TokenColon) {
			field.Value = p.parseExpr()
		}

		field.span = spanned2(field.Name.span.Start, p.prevEnd())
		rec.Fields = append(rec.Fields, field)

		if !p.eat(TokenComma) {
			break
		}
	}

	p.expect(TokenRBrace)

	p.noRecord = save
	rec.span = spanned2(path.span.Start, p.prevEnd())

	return rec
}

func (p *parser) parseIf() *IfExpr {
	start := p.cur().Pos
	p.expect(TokenIf)

	ife := &IfExpr{}

	if p.eat(TokenLet) {
		p.parsePattern()
		p.eat(TokenEq)
	}

	ife.Cond = p.parseCond()
	ife.Then = p.parseBlock()

	if p.eat(TokenElse) {
		if p.is(TokenIf) {
			ife.Else = p.parseIf()
		} else {
			be := &BlockExpr{Block: p.parseBlock()}
			be.span = be.Block.span
			ife.Else = be
		}
	}

	ife.span = spanned2(start, p.prevEnd())

	return ife
}

func (p *parser) parseMatch() *MatchExpr {
	start := p.cur().Pos
	p.expect(TokenMatch)

	m := &MatchExpr{}
	m.Scrutinee = p.parseCond()

	p.expect(TokenLBrace)

	for !p.eof() && !p.is(TokenRBrace) {
		arm := &MatchArm{}
		armStart := p.cur().Pos

		before := p.pos
		arm.Pat = p.parsePattern()

		for p.is(TokenOp) && p.cur().Value == "|" {
			p.bump()
			p.parsePattern()
		}

		if p.eat(TokenIf) {
			arm.Guard = p.parseExpr()
		}

		p.expect(TokenFatArrow)
		arm.Value = p.parseExpr()
		p.eat(TokenComma)

		if p.pos == before {
			p.bump()

			continue
		}

		arm.span = spanned2(armStart, p.prevEnd())
		m.Arms = append(m.Arms, arm)
	}

	p.expect(TokenRBrace)
	m.span = spanned2(start, p.prevEnd())

	return m
}

func (p *parser) exprAhead() bool {
	switch p.cur().Type {
	case TokenSemi, TokenRBrace, TokenRParen, TokenRBracket, TokenComma, TokenEOF:
		return false
	default:
		return !p.eof()
	}
}

// ----------------------------------------------------------------------------
// Patterns
// ----------------------------------------------------------------------------

//nolint:ireturn // AST node polymorphism.
func (p *parser) parsePattern() Pat {
	start := p.cur().Pos

	switch p.cur().Type {
	case TokenAmp:
		p.bump()
		p.eat(TokenMut)

		return p.parsePattern()

	case TokenRef, TokenMut:
		pat := &BindPat{}
		pat.Ref = p.eat(TokenRef)
		pat.Mut = p.eat(TokenMut)

		if p.is(TokenIdent) {
			pat.Name = p.parseIdent()
		} else {
			p.errorf("expected binding name")
		}

		pat.span = spanned2(start, p.prevEnd())

		return pat

	case TokenLParen:
		p.bump()

		tup := &TuplePat{}

		for !p.eof() && !p.is(TokenRParen) {
			before := p.pos
			tup.Elems = append(tup.Elems, p.parsePattern())

			if p.pos == before {
				p.bump()
			}

			if !p.eat(TokenComma) {
				break
			}
		}

		p.expect(TokenRParen)
		tup.span = spanned2(start, p.prevEnd())

		return tup

	case TokenNumber, TokenString, TokenChar, TokenTrue, TokenFalse:
		tok := p.bump()

		lit := &LitPat{Text: tok.Value}
		lit.span = spanned2(start, p.prevEnd())

		return lit

	case TokenOp:
		if p.cur().Value == "-" && p.at(1).Type == TokenNumber {
			p.bump()

			tok := p.bump()
			lit := &LitPat{Text: "-" + tok.Value}
			lit.span = spanned2(start, p.prevEnd())

			return lit
		}

		fallthrough

	case TokenIdent, TokenSelfValue, TokenSelfType, TokenCrate, TokenSuper:
		if p.cur().Type == TokenOp {
			break
		}

		return p.parsePathPattern(start)
	}

	p.errorf("expected pattern, found %q", p.cur().Value)

	if !p.eof() {
		p.bump()
	}

	wild := &WildcardPat{}
	wild.span = spanned2(start, p.prevEnd())

	return wild
}

//nolint:ireturn // AST node polymorphism.
func (p *parser) parsePathPattern(start lexer.Position) Pat {
	path := p.parsePath(false)

	switch {
	case p.is(TokenLParen):
		p.bump()

		tup := &TuplePat{Path: path}

		for !p.eof() && !p.is(TokenRParen) {
			before := p.pos
			tup.Elems = append(tup.Elems, p.parsePattern())

			if p.pos == before {
				p.bump()
			}

			if !p.eat(TokenComma) {
				break
			}
		}

		p.expect(TokenRParen)
		tup.span = spanned2(start, p.prevEnd())

		return tup

	case p.is(TokenLBrace):
		p.bump()

		rec := &RecordPat{Path: path}

		for !p.eof() && !p.is(TokenRBrace) {
			if p.is(TokenOp) && p.cur().Value == ".." {
				p.bump()

				rec.Rest = true

				break
			}

			if !p.is(TokenIdent) {
				p.errorf("expected field pattern")
				p.bump()

				continue
			}

			field := &RecordPatField{Name: p.parseIdent()}
			if p.eat(TokenColon) {
				field.Pat = p.parsePattern()
			}

			field.span = spanned2(field.Name.span.Start, p.prevEnd())
			rec.Fields = append(rec.Fields, field)

			if !p.eat(TokenComma) {
				break
			}
		}

		p.expect(TokenRBrace)
		rec.span = spanned2(start, p.prevEnd())

		return rec

	default:
		if len(path.Segments) == 1 {
			name := path.Segments[0].Name

			if name == "_" {
				wild := &WildcardPat{}
				wild.span = path.span

				return wild
			}

			// Lowercase single segments bind; uppercase ones refer to
			// unit variants or consts. Name resolution refines this.
			if !startsUpper(name) {
				bind := &BindPat{Name: &Ident{Name: name}}
				bind.Name.span = path.span
				bind.span = path.span

				return bind
			}
		}

		pp := &PathPat{Path: path}
		pp.span = path.span

		return pp
	}
}

func startsUpper(s string) bool {
	if s == "" {
		return false
	}

	c := s[0]

	return c >= 'A' && c <= 'Z'
}
