package syntax

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// Parse parses a source file and returns the AST.
//
// On parse errors it returns a partial AST containing everything that
// could be recognized, along with the joined errors. Callers should use
// the partial AST for completion and classification even when errors
// are present.
func Parse(filename, src string) (*File, error) {
	p := newParser(filename, src)
	file := p.parseFile()

	return file, errors.Join(p.errs...)
}

// ErrSyntax is the base error for parse failures.
var ErrSyntax = errors.New("syntax error")

type parser struct {
	src  string
	toks []lexer.Token // trivia stripped, doc comments kept
	pos  int
	errs []error

	// noRecord suppresses struct-literal parsing in positions where a
	// brace opens a block (if/while/for/match headers).
	noRecord bool
}

func newParser(filename, src string) *parser {
	all := Lex(filename, src)

	toks := make([]lexer.Token, 0, len(all))

	for _, tok := range all {
		if IsTrivia(tok.Type) {
			continue
		}

		toks = append(toks, tok)
	}

	return &parser{src: src, toks: toks}
}

// ----------------------------------------------------------------------------
// Token access
// ----------------------------------------------------------------------------

func (p *parser) at(i int) lexer.Token {
	idx := p.pos + i
	if idx < 0 || idx >= len(p.toks) {
		return lexer.EOFToken(p.eofPos())
	}

	return p.toks[idx]
}

func (p *parser) cur() lexer.Token { return p.at(0) }

func (p *parser) eof() bool { return p.pos >= len(p.toks) }

func (p *parser) eofPos() lexer.Position {
	if len(p.toks) == 0 {
		return lexer.Position{Line: 1, Column: 1}
	}

	return endPos(p.toks[len(p.toks)-1])
}

func (p *parser) bump() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}

	return tok
}

func (p *parser) is(typ lexer.TokenType) bool { return p.cur().Type == typ }

func (p *parser) eat(typ lexer.TokenType) bool {
	if p.is(typ) {
		p.bump()

		return true
	}

	return false
}

func (p *parser) expect(typ lexer.TokenType) lexer.Token {
	if p.is(typ) {
		return p.bump()
	}

	p.errorf("unexpected token %q", p.cur().Value)

	return lexer.Token{Type: typ, Pos: p.cur().Pos}
}

func (p *parser) errorf(format string, args ...any) {
	pos := p.cur().Pos
	p.errs = append(p.errs, fmt.Errorf("%s: %w: %s", pos.String(), ErrSyntax, fmt.Sprintf(format, args...)))
}

// endPos computes the position one past the end of a token.
func endPos(tok lexer.Token) lexer.Position {
	pos := tok.Pos
	for _, r := range tok.Value {
		pos.Offset += len(string(r))

		if r == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}

	return pos
}

func spanned2(start, end lexer.Position) Span {
	return Span{Start: start, End: end}
}

// prevEnd returns the end position of the last consumed token.
func (p *parser) prevEnd() lexer.Position {
	if p.pos == 0 {
		if len(p.toks) == 0 {
			return lexer.Position{Line: 1, Column: 1}
		}

		return p.toks[0].Pos
	}

	return endPos(p.toks[p.pos-1])
}

// ----------------------------------------------------------------------------
// Items
// ----------------------------------------------------------------------------

func (p *parser) parseFile() *File {
	file := &File{}

	start := lexer.Position{Filename: p.cur().Pos.Filename, Line: 1, Column: 1}
	file.Items = p.parseItems(TokenEOF)
	file.span = spanned2(start, p.eofPos())

	return file
}

// parseItems parses items until EOF or the stop token type.
func (p *parser) parseItems(stop lexer.TokenType) []Item {
	var items []Item

	for !p.eof() && !p.is(stop) {
		item := p.parseItem()
		if item != nil {
			items = append(items, item)
		}
	}

	return items
}

// itemHeader holds docs, attributes and visibility collected before an
// item keyword.
type itemHeader struct {
	doc   []string
	attrs []*Attr
	pub   bool
	start lexer.Position
	has   bool
}

func (h *itemHeader) mark(pos lexer.Position) {
	if !h.has {
		h.start = pos
		h.has = true
	}
}

func (h *itemHeader) startOr(pos lexer.Position) lexer.Position {
	if h.has {
		return h.start
	}

	return pos
}

func (p *parser) parseItemHeader() itemHeader {
	var h itemHeader

	for {
		switch p.cur().Type {
		case TokenDocComment:
			h.mark(p.cur().Pos)
			h.doc = append(h.doc, p.bump().Value)
		case TokenPound:
			h.mark(p.cur().Pos)

			attr := p.parseAttr()
			if attr != nil {
				h.attrs = append(h.attrs, attr)
			}
		case TokenPub:
			h.mark(p.cur().Pos)
			p.bump()
			// pub(crate) etc.
			if p.is(TokenLParen) {
				p.skipBalanced(TokenLParen, TokenRParen)
			}

			h.pub = true
		default:
			return h
		}
	}
}

//nolint:ireturn // AST node polymorphism.
func (p *parser) parseItem() Item {
	h := p.parseItemHeader()

	switch p.cur().Type {
	case TokenFn:
		return p.parseFn(h)
	case TokenStruct:
		return p.parseStruct(h)
	case TokenEnum:
		return p.parseEnum(h)
	case TokenTrait:
		return p.parseTrait(h)
	case TokenImpl:
		return p.parseImpl(h)
	case TokenUse:
		return p.parseUse(h)
	case TokenMod:
		return p.parseMod(h)
	case TokenConst, TokenStatic:
		return p.parseConst(h)
	case TokenUnsafe:
		p.bump()

		return p.parseItem()
	case TokenIdent:
		if p.cur().Value == "macro_rules" && p.at(1).Type == TokenBang {
			return p.parseMacroDef(h)
		}

		if p.pathAhead() && p.macroCallAhead() {
			return p.parseMacroCallItem(h)
		}

		return p.parseBrokenItem(h)
	case TokenSemi:
		p.bump()

		return nil
	default:
		return p.parseBrokenItem(h)
	}
}

// parseBrokenItem consumes a run of tokens that do not form an item.
// The fragment is kept in the tree so completion can classify a cursor
// inside it (a lone identifier in item position is the common case).
func (p *parser) parseBrokenItem(h itemHeader) *BrokenItem {
	start := h.startOr(p.cur().Pos)
	broken := &BrokenItem{Attrs: h.attrs}

	for !p.eof() {
		tok := p.cur()
		if startsItem(tok.Type) || tok.Type == TokenRBrace {
			break
		}

		broken.Tokens = append(broken.Tokens, p.bump())

		if tok.Type == TokenSemi {
			break
		}
	}

	if len(broken.Tokens) == 0 {
		// Make progress on a stray closing brace in item position.
		broken.Tokens = append(broken.Tokens, p.bump())
	}

	p.errorf("expected item")
	broken.span = spanned2(start, p.prevEnd())

	return broken
}

func startsItem(typ lexer.TokenType) bool {
	switch typ {
	case TokenFn, TokenStruct, TokenEnum, TokenTrait, TokenImpl,
		TokenUse, TokenMod, TokenConst, TokenStatic, TokenPub, TokenPound:
		return true
	default:
		return false
	}
}

func (p *parser) parseAttr() *Attr {
	start := p.cur().Pos
	p.expect(TokenPound)

	attr := &Attr{}
	if p.eat(TokenBang) {
		attr.Inner = true
	}

	if !p.is(TokenLBracket) {
		p.errorf("expected '[' after '#'")
		attr.span = spanned2(start, p.prevEnd())

		return attr
	}

	p.bump() // [

	if p.is(TokenIdent) || IsKeywordToken(p.cur().Type) {
		attr.Name = p.cur().Value
	}

	depth := 1

	for !p.eof() && depth > 0 {
		switch p.cur().Type {
		case TokenLBracket:
			depth++
		case TokenRBracket:
			depth--

			if depth == 0 {
				p.bump()
				attr.span = spanned2(start, p.prevEnd())

				return attr
			}
		}

		attr.Args = append(attr.Args, p.bump())
	}

	attr.span = spanned2(start, p.prevEnd())

	return attr
}

func (p *parser) parseFn(h itemHeader) *Fn {
	start := h.startOr(p.cur().Pos)
	p.expect(TokenFn)

	fn := &Fn{Doc: h.doc, Attrs: h.attrs, Pub: h.pub}

	if p.is(TokenIdent) {
		fn.Name = p.parseIdent()
	}

	p.skipGenerics()

	if p.is(TokenLParen) {
		p.bump()
		fn.Params = p.parseParams()
		p.expect(TokenRParen)
	}

	if p.eat(TokenArrow) {
		fn.Ret = p.parseTypeRef()
	}

	p.skipWhereClause()

	switch {
	case p.is(TokenLBrace):
		fn.Body = p.parseBlock()
	case p.eat(TokenSemi):
	default:
		p.errorf("expected function body")
	}

	fn.span = spanned2(start, p.prevEnd())

	return fn
}

func (p *parser) parseParams() []*Param {
	var params []*Param

	for !p.eof() && !p.is(TokenRParen) {
		param := p.parseParam()
		if param != nil {
			params = append(params, param)
		}

		if !p.eat(TokenComma) {
			break
		}
	}

	return params
}

func (p *parser) parseParam() *Param {
	start := p.cur().Pos
	param := &Param{}

	// Self receivers: self, &self, &mut self, mut self.
	save := p.pos
	if p.eat(TokenAmp) {
		param.RefSelf = true

		p.eat(TokenLifetime)
	}

	if p.eat(TokenMut) {
		param.MutSelf = true
	}

	if p.is(TokenSelfValue) {
		p.bump()

		param.IsSelf = true
		param.span = spanned2(start, p.prevEnd())

		return param
	}

	p.pos = save
	param.RefSelf = false
	param.MutSelf = false

	param.Pat = p.parsePattern()
	if p.eat(TokenColon) {
		param.Type = p.parseTypeRef()
	} else {
		param.Nameless = true
	}

	param.span = spanned2(start, p.prevEnd())

	return param
}

func (p *parser) parseStruct(h itemHeader) *Struct {
	start := h.startOr(p.cur().Pos)
	p.expect(TokenStruct)

	st := &Struct{Doc: h.doc, Attrs: h.attrs, Pub: h.pub}
	if p.is(TokenIdent) {
		st.Name = p.parseIdent()
	}

	p.skipGenerics()

	switch {
	case p.is(TokenLBrace):
		p.bump()

		for !p.eof() && !p.is(TokenRBrace) {
			field := p.parseField()
			if field != nil {
				st.Fields = append(st.Fields, field)
			}

			if !p.eat(TokenComma) {
				break
			}
		}

		p.expect(TokenRBrace)
	case p.is(TokenLParen):
		p.bump()

		for !p.eof() && !p.is(TokenRParen) {
			p.parseItemHeader() // pub on tuple fields
			st.Tuple = append(st.Tuple, p.parseTypeRef())

			if !p.eat(TokenComma) {
				break
			}
		}

		p.expect(TokenRParen)
		p.eat(TokenSemi)
	default:
		st.Unit = true

		p.eat(TokenSemi)
	}

	st.span = spanned2(start, p.prevEnd())

	return st
}

func (p *parser) parseField() *Field {
	h := p.parseItemHeader()
	start := h.startOr(p.cur().Pos)

	if !p.is(TokenIdent) {
		p.errorf("expected field name")
		p.bump()

		return nil
	}

	field := &Field{Doc: h.doc, Pub: h.pub, Name: p.parseIdent()}
	if p.eat(TokenColon) {
		field.Type = p.parseTypeRef()
	}

	field.span = spanned2(start, p.prevEnd())

	return field
}

func (p *parser) parseEnum(h itemHeader) *Enum {
	start := h.startOr(p.cur().Pos)
	p.expect(TokenEnum)

	en := &Enum{Doc: h.doc, Attrs: h.attrs, Pub: h.pub}
	if p.is(TokenIdent) {
		en.Name = p.parseIdent()
	}

	p.skipGenerics()
	p.expect(TokenLBrace)

	for !p.eof() && !p.is(TokenRBrace) {
		variant := p.parseVariant()
		if variant != nil {
			en.Variants = append(en.Variants, variant)
		}

		if !p.eat(TokenComma) {
			break
		}
	}

	p.expect(TokenRBrace)
	en.span = spanned2(start, p.prevEnd())

	return en
}

func (p *parser) parseVariant() *Variant {
	h := p.parseItemHeader()
	vstart := h.startOr(p.cur().Pos)

	if !p.is(TokenIdent) {
		p.errorf("expected enum variant")
		p.bump()

		return nil
	}

	variant := &Variant{Doc: h.doc, Name: p.parseIdent()}

	switch {
	case p.is(TokenLParen):
		p.bump()

		for !p.eof() && !p.is(TokenRParen) {
			variant.Tuple = append(variant.Tuple, p.parseTypeRef())

			if !p.eat(TokenComma) {
				break
			}
		}

		p.expect(TokenRParen)
	case p.is(TokenLBrace):
		p.bump()

		for !p.eof() && !p.is(TokenRBrace) {
			field := p.parseField()
			if field != nil {
				variant.Fields = append(variant.Fields, field)
			}

			if !p.eat(TokenComma) {
				break
			}
		}

		p.expect(TokenRBrace)
	}

	// Discriminant.
	if p.eat(TokenEq) {
		p.parseExpr()
	}

	variant.span = spanned2(vstart, p.prevEnd())

	return variant
}

func (p *parser) parseTrait(h itemHeader) *Trait {
	start := h.startOr(p.cur().Pos)
	p.expect(TokenTrait)

	tr := &Trait{Doc: h.doc, Attrs: h.attrs, Pub: h.pub}
	if p.is(TokenIdent) {
		tr.Name = p.parseIdent()
	}

	p.skipGenerics()

	// Supertraits.
	if p.eat(TokenColon) {
		p.parseTypeRef()

		for p.is(TokenOp) && p.cur().Value == "+" {
			p.bump()
			p.parseTypeRef()
		}
	}

	p.skipWhereClause()
	p.expect(TokenLBrace)

	for !p.eof() && !p.is(TokenRBrace) {
		mh := p.parseItemHeader()
		if p.is(TokenFn) {
			tr.Members = append(tr.Members, p.parseFn(mh))

			continue
		}

		p.errorf("expected trait member")
		p.bump()
	}

	p.expect(TokenRBrace)
	tr.span = spanned2(start, p.prevEnd())

	return tr
}

func (p *parser) parseImpl(h itemHeader) *Impl {
	start := h.startOr(p.cur().Pos)
	p.expect(TokenImpl)
	p.skipGenerics()

	imp := &Impl{Attrs: h.attrs}

	first := p.parseTypeRef()

	if p.eat(TokenFor) {
		if first != nil {
			imp.TraitPath = first.Path
		}

		imp.SelfType = p.parseTypeRef()
	} else {
		imp.SelfType = first
	}

	p.skipWhereClause()
	p.expect(TokenLBrace)

	for !p.eof() && !p.is(TokenRBrace) {
		mh := p.parseItemHeader()
		if p.is(TokenFn) {
			imp.Members = append(imp.Members, p.parseFn(mh))

			continue
		}

		// Anything else in member position is kept as a broken
		// fragment; completion classifies through it.
		imp.Broken = append(imp.Broken, p.parseBrokenMember(mh))
	}

	p.expect(TokenRBrace)
	imp.span = spanned2(start, p.prevEnd())

	return imp
}

func (p *parser) parseBrokenMember(h itemHeader) *BrokenItem {
	start := h.startOr(p.cur().Pos)
	broken := &BrokenItem{Attrs: h.attrs}

	for !p.eof() {
		tok := p.cur()
		if tok.Type == TokenRBrace || tok.Type == TokenFn || tok.Type == TokenPound {
			break
		}

		broken.Tokens = append(broken.Tokens, p.bump())

		if tok.Type == TokenSemi {
			break
		}
	}

	if len(broken.Tokens) == 0 {
		broken.Tokens = append(broken.Tokens, p.bump())
	}

	p.errorf("expected impl member")
	broken.span = spanned2(start, p.prevEnd())

	return broken
}

func (p *parser) parseUse(h itemHeader) *Use {
	start := h.startOr(p.cur().Pos)
	p.expect(TokenUse)

	use := &Use{Pub: h.pub}
	use.Path = p.parsePath(false)

	switch {
	case p.is(TokenOp) && p.cur().Value == "*":
		p.bump()

		use.Glob = true
	case p.eat(TokenAs):
		if p.is(TokenIdent) {
			use.Alias = p.bump().Value
		}
	case p.is(TokenLBrace):
		// Brace groups are out of the subset; skip them but keep the
		// prefix path for scope resolution.
		p.skipBalanced(TokenLBrace, TokenRBrace)
	}

	p.eat(TokenSemi)
	use.span = spanned2(start, p.prevEnd())

	return use
}

func (p *parser) parseMod(h itemHeader) *Mod {
	start := h.startOr(p.cur().Pos)
	p.expect(TokenMod)

	mod := &Mod{Doc: h.doc, Pub: h.pub}
	if p.is(TokenIdent) {
		mod.Name = p.parseIdent()
	}

	if p.is(TokenLBrace) {
		p.bump()

		mod.Inline = true
		mod.Items = p.parseItems(TokenRBrace)
		p.expect(TokenRBrace)
	} else {
		p.eat(TokenSemi)
	}

	mod.span = spanned2(start, p.prevEnd())

	return mod
}

func (p *parser) parseConst(h itemHeader) *Const {
	start := h.startOr(p.cur().Pos)

	c := &Const{Doc: h.doc, Pub: h.pub}
	if p.is(TokenStatic) {
		c.Static = true

		p.bump()
	} else {
		p.expect(TokenConst)
	}

	p.eat(TokenMut)

	if p.is(TokenIdent) {
		c.Name = p.parseIdent()
	}

	if p.eat(TokenColon) {
		c.Type = p.parseTypeRef()
	}

	if p.eat(TokenEq) {
		c.Value = p.parseExpr()
	}

	p.eat(TokenSemi)
	c.span = spanned2(start, p.prevEnd())

	return c
}

func (p *parser) parseMacroDef(h itemHeader) *MacroDef {
	start := h.startOr(p.cur().Pos)
	p.bump() // macro_rules
	p.expect(TokenBang)

	def := &MacroDef{Doc: h.doc}
	if p.is(TokenIdent) {
		def.Name = p.parseIdent()
	}

	if !p.is(TokenLBrace) {
		p.errorf("expected macro body")
		def.span = spanned2(start, p.prevEnd())

		return def
	}

	p.bump() // {

	for !p.eof() && !p.is(TokenRBrace) {
		arm := p.parseMacroArm()
		if arm != nil {
			def.Arms = append(def.Arms, arm)
		}

		if !p.eat(TokenSemi) && !p.eat(TokenComma) {
			break
		}
	}

	p.expect(TokenRBrace)
	def.span = spanned2(start, p.prevEnd())

	return def
}

func (p *parser) parseMacroArm() *MacroArm {
	start := p.cur().Pos
	arm := &MacroArm{}

	if !p.is(TokenLParen) {
		p.errorf("expected macro matcher")

		return nil
	}

	pStart, pEnd := p.skipBalanced(TokenLParen, TokenRParen)
	arm.ParamText = p.sliceSrc(pStart, pEnd)

	p.expect(TokenFatArrow)

	if !p.is(TokenLBrace) {
		p.errorf("expected macro expansion")

		return nil
	}

	bStart, bEnd := p.skipBalanced(TokenLBrace, TokenRBrace)
	arm.BodyText = p.sliceSrc(bStart, bEnd)
	arm.span = spanned2(start, p.prevEnd())

	return arm
}

func (p *parser) parseMacroCallItem(h itemHeader) *MacroCall {
	start := h.startOr(p.cur().Pos)
	call := p.parseMacroCall()
	p.eat(TokenSemi)
	call.span = spanned2(start, p.prevEnd())

	return call
}

// parseMacroCall parses path!(..), path![..] or path!{..}.
func (p *parser) parseMacroCall() *MacroCall {
	start := p.cur().Pos
	call := &MacroCall{}
	call.Path = p.parsePath(false)
	p.expect(TokenBang)

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

	return call
}

// macroCallAhead reports whether the tokens ahead form `path !`.
func (p *parser) macroCallAhead() bool {
	i := 0

	for {
		if p.at(i).Type != TokenIdent {
			return false
		}

		i++

		switch p.at(i).Type {
		case TokenPathSep:
			i++
		case TokenBang:
			return true
		default:
			return false
		}
	}
}

func (p *parser) pathAhead() bool {
	return p.is(TokenIdent) || p.is(TokenSelfValue) || p.is(TokenSelfType) ||
		p.is(TokenCrate) || p.is(TokenSuper)
}

// ----------------------------------------------------------------------------
// Shared small rules
// ----------------------------------------------------------------------------

func (p *parser) parseIdent() *Ident {
	tok := p.bump()
	id := &Ident{Name: tok.Value}
	id.span = spanned2(tok.Pos, endPos(tok))

	return id
}

// parsePath parses a :: separated path. When generics is true, angle
// bracketed type arguments are parsed on each segment.
func (p *parser) parsePath(generics bool) *Path {
	start := p.cur().Pos
	path := &Path{}

	for {
		tok := p.cur()
		if tok.Type != TokenIdent && tok.Type != TokenSelfValue &&
			tok.Type != TokenSelfType && tok.Type != TokenCrate && tok.Type != TokenSuper {
			break
		}

		p.bump()

		seg := &PathSegment{Name: tok.Value}
		seg.span = spanned2(tok.Pos, endPos(tok))

		if generics && p.is(TokenLt) {
			seg.Args = p.parseGenericArgs()
			seg.span = spanned2(tok.Pos, p.prevEnd())
		}

		path.Segments = append(path.Segments, seg)

		if !p.eat(TokenPathSep) {
			break
		}
	}

	path.span = spanned2(start, p.prevEnd())

	return path
}

func (p *parser) parseGenericArgs() []*TypeRef {
	p.expect(TokenLt)

	var args []*TypeRef

	for !p.eof() && !p.is(TokenGt) {
		if p.is(TokenLifetime) {
			p.bump()
		} else {
			args = append(args, p.parseTypeRef())
		}

		if !p.eat(TokenComma) {
			break
		}
	}

	p.eat(TokenGt)

	return args
}

func (p *parser) parseTypeRef() *TypeRef {
	start := p.cur().Pos
	ty := &TypeRef{}

	for p.is(TokenAmp) {
		p.bump()

		ty.RefDepth++

		if ty.RefDepth == 1 {
			if p.is(TokenLifetime) {
				ty.Lifetime = p.bump().Value
			}

			if p.eat(TokenMut) {
				ty.Mut = true
			}
		} else {
			p.eat(TokenLifetime)
			p.eat(TokenMut)
		}
	}

	p.eat(TokenDyn)

	switch {
	case p.is(TokenLParen):
		// Unit and tuple types collapse to a nameless type.
		p.skipBalanced(TokenLParen, TokenRParen)
	case p.is(TokenLBracket):
		p.skipBalanced(TokenLBracket, TokenRBracket)
	case p.pathAhead():
		ty.Path = p.parsePath(true)
	default:
		p.errorf("expected type")
	}

	ty.span = spanned2(start, p.prevEnd())

	return ty
}

// skipGenerics skips a <...> generic parameter list if present.
func (p *parser) skipGenerics() {
	if !p.is(TokenLt) {
		return
	}

	depth := 0

	for !p.eof() {
		switch p.cur().Type {
		case TokenLt:
			depth++
		case TokenGt:
			depth--

			if depth == 0 {
				p.bump()

				return
			}
		case TokenLBrace, TokenSemi:
			// Unbalanced; bail out without consuming the body.
			return
		}

		p.bump()
	}
}

func (p *parser) skipWhereClause() {
	if !p.is(TokenWhere) {
		return
	}

	for !p.eof() && !p.is(TokenLBrace) && !p.is(TokenSemi) {
		p.bump()
	}
}

// skipBalanced consumes a balanced token run including the delimiters
// and returns the source offsets of the interior.
func (p *parser) skipBalanced(open, close lexer.TokenType) (int, int) {
	tok := p.expect(open)
	innerStart := endPos(tok).Offset
	depth := 1

	for !p.eof() {
		switch p.cur().Type {
		case open:
			depth++
		case close:
			depth--

			if depth == 0 {
				end := p.cur().Pos.Offset
				p.bump()

				return innerStart, end
			}
		}

		p.bump()
	}

	return innerStart, p.eofPos().Offset
}

func (p *parser) sliceSrc(start, end int) string {
	if start < 0 || end > len(p.src) || start > end {
		return ""
	}

	return p.src[start:end]
}
