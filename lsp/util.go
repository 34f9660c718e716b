package lsp

import (
	"github.com/alecthomas/participle/v2/lexer"
	"go.lsp.dev/protocol"

	"github.com/nitsky/rust-analyzer/syntax"
)

// spanToRange converts a syntax.Span to an LSP protocol.Range.
// Spans use 1-based line/column, LSP uses 0-based.
func spanToRange(span syntax.Span) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{
			Line:      uint32(max(0, span.Start.Line-1)),   //nolint:gosec // G115: values are small line numbers
			Character: uint32(max(0, span.Start.Column-1)), //nolint:gosec // G115: values are small column numbers
		},
		End: protocol.Position{
			Line:      uint32(max(0, span.End.Line-1)),   //nolint:gosec // G115: values are small line numbers
			Character: uint32(max(0, span.End.Column-1)), //nolint:gosec // G115: values are small column numbers
		},
	}
}

// offsetForPosition converts a 0-based LSP position to a byte offset in
// content. Positions past the end of a line clamp to the line end.
func offsetForPosition(content string, pos protocol.Position) int {
	offset := 0
	line := uint32(0)

	for line < pos.Line {
		next := indexByteFrom(content, offset, '\n')
		if next < 0 {
			return len(content)
		}

		offset = next + 1
		line++
	}

	lineEnd := indexByteFrom(content, offset, '\n')
	if lineEnd < 0 {
		lineEnd = len(content)
	}

	offset += int(pos.Character)
	if offset > lineEnd {
		offset = lineEnd
	}

	return offset
}

// identTokenAt lexes the document and returns the identifier token
// under the LSP position, if any. self and Self count as identifiers.
func identTokenAt(doc *Document, pos protocol.Position) (lexer.Token, bool) {
	offset := offsetForPosition(doc.Content, pos)

	tokens := syntax.Lex(doc.Analysis.Path, doc.Content)

	idx := syntax.TokenAt(tokens, offset)
	if idx < 0 {
		return lexer.Token{}, false
	}

	tok := tokens[idx]
	switch tok.Type {
	case syntax.TokenIdent, syntax.TokenSelfValue, syntax.TokenSelfType:
		return tok, true
	default:
		return lexer.Token{}, false
	}
}

// tokenSpan derives a span from a single-line token.
func tokenSpan(tok lexer.Token) syntax.Span {
	end := tok.Pos
	end.Offset += len(tok.Value)
	end.Column += len(tok.Value)

	return syntax.Span{Start: tok.Pos, End: end}
}

func indexByteFrom(s string, from int, c byte) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}

	return -1
}
