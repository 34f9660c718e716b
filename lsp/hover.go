package lsp

import (
	"context"
	"strings"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
)

// Hover handles textDocument/hover requests: signature and docs of the
// symbol under the cursor.
func (s *Server) Hover(_ context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	s.logger.Debug("Hover",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil //nolint:nilnil
	}

	tok, ok := identTokenAt(doc, params.Position)
	if !ok {
		return nil, nil //nolint:nilnil
	}

	content := s.hoverContent(doc, tok.Value)
	if content == "" {
		return nil, nil //nolint:nilnil
	}

	rng := spanToRange(tokenSpan(tok))

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: content,
		},
		Range: &rng,
	}, nil
}

// hoverContent renders the markdown for a named symbol, preferring the
// last valid analysis when the current parse is broken.
func (s *Server) hoverContent(doc *Document, name string) string {
	f := doc.Analysis
	if f.ParseError != nil && doc.LastValidAnalysis != nil {
		f = doc.LastValidAnalysis
	}

	if sym, ok := f.Symbols.Functions[name]; ok {
		return markdownSymbol(analysis.Signature(sym.Node), sym.Doc)
	}

	if sym, ok := f.Symbols.Structs[name]; ok {
		return markdownSymbol("struct "+name, sym.Doc)
	}

	if sym, ok := f.Symbols.Enums[name]; ok {
		return markdownSymbol("enum "+name, sym.Doc)
	}

	if sym, ok := f.Symbols.Traits[name]; ok {
		return markdownSymbol("trait "+name, sym.Doc)
	}

	if sym, ok := f.Symbols.Consts[name]; ok {
		head := "const " + name
		if sym.Static {
			head = "static " + name
		}

		return markdownSymbol(head, sym.Doc)
	}

	if sym, ok := f.Symbols.Mods[name]; ok {
		return markdownSymbol("mod "+name, sym.Doc)
	}

	if sym, ok := f.Symbols.Macros[name]; ok {
		return markdownSymbol("macro_rules! "+name, sym.Doc)
	}

	for _, impl := range f.Impls {
		for _, m := range impl.Methods {
			if m.Name == name {
				return markdownSymbol(analysis.Signature(m.Node), m.Doc)
			}
		}
	}

	return ""
}

func markdownSymbol(signature, doc string) string {
	var b strings.Builder

	b.WriteString("```rust\n")
	b.WriteString(signature)
	b.WriteString("\n```")

	if doc != "" {
		b.WriteString("\n\n")
		b.WriteString(doc)
	}

	return b.String()
}
