package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
)

// Definition handles textDocument/definition requests. Resolution is by
// name: the declaration in the current file wins, then any other open
// file. Symbols produced by macro expansion are skipped because their
// spans point into the macro body, not at anything the user can see.
func (s *Server) Definition(_ context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	s.logger.Debug("Definition",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	tok, ok := identTokenAt(doc, params.Position)
	if !ok {
		return nil, nil
	}

	if loc := s.findDefinition(doc, tok.Value); loc != nil {
		return []protocol.Location{*loc}, nil
	}

	return nil, nil
}

// findDefinition resolves a name to its declaration site, preferring
// the requesting document.
func (s *Server) findDefinition(doc *Document, name string) *protocol.Location {
	if loc := definitionIn(doc, name); loc != nil {
		return loc
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, other := range s.documents {
		if other.URI == doc.URI {
			continue
		}

		if loc := definitionIn(other, name); loc != nil {
			return loc
		}
	}

	return nil
}

// definitionIn looks the name up in one document's symbol table,
// falling back to the last valid analysis while the file is mid-edit.
func definitionIn(doc *Document, name string) *protocol.Location {
	f := doc.Analysis
	if f == nil {
		return nil
	}

	if f.ParseError != nil && doc.LastValidAnalysis != nil {
		f = doc.LastValidAnalysis
	}

	sym := declarationSymbol(f, name)
	if sym == nil || sym.FromMacro {
		return nil
	}

	return &protocol.Location{
		URI:   doc.URI,
		Range: spanToRange(sym.Span),
	}
}

// declarationSymbol returns the symbol header declaring the name, or
// nil. Top-level items shadow impl methods of the same name.
func declarationSymbol(f *analysis.AnalyzedFile, name string) *analysis.Symbol {
	if f.Symbols == nil {
		return nil
	}

	if sym, ok := f.Symbols.Functions[name]; ok {
		return &sym.Symbol
	}

	if sym, ok := f.Symbols.Structs[name]; ok {
		return &sym.Symbol
	}

	if sym, ok := f.Symbols.Enums[name]; ok {
		return &sym.Symbol
	}

	if sym, ok := f.Symbols.Traits[name]; ok {
		return &sym.Symbol
	}

	if sym, ok := f.Symbols.Consts[name]; ok {
		return &sym.Symbol
	}

	if sym, ok := f.Symbols.Mods[name]; ok {
		return &sym.Symbol
	}

	if sym, ok := f.Symbols.Macros[name]; ok {
		return &sym.Symbol
	}

	for _, impl := range f.Impls {
		for _, m := range impl.Methods {
			if m.Name == name {
				return &m.Symbol
			}
		}
	}

	return nil
}
