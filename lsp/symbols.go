package lsp

import (
	"context"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/syntax"
)

// DocumentSymbol handles textDocument/documentSymbol requests.
// Returns a hierarchical tree of symbols for the outline view.
func (s *Server) DocumentSymbol(_ context.Context, params *protocol.DocumentSymbolParams) ([]any, error) {
	s.logger.Debug("DocumentSymbol",
		zap.String("uri", string(params.TextDocument.URI)))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil
	}

	f := doc.Analysis
	if f.ParseError != nil && doc.LastValidAnalysis != nil {
		f = doc.LastValidAnalysis
	}

	if f.File == nil {
		return nil, nil
	}

	symbols := itemSymbols(f.File.Items)

	result := make([]any, len(symbols))
	for i, sym := range symbols {
		result[i] = sym
	}

	return result, nil
}

// itemSymbols converts a list of items to document symbols, in source
// order. Inline modules recurse.
func itemSymbols(items []syntax.Item) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	for _, item := range items {
		switch node := item.(type) {
		case *syntax.Fn:
			if node.Name == nil {
				continue
			}

			symbols = append(symbols, namedSymbol(node.Name, node.Span(),
				protocol.SymbolKindFunction, analysis.Signature(node)))
		case *syntax.Struct:
			if node.Name == nil {
				continue
			}

			sym := namedSymbol(node.Name, node.Span(), protocol.SymbolKindStruct, "struct")
			for _, field := range node.Fields {
				if field.Name == nil {
					continue
				}

				detail := ""
				if field.Type != nil {
					detail = field.Type.String()
				}

				sym.Children = append(sym.Children,
					namedSymbol(field.Name, field.Span(), protocol.SymbolKindField, detail))
			}

			symbols = append(symbols, sym)
		case *syntax.Enum:
			if node.Name == nil {
				continue
			}

			sym := namedSymbol(node.Name, node.Span(), protocol.SymbolKindEnum, "enum")
			for _, variant := range node.Variants {
				if variant.Name == nil {
					continue
				}

				sym.Children = append(sym.Children,
					namedSymbol(variant.Name, variant.Span(), protocol.SymbolKindEnumMember, ""))
			}

			symbols = append(symbols, sym)
		case *syntax.Trait:
			if node.Name == nil {
				continue
			}

			sym := namedSymbol(node.Name, node.Span(), protocol.SymbolKindInterface, "trait")
			sym.Children = fnSymbols(node.Members)

			symbols = append(symbols, sym)
		case *syntax.Impl:
			symbols = append(symbols, implSymbol(node))
		case *syntax.Const:
			if node.Name == nil {
				continue
			}

			detail := "const"
			if node.Static {
				detail = "static"
			}

			symbols = append(symbols, namedSymbol(node.Name, node.Span(),
				protocol.SymbolKindConstant, detail))
		case *syntax.Mod:
			if node.Name == nil {
				continue
			}

			sym := namedSymbol(node.Name, node.Span(), protocol.SymbolKindModule, "mod")
			if node.Inline {
				sym.Children = itemSymbols(node.Items)
			}

			symbols = append(symbols, sym)
		case *syntax.MacroDef:
			if node.Name == nil {
				continue
			}

			symbols = append(symbols, namedSymbol(node.Name, node.Span(),
				protocol.SymbolKindFunction, "macro_rules!"))
		}
	}

	return symbols
}

// implSymbol names an impl block after its header.
func implSymbol(node *syntax.Impl) protocol.DocumentSymbol {
	name := "impl"
	if node.TraitPath != nil {
		name += " " + pathText(node.TraitPath) + " for"
	}

	if node.SelfType != nil {
		name += " " + node.SelfType.String()
	}

	return protocol.DocumentSymbol{
		Name:           name,
		Kind:           protocol.SymbolKindObject,
		Range:          spanToRange(node.Span()),
		SelectionRange: spanToRange(node.Span()),
		Children:       fnSymbols(node.Members),
	}
}

func fnSymbols(fns []*syntax.Fn) []protocol.DocumentSymbol {
	var symbols []protocol.DocumentSymbol

	for _, fn := range fns {
		if fn.Name == nil {
			continue
		}

		symbols = append(symbols, namedSymbol(fn.Name, fn.Span(),
			protocol.SymbolKindMethod, analysis.Signature(fn)))
	}

	return symbols
}

// namedSymbol builds a symbol whose selection range is the name ident.
func namedSymbol(name *syntax.Ident, span syntax.Span, kind protocol.SymbolKind, detail string) protocol.DocumentSymbol {
	return protocol.DocumentSymbol{
		Name:           name.Name,
		Kind:           kind,
		Range:          spanToRange(span),
		SelectionRange: spanToRange(name.Span()),
		Detail:         detail,
	}
}

func pathText(path *syntax.Path) string {
	out := ""

	for i, seg := range path.Segments {
		if i > 0 {
			out += "::"
		}

		out += seg.Name
	}

	return out
}
