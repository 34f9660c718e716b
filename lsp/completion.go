package lsp

import (
	"context"
	"fmt"

	"go.lsp.dev/protocol"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
	"github.com/nitsky/rust-analyzer/completion"
)

// Completion handles textDocument/completion requests. The engine
// returns the full candidate set for the cursor; filtering against the
// typed prefix is left to the client, which is why every item carries a
// filter text and a replacement edit.
func (s *Server) Completion(_ context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	s.logger.Debug("Completion",
		zap.String("uri", string(params.TextDocument.URI)),
		zap.Uint32("line", params.Position.Line),
		zap.Uint32("character", params.Position.Character))

	doc, ok := s.getDocument(params.TextDocument.URI)
	if !ok || doc.Analysis == nil {
		return nil, nil //nolint:nilnil
	}

	offset := offsetForPosition(doc.Content, params.Position)

	snap := s.snapshotFor(doc)
	engine := completion.NewEngine(snap, s.completionConfig, s.logger)

	items, err := engine.Complete(doc.Analysis.Path, offset)
	if err != nil {
		s.logger.Warn("Completion failed", zap.Error(err))

		return nil, nil //nolint:nilnil
	}

	result := make([]protocol.CompletionItem, 0, len(items))

	for i, item := range items {
		result = append(result, s.convertItem(doc, item, i))
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        result,
	}, nil
}

// convertItem maps an engine item to the protocol shape. rank preserves
// the engine's relevance order through the client's sort.
func (s *Server) convertItem(doc *Document, item completion.Item, rank int) protocol.CompletionItem {
	out := protocol.CompletionItem{
		Label:      item.Label,
		Kind:       completionKind(item.Kind),
		Detail:     item.Detail,
		FilterText: item.Label,
		SortText:   fmt.Sprintf("%05d", rank),
		TextEdit: &protocol.TextEdit{
			Range:   spanToRange(item.ReplaceRange),
			NewText: item.Text(),
		},
	}

	if item.Doc != "" {
		out.Documentation = &protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: item.Doc,
		}
	}

	if item.InsertFormat == completion.SnippetText {
		out.InsertTextFormat = protocol.InsertTextFormatSnippet
	}

	if item.Deprecated {
		out.Deprecated = true
	}

	if item.ImportPath != "" {
		out.AdditionalTextEdits = []protocol.TextEdit{importEdit(doc.Analysis, item.ImportPath)}
		out.Detail = "use " + item.ImportPath
	}

	return out
}

// importEdit builds the text edit that inserts the missing use
// declaration: after the file's last use, or at the very top.
func importEdit(f *analysis.AnalyzedFile, importPath string) protocol.TextEdit {
	line := uint32(0)

	for _, use := range f.Symbols.Uses {
		if end := use.Span.End.Line; end > 0 && uint32(end) > line { //nolint:gosec // G115: small line numbers
			line = uint32(end) //nolint:gosec // G115: small line numbers
		}
	}

	pos := protocol.Position{Line: line, Character: 0}

	return protocol.TextEdit{
		Range:   protocol.Range{Start: pos, End: pos},
		NewText: "use " + importPath + ";\n",
	}
}

func completionKind(kind completion.Kind) protocol.CompletionItemKind {
	switch kind {
	case completion.KindKeyword:
		return protocol.CompletionItemKindKeyword
	case completion.KindSnippet:
		return protocol.CompletionItemKindSnippet
	case completion.KindFunction:
		return protocol.CompletionItemKindFunction
	case completion.KindMethod:
		return protocol.CompletionItemKindMethod
	case completion.KindStruct:
		return protocol.CompletionItemKindStruct
	case completion.KindEnum:
		return protocol.CompletionItemKindEnum
	case completion.KindVariant:
		return protocol.CompletionItemKindEnumMember
	case completion.KindTrait:
		return protocol.CompletionItemKindInterface
	case completion.KindField:
		return protocol.CompletionItemKindField
	case completion.KindConst, completion.KindStatic:
		return protocol.CompletionItemKindConstant
	case completion.KindModule:
		return protocol.CompletionItemKindModule
	case completion.KindMacro:
		return protocol.CompletionItemKindFunction
	case completion.KindLocal:
		return protocol.CompletionItemKindVariable
	case completion.KindAttribute:
		return protocol.CompletionItemKindProperty
	case completion.KindTypeParam:
		return protocol.CompletionItemKindTypeParameter
	default:
		return protocol.CompletionItemKindText
	}
}
