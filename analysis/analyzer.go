package analysis

import (
	"strings"

	"github.com/nitsky/rust-analyzer/syntax"
)

// FileLoader is an interface for reading project files during analysis.
// It backs cross-file queries (auto-import scanning, file-backed module
// discovery). Can be nil for single-file analysis.
type FileLoader interface {
	// Load returns the content of a file at the given path.
	Load(path string) ([]byte, error)
	// List returns the entry names of a directory. Directory entries
	// carry a trailing slash.
	List(dir string) ([]string, error)
}

// Analyzer parses and analyzes source files.
type Analyzer struct {
	loader FileLoader
}

// NewAnalyzer creates a new analyzer. Pass nil for loader to do
// single-file analysis only.
func NewAnalyzer(loader FileLoader) *Analyzer {
	return &Analyzer{loader: loader}
}

// Analyze parses and analyzes a source file. The returned file is
// usable even when parsing reported errors: the symbol table covers
// everything the tolerant parser recognized.
func (a *Analyzer) Analyze(path string, content []byte) *AnalyzedFile {
	src := string(content)

	file, err := syntax.Parse(path, src)

	result := &AnalyzedFile{
		Path:       path,
		Source:     src,
		File:       file,
		ParseError: err,
		Symbols:    NewSymbolTable(),
	}

	buildSymbols(result, file.Items, false)
	expandMacros(result)

	return result
}

// buildSymbols extracts symbol definitions from a list of items.
// fromMacro marks symbols that came out of a macro expansion.
//
//nolint:gocyclo // One arm per item kind.
func buildSymbols(f *AnalyzedFile, items []syntax.Item, fromMacro bool) {
	for _, item := range items {
		switch item := item.(type) {
		case *syntax.Fn:
			if item.Name == nil {
				continue
			}

			f.Symbols.Functions[item.Name.Name] = &FnSymbol{
				Symbol: Symbol{
					Name:      item.Name.Name,
					Kind:      SymbolKindFunction,
					Span:      item.Span(),
					Doc:       DocText(item.Doc, item.Attrs),
					FromMacro: fromMacro,
				},
				Node: item,
			}
		case *syntax.Struct:
			if item.Name == nil {
				continue
			}

			f.Symbols.Structs[item.Name.Name] = &StructSymbol{
				Symbol: Symbol{
					Name:      item.Name.Name,
					Kind:      SymbolKindStruct,
					Span:      item.Span(),
					Doc:       DocText(item.Doc, item.Attrs),
					FromMacro: fromMacro,
				},
				Node: item,
			}
		case *syntax.Enum:
			if item.Name == nil {
				continue
			}

			f.Symbols.Enums[item.Name.Name] = &EnumSymbol{
				Symbol: Symbol{
					Name:      item.Name.Name,
					Kind:      SymbolKindEnum,
					Span:      item.Span(),
					Doc:       DocText(item.Doc, item.Attrs),
					FromMacro: fromMacro,
				},
				Node: item,
			}
		case *syntax.Trait:
			if item.Name == nil {
				continue
			}

			f.Symbols.Traits[item.Name.Name] = &TraitSymbol{
				Symbol: Symbol{
					Name:      item.Name.Name,
					Kind:      SymbolKindTrait,
					Span:      item.Span(),
					Doc:       DocText(item.Doc, item.Attrs),
					FromMacro: fromMacro,
				},
				Node: item,
			}
		case *syntax.Impl:
			f.Impls = append(f.Impls, buildImplInfo(item, fromMacro))
		case *syntax.Const:
			if item.Name == nil {
				continue
			}

			kind := SymbolKindConst
			if item.Static {
				kind = SymbolKindStatic
			}

			f.Symbols.Consts[item.Name.Name] = &ConstSymbol{
				Symbol: Symbol{
					Name:      item.Name.Name,
					Kind:      kind,
					Span:      item.Span(),
					Doc:       DocText(item.Doc, nil),
					FromMacro: fromMacro,
				},
				Static: item.Static,
				Node:   item,
			}
		case *syntax.Mod:
			if item.Name == nil {
				continue
			}

			f.Symbols.Mods[item.Name.Name] = &ModSymbol{
				Symbol: Symbol{
					Name:      item.Name.Name,
					Kind:      SymbolKindModule,
					Span:      item.Span(),
					Doc:       DocText(item.Doc, nil),
					FromMacro: fromMacro,
				},
				Inline: item.Inline,
				Node:   item,
			}

			// Inline module items are flattened into the file scope.
			if item.Inline {
				buildSymbols(f, item.Items, fromMacro)
			}
		case *syntax.MacroDef:
			if item.Name == nil {
				continue
			}

			f.Symbols.Macros[item.Name.Name] = &MacroSymbol{
				Symbol: Symbol{
					Name:      item.Name.Name,
					Kind:      SymbolKindMacro,
					Span:      item.Span(),
					Doc:       DocText(item.Doc, nil),
					FromMacro: fromMacro,
				},
				Node: item,
			}
		case *syntax.Use:
			f.Symbols.Uses = append(f.Symbols.Uses, &UseSymbol{
				Path:  item.Path,
				Alias: item.Alias,
				Glob:  item.Glob,
				Span:  item.Span(),
			})
		}
	}
}

func buildImplInfo(item *syntax.Impl, fromMacro bool) *ImplInfo {
	info := &ImplInfo{FromMacro: fromMacro, Node: item}

	if item.SelfType != nil {
		info.SelfName = item.SelfType.Named()
	}

	if item.TraitPath != nil && len(item.TraitPath.Segments) > 0 {
		info.TraitName = item.TraitPath.Segments[len(item.TraitPath.Segments)-1].Name
	}

	for _, m := range item.Members {
		if m.Name == nil {
			continue
		}

		info.Methods = append(info.Methods, &FnSymbol{
			Symbol: Symbol{
				Name:      m.Name.Name,
				Kind:      SymbolKindMethod,
				Span:      m.Span(),
				Doc:       DocText(m.Doc, m.Attrs),
				FromMacro: fromMacro,
			},
			Node: m,
		})
	}

	return info
}

// expandMacros expands item-position invocations of locally defined
// macro_rules macros one level deep. Only the parameterless arm form
// `() => { items }` is expanded; anything else is opaque.
func expandMacros(f *AnalyzedFile) {
	if f.File == nil {
		return
	}

	for _, item := range f.File.Items {
		call, ok := item.(*syntax.MacroCall)
		if !ok || call.Path == nil || len(call.Path.Segments) != 1 {
			continue
		}

		def, ok := f.Symbols.Macros[call.Path.Segments[0].Name]
		if !ok {
			continue
		}

		arm := parameterlessArm(def.Node)
		if arm == nil {
			continue
		}

		expanded, _ := syntax.Parse(f.Path, arm.BodyText)
		if expanded == nil {
			continue
		}

		buildSymbols(f, expanded.Items, true)
	}
}

func parameterlessArm(def *syntax.MacroDef) *syntax.MacroArm {
	if def == nil {
		return nil
	}

	for _, arm := range def.Arms {
		if strings.TrimSpace(arm.ParamText) == "" {
			return arm
		}
	}

	return nil
}
