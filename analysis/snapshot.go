package analysis

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Snapshot is an immutable view of the analyzed project state. The
// completion engine only reads from it; the caller builds a fresh
// snapshot (or replaces a file) between edits.
type Snapshot struct {
	analyzer *Analyzer
	loader   FileLoader
	files    map[string]*AnalyzedFile
	order    []string
}

// NewSnapshot creates an empty snapshot. Pass nil for loader to
// disable file-system backed queries (submodule discovery).
func NewSnapshot(loader FileLoader) *Snapshot {
	return &Snapshot{
		analyzer: NewAnalyzer(loader),
		loader:   loader,
		files:    make(map[string]*AnalyzedFile),
	}
}

// SetFile analyzes content and stores it under path, replacing any
// previous analysis of the same path.
func (s *Snapshot) SetFile(path string, content []byte) *AnalyzedFile {
	f := s.analyzer.Analyze(path, content)
	s.SetAnalyzed(f)

	return f
}

// SetAnalyzed stores an externally produced analysis, keyed by its path.
func (s *Snapshot) SetAnalyzed(f *AnalyzedFile) {
	if _, ok := s.files[f.Path]; !ok {
		s.order = append(s.order, f.Path)
	}

	s.files[f.Path] = f
}

// File returns the analysis for a path.
func (s *Snapshot) File(path string) (*AnalyzedFile, bool) {
	f, ok := s.files[path]

	return f, ok
}

// Files returns all analyzed files in insertion order.
func (s *Snapshot) Files() []*AnalyzedFile {
	out := make([]*AnalyzedFile, 0, len(s.order))
	for _, path := range s.order {
		out = append(out, s.files[path])
	}

	return out
}

// ----------------------------------------------------------------------------
// Prelude
// ----------------------------------------------------------------------------

// preludeSrc declares the built-in names visible in every scope.
const preludeSrc = `
pub enum Option<T> { Some(T), None }
pub enum Result<T, E> { Ok(T), Err(E) }

pub struct String;
pub struct str;
pub struct Vec<T>;
pub struct Box<T>;

impl String {
    pub fn len(&self) -> usize { 0 }
    pub fn is_empty(&self) -> bool { true }
    pub fn as_str(&self) -> &str { "" }
    pub fn push(&mut self, c: char) {}
}

impl str {
    pub fn len(&self) -> usize { 0 }
    pub fn to_string(&self) -> String { String }
}

macro_rules! println { ($($arg:tt)*) => {} }
macro_rules! format { ($($arg:tt)*) => {} }
macro_rules! eprintln { ($($arg:tt)*) => {} }
macro_rules! vec { ($($arg:tt)*) => {} }
macro_rules! dbg { ($($arg:tt)*) => {} }
macro_rules! panic { ($($arg:tt)*) => {} }
`

var (
	preludeOnce sync.Once
	preludeFile *AnalyzedFile
)

// Prelude returns the analysis of the built-in prelude declarations.
func Prelude() *AnalyzedFile {
	preludeOnce.Do(func() {
		preludeFile = NewAnalyzer(nil).Analyze("<prelude>", []byte(preludeSrc))
	})

	return preludeFile
}

// ----------------------------------------------------------------------------
// Cross-file queries
// ----------------------------------------------------------------------------

// ImportableItem is an out-of-scope item reachable through an import.
type ImportableItem struct {
	Name    string
	Kind    SymbolKind
	Detail  string
	Doc     string
	UsePath string
}

// Importables enumerates public items declared in other snapshot files,
// with the use path that would bring each into scope. Results are
// sorted by use path for determinism.
func (s *Snapshot) Importables(from *AnalyzedFile) []ImportableItem {
	var out []ImportableItem

	for _, f := range s.Files() {
		if f.Path == from.Path {
			continue
		}

		stem := fileStem(f.Path)
		if stem == "" {
			continue
		}

		add := func(name string, kind SymbolKind, detail, doc string, pub bool) {
			if !pub {
				return
			}

			out = append(out, ImportableItem{
				Name:    name,
				Kind:    kind,
				Detail:  detail,
				Doc:     doc,
				UsePath: "crate::" + stem + "::" + name,
			})
		}

		for name, sym := range f.Symbols.Functions {
			add(name, SymbolKindFunction, Signature(sym.Node), sym.Doc, sym.Node.Pub)
		}

		for name, sym := range f.Symbols.Structs {
			add(name, SymbolKindStruct, "struct "+name, sym.Doc, sym.Node.Pub)
		}

		for name, sym := range f.Symbols.Enums {
			add(name, SymbolKindEnum, "enum "+name, sym.Doc, sym.Node.Pub)
		}

		for name, sym := range f.Symbols.Traits {
			add(name, SymbolKindTrait, "trait "+name, sym.Doc, sym.Node.Pub)
		}

		for name, sym := range f.Symbols.Consts {
			add(name, sym.Kind, string(sym.Kind)+" "+name, sym.Doc, sym.Node.Pub)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].UsePath != out[j].UsePath {
			return out[i].UsePath < out[j].UsePath
		}

		return out[i].Kind < out[j].Kind
	})

	return out
}

// Submodules returns candidate submodule names for a `mod` declaration
// in the given file, derived from the file system layout: sibling
// `<name>.rs` files and `<name>/mod.rs` directories not yet declared.
func (s *Snapshot) Submodules(f *AnalyzedFile) []string {
	if s.loader == nil {
		return nil
	}

	entries, err := s.loader.List(filepath.Dir(f.Path))
	if err != nil {
		return nil
	}

	selfStem := fileStem(f.Path)

	var names []string

	for _, entry := range entries {
		var name string

		switch {
		case strings.HasSuffix(entry, "/"):
			dir := strings.TrimSuffix(entry, "/")
			if sub, err := s.loader.List(filepath.Join(filepath.Dir(f.Path), dir)); err == nil {
				for _, e := range sub {
					if e == "mod.rs" {
						name = dir

						break
					}
				}
			}
		case strings.HasSuffix(entry, ".rs"):
			name = strings.TrimSuffix(entry, ".rs")
		}

		if name == "" || name == selfStem || name == "mod" || name == "lib" || name == "main" {
			continue
		}

		if _, declared := f.Symbols.Mods[name]; declared {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func fileStem(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
