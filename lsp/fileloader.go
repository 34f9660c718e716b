package lsp

import (
	"net/url"
	"os"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"github.com/nitsky/rust-analyzer/analysis"
)

// FileLoader implements analysis.FileLoader for the LSP server. It
// reads project files from disk and caches content per path.
type FileLoader struct {
	logger *zap.Logger

	// mu protects the cache.
	mu sync.RWMutex

	// cache maps absolute file paths to their content.
	cache map[string][]byte
}

// NewFileLoader creates a new file loader for the LSP server.
func NewFileLoader(logger *zap.Logger) *FileLoader {
	return &FileLoader{
		logger: logger,
		cache:  make(map[string][]byte),
	}
}

// Load implements analysis.FileLoader.
func (l *FileLoader) Load(path string) ([]byte, error) {
	l.mu.RLock()
	if content, ok := l.cache[path]; ok {
		l.mu.RUnlock()

		return content, nil
	}
	l.mu.RUnlock()

	content, err := os.ReadFile(path) //nolint:gosec // paths come from the workspace
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[path] = content
	l.mu.Unlock()

	return content, nil
}

// List implements analysis.FileLoader. Directory entries carry a
// trailing slash, matching the interface contract.
func (l *FileLoader) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}

		names = append(names, name)
	}

	return names, nil
}

// InvalidatePath removes a file from the cache. Called when a file is
// modified.
func (l *FileLoader) InvalidatePath(path string) {
	l.mu.Lock()
	delete(l.cache, path)
	l.mu.Unlock()
}

// InvalidateAll clears all cached data.
func (l *FileLoader) InvalidateAll() {
	l.mu.Lock()
	l.cache = make(map[string][]byte)
	l.mu.Unlock()
}

// URIToPath converts a document URI to a file system path.
func URIToPath(uri protocol.DocumentURI) string {
	u, err := url.Parse(string(uri))
	if err != nil {
		// Fallback: strip file:// prefix
		return strings.TrimPrefix(string(uri), "file://")
	}

	if u.Scheme == "file" {
		return u.Path
	}

	return string(uri)
}

// PathToURI converts a file system path to a document URI.
func PathToURI(path string) protocol.DocumentURI {
	return protocol.DocumentURI(uri.File(path))
}

// Ensure FileLoader implements analysis.FileLoader.
var _ analysis.FileLoader = (*FileLoader)(nil)
