package completion

// Config carries the client-controlled completion switches.
type Config struct {
	// EnableSnippets gates tab-stop snippets; when false, snippet
	// strategies emit nothing and keyword items insert plain text.
	EnableSnippets bool `yaml:"enableSnippets"`
	// EnablePostfix gates the postfix battery (.if, .dbg, ...).
	EnablePostfix bool `yaml:"enablePostfix"`
	// EnableAutoimport gates flyimport candidates from other files.
	EnableAutoimport bool `yaml:"enableAutoimport"`
	// AddCallParens appends a call snippet to function and method
	// items. Requires EnableSnippets for tab stops between arguments.
	AddCallParens bool `yaml:"addCallParens"`
}

// DefaultConfig enables everything, matching the behavior editors get
// without a config file.
func DefaultConfig() Config {
	return Config{
		EnableSnippets:   true,
		EnablePostfix:    true,
		EnableAutoimport: true,
		AddCallParens:    true,
	}
}
