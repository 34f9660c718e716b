package completion

// lintEntry is one completable lint name.
type lintEntry struct {
	name        string
	description string
}

// lints is the built-in lint table offered inside allow, warn, deny and
// forbid attributes.
var lints = []lintEntry{
	{name: "dead_code", description: "detect unused, unexported items"},
	{name: "deprecated", description: "detect use of deprecated items"},
	{name: "missing_docs", description: "detect missing documentation for public members"},
	{name: "non_camel_case_types", description: "types, variants, traits and type parameters should have camel case names"},
	{name: "non_snake_case", description: "variables, methods, functions, lifetime parameters and modules should have snake case names"},
	{name: "non_upper_case_globals", description: "static constants should have uppercase identifiers"},
	{name: "unreachable_code", description: "detect unreachable code blocks"},
	{name: "unreachable_patterns", description: "detect unreachable patterns"},
	{name: "unused_imports", description: "imports that are never used"},
	{name: "unused_macros", description: "detect macros that were not used"},
	{name: "unused_must_use", description: "unused result of a type flagged as must_use"},
	{name: "unused_mut", description: "detect mut variables which don't need to be mutable"},
	{name: "unused_variables", description: "detect variables which are not used in any way"},
	{name: "while_true", description: "suggest using loop { } instead of while true { }"},
}
