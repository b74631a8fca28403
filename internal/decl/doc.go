// Package decl loads application class declarations into a type registry.
//
// Declarations are TOML documents with [[class]] tables (flags, base class,
// casts, [[class.method]] and [[class.field]]) and [[variable]] tables for
// application-provided globals. A built-in set describing the script
// language's own types is embedded in the binary. Build turns one or more
// sets into a fresh registry, running the generic method table, the
// re-specialize pass, container base casts and the inherited method copy.
package decl
