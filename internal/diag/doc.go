// Package diag defines the diagnostic model shared by the lexer, the grammar
// driver, the declaration loader and the semantic layer.
//
// Diagnostic is the central record: Severity, a compact numeric Code with a
// stable string form (LEX/SYN/SEM/DCL prefixes), a short Message, the Primary
// span and optional Notes pointing at related locations (for example the
// earlier declaration in a redeclaration error).
//
// Producers talk to a Reporter and never to storage. BagReporter collects into
// a Bag, which supports limits, sorting and deduplication; DedupReporter drops
// repeats before they reach the next reporter; NopReporter discards everything
// and is what completion mirrors use.
//
// Semantic errors are local and non-fatal: the reporting action returns an
// empty value and analysis continues with the next production.
//
// Rendering lives in internal/diagfmt; FormatShortDiagnostics here is the one
// stable text form, used by tests and the "short" CLI format.
package diag
