// Package trace records what the checker is doing while it runs.
//
// It is the only logging facility of uscheck: phases open spans, per-file
// work opens file spans and the semantic session emits node points when
// scopes are pushed or popped.
//
//	uscheck check --trace=- --trace-level=detail scripts/*.us
//
// A Recorder either writes every record as it arrives (stream), keeps the
// last N records and writes them on Close (ring), or does both. Levels
// gate scopes: phase shows driver and phase spans, detail adds files,
// debug adds scope events.
package trace
