// Package testkit checks structural invariants of an analysis result. Tests
// and fuzz harnesses run it after every analysis to catch spans that escape
// the file, broken sequence ordering and inconsistent scope arenas.
package testkit

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"github.com/foryearslater/afsim-sub009/internal/driver"
	"github.com/foryearslater/afsim-sub009/internal/source"
)

// CheckAnalysis runs the invariants on res, the analysis of sf:
// 1) every declaration, highlight and diagnostic span of sf lies within its content
// 2) declarations carry strictly increasing sequence numbers
// 3) closed scope extents are ordered and scripts have a body
// 4) the symbol table passes its own validation
func CheckAnalysis(res *driver.FileResult, sf *source.File) error {
	if res == nil || sf == nil {
		return fmt.Errorf("nil result or file")
	}
	if res.FileID != sf.ID {
		return fmt.Errorf("result is for file %d, not %d", res.FileID, sf.ID)
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	var errs []error
	inFile := func(what string, sp source.Span) {
		if sp.File != sf.ID {
			errs = append(errs, fmt.Errorf("%s span %v points to file %d", what, sp, sp.File))
			return
		}
		if sp.Start > sp.End || sp.End > size {
			errs = append(errs, fmt.Errorf("%s span %v outside content of %d bytes", what, sp, size))
		}
	}

	d := res.Detail
	var lastSeq uint32
	for i, decl := range d.Declarations {
		inFile("declaration "+decl.Name, decl.Span)
		if decl.Span.End == decl.Span.Start {
			errs = append(errs, fmt.Errorf("declaration %s has an empty span", decl.Name))
		}
		if i > 0 && decl.Seq <= lastSeq {
			errs = append(errs, fmt.Errorf("declaration %s seq %d not after %d", decl.Name, decl.Seq, lastSeq))
		}
		lastSeq = decl.Seq
	}
	for _, h := range d.Highlights {
		inFile("highlight "+h.Kind.String(), h.Span)
	}
	for _, e := range d.Extents() {
		if e.Start > e.End {
			errs = append(errs, fmt.Errorf("scope %d extent %d..%d is reversed", e.Scope, e.Start, e.End))
		}
	}
	for _, def := range d.Scripts {
		if !def.Body.IsValid() {
			errs = append(errs, fmt.Errorf("script %s has no body scope", def.Name))
		}
	}
	for _, diag := range res.Bag.Items() {
		// пустой Primary бывает у глобалов из настроек
		if diag.Primary.File == sf.ID && diag.Primary != (source.Span{File: sf.ID}) {
			inFile("diagnostic "+diag.Code.ID(), diag.Primary)
		}
	}
	if err := res.Session.Table().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("symbol table: %w", err))
	}
	return errors.Join(errs...)
}
