package main

import (
	"encoding/json"
	"io"

	"github.com/foryearslater/afsim-sub009/internal/observ"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTimings пишет сводку фаз; ошибки записи в stderr игнорируются
func printTimings(w io.Writer, timer *observ.Timer) {
	if timer != nil {
		_, _ = io.WriteString(w, timer.Summary())
	}
}
