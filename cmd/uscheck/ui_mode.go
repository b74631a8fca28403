package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode is the parsed --progress value; auto follows stdout.
type progressMode uint8

const (
	progressAuto progressMode = iota
	progressOn
	progressOff
)

func readUIMode(value string) (progressMode, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return progressAuto, nil
	}
	for m, name := range [...]string{"auto", "on", "off"} {
		if v == name {
			return progressMode(m), nil
		}
	}
	return progressAuto, fmt.Errorf("invalid --progress value %q (expected auto|on|off)", value)
}

func shouldUseTUI(mode progressMode) bool {
	if mode == progressAuto {
		return isTerminal(os.Stdout)
	}
	return mode == progressOn
}
