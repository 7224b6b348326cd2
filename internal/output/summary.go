package output

import (
	"os"

	"golang.org/x/term"

	"github.com/schaermu/rulesguard/internal/check"
	"github.com/schaermu/rulesguard/internal/config"
)

// RegenerateHint tells the user how to bring generated rules back in sync
const RegenerateHint = "Rules drift detected in rules-src. From repo root run:\n" +
	"pwsh -NoProfile -ExecutionPolicy Bypass -File ./curated.ps1 gen-rules"

// Summary is the user-facing result of a check
type Summary struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Summarize turns a report into the message shown to users
func Summarize(r *check.Report) Summary {
	switch {
	case !r.Enabled:
		return Summary{Success: true, Message: "Rules check skipped (rules-src not found)"}
	case r.OK:
		return Summary{Success: true, Message: "Rules up to date"}
	default:
		return Summary{Success: false, Message: RegenerateHint, Errors: r.Errors}
	}
}

// UseColor decides whether f should receive ANSI escapes
func UseColor(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return f != nil && term.IsTerminal(int(f.Fd()))
}
