package check

import (
	"fmt"

	"github.com/schaermu/rulesguard/internal/drift"
	"github.com/schaermu/rulesguard/internal/rules"
)

// Report is the outcome of one check
type Report struct {
	Enabled bool     `json:"enabled"`
	OK      bool     `json:"ok"`
	Errors  []string `json:"errors"`

	// Root is the resolved repository root
	Root string `json:"-"`
	// Results holds one outcome per catalog entry, in catalog order. Empty
	// when the check is not enabled.
	Results []Result `json:"-"`
}

// Result pairs a catalog entry with its comparison outcome
type Result struct {
	Entry   rules.Entry
	Outcome drift.Outcome
}

// Failures returns the non-OK results in catalog order
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Outcome.Kind != drift.OK {
			out = append(out, res)
		}
	}
	return out
}

// skipped is the report for a repository without a canonical tree
func skipped(root string) *Report {
	return &Report{
		Enabled: false,
		OK:      true,
		Errors:  []string{},
		Root:    root,
	}
}

// FormatError renders one non-OK outcome as a report message
func FormatError(entry rules.Entry, o drift.Outcome) string {
	id := entry.QualifiedID()
	switch o.Kind {
	case drift.SourceMissing:
		return fmt.Sprintf("[%s] %s: %s", o.Kind, id, o.Source)
	case drift.DestMissing:
		return fmt.Sprintf("[%s] %s: %s", o.Kind, id, o.Dest)
	case drift.Corrupt:
		return fmt.Sprintf("[%s] %s: %s looks JSON-wrapped (starts with '{')", o.Kind, id, o.Dest)
	case drift.Drift:
		return fmt.Sprintf("[%s] %s: %s differs from %s", o.Kind, id, o.Dest, o.Source)
	default:
		return fmt.Sprintf("[%s] %s", o.Kind, id)
	}
}
