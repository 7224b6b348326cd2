package drift

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"unicode"

	"github.com/schaermu/rulesguard/internal/rules"
)

// Kind classifies the comparison of one canonical/generated pair
type Kind int

const (
	OK Kind = iota
	SourceMissing
	DestMissing
	Corrupt
	Drift
)

// String returns the tag used in report messages
func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case SourceMissing:
		return "rules-src missing"
	case DestMissing:
		return "generated missing"
	case Corrupt:
		return "corrupt .mdc"
	case Drift:
		return "drift"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of comparing one pair
type Outcome struct {
	Kind   Kind
	Source string
	Dest   string
}

// Compare classifies the generated file dst against its canonical source src.
// Absent files are outcomes, not errors; any other I/O failure is returned.
func Compare(src, dst string) (Outcome, error) {
	out := Outcome{Source: src, Dest: dst}

	exists, err := fileExists(src)
	if err != nil {
		return out, err
	}
	if !exists {
		out.Kind = SourceMissing
		return out, nil
	}

	exists, err = fileExists(dst)
	if err != nil {
		return out, err
	}
	if !exists {
		out.Kind = DestMissing
		return out, nil
	}

	s, err := readNormalized(src)
	if err != nil {
		return out, err
	}
	d, err := readNormalized(dst)
	if err != nil {
		return out, err
	}

	// Checked before equality: a JSON-wrapped .mdc is always reported as such.
	if rules.IsFlatRule(dst) && isJSONWrapped(d) {
		out.Kind = Corrupt
		return out, nil
	}

	if s != d {
		out.Kind = Drift
		return out, nil
	}

	out.Kind = OK
	return out, nil
}

// Normalize collapses CRLF and lone CR line endings to LF
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// isJSONWrapped reports the generator failure mode where plain rule text was
// emitted inside a JSON envelope.
func isJSONWrapped(content string) bool {
	trimmed := strings.TrimLeftFunc(content, func(r rune) bool {
		return r == '\ufeff' || unicode.IsSpace(r)
	})
	return strings.HasPrefix(trimmed, "{")
}

// fileExists stats path; only "does not exist" maps to false
func fileExists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return true, nil
}

func readNormalized(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Normalize(string(data)), nil
}
