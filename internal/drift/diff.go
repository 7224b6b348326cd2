package drift

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff renders a unified diff from the canonical source to the generated
// file, after line-ending normalization. Identical contents yield "".
func Diff(src, dst string, context int) (string, error) {
	s, err := readNormalized(src)
	if err != nil {
		return "", err
	}
	d, err := readNormalized(dst)
	if err != nil {
		return "", err
	}

	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(s),
		B:        difflib.SplitLines(d),
		FromFile: src,
		ToFile:   dst,
		Context:  context,
	})
	if err != nil {
		return "", fmt.Errorf("failed to diff %s: %w", dst, err)
	}
	return text, nil
}
