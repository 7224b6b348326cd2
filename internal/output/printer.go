package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/disiqueira/gotree/v3"

	"github.com/schaermu/rulesguard/internal/check"
	"github.com/schaermu/rulesguard/internal/drift"
)

const diffContext = 3

// Options tunes text rendering
type Options struct {
	// Verbose adds a per-group tree of every entry
	Verbose bool
	// Diff adds a unified diff below each drift error
	Diff bool
}

// Printer renders check results. Successes go to out, failures to diag.
type Printer struct {
	out      io.Writer
	diag     io.Writer
	useColor bool
}

// NewPrinter creates a printer
func NewPrinter(out, diag io.Writer, useColor bool) *Printer {
	return &Printer{out: out, diag: diag, useColor: useColor}
}

// JSON writes the summary as indented JSON to out
func (p *Printer) JSON(s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

// Text writes the human-readable rendering of a report
func (p *Printer) Text(r *check.Report, opts Options) error {
	s := Summarize(r)

	if opts.Verbose && r.Enabled {
		fmt.Fprint(p.out, p.Tree(r))
	}

	if s.Success {
		fmt.Fprintf(p.out, "%s %s\n", p.green("✓"), s.Message)
		return nil
	}

	fmt.Fprintf(p.diag, "%s %s\n", p.red("✗"), s.Message)
	for _, res := range r.Failures() {
		fmt.Fprintf(p.diag, "  %s\n", check.FormatError(res.Entry, res.Outcome))
		if opts.Diff && res.Outcome.Kind == drift.Drift {
			text, err := drift.Diff(res.Outcome.Source, res.Outcome.Dest, diffContext)
			if err != nil {
				return err
			}
			fmt.Fprintln(p.diag, p.dim(Indent(4, strings.TrimRight(text, "\n"))))
		}
	}
	return nil
}

// Tree renders every entry grouped by consumer, marking failures with their
// outcome tag
func (p *Printer) Tree(r *check.Report) string {
	tree := gotree.New(r.Root)
	groups := make(map[string]gotree.Tree)

	for _, res := range r.Results {
		node, ok := groups[res.Entry.Group]
		if !ok {
			node = tree.Add(res.Entry.Group)
			groups[res.Entry.Group] = node
		}

		if res.Outcome.Kind == drift.OK {
			node.Add(p.green("✓") + " " + res.Entry.ID)
		} else {
			node.Add(p.red("✗") + " " + res.Entry.ID + " " + p.dim("["+res.Outcome.Kind.String()+"]"))
		}
	}

	return tree.Print()
}

func (p *Printer) green(text string) string { return p.escape("32", text) }
func (p *Printer) red(text string) string   { return p.escape("31", text) }
func (p *Printer) dim(text string) string   { return p.escape("2", text) }

func (p *Printer) escape(code, text string) string {
	if !p.useColor {
		return text
	}
	return fmt.Sprintf("\x1B[%sm%s\x1B[0m", code, text)
}

// Indent prefixes every line of text with the given number of spaces
func Indent(spaces int, text string) string {
	indent := strings.Repeat(" ", spaces)
	return indent + strings.ReplaceAll(text, "\n", "\n"+indent)
}
