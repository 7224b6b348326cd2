package rules

import (
	"path"
	"path/filepath"
	"strings"
)

// Canonical layout, relative to the repository root.
const (
	SourceDir     = "rules-src"
	RulesDir      = SourceDir + "/rules"
	IncidentsFile = SourceDir + "/INCIDENTS.md"

	// IncidentsID identifies the changelog companion in qualified ids
	IncidentsID = "INCIDENTS"

	// SourceExt is the extension of canonical rule files
	SourceExt = ".md"
	// FlatExt is the extension of generated flat rule files
	FlatExt = ".mdc"
	// DirRuleFile is the fixed file name inside per-id rule directories
	DirRuleFile = "RULE.md"
)

// Entry is one canonical→generated pair. Paths are slash-separated and
// relative to the repository root.
type Entry struct {
	Group  string
	ID     string
	Source string
	Dest   string
}

// QualifiedID returns the group-prefixed id, e.g. "root:agent-protocol"
func (e Entry) QualifiedID() string {
	return e.Group + ":" + e.ID
}

// Paths resolves the entry's source and destination against root
func (e Entry) Paths(root string) (src, dst string) {
	return filepath.Join(root, filepath.FromSlash(e.Source)), filepath.Join(root, filepath.FromSlash(e.Dest))
}

// Template maps a rule id to its generated path
type Template func(id string) string

// Group is one consumer of the canonical rules with its own destination
// convention.
type Group struct {
	Name string
	// Dir is the generated rules directory the group writes into
	Dir  string
	IDs  []string
	Dest Template
	// Companion is the destination of the INCIDENTS companion, empty if the
	// group does not mirror it
	Companion string
}

// FlatFiles returns a template producing dir/<id><ext>
func FlatFiles(dir, ext string) Template {
	return func(id string) string {
		return path.Join(dir, id+ext)
	}
}

// RuleDirs returns a template producing dir/<id>/<file>
func RuleDirs(dir, file string) Template {
	return func(id string) string {
		return path.Join(dir, id, file)
	}
}

// SourcePath returns the canonical path for id
func SourcePath(id string) string {
	return path.Join(RulesDir, id+SourceExt)
}

// Entries expands the group into its ordered entries, companion last
func (g Group) Entries() []Entry {
	entries := make([]Entry, 0, len(g.IDs)+1)
	for _, id := range g.IDs {
		entries = append(entries, Entry{
			Group:  g.Name,
			ID:     id,
			Source: SourcePath(id),
			Dest:   g.Dest(id),
		})
	}
	if g.Companion != "" {
		entries = append(entries, Entry{
			Group:  g.Name,
			ID:     IncidentsID,
			Source: IncidentsFile,
			Dest:   g.Companion,
		})
	}
	return entries
}

// IsFlatRule returns true if path follows the flat id.mdc convention
func IsFlatRule(p string) bool {
	return strings.HasSuffix(p, FlatExt)
}
