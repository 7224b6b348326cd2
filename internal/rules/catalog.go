package rules

import "path"

// Generated target directories.
const (
	rootRulesDir        = ".cursor/rules"
	setupCursorRulesDir = "packages/setup-cursor/.cursor/rules"
	precursorRulesDir   = "packages/precursor/.cursor/rules"
)

var groups = []Group{
	{
		Name: "root",
		Dir:  rootRulesDir,
		IDs: []string{
			"agent-protocol",
			"commands",
			"diagnostics",
			"issue-reporting-and-apply-report",
			"knowledge-base",
			"verification",
			"windows-systems-and-toolchain",
		},
		Dest:      FlatFiles(rootRulesDir, FlatExt),
		Companion: path.Join(rootRulesDir, "INCIDENTS.md"),
	},
	{
		Name: "setup-cursor",
		Dir:  setupCursorRulesDir,
		IDs: []string{
			"diagnostics",
			"issue-reporting-and-apply-report",
			"python-3-14",
			"windows-systems-and-toolchain",
		},
		Dest:      RuleDirs(setupCursorRulesDir, DirRuleFile),
		Companion: path.Join(setupCursorRulesDir, "INCIDENTS.md"),
	},
	{
		Name: "precursor",
		Dir:  precursorRulesDir,
		IDs: []string{
			"diagnostics",
			"issue-reporting-and-apply-report",
			"python-3-14",
			"python",
			"web",
			"windows-systems-and-toolchain",
		},
		Dest: FlatFiles(precursorRulesDir, FlatExt),
	},
	{
		Name: "precursor-dir",
		Dir:  precursorRulesDir,
		IDs: []string{
			"diagnostics",
			"issue-reporting-and-apply-report",
			"python-3-14",
			"windows-systems-and-toolchain",
		},
		Dest: RuleDirs(precursorRulesDir, DirRuleFile),
	},
}

// Groups returns a copy of the group table in catalog order
func Groups() []Group {
	out := make([]Group, len(groups))
	copy(out, groups)
	return out
}

// Catalog returns every mapping entry in catalog order
func Catalog() []Entry {
	var entries []Entry
	for _, g := range groups {
		entries = append(entries, g.Entries()...)
	}
	return entries
}

// WatchPatterns returns doublestar patterns, relative to the repository root,
// matching every file that can affect the check result.
func WatchPatterns() []string {
	patterns := []string{SourceDir + "/**"}
	seen := map[string]bool{}
	for _, g := range groups {
		if seen[g.Dir] {
			continue
		}
		seen[g.Dir] = true
		patterns = append(patterns, g.Dir+"/**")
	}
	return patterns
}
