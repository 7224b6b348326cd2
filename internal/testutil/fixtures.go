package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/schaermu/rulesguard/internal/rules"
)

// WriteFiles creates each slash-separated relative path under root with the
// given content, creating parent directories as needed.
func WriteFiles(t testing.TB, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// RuleContent returns deterministic content for a canonical rule id
func RuleContent(id string) string {
	return "# " + id + "\n\nFollow the " + id + " rule.\n"
}

// SyncedRepo lays out a repository under root where every catalog entry is
// up to date: the canonical tree, the INCIDENTS companion and every
// generated file.
func SyncedRepo(t testing.TB, root string) {
	t.Helper()
	files := map[string]string{
		rules.IncidentsFile: "# Incidents\n",
	}
	for _, e := range rules.Catalog() {
		content := RuleContent(e.ID)
		if e.ID == rules.IncidentsID {
			content = files[rules.IncidentsFile]
		}
		files[e.Source] = content
		files[e.Dest] = content
	}
	WriteFiles(t, root, files)
}

// Remove deletes a slash-separated relative path (file or tree) under root
func Remove(t testing.TB, root, rel string) {
	t.Helper()
	if err := os.RemoveAll(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
		t.Fatal(err)
	}
}
