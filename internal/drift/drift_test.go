package drift

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		src      *string
		dst      *string
		dstName  string
		wantKind Kind
	}{
		{name: "identical", src: ptr("Do X.\n"), dst: ptr("Do X.\n"), dstName: "rule.mdc", wantKind: OK},
		{name: "crlf destination", src: ptr("Do X.\n"), dst: ptr("Do X.\r\n"), dstName: "rule.mdc", wantKind: OK},
		{name: "lone cr source", src: ptr("a\rb\r"), dst: ptr("a\nb\n"), dstName: "RULE.md", wantKind: OK},
		{name: "different content", src: ptr("Do X.\n"), dst: ptr("Do Y.\n"), dstName: "rule.mdc", wantKind: Drift},
		{name: "trailing newline matters", src: ptr("Do X.\n"), dst: ptr("Do X."), dstName: "rule.mdc", wantKind: Drift},
		{name: "missing source", src: nil, dst: ptr("Do X.\n"), dstName: "rule.mdc", wantKind: SourceMissing},
		{name: "missing source and dest", src: nil, dst: nil, dstName: "rule.mdc", wantKind: SourceMissing},
		{name: "missing dest", src: ptr("Do X.\n"), dst: nil, dstName: "rule.mdc", wantKind: DestMissing},
		{name: "json wrapped mdc", src: ptr("Do X.\n"), dst: ptr(`{"content":"Do X.\n"}`), dstName: "rule.mdc", wantKind: Corrupt},
		{name: "json wrapped after whitespace", src: ptr("Do X.\n"), dst: ptr("\n  \t{\"a\":1}"), dstName: "rule.mdc", wantKind: Corrupt},
		{name: "brace in directory rule is drift", src: ptr("Do X.\n"), dst: ptr("{}"), dstName: "RULE.md", wantKind: Drift},
		{name: "brace in directory rule equal to source", src: ptr("{}\n"), dst: ptr("{}\n"), dstName: "RULE.md", wantKind: OK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src", "rule.md")
			dst := filepath.Join(dir, "dst", tt.dstName)
			if tt.src != nil {
				writeFile(t, src, *tt.src)
			}
			if tt.dst != nil {
				writeFile(t, dst, *tt.dst)
			}

			got, err := Compare(src, dst)
			if err != nil {
				t.Fatalf("Compare returned error: %v", err)
			}
			if got.Kind != tt.wantKind {
				t.Errorf("Compare() kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Source != src || got.Dest != dst {
				t.Errorf("outcome paths = (%s, %s), want (%s, %s)", got.Source, got.Dest, src, dst)
			}
		})
	}
}

func TestCompare_CorruptEvenWhenEqual(t *testing.T) {
	dir := t.TempDir()
	content := "{ this rule happens to start with a brace }\n"
	src := filepath.Join(dir, "rule.md")
	dst := filepath.Join(dir, "rule.mdc")
	writeFile(t, src, content)
	writeFile(t, dst, content)

	got, err := Compare(src, dst)
	if err != nil {
		t.Fatal(err)
	}
	if got.Kind != Corrupt {
		t.Errorf("expected Corrupt for brace-led .mdc, got %v", got.Kind)
	}
}

func TestCompare_DestinationIsDirectory(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rule.md")
	dst := filepath.Join(dir, "rule.mdc")
	writeFile(t, src, "Do X.\n")
	if err := os.MkdirAll(dst, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := Compare(src, dst); err == nil {
		t.Error("expected an error when the destination is a directory")
	}
}

func TestCompare_UnreadableSource(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}

	dir := t.TempDir()
	src := filepath.Join(dir, "rule.md")
	dst := filepath.Join(dir, "rule.mdc")
	writeFile(t, src, "Do X.\n")
	writeFile(t, dst, "Do X.\n")
	if err := os.Chmod(src, 0); err != nil {
		t.Fatal(err)
	}

	if _, err := Compare(src, dst); err == nil {
		t.Error("expected a read error to propagate")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\r\nb\r\n", "a\nb\n"},
		{"a\rb\r", "a\nb\n"},
		{"a\r\r\nb", "a\n\nb"},
		{"plain\n", "plain\n"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		OK:            "ok",
		SourceMissing: "rules-src missing",
		DestMissing:   "generated missing",
		Corrupt:       "corrupt .mdc",
		Drift:         "drift",
		Kind(42):      "kind(42)",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), got, want)
		}
	}
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "rule.md")
	dst := filepath.Join(dir, "rule.mdc")
	writeFile(t, src, "one\ntwo\nthree\n")
	writeFile(t, dst, "one\r\nTWO\r\nthree\r\n")

	text, err := Diff(src, dst, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "-two\n") || !strings.Contains(text, "+TWO\n") {
		t.Errorf("unexpected diff:\n%s", text)
	}
	if strings.Contains(text, "\r") {
		t.Error("diff should be computed on normalized content")
	}

	writeFile(t, dst, "one\ntwo\nthree\n")
	text, err = Diff(src, dst, 1)
	if err != nil {
		t.Fatal(err)
	}
	if text != "" {
		t.Errorf("expected empty diff for identical files, got:\n%s", text)
	}
}

func ptr(s string) *string { return &s }
