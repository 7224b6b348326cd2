package repo

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schaermu/rulesguard/internal/git"
	"github.com/schaermu/rulesguard/internal/rules"
)

// Resolver locates the repository root that anchors every catalog path
type Resolver struct {
	provider git.RootProvider
	logger   *slog.Logger
}

// NewResolver creates a resolver. A nil provider skips straight to the
// directory walk.
func NewResolver(provider git.RootProvider, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		provider: provider,
		logger:   logger,
	}
}

// Resolve returns the best-guess repository root for startDir. It never
// fails: without a provider answer or a canonical tree above startDir, the
// start directory itself is returned.
func (r *Resolver) Resolve(ctx context.Context, startDir string) string {
	if r.provider != nil {
		if root, ok := r.provider.TopLevel(ctx, startDir); ok {
			r.logger.Debug("repository root from provider", "root", root)
			return root
		}
		r.logger.Debug("root provider had no answer, walking up", "start", startDir)
	}

	if root, ok := findCanonicalRoot(startDir); ok {
		r.logger.Debug("repository root from canonical tree", "root", root)
		return root
	}

	r.logger.Debug("no repository root found, using start directory", "start", startDir)
	return startDir
}

// findCanonicalRoot walks up from dir until a directory containing the
// canonical rules tree is found
func findCanonicalRoot(dir string) (string, bool) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		if _, err := os.Stat(filepath.Join(cur, filepath.FromSlash(rules.RulesDir))); err == nil {
			return cur, true
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			// Reached the filesystem root
			return "", false
		}
		cur = parent
	}
}
