package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schaermu/rulesguard/internal/drift"
	"github.com/schaermu/rulesguard/internal/rules"
)

// RootResolver locates the repository root for a start directory
type RootResolver interface {
	Resolve(ctx context.Context, startDir string) string
}

// Engine orchestrates the rules check
type Engine struct {
	resolver RootResolver
	catalog  []rules.Entry
	logger   *slog.Logger
}

// NewEngine creates a new check engine over the built-in catalog
func NewEngine(resolver RootResolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		resolver: resolver,
		catalog:  rules.Catalog(),
		logger:   logger,
	}
}

// Run resolves the repository root from startDir and compares every catalog
// entry. Drift of any kind is reported in the Report; only unexpected I/O
// failures are returned as errors.
func (e *Engine) Run(ctx context.Context, startDir string) (*Report, error) {
	root := e.resolver.Resolve(ctx, startDir)
	e.logger.Debug("checking rules", "root", root)

	enabled, err := e.enabled(root)
	if err != nil {
		return nil, err
	}
	if !enabled {
		e.logger.Info("rules check skipped, canonical tree not found", "root", root)
		return skipped(root), nil
	}

	report := &Report{
		Enabled: true,
		Root:    root,
		Errors:  make([]string, 0),
		Results: make([]Result, 0, len(e.catalog)),
	}

	for _, entry := range e.catalog {
		src, dst := entry.Paths(root)
		outcome, err := drift.Compare(src, dst)
		if err != nil {
			return nil, fmt.Errorf("failed to compare %s: %w", entry.QualifiedID(), err)
		}

		report.Results = append(report.Results, Result{Entry: entry, Outcome: outcome})
		if outcome.Kind == drift.OK {
			continue
		}

		e.logger.Debug("rule out of date", "id", entry.QualifiedID(), "kind", outcome.Kind.String())
		report.Errors = append(report.Errors, FormatError(entry, outcome))
	}

	report.OK = len(report.Errors) == 0
	e.logger.Info("rules check complete",
		"entries", len(e.catalog),
		"errors", len(report.Errors))

	return report, nil
}

// enabled reports whether the repository opts into the policy: both the
// canonical rules directory and the INCIDENTS companion must exist
func (e *Engine) enabled(root string) (bool, error) {
	for _, rel := range []string{rules.RulesDir, rules.IncidentsFile} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return false, nil
			}
			return false, fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return true, nil
}
