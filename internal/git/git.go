package git

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// RootProvider answers "where is the working-tree top level for dir?".
// It is best effort: ok is false whenever no answer is available.
type RootProvider interface {
	// TopLevel returns the top-level directory of the working tree containing dir
	TopLevel(ctx context.Context, dir string) (root string, ok bool)
}

// ShellClient implements RootProvider by shelling out to the git command
type ShellClient struct {
	binary string
}

// NewShellClient creates a new git client that uses the git command
func NewShellClient() *ShellClient {
	return &ShellClient{binary: "git"}
}

// TopLevel runs "git rev-parse --show-toplevel" in dir.
// A missing git binary, a directory outside any repository or empty output
// all yield ok=false.
func (c *ShellClient) TopLevel(ctx context.Context, dir string) (string, bool) {
	cmd := exec.CommandContext(ctx, c.binary, "-C", dir, "rev-parse", "--show-toplevel")
	output, err := c.runCommand(cmd)
	if err != nil {
		return "", false
	}

	root := strings.TrimSpace(output)
	if root == "" {
		return "", false
	}

	// git prints forward slashes on every platform
	return filepath.Clean(filepath.FromSlash(root)), true
}

// runCommand executes a command and returns its stdout. Stderr is dropped so
// "not a git repository" noise never reaches the terminal.
func (c *ShellClient) runCommand(cmd *exec.Cmd) (string, error) {
	cmd.Stderr = nil
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", c.binary, strings.Join(cmd.Args[1:], " "), err)
	}
	return string(output), nil
}
