package git

import (
	"fmt"
	"strings"

	"github.com/zjy-dev/lcov-diff/internal/exec"
	"github.com/zjy-dev/lcov-diff/internal/logger"
)

// RevisionResolver is the version-control history the changed-file lookup needs.
type RevisionResolver interface {
	// Resolve returns the revision a name points to.
	Resolve(name string) (string, error)
	// MergeBase returns the nearest common ancestor of a and b.
	MergeBase(a, b string) (string, error)
	// DiffNames lists the paths that differ between a and b.
	DiffNames(a, b string) ([]string, error)
}

// CLI implements RevisionResolver by running the git binary.
type CLI struct {
	executor exec.Executor
	// Dir is passed to git -C when set.
	Dir string
}

// NewCLI creates a CLI that runs git in dir, or the working directory if dir is empty.
func NewCLI(executor exec.Executor, dir string) *CLI {
	return &CLI{executor: executor, Dir: dir}
}

func (g *CLI) run(args ...string) (string, error) {
	if g.Dir != "" {
		args = append([]string{"-C", g.Dir}, args...)
	}
	logger.Debug("running %s", exec.Display("git", args...))
	return exec.Output(g.executor, "git", args...)
}

// Resolve runs git rev-parse --verify.
func (g *CLI) Resolve(name string) (string, error) {
	return g.run("rev-parse", "--verify", name)
}

// MergeBase runs git merge-base.
func (g *CLI) MergeBase(a, b string) (string, error) {
	return g.run("merge-base", a, b)
}

// DiffNames runs git diff --name-only a..b and returns one path per output line.
func (g *CLI) DiffNames(a, b string) ([]string, error) {
	out, err := g.run("diff", "--name-only", fmt.Sprintf("%s..%s", a, b))
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}

	var paths []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, nil
}
