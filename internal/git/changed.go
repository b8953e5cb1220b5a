// Package git determines which files a change touches relative to a
// long-lived base branch.
package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zjy-dev/lcov-diff/internal/exec"
	"github.com/zjy-dev/lcov-diff/internal/logger"
)

// DefaultBaseCandidates are the branch names probed, in order, when no base is given.
var DefaultBaseCandidates = []string{"main", "master", "trunk"}

// ErrUnresolvedBase matches failures to find a base branch.
var ErrUnresolvedBase = errors.New("failed to find a base branch")

// ErrRevisionNotFound may be returned by RevisionResolver implementations
// that do not run a command, to signal a name that does not resolve.
var ErrRevisionNotFound = errors.New("revision not found")

// UnresolvedBaseError lists the candidates that did not resolve.
type UnresolvedBaseError struct {
	Candidates []string
}

func (e *UnresolvedBaseError) Error() string {
	return fmt.Sprintf("%v (tried %s); maybe specify one with --git-base?",
		ErrUnresolvedBase, strings.Join(e.Candidates, ", "))
}

func (e *UnresolvedBaseError) Is(target error) bool { return target == ErrUnresolvedBase }

// ResolveBase returns base if it is set. Otherwise it returns the first of
// candidates that resolves; names after it are never tried.
//
// A candidate that fails with a non-zero exit does not resolve. Any other
// failure, such as git being missing, is returned as is.
func ResolveBase(r RevisionResolver, base string, candidates []string) (string, error) {
	if base != "" {
		return base, nil
	}

	for _, name := range candidates {
		_, err := r.Resolve(name)
		if err == nil {
			logger.Debug("using %s as the base branch", name)
			return name, nil
		}

		var cmdErr *exec.CommandError
		if !errors.As(err, &cmdErr) && !errors.Is(err, ErrRevisionNotFound) {
			return "", fmt.Errorf("failed to resolve %q: %w", name, err)
		}
		logger.Debug("candidate base %s does not resolve", name)
	}

	return "", &UnresolvedBaseError{Candidates: append([]string(nil), candidates...)}
}

// ChangedFiles returns explicit unchanged when it is non-empty, without
// consulting r. Otherwise it lists the files that differ between head and
// its merge base with the base branch, in the order the diff reports them.
func ChangedFiles(r RevisionResolver, explicit []string, head, base string, candidates []string) ([]string, error) {
	if len(explicit) > 0 {
		return explicit, nil
	}

	base, err := ResolveBase(r, base, candidates)
	if err != nil {
		return nil, err
	}

	mergeBase, err := r.MergeBase(head, base)
	if err != nil {
		return nil, fmt.Errorf("failed to find merge base of %s and %s: %w", head, base, err)
	}
	logger.Debug("merge base of %s and %s is %s", head, base, mergeBase)

	files, err := r.DiffNames(head, mergeBase)
	if err != nil {
		return nil, fmt.Errorf("failed to list files changed between %s and %s: %w", head, mergeBase, err)
	}
	return files, nil
}
