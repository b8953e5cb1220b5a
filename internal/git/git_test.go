package git

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjy-dev/lcov-diff/internal/exec"
)

// scriptedExecutor answers each call with the next queued result.
type scriptedExecutor struct {
	results []*exec.ExecutionResult
	calls   [][]string
}

func (s *scriptedExecutor) Run(command string, args ...string) (*exec.ExecutionResult, error) {
	s.calls = append(s.calls, append([]string{command}, args...))
	if len(s.results) == 0 {
		return nil, errors.New("unexpected call")
	}
	r := s.results[0]
	s.results = s.results[1:]
	return r, nil
}

func TestCLI_Commands(t *testing.T) {
	ex := &scriptedExecutor{results: []*exec.ExecutionResult{
		{Stdout: "aaa\n"},
		{Stdout: "bbb\n"},
		{Stdout: "src/b.go\r\nsrc/a.go\n\n"},
	}}
	g := NewCLI(ex, "")

	rev, err := g.Resolve("main")
	require.NoError(t, err)
	assert.Equal(t, "aaa", rev)

	base, err := g.MergeBase("HEAD", "main")
	require.NoError(t, err)
	assert.Equal(t, "bbb", base)

	files, err := g.DiffNames("HEAD", "bbb")
	require.NoError(t, err)
	assert.Equal(t, []string{"src/b.go", "src/a.go"}, files)

	assert.Equal(t, [][]string{
		{"git", "rev-parse", "--verify", "main"},
		{"git", "merge-base", "HEAD", "main"},
		{"git", "diff", "--name-only", "HEAD..bbb"},
	}, ex.calls)
}

func TestCLI_Dir(t *testing.T) {
	ex := &scriptedExecutor{results: []*exec.ExecutionResult{{Stdout: "x"}}}
	_, err := NewCLI(ex, "/repo").Resolve("HEAD")
	require.NoError(t, err)
	assert.Equal(t, []string{"git", "-C", "/repo", "rev-parse", "--verify", "HEAD"}, ex.calls[0])
}

func TestCLI_EmptyDiff(t *testing.T) {
	ex := &scriptedExecutor{results: []*exec.ExecutionResult{{Stdout: "\n"}}}
	files, err := NewCLI(ex, "").DiffNames("HEAD", "abc")
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestCLI_FailureCarriesDiagnostics(t *testing.T) {
	ex := &scriptedExecutor{results: []*exec.ExecutionResult{
		{Stderr: "fatal: Not a valid object name main\n", ExitCode: 128},
	}}
	_, err := NewCLI(ex, "").MergeBase("HEAD", "main")
	require.Error(t, err)

	var cmdErr *exec.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, 128, cmdErr.ExitCode)
	assert.Contains(t, err.Error(), "git merge-base HEAD main")
	assert.Contains(t, err.Error(), "Stderr: fatal: Not a valid object name main")
}

func TestChangedFiles_WithCLI(t *testing.T) {
	ex := &scriptedExecutor{results: []*exec.ExecutionResult{
		{Stderr: "fatal: Needed a single revision\n", ExitCode: 128}, // main
		{Stdout: "1234\n"}, // master
		{Stdout: "abcd\n"}, // merge-base
		{Stdout: "lib.go\n"},
	}}

	files, err := ChangedFiles(NewCLI(ex, ""), nil, "HEAD", "", DefaultBaseCandidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"lib.go"}, files)
	require.Len(t, ex.calls, 4)
	assert.Equal(t, []string{"git", "merge-base", "HEAD", "master"}, ex.calls[2])
	assert.Equal(t, []string{"git", "diff", "--name-only", "HEAD..abcd"}, ex.calls[3])
}
