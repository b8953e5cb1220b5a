package exec

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ExecutionResult holds the outcome of a command execution.
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor defines an interface for running external commands.
// This allows for mocking in tests.
type Executor interface {
	Run(command string, args ...string) (*ExecutionResult, error)
}

// CommandExecutor is a concrete implementation of the Executor interface
// that runs actual commands on the host system.
type CommandExecutor struct{}

// NewCommandExecutor creates a new CommandExecutor.
func NewCommandExecutor() *CommandExecutor {
	return &CommandExecutor{}
}

// Run executes the given command and returns its result.
func (e *CommandExecutor) Run(command string, args ...string) (*ExecutionResult, error) {
	cmd := exec.Command(command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	// cmd.Run() returns an error for non-zero exit codes, but we handle
	// the exit code explicitly. So, we only return other kinds of errors
	// (e.g., command not found).
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to execute %s: %w", Display(command, args...), err)
		}
	}

	return &ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}, nil
}

// Display renders a command line shell-quoted, suitable for user output.
func Display(command string, args ...string) string {
	return shellquote.Join(append([]string{command}, args...)...)
}

// CommandError reports a command that ran to completion with a non-zero exit code.
type CommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed with exit code %d: %s", e.Command, e.ExitCode, Display(e.Command, e.Args...))
	if e.Stdout != "" {
		fmt.Fprintf(&b, "\nStdout: %s", e.Stdout)
	}
	if e.Stderr != "" {
		fmt.Fprintf(&b, "\nStderr: %s", e.Stderr)
	}
	return b.String()
}

// Output runs the command and returns its trimmed stdout. A non-zero exit
// is reported as a *CommandError carrying the captured output.
func Output(e Executor, command string, args ...string) (string, error) {
	result, err := e.Run(command, args...)
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", &CommandError{
			Command:  command,
			Args:     args,
			ExitCode: result.ExitCode,
			Stdout:   strings.TrimSpace(result.Stdout),
			Stderr:   strings.TrimSpace(result.Stderr),
		}
	}
	return strings.TrimSpace(result.Stdout), nil
}
