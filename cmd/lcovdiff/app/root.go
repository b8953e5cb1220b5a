package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/zjy-dev/lcov-diff/internal/config"
	"github.com/zjy-dev/lcov-diff/internal/coverage"
	"github.com/zjy-dev/lcov-diff/internal/exec"
	"github.com/zjy-dev/lcov-diff/internal/git"
	"github.com/zjy-dev/lcov-diff/internal/lcov"
	"github.com/zjy-dev/lcov-diff/internal/logger"
	"github.com/zjy-dev/lcov-diff/internal/report"
)

// environment is what a run touches outside the process.
type environment struct {
	fs       afero.Fs
	executor exec.Executor
	stdout   io.Writer
}

// NewRootCommand creates the lcovdiff command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(environment{
		fs:       afero.NewOsFs(),
		executor: exec.NewCommandExecutor(),
		stdout:   os.Stdout,
	})
}

func newRootCommand(env environment) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "lcovdiff",
		Short: "Report line coverage from an LCOV trace, optionally for changed files only.",
		Long: `Report per-file and total line coverage from an LCOV trace.

With --diff, or when --changed-files is given, the report is restricted to the
files a change touches. Without an explicit list the changed files come from
  git diff --name-only $HEAD..$(git merge-base $HEAD $BASE)
where $HEAD is --git-head and $BASE is --git-base, or the first of
--base-candidates that exists.

Configuration:
  Values are read from .lcovdiff.yaml (or --config), then LCOVDIFF_* environment
  variables, then flags. GITHUB_HEAD_REF and GITHUB_BASE_REF are honored for
  --git-head and --git-base.

Examples:
  # Coverage of every file in the trace
  lcovdiff -c lcov.info

  # Coverage of the files changed since the merge base with main/master/trunk
  lcovdiff -c lcov.info --diff

  # Coverage of two files, as markdown for a pull request comment
  lcovdiff -c lcov.info --changed-files src/a.rs,src/b.rs --format markdown`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), configFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(env, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "Config file (default: .lcovdiff.yaml if present)")
	flags.StringP("coverage-file", "c", "", "LCOV coverage file to read (only line coverage is used)")
	flags.StringSlice("changed-files", nil, "Files to restrict the report to; skips git")
	flags.Bool("diff", false, "Restrict the report to files changed relative to the base branch")
	flags.String("git-head", "HEAD", "Revision to compare from")
	flags.String("git-base", "", "Base branch to compare to (default: first of --base-candidates that exists)")
	flags.StringSlice("base-candidates", git.DefaultBaseCandidates, "Base branch names to try, in order")
	flags.String("repo", "", "Run git in this directory")
	flags.StringP("output", "o", "", "Write the report to this file (default: stdout)")
	flags.StringP("format", "f", "text", fmt.Sprintf("Output format, one of %v", report.Formats))
	flags.Bool("color", true, "Colorize terminal output")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")

	return cmd
}

func run(env environment, cfg *config.Config) (err error) {
	logger.Init(cfg.LogLevel)
	logger.SetLevel(cfg.LogLevel)
	logger.SetColorEnable(cfg.Color)

	reporter, err := report.New(cfg.Format, cfg.Color && cfg.Output == "")
	if err != nil {
		return err
	}

	reader, closer, err := lcov.Open(env.fs, cfg.CoverageFile)
	if err != nil {
		return err
	}
	defer closer.Close()

	cov, err := coverage.Ingest(reader)
	if err != nil {
		return fmt.Errorf("failed to load coverage from %s: %w", cfg.CoverageFile, err)
	}
	logger.Debug("read coverage for %d files from %s", len(cov.Files), cfg.CoverageFile)

	summary := report.Summary{Report: cov}
	if cfg.RestrictToDiff() {
		changed, err := git.ChangedFiles(
			git.NewCLI(env.executor, cfg.Repo),
			cfg.ChangedFiles, cfg.GitHead, cfg.GitBase, cfg.BaseCandidates,
		)
		if err != nil {
			return fmt.Errorf("failed to determine changed files: %w", err)
		}
		logger.Debug("%d changed files", len(changed))

		restricted, missing := cov.Restrict(changed)
		for _, path := range missing {
			logger.Debug("changed file %s has no coverage data", path)
		}
		summary = report.Summary{Report: restricted, Restricted: true, Missing: missing}
	}

	out := env.stdout
	if cfg.Output != "" {
		var f afero.File
		f, err = env.fs.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", cfg.Output, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", cfg.Output, cerr)
			}
		}()
		out = f
	}

	if err := reporter.Render(out, summary); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
