package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags mirrors the flags the lcovdiff command registers.
func newFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "")
	flags.StringP("coverage-file", "c", "", "")
	flags.StringSlice("changed-files", nil, "")
	flags.Bool("diff", false, "")
	flags.String("git-head", "HEAD", "")
	flags.String("git-base", "", "")
	flags.StringSlice("base-candidates", []string{"main", "master", "trunk"}, "")
	flags.String("repo", "", "")
	flags.StringP("output", "o", "", "")
	flags.StringP("format", "f", "text", "")
	flags.Bool("color", true, "")
	flags.String("log-level", "info", "")
	return flags
}

// isolate clears the environment variables Load consults and moves into an
// empty working directory.
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"GITHUB_HEAD_REF", "GITHUB_BASE_REF",
		"LCOVDIFF_GIT_HEAD", "LCOVDIFF_GIT_BASE", "LCOVDIFF_COVERAGE_FILE", "LCOVDIFF_FORMAT",
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, "HEAD", cfg.GitHead)
	assert.Empty(t, cfg.GitBase)
	assert.Equal(t, []string{"main", "master", "trunk"}, cfg.BaseCandidates)
	assert.Equal(t, "text", cfg.Format)
	assert.True(t, cfg.Color)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ChangedFiles)
	assert.False(t, cfg.RestrictToDiff())
}

func TestLoad_FlagsOverrideEverything(t *testing.T) {
	dir := isolate(t)
	t.Setenv("GITHUB_BASE_REF", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lcovdiff.yaml"), []byte("git_base: from-file\n"), 0644))

	flags := newFlags()
	require.NoError(t, flags.Parse([]string{
		"-c", "lcov.info",
		"--git-base", "develop",
		"--changed-files", "a.go,b.go",
		"--format", "markdown",
	}))

	cfg, err := Load(flags, "")
	require.NoError(t, err)
	assert.Equal(t, "lcov.info", cfg.CoverageFile)
	assert.Equal(t, "develop", cfg.GitBase)
	assert.Equal(t, []string{"a.go", "b.go"}, cfg.ChangedFiles)
	assert.Equal(t, "markdown", cfg.Format)
	assert.True(t, cfg.RestrictToDiff())
}

func TestLoad_GitHubEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("GITHUB_HEAD_REF", "feature/x")
	t.Setenv("GITHUB_BASE_REF", "release")

	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, "feature/x", cfg.GitHead)
	assert.Equal(t, "release", cfg.GitBase)
}

func TestLoad_PrefixedEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("LCOVDIFF_COVERAGE_FILE", "env.info")
	t.Setenv("LCOVDIFF_FORMAT", "yaml")

	cfg, err := Load(newFlags(), "")
	require.NoError(t, err)
	assert.Equal(t, "env.info", cfg.CoverageFile)
	assert.Equal(t, "yaml", cfg.Format)
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
coverage_file: target/lcov.info
diff: true
base_candidates: [develop, main]
repo: ../project
color: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(newFlags(), path)
	require.NoError(t, err)
	assert.Equal(t, "target/lcov.info", cfg.CoverageFile)
	assert.True(t, cfg.Diff)
	assert.True(t, cfg.RestrictToDiff())
	assert.Equal(t, []string{"develop", "main"}, cfg.BaseCandidates)
	assert.Equal(t, "../project", cfg.Repo)
	assert.False(t, cfg.Color)
}

func TestLoad_MissingExplicitConfigFile(t *testing.T) {
	dir := isolate(t)

	_, err := Load(newFlags(), filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lcovdiff.yaml"), []byte("format: [unclosed\n"), 0644))

	_, err := Load(newFlags(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Config{GitHead: "HEAD"}).Validate())
	assert.Error(t, (&Config{CoverageFile: "lcov.info"}).Validate())
	assert.NoError(t, (&Config{CoverageFile: "lcov.info", GitHead: "HEAD"}).Validate())
}
