// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/cli/config"
)

// LandingPage is the page file SetupTestProject writes to pages/landing.yaml.
const LandingPage = `title: Landing
blocks:
  - kind: hero
    blockId: hero-aaaaaa
    content:
      heading: Welcome
    style:
      layout:
        padding:
          top: {base: sm, desktop: xl}
  - kind: faq
    blockId: faq-bbbbbb
    content:
      items:
        - {question: Why?, answer: Because.}
`

// SetupTestProject creates a temporary project with a config file, a
// pages directory holding the landing page, and a state database path
// inside the project.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0750))

	cfg := "pages_dir: pages\nstate_path: .pagecraft/state.db\noutput: text\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pagecraft.yaml"), []byte(cfg), 0600))
	WritePage(t, dir, "landing", LandingPage)

	return dir
}

// WritePage writes pages/<slug>.yaml in the project at dir.
func WritePage(t *testing.T, dir, slug, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pages", slug+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// LoadProjectConfig loads the project's config the way the root command
// does, making it the current config for commands.
func LoadProjectConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cfg, err := config.LoadConfig(filepath.Join(dir, "pagecraft.yaml"), nil)
	require.NoError(t, err)
	return cfg
}

// Run executes cmd with args and returns what it wrote to stdout and
// stderr.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
