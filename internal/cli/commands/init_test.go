package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/pagecraft/internal/cli/config"
	"github.com/leapstack-labs/pagecraft/internal/cli/testutil"
	"github.com/leapstack-labs/pagecraft/internal/loader"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string)
		args      []string
		wantErr   string
		wantFiles []string
	}{
		{
			name: "init empty directory",
			wantFiles: []string{
				"pagecraft.yaml",
				".gitignore",
				"pages/home.yaml",
			},
		},
		{
			name: "init example project",
			args: []string{"--example"},
			wantFiles: []string{
				"pagecraft.yaml",
				"presets.yaml",
				"pages/landing.yaml",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "pagecraft.yaml"), []byte("existing"), 0600))
			},
			wantErr: "pagecraft.yaml already exists",
		},
		{
			name: "init existing yml config without force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "pagecraft.yml"), []byte("existing"), 0600))
			},
			wantErr: "pagecraft.yml already exists",
		},
		{
			name: "init existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "pagecraft.yaml"), []byte("existing"), 0600))
			},
			args:      []string{"--force"},
			wantFiles: []string{"pagecraft.yaml", "pages/home.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "site")
			require.NoError(t, os.MkdirAll(dir, 0750))
			if tt.setupDir != nil {
				tt.setupDir(t, dir)
			}

			stdout, _, err := testutil.Run(t, NewInitCommand(), append([]string{dir}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(f)))
			}
			assert.Contains(t, stdout, "pagecraft serve")
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("example"))
}

func TestInit_KeepsExistingPagesWithoutForce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "pages"), 0750))
	custom := []byte("title: Mine\nblocks: []\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pages", "home.yaml"), custom, 0600))

	_, _, err := testutil.Run(t, NewInitCommand(), dir)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dir, "pages", "home.yaml"))
	require.NoError(t, err)
	assert.Equal(t, custom, got)
}

// TestInit_ProjectLoads checks that every template produces a project the
// rest of the CLI accepts.
func TestInit_ProjectLoads(t *testing.T) {
	for _, args := range [][]string{nil, {"--example"}} {
		dir := t.TempDir()
		_, _, err := testutil.Run(t, NewInitCommand(), append([]string{dir}, args...)...)
		require.NoError(t, err)

		cfg := testutil.LoadProjectConfig(t, dir)
		assert.Equal(t, filepath.Join(dir, "pages"), cfg.PagesDir)
		assert.Equal(t, filepath.Join(dir, config.DefaultStateFile), cfg.StatePath)

		_, err = cfg.Presets()
		require.NoError(t, err)

		paths, err := loader.Discover(cfg.PagesDir)
		require.NoError(t, err)
		require.NotEmpty(t, paths)
		for _, p := range paths {
			_, err := loader.Load(p)
			require.NoError(t, err, p)
		}
	}
}

func TestGroupTemplateFiles(t *testing.T) {
	files, err := listTemplateFiles("example")
	require.NoError(t, err)

	groups := groupTemplateFiles(files)
	assert.ElementsMatch(t, []string{"pages/landing.yaml"}, groups["pages"])
	assert.ElementsMatch(t, []string{".gitignore", "pagecraft.yaml", "presets.yaml"}, groups["config"])
}
