package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proof/internal/ir"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "proof", cmd.Use)
	assert.Contains(t, cmd.Long, "quad store")
	assert.Equal(t, ir.EngineVersion, cmd.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"load"},
		{"rules", "check"},
		{"materialize"},
		{"explain"},
		{"batch"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("db"))
}

func TestRulesFlag(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"materialize", "explain", "batch"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		flag := sub.Flags().Lookup("rules")
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}

	batch, _, err := cmd.Find([]string{"batch"})
	require.NoError(t, err)
	require.NotNil(t, batch.Flags().Lookup("workers"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, &RootOptions{}, "--format", "yaml", "rules", "check", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proof.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store: { path: from-file.db }
policy: { shared_default_graph: false, allow_axioms: true }
explain: { workers: 2 }
`), 0o644))

	opts := &RootOptions{ConfigPath: path}
	cfg, err := opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.Store.Path)
	assert.False(t, cfg.Policy.SharedDefaultGraph)
	assert.Equal(t, 2, cfg.Explain.Workers)
	assert.Equal(t, "info", cfg.Log.Level)

	opts = &RootOptions{ConfigPath: path, Database: "flag.db", Verbose: true}
	cfg, err = opts.loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "flag.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_Missing(t *testing.T) {
	opts := &RootOptions{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")}
	_, err := opts.loadConfig()
	require.Error(t, err)
}
