package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSuite_Testdata(t *testing.T) {
	result, err := RunSuite(context.Background(), filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalScenarios)
	assert.Equal(t, 4, result.Passed)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Failures)
}

func TestRunSuite_MixedResults(t *testing.T) {
	dir := t.TempDir()
	rules, err := filepath.Abs(filepath.Join("testdata", "rules", "owl"))
	require.NoError(t, err)

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("a_pass.yaml", `
name: pass
description: "asserted fact"
rules: `+rules+`
data: "<urn:a> <urn:b> <urn:c> ."
explain:
  - target: "<urn:a> <urn:b> <urn:c> ."
    expect: {explicit: true}
`)
	write("b_fail.yml", `
name: fail
description: "wrong expectation"
rules: `+rules+`
data: "<urn:a> <urn:b> <urn:c> ."
explain:
  - target: "<urn:a> <urn:b> <urn:c> ."
    expect: {count: 2}
`)
	write("c_broken.yaml", "name: broken\n")
	write("notes.txt", "not a scenario")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0o755))

	result, err := RunSuite(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalScenarios)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 2, result.Failed)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, filepath.Join(dir, "b_fail.yml"), result.Failures[0].ScenarioPath)
	assert.Contains(t, result.Failures[0].Error, "scenario assertions failed")
	assert.Equal(t, filepath.Join(dir, "c_broken.yaml"), result.Failures[1].ScenarioPath)
	assert.Contains(t, result.Failures[1].Error, "failed to load scenario")
}

func TestRunSuite_MissingDir(t *testing.T) {
	_, err := RunSuite(context.Background(), filepath.Join(t.TempDir(), "none"))
	require.Error(t, err)
}

func TestFindScenarios_Sorted(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	require.Len(t, paths, 4)
	assert.Equal(t, "family.yaml", filepath.Base(paths[0]))
	assert.Equal(t, "inference_disabled.yaml", filepath.Base(paths[1]))
	assert.Equal(t, "lassie.yaml", filepath.Base(paths[2]))
	assert.Equal(t, "named_graphs.yaml", filepath.Base(paths[3]))
}
