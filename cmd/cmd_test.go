package cmd

import (
	"path/filepath"
	"testing"

	"github.com/encodeous/dvnode/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesTriangle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.yaml")

	rootCmd.SetArgs([]string{"init", "-t", path})
	require.NoError(t, rootCmd.Execute())

	cfg, err := state.LoadTopology(path)
	require.NoError(t, err)
	expected := state.TriangleTopology()
	assert.Equal(t, &expected, cfg)

	// refuses to overwrite
	rootCmd.SetArgs([]string{"init", "-t", path})
	assert.Error(t, rootCmd.Execute())
}

func TestInitWithExtraNodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.yaml")

	rootCmd.SetArgs([]string{"init", "-t", path, "--nodes", "5", "--force"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := state.LoadTopology(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.NumNodes)
	assert.Len(t, cfg.Links, 3)
}

func TestInspectRejectsNegativeNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topology.yaml")
	cfg := state.TriangleTopology()
	require.NoError(t, state.WriteTopology(path, &cfg))

	rootCmd.SetArgs([]string{"inspect", "-t", path, "--node=-1"})
	err := rootCmd.Execute()
	require.ErrorIs(t, err, state.ErrUnknownNode)
}
