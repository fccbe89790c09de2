package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScledemoCommand(t *testing.T) {
	cmd := NewScledemoCommand()

	require.NotNil(t, cmd)
	assert.Equal(t, "scledemo", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	subcommands := cmd.Commands()
	require.Len(t, subcommands, 1)
	assert.Equal(t, "run", subcommands[0].Name())
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.kts"), []byte("original\n"), 0o644))

	t.Run("first load auto-applies with no prior configuration", func(t *testing.T) {
		out := executeRun(t, "--dir", dir)

		assert.Contains(t, out, "loaded, 9 bytes, pending=false")
	})

	t.Run("edit, suggest, accept", func(t *testing.T) {
		out := executeRun(t, "--dir", dir, "--edit", "build.kts", "--edit-text", "changed\n", "--accept")

		assert.Contains(t, out, "edit: "+filepath.Join(dir, "build.kts"))
		assert.Contains(t, out, "suggest: "+filepath.Join(dir, "build.kts"))
		assert.Contains(t, out, "loaded, 8 bytes, pending=false")
	})

	t.Run("edit, suggest, dismiss keeps the prior configuration", func(t *testing.T) {
		out := executeRun(t, "--dir", dir, "--edit", "build.kts", "--edit-text", "another\n", "--dismiss")

		assert.Contains(t, out, "suggest: "+filepath.Join(dir, "build.kts"))
		assert.Contains(t, out, "hide: "+filepath.Join(dir, "build.kts"))
		// the dismissed "another" content is never applied; the prior
		// "changed" configuration (also 8 bytes) is still what's cached.
		assert.Contains(t, out, "loaded, 8 bytes, pending=false")
	})

	t.Run("missing --dir is rejected", func(t *testing.T) {
		cmd := NewScledemoCommand()
		cmd.SetArgs([]string{"run"})
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)

		err := cmd.Execute()
		require.Error(t, err)
	})

	t.Run("unknown edit target errors", func(t *testing.T) {
		cmd := NewScledemoCommand()
		cmd.SetArgs([]string{"run", "--dir", dir, "--edit", "missing.kts"})
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		cmd.SetErr(&buf)

		err := cmd.Execute()
		require.Error(t, err)
	})
}

func executeRun(t *testing.T, args ...string) string {
	t.Helper()

	cmd := NewScledemoCommand()
	cmd.SetArgs(append([]string{"run"}, args...))
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)

	require.NoError(t, cmd.Execute())

	return buf.String()
}
