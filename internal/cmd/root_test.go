package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("help runs without error", func(t *testing.T) {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetArgs([]string{"--help"})
		require.NoError(t, rootCmd.Execute())
		assert.Contains(t, buf.String(), "cronsched")
	})

	t.Run("all subcommands are registered", func(t *testing.T) {
		for _, name := range []string{"next", "explain", "validate", "diff", "import", "status", "run"} {
			found, _, err := rootCmd.Find([]string{name})
			require.NoError(t, err, name)
			assert.Equal(t, name, found.Name())
		}
	})
}
