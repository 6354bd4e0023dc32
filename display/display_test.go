package display

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoot() (*cobra.Command, *cobra.Command) {
	root := &cobra.Command{Use: "erbench"}
	root.PersistentFlags().Bool("json", false, "")
	child := &cobra.Command{Use: "runs", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(child)
	return root, child
}

func TestShouldOutputJSON(t *testing.T) {
	assert.False(t, ShouldOutputJSON(nil))

	root, child := newRoot()
	assert.False(t, ShouldOutputJSON(child))

	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	assert.True(t, ShouldOutputJSON(child))
}

func TestShouldOutputJSON_LocalFlag(t *testing.T) {
	root, child := newRoot()
	require.NoError(t, root.PersistentFlags().Set("json", "true"))
	child.Flags().Bool("json", false, "")
	require.NoError(t, child.Flags().Set("json", "false"))

	assert.False(t, ShouldOutputJSON(child), "explicit local flag wins")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, map[string]int{"folds": 2}))
	assert.Equal(t, "{\n  \"folds\": 2\n}\n", buf.String())

	err := WriteJSON(&buf, make(chan int))
	assert.Error(t, err)
}
