package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorCommand(t *testing.T) {
	cmd, err := EditorCommand("vim", "/tmp/task.md")
	require.NoError(t, err)
	assert.Equal(t, "vim", cmd.Program)
	assert.Equal(t, []string{"/tmp/task.md"}, cmd.Args)

	cmd, err = EditorCommand("  code --wait ", "/tmp/task.md")
	require.NoError(t, err)
	assert.Equal(t, "code", cmd.Program)
	assert.Equal(t, []string{"--wait", "/tmp/task.md"}, cmd.Args)

	_, err = EditorCommand("   ", "/tmp/task.md")
	assert.Error(t, err)
}
