package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/three-daily-goals/internal/domain"
)

type recordingExecutor struct {
	cmds []*domain.ExecCommand
}

func (r *recordingExecutor) ExecuteInteractive(cmd *domain.ExecCommand) error {
	r.cmds = append(r.cmds, cmd)
	return nil
}

func TestGetEditor(t *testing.T) {
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "")
	assert.Equal(t, "vi", getEditor())

	t.Setenv("EDITOR", "nano")
	assert.Equal(t, "nano", getEditor())

	t.Setenv("VISUAL", "code --wait")
	assert.Equal(t, "code --wait", getEditor())
}

func TestOpenEditor(t *testing.T) {
	rec := &recordingExecutor{}
	original := editorExecutor
	editorExecutor = rec
	t.Cleanup(func() { editorExecutor = original })
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "hx -c cfg")

	require.NoError(t, openEditor("/tmp/task.md"))

	require.Len(t, rec.cmds, 1)
	assert.Equal(t, "hx", rec.cmds[0].Program)
	assert.Equal(t, []string{"-c", "cfg", "/tmp/task.md"}, rec.cmds[0].Args)
}

func TestEditText(t *testing.T) {
	original := openEditorFunc
	t.Cleanup(func() { openEditorFunc = original })
	openEditorFunc = func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(path, append(data, []byte("edited\n")...), 0o600)
	}

	out, err := editText("tdg-*.md", "draft\n")

	require.NoError(t, err)
	assert.Equal(t, "draft\nedited\n", out)
}
