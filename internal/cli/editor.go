package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/three-daily-goals/internal/domain"
	"github.com/runoshun/three-daily-goals/internal/infra/executor"
)

// openEditorFunc opens a file in the user's editor, allowing it to be mocked in tests.
var openEditorFunc = openEditor

var editorExecutor domain.CommandExecutor = executor.NewClient()

// getEditor returns the user's preferred editor from environment variables.
// It checks VISUAL, then EDITOR, and defaults to vi if neither is set.
func getEditor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := strings.TrimSpace(os.Getenv(env)); editor != "" {
			return editor
		}
	}
	return "vi"
}

// openEditor opens the specified file in the user's editor.
// The editor value may carry arguments, e.g. "code --wait".
func openEditor(filePath string) error {
	cmd, err := domain.EditorCommand(getEditor(), filePath)
	if err != nil {
		return err
	}
	if err := editorExecutor.ExecuteInteractive(cmd); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}

// editText writes content to a temporary file, opens it in the editor and
// returns what the user saved.
func editText(pattern, content string) (string, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.WriteString(content); err != nil {
		_ = tmpFile.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	if err := openEditorFunc(tmpPath); err != nil {
		return "", err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(edited), nil
}
