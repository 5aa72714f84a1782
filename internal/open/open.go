// Package open launches $EDITOR on a session log file, positioned at a
// given line when the editor supports it.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Session opens the log file in the user's editor at lineNum (1-based).
// Without $EDITOR it falls back to less, which handles huge JSONL files
// better than most editors anyway.
func Session(path string, lineNum int) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("session file not found: %s", path)
	}
	if lineNum < 1 {
		lineNum = 1
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, path, lineNum)
}

func openInEditor(editor, filePath string, lineNum int) error {
	var cmd *exec.Cmd

	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		cmd = exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		cmd = exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		cmd = exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		cmd = exec.Command(editor, filePath)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
