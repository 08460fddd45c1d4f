// Package editor hands long-form text to the user's $VISUAL or $EDITOR.
package editor

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// commentPrefix marks instruction lines that are stripped on read. Hashtags
// start with '#', so '#' cannot be used.
const commentPrefix = ";;"

const instructions = `;; cancelme: write your caption below.
;; Hashtags like #lol in the text become tags of the post.
;; Save and quit to keep the text; an empty file keeps the old one.
;; Lines starting with ;; are ignored.
`

// EnvEditor prepares an external editor command. It does not run the
// editor; callers pass the command to tea.ExecProcess so the terminal is
// released while it runs.
type EnvEditor struct {
	fallback string
}

// NewEnvEditor creates an EnvEditor falling back to vi.
func NewEnvEditor() *EnvEditor {
	return &EnvEditor{fallback: "vi"}
}

// command resolves $VISUAL, then $EDITOR, then the fallback. Values with
// arguments such as "code -w" are split on spaces.
func (e *EnvEditor) command() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{e.fallback}
}

// Cmd writes content under the instruction header to a temp file and
// returns the editor command for it.
func (e *EnvEditor) Cmd(content string) (*exec.Cmd, string, error) {
	tmp, err := os.CreateTemp("", "cancelme-*.txt")
	if err != nil {
		return nil, "", fmt.Errorf("creating temp file: %w", err)
	}
	path := tmp.Name()
	defer tmp.Close()

	if _, err := tmp.WriteString(instructions + content); err != nil {
		os.Remove(path)
		return nil, "", fmt.Errorf("writing to temp file: %w", err)
	}

	argv := append(e.command(), path)
	return exec.Command(argv[0], argv[1:]...), path, nil
}

// ReadContent reads the edited file without instruction lines, trims it and
// removes the file.
func (e *EnvEditor) ReadContent(path string) (string, error) {
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), commentPrefix) {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return "", fmt.Errorf("reading temp file: %w", err)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
