package app

import "os/exec"

// Editor prepares an external editor session for long-form text.
// Implemented by infrastructure (infra/editor spawning $EDITOR); the TUI runs
// the returned command through tea.ExecProcess.
type Editor interface {
	Cmd(content string) (*exec.Cmd, string, error)
	ReadContent(path string) (string, error)
}
