package gateways

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Terminal reads operator input one line at a time and spawns inspection
// shells. Reads block with no timeout: an unattended run hangs at the prompt
// rather than proceeding past a pending approval.
type Terminal struct {
	in *bufio.Reader
}

// NewTerminal creates a terminal reading from stdin.
func NewTerminal() *Terminal {
	return &Terminal{
		in: bufio.NewReader(os.Stdin),
	}
}

// ReadLine blocks for one line of input, returned lower-cased and trimmed.
// A closed input stream reads as an abort, since approval can no longer be
// given.
func (t *Terminal) ReadLine() string {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "q"
	}
	return strings.ToLower(strings.TrimSpace(line))
}

// RunShell spawns the operator's shell rooted at dir and waits for it to
// exit.
func (t *Terminal) RunShell(dir string) error {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "bash"
	}
	cmd := exec.Command(shell)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("inspection shell failed: %w", err)
	}
	return nil
}

// ScriptedTerminal replays a fixed sequence of input lines; it exists for
// tests that drive the interactive loops without a terminal.
type ScriptedTerminal struct {
	Lines    []string
	ShellLog []string
	pos      int
}

// ReadLine returns the next scripted line, or "q" once the script runs out.
func (t *ScriptedTerminal) ReadLine() string {
	if t.pos >= len(t.Lines) {
		return "q"
	}
	line := t.Lines[t.pos]
	t.pos++
	return strings.ToLower(strings.TrimSpace(line))
}

// RunShell records the requested directory instead of spawning a shell.
func (t *ScriptedTerminal) RunShell(dir string) error {
	t.ShellLog = append(t.ShellLog, dir)
	return nil
}
