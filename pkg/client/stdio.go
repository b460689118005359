package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Subprocess runs a server as a child process and exposes a Client over its
// stdio. The child's stderr passes through to this process so server logs
// stay visible next to client output.
type Subprocess struct {
	*Client

	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// Spawn starts the given command and connects a client to its stdin and
// stdout.
func Spawn(ctx context.Context, name string, args ...string) (*Subprocess, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start server process: %w", err)
	}

	return &Subprocess{
		Client: New(stdout, stdin),
		cmd:    cmd,
		stdin:  stdin,
	}, nil
}

// Close closes the server's input, which a well-behaved server treats as
// shutdown, and waits for the process to exit.
func (s *Subprocess) Close() error {
	if err := s.stdin.Close(); err != nil && s.cmd.ProcessState == nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
		return fmt.Errorf("failed to close server stdin: %w", err)
	}
	return s.cmd.Wait()
}
