package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/term"

	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
	"github.com/OpenRouterTeam/spawn-sub007/internal/retry"
)

// CommandRunner executes external commands. Vendors share one SSH-based
// implementation of run/upload/waitReady; tests substitute a fake.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (string, int, error)
}

// ExecRunner executes commands with os/exec.
type ExecRunner struct{}

// Run executes a command and returns combined output and exit code.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	output := out.String()
	if err == nil {
		return output, 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, exitErr.ExitCode(), fmt.Errorf("%s failed: %w", name, err)
	}
	return output, -1, fmt.Errorf("%s failed: %w", name, err)
}

var baseSSHArgs = []string{
	"-o", "StrictHostKeyChecking=accept-new",
	"-o", "ConnectTimeout=10",
}

// sshClient implements the SSH-backed half of the capability contract,
// shared by every vendor whose servers expose plain SSH.
type sshClient struct {
	runner  CommandRunner
	pollCfg retry.Config
}

func newSSHClient(runner CommandRunner) sshClient {
	if runner == nil {
		runner = ExecRunner{}
	}
	return sshClient{runner: runner, pollCfg: retry.PollConfig()}
}

func (c sshClient) run(ctx context.Context, server *domain.ServerInfo, command string) (string, error) {
	args := append(append([]string{}, baseSSHArgs...), "-o", "BatchMode=yes", server.Address(), command)
	out, code, err := c.runner.Run(ctx, "ssh", args...)
	if err != nil {
		return out, fmt.Errorf("remote command exited with status %d: %w", code, err)
	}
	return out, nil
}

func (c sshClient) upload(ctx context.Context, server *domain.ServerInfo, localPath, remotePath string) error {
	args := append(append([]string{}, baseSSHArgs...), localPath, server.Address()+":"+remotePath)
	if out, code, err := c.runner.Run(ctx, "scp", args...); err != nil {
		return fmt.Errorf("upload exited with status %d: %w (%s)", code, err, out)
	}
	return nil
}

// waitReady polls SSH until the host accepts a trivial command. Server
// creation APIs return before sshd is reachable, so this backoff layer is
// deliberate and separate from the executor's whole-script retry.
func (c sshClient) waitReady(ctx context.Context, server *domain.ServerInfo) error {
	err := retry.Do(ctx, c.pollCfg, func(error) bool { return true }, func() error {
		_, err := c.run(ctx, server, "true")
		return err
	})
	if err != nil {
		return fmt.Errorf("server %s did not become reachable: %w", server.ID, err)
	}
	return nil
}

// interactive hands the caller's terminal to an SSH session. It bypasses
// the CommandRunner because it needs the real stdio attached.
func (c sshClient) interactive(ctx context.Context, server *domain.ServerInfo, command string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("interactive session requires a terminal")
	}

	args := append(append([]string{}, baseSSHArgs...), "-t", server.Address())
	if command != "" {
		args = append(args, command)
	}

	cmd := exec.CommandContext(ctx, "ssh", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("interactive session ended: %w", err)
	}
	return nil
}
