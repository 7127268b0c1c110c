// Package shell implements the external Shell Service the Paste
// Dispatcher invokes for command clips: it runs a clip's stored value as
// a shell command and reports stdout. The working directory falls back
// from RequestOptions.ExecHomeDir to the user's home directory, the
// shell is chosen per OS, and non-empty stderr counts as failure.
package shell

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/clipvault/clipvault/internal/model"
)

// Service runs shell commands for command clips, implementing
// paste.ShellService.
type Service struct {
	log *zap.SugaredLogger
}

// New builds a shell Service.
func New(log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{log: log}
}

// Run executes command in opts.ExecHomeDir (or the user's home
// directory, falling back to "/" when that can't be resolved), via
// "sh -c" on Unix and "cmd /C" on Windows, returning trimmed stdout.
// Non-empty stderr is treated as a command failure.
func (s *Service) Run(command string, opts model.RequestOptions) (string, error) {
	dir := opts.ExecHomeDir
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home
		} else {
			dir = "/"
		}
	}

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/C", command)
	} else {
		cmd = exec.Command("sh", "-c", command)
	}
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		s.log.Warnw("shell: command failed", "command", command, "error", err)
		return "", fmt.Errorf("shell: running command: %w", err)
	}

	out := strings.TrimSpace(stdout.String())
	if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
		return "", fmt.Errorf("shell: %s\n%s", errOut, out)
	}
	return out, nil
}
