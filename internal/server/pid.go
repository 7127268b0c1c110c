package server

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shirou/gopsutil/v3/process"
)

// pidFile manages the PID file for the server
type pidFile struct {
	path string
}

// newPIDFile creates a new PID file manager. An empty path falls back to
// ~/.clipvault/clipvaultd.pid.
func newPIDFile(path string) (*pidFile, error) {
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, ".clipvault", "clipvaultd.pid")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create PID directory: %w", err)
	}

	return &pidFile{path: path}, nil
}

// write writes the current process PID to the PID file
func (p *pidFile) write() error {
	pid := os.Getpid()
	return os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0644)
}

// read reads the PID from the PID file
func (p *pidFile) read() (int, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	pid, err := strconv.Atoi(string(data))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}

	return pid, nil
}

// remove removes the PID file
func (p *pidFile) remove() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// isRunning checks if a process with the given PID is running, via
// gopsutil's cross-platform PidExists rather than a raw signal probe
// (syscall.Signal(0) has no meaning on Windows, where os.FindProcess
// always succeeds regardless of whether the PID is live).
func isRunning(pid int) bool {
	running, err := process.PidExists(int32(pid))
	if err != nil {
		return false
	}
	return running
}

// killProcess attempts to kill a process with the given PID: a graceful
// Terminate first (SIGTERM on Unix, TerminateProcess on Windows), then a
// forceful Kill if the process survives.
func killProcess(pid int) error {
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := proc.Terminate(); err != nil {
		if err := proc.Kill(); err != nil {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}

	return nil
}
