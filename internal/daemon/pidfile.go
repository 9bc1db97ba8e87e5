package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// ErrAlreadyRunning is returned by PIDFile.Acquire when a live daemon holds
// the file.
var ErrAlreadyRunning = errors.New("daemon already running")

// RuntimeState is written next to the pid file while a daemon runs.
type RuntimeState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataDir   string    `json:"data_dir"`
}

// PIDFile is a daemon pid file plus its JSON state sidecar (Path + ".json").
type PIDFile struct {
	Path string
}

func (p PIDFile) statePath() string { return p.Path + ".json" }

// CheckFree succeeds when no live process holds the file. Stale files are
// removed.
func (p PIDFile) CheckFree() error {
	pid, err := p.PID()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return err
	case ProcessAlive(pid):
		return fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, pid)
	}
	p.Release()
	return nil
}

// Acquire records st as the running daemon.
func (p PIDFile) Acquire(st RuntimeState) error {
	if err := p.CheckFree(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	if err := os.WriteFile(p.Path, []byte(strconv.Itoa(st.PID)+"\n"), 0o600); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	// The sidecar only helps `daemon status` find the address.
	_ = os.WriteFile(p.statePath(), append(data, '\n'), 0o600)
	return nil
}

// Release removes the pid file and its sidecar.
func (p PIDFile) Release() {
	_ = os.Remove(p.Path)
	_ = os.Remove(p.statePath())
}

// PID reads the recorded process ID.
func (p PIDFile) PID() (int, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid in %s", p.Path)
	}
	return pid, nil
}

// State reads the sidecar written by Acquire.
func (p PIDFile) State() (RuntimeState, error) {
	var st RuntimeState
	data, err := os.ReadFile(p.statePath())
	if err != nil {
		return st, err
	}
	err = json.Unmarshal(data, &st)
	return st, err
}

// Stop sends SIGTERM to the recorded process and waits up to timeout for it
// to exit.
func (p PIDFile) Stop(timeout time.Duration) (int, error) {
	pid, err := p.PID()
	if err != nil {
		return 0, errors.New("daemon is not running")
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return pid, fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return pid, fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !ProcessAlive(pid) {
			p.Release()
			return pid, nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return pid, fmt.Errorf("daemon (pid %d) did not exit in time", pid)
}

// ProcessAlive reports whether pid names a running process.
func ProcessAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
