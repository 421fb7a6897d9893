package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"
)

// errEmptyCommand is returned when a command line has no executable.
var errEmptyCommand = errors.New("command is empty")

// Runner starts helper processes.
type Runner interface {
	// Start launches a detached process and returns once it has started.
	Start(ctx context.Context, argv []string, env []string) error
	// Run executes a short-lived process and waits for it to exit.
	Run(ctx context.Context, argv []string, env []string) error
}

// ProcessFinder reports whether a process with the given executable name is running.
type ProcessFinder func(name string) (bool, error)

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct{}

// NewExecRunner returns a Runner that uses os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Start launches argv detached from ctx so the process outlives the request that started it.
func (r *ExecRunner) Start(_ context.Context, argv []string, env []string) error {
	if len(argv) == 0 {
		return errEmptyCommand
	}

	//nolint:gosec // Commands come from the operator's configuration file.
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", argv[0], err)
	}

	// Reap the child so it does not linger as a zombie.
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// Run executes argv and waits for it to finish.
func (r *ExecRunner) Run(ctx context.Context, argv []string, env []string) error {
	if len(argv) == 0 {
		return errEmptyCommand
	}

	//nolint:gosec // Commands come from the operator's configuration file.
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), env...)

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("run %s: %w (output: %s)", argv[0], err, strings.TrimSpace(string(output)))
	}

	return nil
}

// linuxCommLength is how many bytes of the executable name the Linux process table keeps.
const linuxCommLength = 15

// ProcessRunning looks the executable name up in the process table.
// The comparison ignores the ".exe" suffix and, on Windows, letter case.
func ProcessRunning(name string) (bool, error) {
	want := normalizeExecutable(name)
	if want == "" {
		return false, nil
	}

	if runtime.GOOS == "linux" && len(want) > linuxCommLength {
		want = want[:linuxCommLength]
	}

	processes, err := ps.Processes()
	if err != nil {
		return false, fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processes {
		if normalizeExecutable(process.Executable()) == want {
			return true, nil
		}
	}

	return false, nil
}

// normalizeExecutable strips directories and the Windows extension from name.
func normalizeExecutable(name string) string {
	name = strings.TrimSuffix(filepath.Base(strings.TrimSpace(name)), ".exe")
	if name == "." {
		return ""
	}

	if runtime.GOOS == "windows" {
		return strings.ToLower(name)
	}

	return name
}
