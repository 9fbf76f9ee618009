package sh

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/juju/errors"
)

type DirectoryPath string

// CommandError is returned when a command could not be started or exited non-zero.
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecuteCommand runs name with args in cwd without a shell and returns the trimmed combined output.
// An empty cwd runs the command in the current working directory.
func ExecuteCommand(ctx context.Context, cwd DirectoryPath, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = string(cwd)
	cmd.Env = os.Environ()
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return output, &CommandError{
			Command:  strings.Join(append([]string{name}, args...), " "),
			ExitCode: exitCode,
			Output:   output,
			Err:      err,
		}
	}
	return output, nil
}
