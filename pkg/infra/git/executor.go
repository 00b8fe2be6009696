package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultStepTimeout bounds a single git subprocess
const DefaultStepTimeout = 2 * time.Minute

// CommandExecutor runs git subcommands in a working directory
type CommandExecutor interface {
	// Run executes git with args. A non-zero exit is reported through
	// CommandResult.ExitCode, not as error.
	Run(ctx context.Context, args ...string) (*model.CommandResult, error)
}

// ExecExecutor is the default CommandExecutor backed by os/exec
type ExecExecutor struct {
	dir     string
	timeout time.Duration
	gitPath string
}

// ExecOption configures ExecExecutor
type ExecOption func(*ExecExecutor)

// WithTimeout sets the per-command timeout. Zero disables it.
func WithTimeout(d time.Duration) ExecOption {
	return func(e *ExecExecutor) {
		e.timeout = d
	}
}

// WithGitPath overrides the git binary
func WithGitPath(path string) ExecOption {
	return func(e *ExecExecutor) {
		e.gitPath = path
	}
}

// NewExecExecutor creates an executor running git in dir
func NewExecExecutor(dir string, opts ...ExecOption) *ExecExecutor {
	e := &ExecExecutor{
		dir:     dir,
		timeout: DefaultStepTimeout,
		gitPath: "git",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run implements CommandExecutor.Run
func (e *ExecExecutor) Run(ctx context.Context, args ...string) (*model.CommandResult, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.gitPath, args...)
	cmd.Dir = e.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Never block on an editor or a credential prompt
	cmd.Env = append(os.Environ(),
		"GIT_EDITOR=true",
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	ctxlog.From(ctx).Debug("Running git command", "args", args, "dir", e.dir)

	err := cmd.Run()
	result := &model.CommandResult{
		Args:   args,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, goerr.Wrap(ctxErr, "git command cancelled or timed out",
			goerr.T(types.ErrTagGitCommand),
			goerr.V("args", args),
			goerr.V("timeout", e.timeout.String()))
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, goerr.Wrap(err, "failed to run git command",
			goerr.T(types.ErrTagGitCommand),
			goerr.V("args", args),
			goerr.V("dir", e.dir))
	}

	return result, nil
}
