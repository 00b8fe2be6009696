package git

import (
	"context"
	"strings"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type client struct {
	executor CommandExecutor
	remote   string
}

// NewClient creates a GitRepository for the checkout served by executor
func NewClient(executor CommandExecutor, remote string) interfaces.GitRepository {
	if remote == "" {
		remote = types.DefaultRemote
	}
	return &client{
		executor: executor,
		remote:   remote,
	}
}

// run executes args and turns a non-zero exit into an error carrying stderr
func (c *client) run(ctx context.Context, args ...string) (*model.CommandResult, error) {
	result, err := c.executor.Run(ctx, args...)
	if err != nil {
		return result, err
	}
	if !result.Success() {
		return result, goerr.New("git command failed",
			goerr.T(types.ErrTagGitCommand),
			goerr.V("args", args),
			goerr.V("exit_code", result.ExitCode),
			goerr.V("stderr", strings.TrimSpace(result.Stderr)))
	}
	return result, nil
}

func (c *client) ConfigureIdentity(ctx context.Context, name, email string) error {
	if _, err := c.run(ctx, "config", "--global", "user.name", name); err != nil {
		return goerr.Wrap(err, "failed to set user.name")
	}
	if _, err := c.run(ctx, "config", "--global", "user.email", email); err != nil {
		return goerr.Wrap(err, "failed to set user.email")
	}
	return nil
}

func (c *client) RestoreCheckout(ctx context.Context) error {
	head, err := c.executor.Run(ctx, "rev-parse", "-q", "--verify", "CHERRY_PICK_HEAD")
	if err != nil {
		return goerr.Wrap(err, "failed to inspect pending cherry-pick")
	}
	if head.Success() {
		if _, err := c.run(ctx, "cherry-pick", "--abort"); err != nil {
			// --quit forgets the sequencer state when abort cannot rewind it
			if _, err := c.run(ctx, "cherry-pick", "--quit"); err != nil {
				return goerr.Wrap(err, "failed to drop pending cherry-pick")
			}
		}
	}
	if _, err := c.run(ctx, "reset", "--hard"); err != nil {
		return goerr.Wrap(err, "failed to reset working tree")
	}
	return nil
}

func (c *client) FetchAll(ctx context.Context) error {
	if _, err := c.run(ctx, "remote", "update", "--prune"); err != nil {
		return goerr.Wrap(err, "failed to update remotes")
	}
	return nil
}

func (c *client) CreateBranch(ctx context.Context, branch, from types.BranchName) error {
	start := c.remote + "/" + from.String()
	if _, err := c.run(ctx, "checkout", "-b", branch.String(), start); err != nil {
		return goerr.Wrap(err, "failed to create branch",
			goerr.V("branch", branch),
			goerr.V("start_point", start))
	}
	return nil
}

func (c *client) CherryPick(ctx context.Context, sha types.CommitSHA) (*model.CommandResult, error) {
	return c.executor.Run(ctx,
		"cherry-pick",
		"-m", "1",
		"--strategy=recursive",
		"--strategy-option=theirs",
		sha.String(),
	)
}

func (c *client) ContinueCherryPick(ctx context.Context) (*model.CommandResult, error) {
	return c.executor.Run(ctx, "cherry-pick", "--continue")
}

func (c *client) SkipCherryPick(ctx context.Context) error {
	if _, err := c.run(ctx, "cherry-pick", "--skip"); err != nil {
		return goerr.Wrap(err, "failed to skip empty cherry-pick")
	}
	return nil
}

func (c *client) AbortCherryPick(ctx context.Context) error {
	if _, err := c.run(ctx, "cherry-pick", "--abort"); err != nil {
		return goerr.Wrap(err, "failed to abort cherry-pick")
	}
	return nil
}

func (c *client) Push(ctx context.Context, branch types.BranchName) error {
	if _, err := c.run(ctx, "push", "--set-upstream", c.remote, branch.String()); err != nil {
		return goerr.Wrap(err, "failed to push branch", goerr.V("branch", branch))
	}
	return nil
}
