package config

import (
	"time"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/backporter/pkg/infra/git"
	"github.com/urfave/cli/v3"
)

// Git holds configuration of the local checkout backports are replayed in
type Git struct {
	RepoDir     string
	Remote      string
	Trunk       string
	GitPath     string
	StepTimeout time.Duration
}

// Flag names that a policy file may also set
const (
	flagGitRemote      = "git-remote"
	flagTrunkBranch    = "trunk-branch"
	flagGitStepTimeout = "git-step-timeout"
)

// Flags returns CLI flags for git configuration
func (c *Git) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repo-dir",
			Usage:       "Path to the git checkout",
			Value:       ".",
			Destination: &c.RepoDir,
			Sources:     cli.EnvVars("BACKPORTER_REPO_DIR", "GITHUB_WORKSPACE"),
		},
		&cli.StringFlag{
			Name:        flagGitRemote,
			Usage:       "Remote to fetch from and push to",
			Value:       types.DefaultRemote,
			Destination: &c.Remote,
			Sources:     cli.EnvVars("BACKPORTER_GIT_REMOTE"),
		},
		&cli.StringFlag{
			Name:        flagTrunkBranch,
			Usage:       "Only changes merged into this branch are backported",
			Value:       types.DefaultTrunkBranch,
			Destination: &c.Trunk,
			Sources:     cli.EnvVars("BACKPORTER_TRUNK_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "git-path",
			Usage:       "git executable",
			Value:       "git",
			Destination: &c.GitPath,
			Sources:     cli.EnvVars("BACKPORTER_GIT_PATH"),
		},
		&cli.DurationFlag{
			Name:        flagGitStepTimeout,
			Usage:       "Timeout of a single git command",
			Value:       git.DefaultStepTimeout,
			Destination: &c.StepTimeout,
			Sources:     cli.EnvVars("BACKPORTER_GIT_STEP_TIMEOUT"),
		},
	}
}

// NewRepository returns a git client operating on the configured checkout
func (c *Git) NewRepository() interfaces.GitRepository {
	opts := []git.ExecOption{git.WithTimeout(c.StepTimeout)}
	if c.GitPath != "" {
		opts = append(opts, git.WithGitPath(c.GitPath))
	}
	return git.NewClient(git.NewExecExecutor(c.RepoDir, opts...), c.Remote)
}

// TrunkBranch returns the configured trunk as a branch name
func (c *Git) TrunkBranch() types.BranchName {
	return types.BranchName(c.Trunk)
}
