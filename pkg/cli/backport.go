package cli

import (
	"context"

	"github.com/m-mizutani/backporter/pkg/cli/config"
	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
)

// backportConfig gathers what both run and serve need to build the backport use case
type backportConfig struct {
	github config.GitHub
	git    config.Git
	policy config.Policy
	slack  config.Slack
}

func (x *backportConfig) newUseCase(ctx context.Context) (interfaces.BackportUseCase, error) {
	githubClient, err := x.github.NewClient()
	if err != nil {
		return nil, err
	}

	opts := []usecase.BackportOption{
		usecase.WithTrunkBranch(x.git.TrunkBranch()),
	}

	notifier, err := x.slack.NewNotifier(x.policy.Model())
	if err != nil {
		return nil, err
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}

	ctxlog.From(ctx).Info("Backport configured",
		"repo_dir", x.git.RepoDir,
		"remote", x.git.Remote,
		"trunk", x.git.Trunk,
		"step_timeout", x.git.StepTimeout,
		"fail_on_conflict", x.policy.FailOnConflict,
		"github", x.github,
		"slack", notifier != nil,
	)

	return usecase.NewBackport(x.git.NewRepository(), githubClient, opts...), nil
}
