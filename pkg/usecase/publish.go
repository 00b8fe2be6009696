package usecase

import (
	"context"
	"fmt"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

type publishGate struct {
	repo   interfaces.GitRepository
	github interfaces.GitHubClient
}

// Publish pushes the working branch and opens the backport pull request.
// It must only be reached with a Replayed attempt, i.e. no conflict was detected.
func (p *publishGate) Publish(ctx context.Context, cr *model.ChangeRequest, attempt *model.ReplayAttempt) error {
	logger := ctxlog.From(ctx)

	if err := attempt.Require(model.StateReplayed); err != nil {
		return goerr.Wrap(err, "publish requires a clean replay", goerr.T(types.ErrTagPublish))
	}

	logger.Info("Pushing branch", "branch", attempt.WorkBranch)
	if err := p.repo.Push(ctx, attempt.WorkBranch); err != nil {
		return goerr.Wrap(err, "failed to push working branch",
			goerr.T(types.ErrTagPublish),
			goerr.V("branch", attempt.WorkBranch))
	}

	pr, err := p.github.CreatePullRequest(ctx, &model.PullRequestInput{
		Owner: cr.Owner,
		Repo:  cr.Repo,
		Title: cr.Title,
		Body:  pullRequestBody(cr, attempt),
		Head:  cr.Owner + ":" + attempt.WorkBranch.String(),
		Base:  attempt.ReleaseBranch,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to open backport pull request",
			goerr.T(types.ErrTagPublish),
			goerr.V("base", attempt.ReleaseBranch))
	}

	attempt.PullRequestURL = pr.HTMLURL
	if err := attempt.Transition(model.StatePublished); err != nil {
		return err
	}

	logger.Info("Published backport pull request",
		"number", pr.Number,
		"url", pr.HTMLURL,
		"base", attempt.ReleaseBranch,
	)
	return nil
}

func pullRequestBody(cr *model.ChangeRequest, attempt *model.ReplayAttempt) string {
	return fmt.Sprintf("Backport of #%d to `%s`.\n\nCherry-picked from %s.",
		cr.Number, attempt.ReleaseBranch, cr.MergeSHA)
}
