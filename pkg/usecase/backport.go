package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/backporter/pkg/utils/errs"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// BackportOption configures the backport use case
type BackportOption func(*backportUseCase)

// WithTrunkBranch sets the branch a change must be merged into to be backported
func WithTrunkBranch(branch types.BranchName) BackportOption {
	return func(uc *backportUseCase) {
		uc.syncer.trunk = branch
	}
}

// WithConflictDetector replaces the default MarkerDetector
func WithConflictDetector(detector ConflictDetector) BackportOption {
	return func(uc *backportUseCase) {
		uc.replay.detector = detector
	}
}

// WithNotifier sets a notifier receiving every finished, non-skipped run
func WithNotifier(notifier interfaces.Notifier) BackportOption {
	return func(uc *backportUseCase) {
		uc.notifier = notifier
	}
}

// WithClock replaces time.Now for working branch stamps
func WithClock(now func() time.Time) BackportOption {
	return func(uc *backportUseCase) {
		uc.replay.stamper = newStamper(now)
	}
}

type backportUseCase struct {
	// one shared checkout: runs never overlap
	mu sync.Mutex

	repo     interfaces.GitRepository
	syncer   *branchSynchronizer
	replay   *replayExecutor
	publish  *publishGate
	notifier interfaces.Notifier
}

// NewBackport creates a new instance of BackportUseCase
func NewBackport(repo interfaces.GitRepository, githubClient interfaces.GitHubClient, opts ...BackportOption) interfaces.BackportUseCase {
	uc := &backportUseCase{
		repo: repo,
		syncer: &branchSynchronizer{
			repo:  repo,
			trunk: types.DefaultTrunkBranch,
		},
		replay: &replayExecutor{
			repo:     repo,
			detector: NewMarkerDetector(),
			stamper:  newStamper(nil),
		},
		publish: &publishGate{
			repo:   repo,
			github: githubClient,
		},
	}

	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run backports cr to every release line named by its labels, one target at a time.
// A failing target never stops the loop; only configuration problems return an error.
func (uc *backportUseCase) Run(ctx context.Context, cr *model.ChangeRequest) (*model.RunOutcome, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	outcome := &model.RunOutcome{RunID: types.NewRunID()}
	logger := ctxlog.From(ctx).With(
		"run_id", outcome.RunID,
		"repo", cr.FullName(),
		"pr", cr.Number,
	)
	ctx = ctxlog.With(ctx, logger)

	if !uc.syncer.mergedIntoTrunk(cr) {
		outcome.Skipped = true
		outcome.SkipReason = fmt.Sprintf("base branch %q is not trunk %q", cr.BaseBranch, uc.syncer.trunk)
		logger.Info("Skip backport: not merged into trunk",
			"base", cr.BaseBranch,
			"trunk", uc.syncer.trunk,
		)
		return outcome, nil
	}

	if err := cr.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid change request", goerr.T(types.ErrTagConfiguration))
	}

	targets := ExtractTargets(cr.Labels)
	if len(targets) == 0 {
		outcome.Skipped = true
		outcome.SkipReason = "no release labels"
		logger.Info("Skip backport: no release labels", "labels", cr.Labels)
		return outcome, nil
	}

	logger.Info("Start backport",
		"targets", targets,
		"merge_sha", cr.MergeSHA,
	)

	if err := configureIdentity(ctx, uc.repo, cr.Author); err != nil {
		return nil, err
	}

	for _, target := range targets {
		outcome.Results = append(outcome.Results, uc.processTarget(ctx, cr, target))
	}

	logger.Info("Backport finished",
		"published", outcome.Count(model.ResultPublished),
		"already_applied", outcome.Count(model.ResultAlreadyApplied),
		"conflicted", outcome.Count(model.ResultConflicted),
		"failed", outcome.Count(model.ResultFailed),
	)

	if uc.notifier != nil {
		if err := uc.notifier.NotifyOutcome(ctx, cr, outcome); err != nil {
			errs.Handle(ctx, goerr.Wrap(err, "failed to notify backport outcome"))
		}
	}

	return outcome, nil
}

// processTarget is the failure boundary of one target: errors and panics become a Failed result
func (uc *backportUseCase) processTarget(ctx context.Context, cr *model.ChangeRequest, target types.TargetVersion) (result model.TargetResult) {
	attempt := model.NewReplayAttempt(target)
	ctx = ctxlog.With(ctx, ctxlog.From(ctx).With(
		"target", target,
		"release_branch", attempt.ReleaseBranch,
	))

	defer func() {
		if r := recover(); r != nil {
			attempt.Fail(goerr.New("panic while processing target",
				goerr.V("target", target),
				goerr.V("recover", r)))
			errs.Handle(ctx, attempt.Err)
			result = attempt.Result()
		}
	}()

	if err := uc.runAttempt(ctx, cr, attempt); err != nil {
		attempt.Fail(err)
		errs.Handle(ctx, err, "target", target)
	}

	return attempt.Result()
}

func (uc *backportUseCase) runAttempt(ctx context.Context, cr *model.ChangeRequest, attempt *model.ReplayAttempt) error {
	if err := uc.syncer.Sync(ctx, attempt); err != nil {
		return err
	}

	if err := uc.replay.Execute(ctx, attempt, cr.MergeSHA); err != nil {
		return err
	}

	switch attempt.State {
	case model.StateAlreadyApplied, model.StateConflictDetected:
		return nil
	}

	return uc.publish.Publish(ctx, cr, attempt)
}
