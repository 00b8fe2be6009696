package usecase

import (
	"context"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Phrases of git cherry-pick output
const (
	msgNothingToCommit = "nothing to commit"
	msgEmptyPick       = "cherry-pick is now empty"
	msgConflict        = "conflict"
	msgNotInProgress   = "no cherry-pick or revert in progress"
)

type replayExecutor struct {
	repo     interfaces.GitRepository
	detector ConflictDetector
	stamper  *stamper
}

// Execute branches fresh from the remote release tip and replays sha on it.
// On return the attempt is Replayed (ready to publish), AlreadyApplied or ConflictDetected,
// or an error is returned and the caller marks it Failed.
func (x *replayExecutor) Execute(ctx context.Context, attempt *model.ReplayAttempt, sha types.CommitSHA) error {
	logger := ctxlog.From(ctx)

	// The shared checkout may hold another target's state until it has been resynced
	if err := attempt.Require(model.StateSynced); err != nil {
		return goerr.Wrap(err, "replay requires a synced checkout", goerr.T(types.ErrTagReplay))
	}

	attempt.WorkBranch = attempt.Target.WorkBranch(x.stamper.Next())
	logger.Info("Creating branch",
		"branch", attempt.WorkBranch,
		"from", attempt.ReleaseBranch,
	)
	if err := x.repo.CreateBranch(ctx, attempt.WorkBranch, attempt.ReleaseBranch); err != nil {
		return goerr.Wrap(err, "failed to create working branch",
			goerr.T(types.ErrTagReplay),
			goerr.V("branch", attempt.WorkBranch))
	}
	if err := attempt.Transition(model.StateBranchCreated); err != nil {
		return err
	}

	logger.Info("Replaying commit", "sha", sha.Short(), "branch", attempt.WorkBranch)
	result, err := x.repo.CherryPick(ctx, sha)
	if err != nil {
		x.abort(ctx)
		return goerr.Wrap(err, "failed to run cherry-pick",
			goerr.T(types.ErrTagReplay),
			goerr.V("sha", sha))
	}

	switch {
	case result.Success():
		// committed; verification below must find nothing pending

	case isEmptyReplay(result):
		logger.Info("Change is already present on release branch", "sha", sha.Short())
		if err := x.repo.SkipCherryPick(ctx); err != nil {
			x.abort(ctx)
			return goerr.Wrap(err, "failed to drop empty replay", goerr.T(types.ErrTagReplay))
		}
		return attempt.Transition(model.StateAlreadyApplied)

	case result.Contains(msgConflict):
		logger.Info("Replay stopped with conflicts, verifying", "sha", sha.Short())

	default:
		x.abort(ctx)
		return goerr.New("cherry-pick failed",
			goerr.T(types.ErrTagReplay),
			goerr.V("sha", sha),
			goerr.V("exit_code", result.ExitCode),
			goerr.V("stderr", result.Stderr))
	}

	if err := attempt.Transition(model.StateReplayed); err != nil {
		return err
	}

	return x.verify(ctx, attempt)
}

// verify runs the verification command and moves the attempt to ConflictDetected when
// the detector reports unresolved conflicts.
func (x *replayExecutor) verify(ctx context.Context, attempt *model.ReplayAttempt) error {
	logger := ctxlog.From(ctx)

	result, err := x.repo.ContinueCherryPick(ctx)
	if err != nil {
		x.abort(ctx)
		return goerr.Wrap(err, "failed to verify replay", goerr.T(types.ErrTagReplay))
	}

	if x.detector.HasConflict(result) {
		logger.Warn("Conflict detected, aborted",
			"branch", attempt.WorkBranch,
			"diagnostics", result.StderrLines(),
		)
		x.abort(ctx)
		return attempt.Transition(model.StateConflictDetected)
	}

	if !result.Success() && !result.Contains(msgNotInProgress) {
		x.abort(ctx)
		return goerr.New("replay verification failed",
			goerr.T(types.ErrTagReplay),
			goerr.V("exit_code", result.ExitCode),
			goerr.V("stderr", result.Stderr))
	}

	return nil
}

// abort leaves the shared checkout without a pending replay. Failure is only logged:
// the next target branches afresh from the remote anyway.
func (x *replayExecutor) abort(ctx context.Context) {
	if err := x.repo.AbortCherryPick(ctx); err != nil {
		ctxlog.From(ctx).Debug("No replay to abort", "error", err)
	}
}

func isEmptyReplay(result *model.CommandResult) bool {
	return result.Contains(msgNothingToCommit) || result.Contains(msgEmptyPick)
}
