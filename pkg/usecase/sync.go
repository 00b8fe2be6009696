package usecase

import (
	"context"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

type branchSynchronizer struct {
	repo  interfaces.GitRepository
	trunk types.BranchName
}

// mergedIntoTrunk is the run-level guard: only merges into trunk are backported
func (s *branchSynchronizer) mergedIntoTrunk(cr *model.ChangeRequest) bool {
	return cr.BaseBranch == s.trunk
}

// Sync puts the shared checkout back into a clean state and refreshes remote-tracking
// references so the next branch starts from the current remote tip.
func (s *branchSynchronizer) Sync(ctx context.Context, attempt *model.ReplayAttempt) error {
	if err := s.repo.RestoreCheckout(ctx); err != nil {
		return goerr.Wrap(err, "failed to restore checkout",
			goerr.T(types.ErrTagSync),
			goerr.V("target", attempt.Target))
	}

	ctxlog.From(ctx).Info("Fetching remote references")

	if err := s.repo.FetchAll(ctx); err != nil {
		return goerr.Wrap(err, "failed to sync remote references",
			goerr.T(types.ErrTagSync),
			goerr.V("target", attempt.Target))
	}

	return attempt.Transition(model.StateSynced)
}
