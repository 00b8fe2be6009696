package interfaces

import (
	"context"

	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
)

// GitRepository is the shared working checkout that every target is replayed in.
// Methods returning *model.CommandResult report the subprocess outcome even on a
// non-zero exit; error is reserved for failures to run the command at all.
type GitRepository interface {
	// ConfigureIdentity sets the global committer and author identity
	ConfigureIdentity(ctx context.Context, name, email string) error

	// RestoreCheckout drops any pending replay and discards uncommitted changes
	RestoreCheckout(ctx context.Context) error

	// FetchAll refreshes all remote-tracking references
	FetchAll(ctx context.Context) error

	// CreateBranch creates and checks out branch from the remote tip of from
	CreateBranch(ctx context.Context, branch, from types.BranchName) error

	// CherryPick replays sha onto the current branch with mainline 1 and the "theirs" heuristic
	CherryPick(ctx context.Context, sha types.CommitSHA) (*model.CommandResult, error)

	// ContinueCherryPick finishes a pending replay; its diagnostics reveal unresolved conflicts
	ContinueCherryPick(ctx context.Context) (*model.CommandResult, error)

	// SkipCherryPick drops an empty replay
	SkipCherryPick(ctx context.Context) error

	// AbortCherryPick restores the checkout after a stopped replay
	AbortCherryPick(ctx context.Context) error

	// Push pushes branch to the remote with upstream tracking
	Push(ctx context.Context, branch types.BranchName) error
}
