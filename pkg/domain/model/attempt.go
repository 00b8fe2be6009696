package model

import (
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// AttemptState is a state of ReplayAttempt
type AttemptState string

const (
	StatePending          AttemptState = "pending"
	StateSynced           AttemptState = "synced"
	StateBranchCreated    AttemptState = "branch_created"
	StateReplayed         AttemptState = "replayed"
	StateAlreadyApplied   AttemptState = "already_applied"
	StateConflictDetected AttemptState = "conflict_detected"
	StatePublished        AttemptState = "published"
	StateFailed           AttemptState = "failed"
)

// IsTerminal reports whether no further transition is allowed
func (s AttemptState) IsTerminal() bool {
	switch s {
	case StatePublished, StateConflictDetected, StateAlreadyApplied, StateFailed:
		return true
	default:
		return false
	}
}

var allowedTransitions = map[AttemptState][]AttemptState{
	StatePending:       {StateSynced},
	StateSynced:        {StateBranchCreated},
	StateBranchCreated: {StateReplayed, StateAlreadyApplied},
	StateReplayed:      {StateConflictDetected, StatePublished},
}

// ErrInvalidTransition is returned when ReplayAttempt is moved along an edge that does not exist
var ErrInvalidTransition = goerr.New("invalid replay attempt transition")

// ReplayAttempt tracks one target through sync, branch, replay and publish.
// An attempt belongs to exactly one target and is never reused.
type ReplayAttempt struct {
	Target         types.TargetVersion
	ReleaseBranch  types.BranchName
	WorkBranch     types.BranchName
	State          AttemptState
	PullRequestURL string
	Err            error
}

// NewReplayAttempt creates a pending attempt for target
func NewReplayAttempt(target types.TargetVersion) *ReplayAttempt {
	return &ReplayAttempt{
		Target:        target,
		ReleaseBranch: target.ReleaseBranch(),
		State:         StatePending,
	}
}

// Transition moves the attempt to next. Failed is reachable from any non-terminal state.
func (x *ReplayAttempt) Transition(next AttemptState) error {
	if x.State.IsTerminal() {
		return goerr.Wrap(ErrInvalidTransition, "attempt already finished",
			goerr.V("target", x.Target),
			goerr.V("from", x.State),
			goerr.V("to", next))
	}
	if next == StateFailed {
		x.State = next
		return nil
	}

	for _, s := range allowedTransitions[x.State] {
		if s == next {
			x.State = next
			return nil
		}
	}

	return goerr.Wrap(ErrInvalidTransition, "transition is not allowed",
		goerr.V("target", x.Target),
		goerr.V("from", x.State),
		goerr.V("to", next))
}

// Require returns an error unless the attempt is in state. Used as a precondition guard.
func (x *ReplayAttempt) Require(state AttemptState) error {
	if x.State != state {
		return goerr.Wrap(ErrInvalidTransition, "precondition not satisfied",
			goerr.V("target", x.Target),
			goerr.V("want", state),
			goerr.V("actual", x.State))
	}
	return nil
}

// Fail records err and moves the attempt to Failed
func (x *ReplayAttempt) Fail(err error) {
	x.Err = err
	if !x.State.IsTerminal() {
		x.State = StateFailed
	}
}

// Result converts a finished attempt into a TargetResult
func (x *ReplayAttempt) Result() TargetResult {
	r := TargetResult{
		Target:         x.Target,
		ReleaseBranch:  x.ReleaseBranch,
		WorkBranch:     x.WorkBranch,
		PullRequestURL: x.PullRequestURL,
		Err:            x.Err,
	}

	switch x.State {
	case StatePublished:
		r.Kind = ResultPublished
	case StateConflictDetected:
		r.Kind = ResultConflicted
	case StateAlreadyApplied:
		r.Kind = ResultAlreadyApplied
	default:
		r.Kind = ResultFailed
		if r.Err == nil {
			r.Err = goerr.New("attempt stopped before reaching a terminal state",
				goerr.V("target", x.Target),
				goerr.V("state", x.State))
		}
	}
	return r
}
