package model

import (
	"github.com/m-mizutani/backporter/pkg/domain/types"
)

// ResultKind is the terminal classification of a target
type ResultKind string

const (
	ResultPublished      ResultKind = "published"
	ResultConflicted     ResultKind = "conflicted"
	ResultAlreadyApplied ResultKind = "already_applied"
	ResultFailed         ResultKind = "failed"
)

// TargetResult is the outcome of one target
type TargetResult struct {
	Target         types.TargetVersion
	ReleaseBranch  types.BranchName
	WorkBranch     types.BranchName
	Kind           ResultKind
	PullRequestURL string
	Err            error
}

// Policy decides which outcomes make a run fail
type Policy struct {
	// FailOnConflict makes a conflicted target fail the whole run
	FailOnConflict bool
}

// RunOutcome aggregates all target results of a run
type RunOutcome struct {
	RunID      types.RunID
	Skipped    bool
	SkipReason string
	Results    []TargetResult
}

// Count returns the number of results with kind
func (x *RunOutcome) Count(kind ResultKind) int {
	n := 0
	for _, r := range x.Results {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// Failed reports whether the run should be reported as failed under policy
func (x *RunOutcome) Failed(policy Policy) bool {
	if x.Count(ResultFailed) > 0 {
		return true
	}
	return policy.FailOnConflict && x.Count(ResultConflicted) > 0
}

// Result returns the result for target, or nil if the target was not processed
func (x *RunOutcome) Result(target types.TargetVersion) *TargetResult {
	for i := range x.Results {
		if x.Results[i].Target == target {
			return &x.Results[i]
		}
	}
	return nil
}
