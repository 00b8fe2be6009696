package types

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Version is the application version, overwritten by -ldflags at release build
var Version = "dev"

// ReleaseBranchPrefix is prepended to a target version to name its release line
const ReleaseBranchPrefix = "release/version-"

// DefaultTrunkBranch is the branch a change must be merged into to trigger backports
const DefaultTrunkBranch = "main"

// DefaultRemote is the remote name used for fetch, branch and push
const DefaultRemote = "origin"

// BranchName is a git branch name without refs/heads/ prefix
type BranchName string

func (x BranchName) String() string { return string(x) }

// CommitSHA is a git commit identifier
type CommitSHA string

func (x CommitSHA) String() string { return string(x) }

// Short returns the abbreviated form used in log lines
func (x CommitSHA) Short() string {
	if len(x) > 7 {
		return string(x[:7])
	}
	return string(x)
}

// RunID identifies one backport run across log lines and notifications
type RunID string

func (x RunID) String() string { return string(x) }

// NewRunID generates a new random RunID
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

// TargetVersion is a version token taken verbatim from a label such as "v1.3"
type TargetVersion string

var targetLabelPattern = regexp.MustCompile(`^v(\d+(\.\d+){0,2})$`)

// ParseTargetLabel returns the version carried by label and true when label names a release target
func ParseTargetLabel(label string) (TargetVersion, bool) {
	m := targetLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return "", false
	}
	return TargetVersion(m[1]), true
}

func (x TargetVersion) String() string { return string(x) }

// ReleaseBranch returns the release line branch for the version
func (x TargetVersion) ReleaseBranch() BranchName {
	return BranchName(ReleaseBranchPrefix + string(x))
}

// WorkBranch returns the per-attempt working branch, unique by stamp
func (x TargetVersion) WorkBranch(stamp int64) BranchName {
	return BranchName(fmt.Sprintf("%s-cherry-pick-%d", x.ReleaseBranch(), stamp))
}
