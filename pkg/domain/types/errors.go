package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures of a backport run. A conflict is an expected
// outcome, not an error, so it has no tag.
var (
	// ErrTagConfiguration aborts the whole run before any target is touched
	ErrTagConfiguration = goerr.NewTag("configuration")

	// ErrTagSync fails one target: remote references could not be refreshed
	ErrTagSync = goerr.NewTag("sync")

	// ErrTagReplay fails one target: branch creation or replay failed for a reason other than conflict
	ErrTagReplay = goerr.NewTag("replay")

	// ErrTagPublish fails one target: push or pull request creation was rejected
	ErrTagPublish = goerr.NewTag("publish")

	// ErrTagGitCommand marks a git subprocess that could not be run or exited non-zero
	ErrTagGitCommand = goerr.NewTag("git_command")
)
