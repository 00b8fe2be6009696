package model

import "github.com/m-mizutani/backporter/pkg/domain/types"

// PullRequestInput is the request to open a backport pull request
type PullRequestInput struct {
	Owner string
	Repo  string
	Title string
	Body  string
	// Head is owner-qualified, e.g. "octo:release/version-2-cherry-pick-1700000000000"
	Head string
	Base types.BranchName
}

// PullRequest is a created pull request
type PullRequest struct {
	Number  int
	HTMLURL string
}
