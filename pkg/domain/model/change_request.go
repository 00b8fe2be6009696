package model

import (
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Author is the identity used for commits synthesized by a backport run
type Author struct {
	Name  string
	Email string
}

// ChangeRequest holds the merged pull request that triggered a backport run.
// It is built once from the event payload and must not be modified afterwards.
type ChangeRequest struct {
	Owner      string
	Repo       string
	Number     int
	Title      string
	Author     Author
	HeadSHA    types.CommitSHA
	MergeSHA   types.CommitSHA
	BaseBranch types.BranchName
	Labels     []string
}

// Validate checks fields required by any run. Author is checked separately by the identity step.
func (x *ChangeRequest) Validate() error {
	if x.Owner == "" || x.Repo == "" {
		return goerr.New("repository is not specified",
			goerr.V("owner", x.Owner),
			goerr.V("repo", x.Repo))
	}
	if x.Number <= 0 {
		return goerr.New("invalid pull request number", goerr.V("number", x.Number))
	}
	if x.MergeSHA == "" {
		return goerr.New("merge commit SHA is empty", goerr.V("number", x.Number))
	}
	return nil
}

// FullName returns owner/repo
func (x *ChangeRequest) FullName() string {
	return x.Owner + "/" + x.Repo
}
