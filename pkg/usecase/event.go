package usecase

import (
	"fmt"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// IsMergedPullRequest reports whether event closes a pull request by merging it
func IsMergedPullRequest(event *github.PullRequestEvent) bool {
	return event.GetAction() == "closed" && event.GetPullRequest().GetMerged()
}

// ChangeRequestFromEvent builds a ChangeRequest from a pull_request event payload
func ChangeRequestFromEvent(event *github.PullRequestEvent) (*model.ChangeRequest, error) {
	if event.GetRepo() == nil {
		return nil, goerr.New("missing repository information in pull_request event")
	}
	if event.GetPullRequest() == nil {
		return nil, goerr.New("missing pull request information in pull_request event")
	}

	// Use Get*() helper methods for concise and nil-safe field access
	pr := event.GetPullRequest()
	labels := make([]string, 0, len(pr.Labels))
	for _, label := range pr.Labels {
		labels = append(labels, label.GetName())
	}

	cr := &model.ChangeRequest{
		Owner:      event.GetRepo().GetOwner().GetLogin(),
		Repo:       event.GetRepo().GetName(),
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Author:     authorOf(pr.GetUser()),
		HeadSHA:    types.CommitSHA(pr.GetHead().GetSHA()),
		MergeSHA:   types.CommitSHA(pr.GetMergeCommitSHA()),
		BaseBranch: types.BranchName(pr.GetBase().GetRef()),
		Labels:     labels,
	}

	return cr, nil
}

// authorOf derives a commit identity from the PR author. GitHub rarely exposes a
// public email, so the noreply address that GitHub itself uses is the fallback.
func authorOf(user *github.User) model.Author {
	login := user.GetLogin()
	name := user.GetName()
	if name == "" {
		name = login
	}

	email := user.GetEmail()
	if email == "" && login != "" {
		if user.GetID() > 0 {
			email = fmt.Sprintf("%d+%s@users.noreply.github.com", user.GetID(), login)
		} else {
			email = login + "@users.noreply.github.com"
		}
	}

	return model.Author{Name: name, Email: email}
}
