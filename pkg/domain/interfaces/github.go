package interfaces

import (
	"context"

	"github.com/m-mizutani/backporter/pkg/domain/model"
)

// GitHubClient defines operations for interacting with GitHub API
type GitHubClient interface {
	// CreatePullRequest opens a pull request
	CreatePullRequest(ctx context.Context, input *model.PullRequestInput) (*model.PullRequest, error)
}
