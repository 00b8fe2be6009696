package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type client struct {
	githubClient *github.Client
}

// Option configures the GitHub client
type Option func(*github.Client) error

// WithBaseURL points the client at another API endpoint (GitHub Enterprise or a test server)
func WithBaseURL(baseURL string) Option {
	return func(c *github.Client) error {
		if baseURL == "" {
			return nil
		}
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("base_url", baseURL))
		}
		c.BaseURL = u
		return nil
	}
}

// NewClient creates a new GitHub client with App authentication
func NewClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.GitHubClient, error) {
	// Create GitHub App transport
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport",
			goerr.V("app_id", appID),
			goerr.V("installation_id", installationID))
	}

	return newClient(github.NewClient(&http.Client{Transport: itr}), opts...)
}

// NewClientWithToken creates a new GitHub client authenticated by a token, such as GITHUB_TOKEN of Actions
func NewClientWithToken(token string, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.New("GitHub token is empty")
	}
	return newClient(github.NewClient(nil).WithAuthToken(token), opts...)
}

func newClient(githubClient *github.Client, opts ...Option) (*client, error) {
	for _, opt := range opts {
		if err := opt(githubClient); err != nil {
			return nil, err
		}
	}
	return &client{githubClient: githubClient}, nil
}

// CreatePullRequest opens a pull request and classifies API rejections
func (c *client) CreatePullRequest(ctx context.Context, input *model.PullRequestInput) (*model.PullRequest, error) {
	pr, resp, err := c.githubClient.PullRequests.Create(ctx, input.Owner, input.Repo, &github.NewPullRequest{
		Title: github.Ptr(input.Title),
		Head:  github.Ptr(input.Head),
		Base:  github.Ptr(input.Base.String()),
		Body:  github.Ptr(input.Body),
	})
	if err != nil {
		opts := []goerr.Option{
			goerr.V("owner", input.Owner),
			goerr.V("repo", input.Repo),
			goerr.V("head", input.Head),
			goerr.V("base", input.Base),
			goerr.V("reason", classifyError(err)),
		}
		if resp != nil {
			opts = append(opts, goerr.V("status", resp.StatusCode))
		}
		return nil, goerr.Wrap(err, "failed to create pull request", opts...)
	}

	return &model.PullRequest{
		Number:  pr.GetNumber(),
		HTMLURL: pr.GetHTMLURL(),
	}, nil
}

// classifyError maps an API error to authorization, duplicate, validation or unknown
func classifyError(err error) string {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return "unknown"
	}

	switch errResp.Response.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "authorization"
	case http.StatusUnprocessableEntity:
		for _, e := range errResp.Errors {
			if strings.Contains(e.Message, "already exists") {
				return "duplicate"
			}
		}
		if strings.Contains(errResp.Message, "already exists") {
			return "duplicate"
		}
		return "validation"
	case http.StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}
