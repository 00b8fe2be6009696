package usecase_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
)

// MockGitRepository records git operations. Func fields receive the release branch the
// current working branch was created from, so tests can script per-target behaviour.
type MockGitRepository struct {
	configureIdentityFunc func(name, email string) error
	restoreFunc           func() error
	fetchAllFunc          func() error
	createBranchFunc      func(branch, from types.BranchName) error
	cherryPickFunc        func(from types.BranchName, sha types.CommitSHA) (*model.CommandResult, error)
	continueFunc          func(from types.BranchName) (*model.CommandResult, error)
	pushFunc              func(branch types.BranchName) error

	calls    []string
	branches []types.BranchName
	pushed   []types.BranchName
	current  types.BranchName
}

func (m *MockGitRepository) ConfigureIdentity(ctx context.Context, name, email string) error {
	m.calls = append(m.calls, "config "+name+" "+email)
	if m.configureIdentityFunc != nil {
		return m.configureIdentityFunc(name, email)
	}
	return nil
}

func (m *MockGitRepository) RestoreCheckout(ctx context.Context) error {
	m.calls = append(m.calls, "restore")
	if m.restoreFunc != nil {
		return m.restoreFunc()
	}
	return nil
}

func (m *MockGitRepository) FetchAll(ctx context.Context) error {
	m.calls = append(m.calls, "fetch")
	if m.fetchAllFunc != nil {
		return m.fetchAllFunc()
	}
	return nil
}

func (m *MockGitRepository) CreateBranch(ctx context.Context, branch, from types.BranchName) error {
	m.calls = append(m.calls, "branch "+branch.String()+" "+from.String())
	m.current = from
	if m.createBranchFunc != nil {
		if err := m.createBranchFunc(branch, from); err != nil {
			return err
		}
	}
	m.branches = append(m.branches, branch)
	return nil
}

func (m *MockGitRepository) CherryPick(ctx context.Context, sha types.CommitSHA) (*model.CommandResult, error) {
	m.calls = append(m.calls, "cherry-pick "+sha.String())
	if m.cherryPickFunc != nil {
		return m.cherryPickFunc(m.current, sha)
	}
	return &model.CommandResult{}, nil
}

func (m *MockGitRepository) ContinueCherryPick(ctx context.Context) (*model.CommandResult, error) {
	m.calls = append(m.calls, "continue")
	if m.continueFunc != nil {
		return m.continueFunc(m.current)
	}
	return notInProgress(), nil
}

func (m *MockGitRepository) SkipCherryPick(ctx context.Context) error {
	m.calls = append(m.calls, "skip")
	return nil
}

func (m *MockGitRepository) AbortCherryPick(ctx context.Context) error {
	m.calls = append(m.calls, "abort")
	return nil
}

func (m *MockGitRepository) Push(ctx context.Context, branch types.BranchName) error {
	m.calls = append(m.calls, "push "+branch.String())
	if m.pushFunc != nil {
		if err := m.pushFunc(branch); err != nil {
			return err
		}
	}
	m.pushed = append(m.pushed, branch)
	return nil
}

func (m *MockGitRepository) count(prefix string) int {
	n := 0
	for _, c := range m.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

// MockGitHubClient is a mock implementation of GitHubClient
type MockGitHubClient struct {
	createPullRequestFunc func(input *model.PullRequestInput) (*model.PullRequest, error)
	createCalls           []*model.PullRequestInput
}

func (m *MockGitHubClient) CreatePullRequest(ctx context.Context, input *model.PullRequestInput) (*model.PullRequest, error) {
	m.createCalls = append(m.createCalls, input)
	if m.createPullRequestFunc != nil {
		return m.createPullRequestFunc(input)
	}
	n := len(m.createCalls)
	return &model.PullRequest{
		Number:  100 + n,
		HTMLURL: fmt.Sprintf("https://github.com/%s/%s/pull/%d", input.Owner, input.Repo, 100+n),
	}, nil
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	err      error
	outcomes []*model.RunOutcome
}

func (m *MockNotifier) NotifyOutcome(ctx context.Context, cr *model.ChangeRequest, outcome *model.RunOutcome) error {
	m.outcomes = append(m.outcomes, outcome)
	return m.err
}

func notInProgress() *model.CommandResult {
	return &model.CommandResult{
		Args:     []string{"cherry-pick", "--continue"},
		ExitCode: 128,
		Stderr:   "error: no cherry-pick or revert in progress\nfatal: cherry-pick failed\n",
	}
}

func conflictReplay() *model.CommandResult {
	return &model.CommandResult{
		ExitCode: 1,
		Stdout:   "CONFLICT (modify/delete): legacy.txt deleted in HEAD and modified in abc123.\n",
		Stderr:   "error: could not apply abc123... change legacy\n",
	}
}

func unmergedVerify() *model.CommandResult {
	return &model.CommandResult{
		ExitCode: 128,
		Stderr: "U\tlegacy.txt\n" +
			"error: Committing is not possible because you have unmerged files.\n" +
			"fatal: Exiting because of an unresolved conflict.\n",
	}
}

var errSimulated = errors.New("simulated failure")
