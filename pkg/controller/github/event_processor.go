package github

import (
	"context"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// EventProcessor runs a backport for a GitHub event delivered in-process, e.g. the
// event file of a GitHub Actions job.
type EventProcessor struct {
	backportUC interfaces.BackportUseCase
}

// NewEventProcessor creates a new GitHub event processor
func NewEventProcessor(backportUC interfaces.BackportUseCase) *EventProcessor {
	return &EventProcessor{
		backportUC: backportUC,
	}
}

// ParseEvent decodes a raw event payload of eventType
func ParseEvent(eventType string, data []byte) (any, error) {
	payload, err := github.ParseWebHook(eventType, data)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse event payload", goerr.V("event_type", eventType))
	}
	return payload, nil
}

// ProcessEvent runs a backport for a merged pull request. Other events and pull requests
// closed without merging return a nil outcome.
func (p *EventProcessor) ProcessEvent(ctx context.Context, eventType string, payload any) (*model.RunOutcome, error) {
	logger := ctxlog.From(ctx)

	switch eventType {
	case "pull_request":
		return p.processPullRequestEvent(ctx, payload)
	default:
		logger.Info("Ignoring unsupported event type", "event_type", eventType)
		return nil, nil
	}
}

func (p *EventProcessor) processPullRequestEvent(ctx context.Context, payload any) (*model.RunOutcome, error) {
	logger := ctxlog.From(ctx)

	event, ok := payload.(*github.PullRequestEvent)
	if !ok {
		return nil, goerr.New("invalid pull_request event payload")
	}

	if !usecase.IsMergedPullRequest(event) {
		logger.Info("Ignoring pull request that was not merged",
			"action", event.GetAction(),
			"merged", event.GetPullRequest().GetMerged(),
		)
		return nil, nil
	}

	cr, err := usecase.ChangeRequestFromEvent(event)
	if err != nil {
		return nil, err
	}

	logger.Info("Processing merged pull request",
		"repo", cr.FullName(),
		"pr", cr.Number,
		"base", cr.BaseBranch,
		"labels", cr.Labels,
	)

	outcome, err := p.backportUC.Run(ctx, cr)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to backport pull request",
			goerr.V("repo", cr.FullName()),
			goerr.V("pr", cr.Number))
	}

	return outcome, nil
}
