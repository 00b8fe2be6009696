package usecase

import (
	"context"
	"encoding/json"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/utils/async"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

type webhookUseCase struct {
	backportUC interfaces.BackportUseCase
	dispatch   func(ctx context.Context, handler func(ctx context.Context) error)
	runs       *async.Group
}

// WebhookOption configures the webhook use case
type WebhookOption func(*webhookUseCase)

// WithDispatcher replaces the background dispatcher, e.g. to run handlers synchronously in tests.
// Runs started through it are not tracked by Wait.
func WithDispatcher(dispatch func(ctx context.Context, handler func(ctx context.Context) error)) WebhookOption {
	return func(uc *webhookUseCase) {
		uc.dispatch = dispatch
	}
}

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(backportUC interfaces.BackportUseCase, opts ...WebhookOption) *webhookUseCase {
	runs := &async.Group{}
	uc := &webhookUseCase{
		backportUC: backportUC,
		dispatch:   runs.Dispatch,
		runs:       runs,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Wait blocks until backport runs started by ProcessEvent have finished or ctx is done
func (uc *webhookUseCase) Wait(ctx context.Context) error {
	return uc.runs.Wait(ctx)
}

// Running returns the number of backport runs in progress
func (uc *webhookUseCase) Running() int {
	return uc.runs.Running()
}

// ProcessEvent processes a webhook event. A merged pull request starts a backport run in
// background because a run outlives GitHub's delivery timeout.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"action", event.Action,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Debug("Ignore event that does not trigger backport",
			"type", event.Type,
			"action", event.Action,
		)
		return nil
	}

	var prEvent github.PullRequestEvent
	if err := json.Unmarshal(event.RawPayload, &prEvent); err != nil {
		return goerr.Wrap(err, "failed to unmarshal pull_request event", goerr.V("delivery_id", event.ID))
	}

	cr, err := ChangeRequestFromEvent(&prEvent)
	if err != nil {
		return goerr.Wrap(err, "failed to build change request", goerr.V("delivery_id", event.ID))
	}

	uc.dispatch(ctx, func(ctx context.Context) error {
		outcome, err := uc.backportUC.Run(ctx, cr)
		if err != nil {
			return goerr.Wrap(err, "backport run failed",
				goerr.V("delivery_id", event.ID),
				goerr.V("pr", cr.Number))
		}
		ctxlog.From(ctx).Info("Backport run completed",
			"delivery_id", event.ID,
			"run_id", outcome.RunID,
			"skipped", outcome.Skipped,
		)
		return nil
	})

	return nil
}
