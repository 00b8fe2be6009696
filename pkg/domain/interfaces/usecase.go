package interfaces

import (
	"context"

	"github.com/m-mizutani/backporter/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// BackportUseCase replays a merged change request onto its release lines
type BackportUseCase interface {
	// Run processes every target derived from the change request labels
	Run(ctx context.Context, cr *model.ChangeRequest) (*model.RunOutcome, error)
}
