package interfaces

import (
	"context"

	"github.com/m-mizutani/backporter/pkg/domain/model"
)

// Notifier delivers a finished run outcome to humans
type Notifier interface {
	NotifyOutcome(ctx context.Context, cr *model.ChangeRequest, outcome *model.RunOutcome) error
}
