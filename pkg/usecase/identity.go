package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// configureIdentity sets the identity of replayed commits. It runs once per run,
// before any target, and any failure aborts the run.
func configureIdentity(ctx context.Context, repo interfaces.GitRepository, author model.Author) error {
	name := strings.TrimSpace(author.Name)
	email := strings.TrimSpace(author.Email)
	if name == "" || email == "" {
		return goerr.New("author identity is incomplete",
			goerr.T(types.ErrTagConfiguration),
			goerr.V("name", name),
			goerr.V("email", email))
	}

	ctxlog.From(ctx).Info("Configuring commit identity", "name", name, "email", email)

	if err := repo.ConfigureIdentity(ctx, name, email); err != nil {
		return goerr.Wrap(err, "failed to configure commit identity",
			goerr.T(types.ErrTagConfiguration))
	}
	return nil
}
