package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/backporter/pkg/cli/config"
	controller "github.com/m-mizutani/backporter/pkg/controller/http"
	"github.com/m-mizutani/backporter/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg config.Server
		cfg       backportConfig
	)

	flags := serverCfg.Flags()
	flags = append(flags, cfg.github.Flags()...)
	flags = append(flags, cfg.github.WebhookFlags()...)
	flags = append(flags, cfg.git.Flags()...)
	flags = append(flags, cfg.policy.Flags()...)
	flags = append(flags, cfg.slack.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server receiving GitHub webhooks",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := cfg.policy.Load(c, &cfg.git); err != nil {
				return err
			}

			backportUC, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			webhookUC := usecase.NewWebhook(backportUC)

			server, err := controller.NewServer(
				ctx,
				webhookUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(cfg.github.WebhookSecret),
				controller.WithActiveRuns(webhookUC.Running),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			go func() {
				logger.Info("HTTP server starting",
					slog.String("addr", serverCfg.Addr),
					slog.String("webhook_path", controller.WebhookPath),
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Waiting for running backports", slog.Duration("timeout", serverCfg.DrainTimeout))
			drainCtx, cancelDrain := context.WithTimeout(context.Background(), serverCfg.DrainTimeout)
			defer cancelDrain()
			if err := webhookUC.Wait(drainCtx); err != nil {
				return goerr.Wrap(err, "backports did not finish before shutdown")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
