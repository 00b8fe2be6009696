package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	githubcontroller "github.com/m-mizutani/backporter/pkg/controller/github"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdRun() *cli.Command {
	var (
		cfg       backportConfig
		eventPath string
		eventName string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "event-path",
			Usage:       "Path to the GitHub event payload",
			Required:    true,
			Destination: &eventPath,
			Sources:     cli.EnvVars("GITHUB_EVENT_PATH"),
		},
		&cli.StringFlag{
			Name:        "event-name",
			Usage:       "GitHub event name of the payload",
			Value:       "pull_request",
			Destination: &eventName,
			Sources:     cli.EnvVars("GITHUB_EVENT_NAME"),
		},
	}
	flags = append(flags, cfg.github.Flags()...)
	flags = append(flags, cfg.git.Flags()...)
	flags = append(flags, cfg.policy.Flags()...)
	flags = append(flags, cfg.slack.Flags()...)

	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Backport the pull request of a GitHub Actions event once",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if err := cfg.policy.Load(c, &cfg.git); err != nil {
				return err
			}

			data, err := os.ReadFile(eventPath)
			if err != nil {
				return goerr.Wrap(err, "failed to read event payload", goerr.V("path", eventPath))
			}

			payload, err := githubcontroller.ParseEvent(eventName, data)
			if err != nil {
				return err
			}

			backportUC, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			outcome, err := githubcontroller.NewEventProcessor(backportUC).ProcessEvent(ctx, eventName, payload)
			if err != nil {
				return err
			}
			if outcome == nil {
				logger.Info("Nothing to backport", "event_name", eventName)
				return nil
			}

			policy := cfg.policy.Model()
			printSummary(os.Stdout, outcome, policy)

			if outcome.Failed(policy) {
				return goerr.New("backport did not succeed for every target",
					goerr.V("run_id", outcome.RunID),
					goerr.V("failed", outcome.Count(model.ResultFailed)),
					goerr.V("conflicted", outcome.Count(model.ResultConflicted)))
			}
			return nil
		},
	}
}

var (
	okMark   = color.New(color.FgGreen, color.Bold).SprintFunc()
	warnMark = color.New(color.FgYellow, color.Bold).SprintFunc()
	failMark = color.New(color.FgRed, color.Bold).SprintFunc()
	dim      = color.New(color.Faint).SprintFunc()
)

// printSummary writes one line per target
func printSummary(w io.Writer, outcome *model.RunOutcome, policy model.Policy) {
	if outcome.Skipped {
		fmt.Fprintf(w, "%s backport skipped: %s\n", dim("-"), outcome.SkipReason)
		return
	}

	for _, r := range outcome.Results {
		switch r.Kind {
		case model.ResultPublished:
			fmt.Fprintf(w, "%s %s  %s\n", okMark("✔"), r.ReleaseBranch, r.PullRequestURL)
		case model.ResultAlreadyApplied:
			fmt.Fprintf(w, "%s %s  %s\n", okMark("✔"), r.ReleaseBranch, dim("already applied"))
		case model.ResultConflicted:
			mark := warnMark("!")
			if policy.FailOnConflict {
				mark = failMark("!")
			}
			fmt.Fprintf(w, "%s %s  conflict, needs a manual backport\n", mark, r.ReleaseBranch)
		case model.ResultFailed:
			reason := "unknown error"
			if r.Err != nil {
				reason = r.Err.Error()
			}
			fmt.Fprintf(w, "%s %s  %s\n", failMark("✘"), r.ReleaseBranch, reason)
		}
	}

	fmt.Fprintf(w, "%s published=%d already_applied=%d conflicted=%d failed=%d\n",
		dim("run "+outcome.RunID.String()),
		outcome.Count(model.ResultPublished),
		outcome.Count(model.ResultAlreadyApplied),
		outcome.Count(model.ResultConflicted),
		outcome.Count(model.ResultFailed),
	)
}
