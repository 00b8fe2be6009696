package slack

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Attachment colors per run summary
const (
	colorSuccess = "good"
	colorWarning = "warning"
	colorFailure = "danger"
)

// Notifier posts a summary of a backport run to a Slack incoming webhook
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	policy     model.Policy
}

// Option configures Notifier
type Option func(*Notifier)

// WithHTTPClient replaces http.DefaultClient
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = client
	}
}

// WithPolicy sets the policy used to color a run as failed
func WithPolicy(policy model.Policy) Option {
	return func(n *Notifier) {
		n.policy = policy
	}
}

var _ interfaces.Notifier = (*Notifier)(nil)

// New creates a Notifier posting to webhookURL
func New(webhookURL string, opts ...Option) (*Notifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("slack webhook URL is required")
	}

	n := &Notifier{
		webhookURL: webhookURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// NotifyOutcome implements interfaces.Notifier
func (n *Notifier) NotifyOutcome(ctx context.Context, cr *model.ChangeRequest, outcome *model.RunOutcome) error {
	msg := buildMessage(cr, outcome, n.policy)
	if err := slack.PostWebhookCustomHTTPContext(ctx, n.webhookURL, n.httpClient, msg); err != nil {
		return goerr.Wrap(err, "failed to post slack message",
			goerr.V("run_id", outcome.RunID),
			goerr.V("pr", cr.Number))
	}
	return nil
}

func buildMessage(cr *model.ChangeRequest, outcome *model.RunOutcome, policy model.Policy) *slack.WebhookMessage {
	color := colorSuccess
	switch {
	case outcome.Failed(policy):
		color = colorFailure
	case outcome.Count(model.ResultConflicted) > 0:
		color = colorWarning
	}

	fields := make([]slack.AttachmentField, 0, len(outcome.Results))
	for _, r := range outcome.Results {
		fields = append(fields, slack.AttachmentField{
			Title: r.ReleaseBranch.String(),
			Value: describeResult(r),
			Short: false,
		})
	}

	return &slack.WebhookMessage{
		Text: fmt.Sprintf("Backport of %s#%d: %d published, %d already applied, %d conflicted, %d failed",
			cr.FullName(), cr.Number,
			outcome.Count(model.ResultPublished),
			outcome.Count(model.ResultAlreadyApplied),
			outcome.Count(model.ResultConflicted),
			outcome.Count(model.ResultFailed),
		),
		Attachments: []slack.Attachment{
			{
				Color:  color,
				Title:  cr.Title,
				Text:   "run " + outcome.RunID.String(),
				Fields: fields,
			},
		},
	}
}

func describeResult(r model.TargetResult) string {
	switch r.Kind {
	case model.ResultPublished:
		return "published " + r.PullRequestURL
	case model.ResultConflicted:
		return fmt.Sprintf("conflict on `%s`, needs a manual backport", r.WorkBranch)
	case model.ResultFailed:
		msg := "failed"
		if r.Err != nil {
			msg += ": " + firstLine(r.Err.Error())
		}
		return msg
	default:
		return string(r.Kind)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
