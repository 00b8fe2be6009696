package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/backporter/pkg/domain/interfaces"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/backporter/pkg/infra/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API and webhook configuration
type GitHub struct {
	Token          string `masq:"secret"`
	AppID          int64
	InstallationID int64
	PrivateKey     string `masq:"secret"`
	PrivateKeyFile string
	WebhookSecret  string `masq:"secret"`
	BaseURL        string
}

// Flags returns CLI flags for GitHub API access
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub token used to open pull requests",
			Destination: &c.Token,
			Sources:     cli.EnvVars("BACKPORTER_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID, used instead of a token when set",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("BACKPORTER_GITHUB_APP_ID"),
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("BACKPORTER_GITHUB_APP_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Usage:       "GitHub App private key (PEM)",
			Destination: &c.PrivateKey,
			Sources:     cli.EnvVars("BACKPORTER_GITHUB_APP_PRIVATE_KEY"),
		},
		&cli.StringFlag{
			Name:        "github-app-private-key-file",
			Usage:       "Path to GitHub App private key (PEM)",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("BACKPORTER_GITHUB_APP_PRIVATE_KEY_FILE"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL, for GitHub Enterprise Server",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("BACKPORTER_GITHUB_API_URL", "GITHUB_API_URL"),
		},
	}
}

// WebhookFlags returns CLI flags for webhook verification
func (c *GitHub) WebhookFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-webhook-secret",
			Usage:       "GitHub webhook secret",
			Required:    true,
			Destination: &c.WebhookSecret,
			Sources:     cli.EnvVars("BACKPORTER_GITHUB_WEBHOOK_SECRET"),
		},
	}
}

// NewClient builds a GitHub client. App credentials take precedence over a token.
func (c *GitHub) NewClient() (interfaces.GitHubClient, error) {
	opts := []github.Option{github.WithBaseURL(c.BaseURL)}

	if c.AppID != 0 {
		if c.InstallationID == 0 {
			return nil, goerr.New("GitHub App installation ID is required",
				goerr.T(types.ErrTagConfiguration),
				goerr.V("app_id", c.AppID))
		}

		key, err := c.privateKey()
		if err != nil {
			return nil, err
		}
		return github.NewClient(c.AppID, c.InstallationID, key, opts...)
	}

	if c.Token == "" {
		return nil, goerr.New("either GitHub token or GitHub App credentials are required",
			goerr.T(types.ErrTagConfiguration))
	}
	return github.NewClientWithToken(c.Token, opts...)
}

func (c *GitHub) privateKey() ([]byte, error) {
	if c.PrivateKey != "" {
		return []byte(c.PrivateKey), nil
	}
	if c.PrivateKeyFile == "" {
		return nil, goerr.New("GitHub App private key is required", goerr.T(types.ErrTagConfiguration))
	}

	key, err := os.ReadFile(c.PrivateKeyFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read GitHub App private key",
			goerr.T(types.ErrTagConfiguration),
			goerr.V("path", c.PrivateKeyFile))
	}
	return key, nil
}

// LogValue implements slog.LogValuer
func (c GitHub) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("token_set", c.Token != ""),
		slog.Int64("app_id", c.AppID),
		slog.Int64("installation_id", c.InstallationID),
		slog.String("base_url", c.BaseURL),
	)
}
