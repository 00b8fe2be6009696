package config

import (
	"os"
	"time"

	"github.com/m-mizutani/backporter/pkg/domain/model"
	"github.com/m-mizutani/backporter/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

const flagFailOnConflict = "fail-on-conflict"

// Policy holds how an outcome is judged
type Policy struct {
	FailOnConflict bool
	ConfigFile     string
}

// Flags returns CLI flags for policy configuration
func (c *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        flagFailOnConflict,
			Usage:       "Treat a conflicted target as a failed run",
			Destination: &c.FailOnConflict,
			Sources:     cli.EnvVars("BACKPORTER_FAIL_ON_CONFLICT"),
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to a TOML policy file",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("BACKPORTER_CONFIG"),
		},
	}
}

// Model returns the policy as domain model
func (c *Policy) Model() model.Policy {
	return model.Policy{FailOnConflict: c.FailOnConflict}
}

// PolicyFile is the layout of the TOML policy file
//
//	trunk = "main"
//	remote = "origin"
//	step_timeout = "5m"
//	fail_on_conflict = true
type PolicyFile struct {
	Trunk          string `toml:"trunk"`
	Remote         string `toml:"remote"`
	StepTimeout    string `toml:"step_timeout"`
	FailOnConflict *bool  `toml:"fail_on_conflict"`
}

// LoadPolicyFile reads and decodes a TOML policy file
func LoadPolicyFile(path string) (*PolicyFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read policy file",
			goerr.T(types.ErrTagConfiguration),
			goerr.V("path", path))
	}

	var file PolicyFile
	if err := toml.Unmarshal(raw, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse policy file",
			goerr.T(types.ErrTagConfiguration),
			goerr.V("path", path))
	}
	return &file, nil
}

// Apply copies values of the file into configs. A value is skipped when isSet reports
// that the matching flag was given explicitly.
func (f *PolicyFile) Apply(isSet func(name string) bool, gitCfg *Git, policy *Policy) error {
	if f.Trunk != "" && !isSet(flagTrunkBranch) {
		gitCfg.Trunk = f.Trunk
	}
	if f.Remote != "" && !isSet(flagGitRemote) {
		gitCfg.Remote = f.Remote
	}
	if f.StepTimeout != "" && !isSet(flagGitStepTimeout) {
		d, err := time.ParseDuration(f.StepTimeout)
		if err != nil {
			return goerr.Wrap(err, "invalid step_timeout in policy file",
				goerr.T(types.ErrTagConfiguration),
				goerr.V("step_timeout", f.StepTimeout))
		}
		gitCfg.StepTimeout = d
	}
	if f.FailOnConflict != nil && !isSet(flagFailOnConflict) {
		policy.FailOnConflict = *f.FailOnConflict
	}
	return nil
}

// Load applies the policy file named by --config, if any
func (c *Policy) Load(cmd *cli.Command, gitCfg *Git) error {
	if c.ConfigFile == "" {
		return nil
	}

	file, err := LoadPolicyFile(c.ConfigFile)
	if err != nil {
		return err
	}
	return file.Apply(cmd.IsSet, gitCfg, c)
}
