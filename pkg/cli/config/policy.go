package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/ahmadnawaz22/Sheets-BigQuerySync/pkg/domain/model/policy"
)

type Policy struct {
	path string
}

func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "policy-file",
			Usage:       "Path to the sync policy YAML (table overrides, exclusions)",
			Destination: &x.path,
			Category:    "Policy",
			Sources:     cli.EnvVars("SBSYNC_POLICY_FILE"),
		},
	}
}

func (x Policy) LogValue() slog.Value {
	return slog.GroupValue(slog.String("path", x.path))
}

func (x *Policy) Configure() (*policy.Policy, error) {
	return policy.Load(x.path)
}
