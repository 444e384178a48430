package config

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	modelconfig "github.com/enishi-chat/enishi/pkg/domain/model/config"
	"github.com/enishi-chat/enishi/pkg/service/scoring"
)

// Rules holds CLI flags for the synonym rule table
type Rules struct {
	path string
}

// ruleFile is the TOML shape of an external rule table: each key names a
// category and maps to its related terms
type ruleFile struct {
	Groups map[string][]string `toml:"groups"`
}

// Flags returns CLI flags for rule table configuration
func (r *Rules) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "rules",
			Usage:       "Path to a TOML synonym rule table (built-in table when empty)",
			Sources:     cli.EnvVars("ENISHI_RULES"),
			Destination: &r.path,
		},
	}
}

// LogValue renders the configuration for startup logging
func (r *Rules) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("path", r.path),
	)
}

// Configure loads and validates the rule table. Without a path the built-in
// table is used.
func (r *Rules) Configure() (*modelconfig.RuleTable, error) {
	if r.path == "" {
		return scoring.DefaultRules(), nil
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read rule table", goerr.V("path", r.path))
	}

	var file ruleFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse rule table", goerr.V("path", r.path))
	}
	if len(file.Groups) == 0 {
		return nil, goerr.New("rule table has no groups", goerr.V("path", r.path))
	}

	table := modelconfig.NewRuleTable(file.Groups)
	if err := table.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid rule table", goerr.V("path", r.path))
	}

	return table, nil
}
