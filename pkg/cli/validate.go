package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/enishi-chat/enishi/pkg/cli/config"
	"github.com/enishi-chat/enishi/pkg/utils/logging"
)

func cmdValidate() *cli.Command {
	var rulesCfg config.Rules
	var matchingCfg config.Matching

	flags := rulesCfg.Flags()
	flags = append(flags, matchingCfg.Flags()...)

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate the rule table and matching configuration without starting the server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			rules, err := rulesCfg.Configure()
			if err != nil {
				return err
			}

			matching, err := matchingCfg.Configure()
			if err != nil {
				return err
			}

			logging.Default().Info("Configuration is valid",
				"rule_groups", rules.Size(),
				"matching", matching,
			)
			return nil
		},
	}
}
