package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/enishi-chat/enishi/pkg/cli/config"
)

func TestRulesDefaultTable(t *testing.T) {
	var rulesCfg config.Rules

	table, err := rulesCfg.Configure()
	gt.NoError(t, err)
	gt.Number(t, table.Size()).Equal(5)
	gt.Bool(t, table.Related("英雄联盟", "lol")).True()
}

func TestRulesFromTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.toml")
	content := `
[groups]
sports = ["football", "tennis"]
music = ["jazz", "rock"]
`
	gt.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rulesCfg := config.NewRulesWithPath(path)
	table, err := rulesCfg.Configure()
	gt.NoError(t, err)
	gt.Number(t, table.Size()).Equal(2)
	gt.Bool(t, table.Related("sports", "tennis")).True()
	gt.Bool(t, table.Related("jazz", "rock")).True()
	gt.Bool(t, table.Related("jazz", "tennis")).False()
}

func TestRulesFromTOMLErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		rulesCfg := config.NewRulesWithPath(filepath.Join(t.TempDir(), "absent.toml"))
		_, err := rulesCfg.Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("malformed TOML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.toml")
		gt.NoError(t, os.WriteFile(path, []byte("not [valid"), 0644))

		rulesCfg := config.NewRulesWithPath(path)
		_, err := rulesCfg.Configure()
		gt.Value(t, err).NotNil()
	})

	t.Run("empty groups", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.toml")
		gt.NoError(t, os.WriteFile(path, []byte("[groups]\n"), 0644))

		rulesCfg := config.NewRulesWithPath(path)
		_, err := rulesCfg.Configure()
		gt.Value(t, err).NotNil()
	})
}
