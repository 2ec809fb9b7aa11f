// Package cli: config.go implements the "gitx config" command group:
// show, get, and set.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitx/internal/config"
	"github.com/mmr-tortoise/gitx/internal/model"
)

func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change gitx configuration",
		Long: fmt.Sprintf(`Inspect and change the persisted gitx configuration.

Settable keys: %s

Examples:
  gitx config show
  gitx config get globals.editor
  gitx config set globals.editor vim`, strings.Join(config.ValidKeys(), ", ")),
	}

	cmd.AddCommand(newConfigShowCommand(a))
	cmd.AddCommand(newConfigGetCommand(a))
	cmd.AddCommand(newConfigSetCommand(a))

	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the full configuration",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return model.WrapCLIError(model.ExitGeneralError, "cannot encode config", err)
			}
			fmt.Fprintln(a.stdout, string(data))
			return nil
		},
	}
}

func newConfigGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			value, err := cfg.Get(args[0])
			if err != nil {
				return model.WrapCLIError(model.ExitUserError, "cannot get config value", err)
			}
			fmt.Fprintln(a.stdout, value)
			return nil
		},
	}
}

func newConfigSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value",

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			if err := cfg.Set(args[0], args[1]); err != nil {
				return model.WrapCLIError(model.ExitUserError, "cannot set config value", err)
			}
			return a.saveKeeping(cfg, nil)
		},
	}
}
