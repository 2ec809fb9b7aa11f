// Package cli: clone.go implements the "gitx clone" command.
//
// Cloning is the workspace bootstrap: clone the repository into the
// workspace tree, detect its default branch, detach the primary clone's
// HEAD, materialize the default branch's worktree, and register the
// workspace with its last-opened cursor on the default branch.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCloneCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clone <repo>",
		Short: "Clone a repository and set up its workspace",
		Long: `Clone a repository into the workspace tree and register it.

The repository may be an "owner/name" shorthand (expanded through
globals.defaultProvider) or a full git URL.

Examples:
  gitx clone acme/widgets
  gitx clone git@github.com:acme/widgets.git`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			res, err := mgr.Clone(cmd.Context(), args[0])
			if err = a.saveKeeping(cfg, err); err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Created workspace %s\n", res.RepoID)
			fmt.Fprintf(a.stdout, "  Default branch: %s\n", res.DefaultBranch)
			fmt.Fprintf(a.stdout, "  Worktree:       %s\n", res.WorktreePath)
			return nil
		},
	}
}
