// Package cli: workspace.go implements the "gitx workspace" command group:
// list, remove, and label.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitx/internal/model"
	"github.com/mmr-tortoise/gitx/internal/ui"
)

func newWorkspaceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage registered workspaces",
	}

	cmd.AddCommand(newWorkspaceListCommand(a))
	cmd.AddCommand(newWorkspaceRemoveCommand(a))
	cmd.AddCommand(newWorkspaceLabelCommand(a))

	return cmd
}

func newWorkspaceListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered workspaces",

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			table := ui.NewTable(a.stdout, "REPO", "LABEL", "ACTIVE", "BRANCHES", "PATH")
			missing := false
			for _, info := range mgr.Workspaces() {
				path := info.BaseDir
				if info.Missing {
					path += " (missing)"
					missing = true
				}
				table.Row(info.RepoID, info.Label, info.LastOpenedBranch, info.BranchCount, path)
			}
			if err := table.Flush(); err != nil {
				return err
			}

			if missing {
				a.infof("Warning: some clone directories are gone from disk; 'gitx workspace remove' drops their records")
			}
			return nil
		},
	}
}

func newWorkspaceRemoveCommand(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove <repo>",
		Short: "Remove a workspace, its worktrees, and its clone",
		Long: `Remove a workspace completely: every branch worktree, the primary clone
directory, and the config entry.

Unless --force is given, the command prompts for confirmation first and
refuses to discard worktrees with uncommitted changes. The config entry is
kept whenever disk cleanup fails, so the command can be safely re-run.

Examples:
  gitx workspace remove acme/widgets
  gitx workspace remove acme/widgets --force`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			if !force {
				prompt := fmt.Sprintf("Remove workspace %q and all of its worktrees?", args[0])
				if !a.confirmer()(prompt) {
					return model.NewCLIError(model.ExitUserCancelled, "workspace was not removed")
				}
			}

			err = mgr.RemoveWorkspace(cmd.Context(), args[0], force)
			if err = a.saveKeeping(cfg, err); err != nil {
				return err
			}

			a.infof("Removed workspace %q", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation and discard uncommitted changes")
	return cmd
}

func newWorkspaceLabelCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "label <repo> <alias>",
		Short: "Set a short alias for a workspace",
		Long: `Give a workspace a short alias, usable wherever a repoId is accepted.

Labels are unique across workspaces; assigning a label held by another
workspace is a conflict.

Examples:
  gitx workspace label acme/widgets w
  gitx go w`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			err = mgr.Label(args[0], args[1])
			if err = a.saveKeeping(cfg, err); err != nil {
				return err
			}

			a.infof("Labelled %s as %q", args[0], args[1])
			return nil
		},
	}
}
