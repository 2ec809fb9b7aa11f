// Package cli: branch.go implements the "gitx branch" command group:
// list, add, and delete (alias: remove).
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitx/internal/model"
	"github.com/mmr-tortoise/gitx/internal/ui"
	"github.com/mmr-tortoise/gitx/internal/workspace"
)

func newBranchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "Manage branch worktrees of a workspace",
	}

	cmd.AddCommand(newBranchListCommand(a))
	cmd.AddCommand(newBranchAddCommand(a))
	cmd.AddCommand(newBranchDeleteCommand(a))

	return cmd
}

func newBranchListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <repo>",
		Short: "List branch worktrees and their state",
		Long: `List every branch of a workspace, reconciling the registered branches
against git's own worktree list:

  materialized  registered and confirmed on disk by git
  stale         registered, but the worktree is gone (deleted out-of-band)
  untracked     a git worktree gitx never registered

Drift (stale/untracked rows) is reported, never silently repaired; use
'gitx branch delete' or 'gitx branch add' to reconcile.`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			statuses, err := mgr.BranchList(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			table := ui.NewTable(a.stdout, "BRANCH", "STATE", "PATH")
			drift := false
			for _, st := range statuses {
				branch := st.Branch
				if branch == "" {
					branch = "(detached)"
				}
				marks := ""
				if st.IsDefault {
					marks += " *"
				}
				if st.Active {
					marks += " @"
				}
				table.Row(branch+marks, st.State, st.Path)
				if st.State != model.StateMaterialized {
					drift = true
				}
			}
			if err := table.Flush(); err != nil {
				return err
			}

			if drift {
				a.infof("Warning: config and git disagree for the rows above; 'branch add' re-creates a stale worktree, 'branch delete' drops its record")
			}
			return nil
		},
	}
}

func newBranchAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <repo> <branch>",
		Short: "Create a worktree for a branch",
		Long: `Create the worktree for a branch of a workspace.

If the branch exists locally or on origin it is checked out into a new
worktree. Otherwise gitx asks for confirmation, creates the branch from
the primary clone's HEAD, and pushes it to origin with upstream tracking.

The command is idempotent: re-running it for an already materialized
branch prints the existing path and changes nothing.

Examples:
  gitx branch add acme/widgets feature/login`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			path, err := mgr.BranchAdd(cmd.Context(), args[0], args[1])
			if err = a.saveKeeping(cfg, err); err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}
}

func newBranchDeleteCommand(a *app) *cobra.Command {
	var (
		force  bool
		remote bool
	)

	cmd := &cobra.Command{
		Use:     "delete <repo> <branch>",
		Aliases: []string{"remove"},
		Short:   "Remove a branch worktree and delete the branch",
		Long: `Remove the worktree for a branch and delete the local branch.

The active (last-opened) branch is protected: removing it requires --force,
which also discards uncommitted changes in the worktree. With --remote the
branch is additionally deleted on origin; a failure there is reported but
does not undo the local removal.

Examples:
  gitx branch delete acme/widgets feature/login
  gitx branch delete acme/widgets feature/login --force --remote`,

		Args: cobra.ExactArgs(2),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			opts := workspace.BranchRemoveOptions{Force: force, DeleteRemote: remote}
			err = mgr.BranchRemove(cmd.Context(), args[0], args[1], opts)
			if err = a.saveKeeping(cfg, err); err != nil {
				return err
			}

			a.infof("Removed branch %q", args[1])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Remove even the active branch or a dirty worktree")
	cmd.Flags().BoolVar(&remote, "remote", false, "Also delete the branch on origin (best-effort)")
	return cmd
}
