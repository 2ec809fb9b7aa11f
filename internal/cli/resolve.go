// Package cli: resolve.go implements "gitx go" and "gitx code".
//
// Both commands resolve a (workspace, branch) pair to its worktree path
// and move the workspace's last-opened cursor there. "go" prints exactly
// the path to stdout and nothing else, so shells can compose it:
//
//	cd "$(gitx go acme/widgets)"
//
// "code" performs the same resolution, then spawns the configured editor
// on the path, fire-and-forget.
package cli

import (
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitx/internal/model"
)

func newGoCommand(a *app) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "go <repo>",
		Short: "Print the worktree path for a branch",
		Long: `Resolve a workspace (by repoId or label) and branch to its worktree path.

Without --branch, the last-opened branch is used. The resolved branch
becomes the new last-opened branch. On success the path is printed to
stdout with no other output, for use in shell command substitution.

Examples:
  cd "$(gitx go acme/widgets)"
  cd "$(gitx go acme/widgets --branch feature/login)"`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			path, err := mgr.Resolve(cmd.Context(), args[0], branch)
			if err = a.saveKeeping(cfg, err); err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to resolve (default: last opened)")
	return cmd
}

func newCodeCommand(a *app) *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "code <repo>",
		Short: "Open a branch worktree in the configured editor",
		Long: `Resolve a workspace and branch like 'gitx go', then spawn the editor
configured as globals.editor with the worktree path as its argument.

Examples:
  gitx code acme/widgets
  gitx code acme/widgets --branch feature/login`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}
			mgr := a.manager(cfg)

			path, err := mgr.Resolve(cmd.Context(), args[0], branch)
			if err = a.saveKeeping(cfg, err); err != nil {
				return err
			}

			editor := cfg.Globals.Editor
			a.infof("Opening %s with %s", path, editor)

			// Fire-and-forget: the editor outlives this invocation; only a
			// failed spawn is an error, its later exit status is not observed.
			ed := exec.Command(editor, path)
			ed.Dir = path
			if err := ed.Start(); err != nil {
				return model.WrapCLIError(model.ExitEditorError,
					fmt.Sprintf("cannot start editor %q", editor), err)
			}
			a.infof("To enter manually: cd %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to resolve (default: last opened)")
	return cmd
}
