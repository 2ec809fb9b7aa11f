// Package cli implements the cobra-based CLI commands for gitx.
//
// Each command group (clone, go/code, branch, workspace, config) is defined
// in its own file within this package. This file defines the root command,
// the exported Run entry point, and the error-to-exit-code translation.
//
// Output discipline: stdout carries command output only (`gitx go` prints
// exactly the resolved worktree path, list commands print their tables),
// while every diagnostic and progress message goes to stderr, so the stdout
// of any command is safe to compose in shell substitutions.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/gitx/internal/config"
	"github.com/mmr-tortoise/gitx/internal/git"
	"github.com/mmr-tortoise/gitx/internal/model"
	"github.com/mmr-tortoise/gitx/internal/workspace"
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// app carries the per-invocation state shared by all commands: the standard
// streams, the config store, and flag values. Keeping it a value passed to
// command constructors (instead of package globals) lets tests run the whole
// CLI in-process with isolated streams and config.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	verbose bool
	store   *config.Store
}

// Run executes the CLI with explicit streams and returns the process exit
// code. main passes the real streams; tests substitute buffers. A nil stdin
// behaves as an immediately closed input, so confirmations fail closed.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "gitx",
		Short: "Git workspace and worktree manager",
		Long: `gitx manages one workspace per repository, with one Git worktree per
branch. Cloning sets up the default branch's worktree; 'gitx go' resolves a
(repository, branch) pair to its worktree path for shell navigation; 'gitx
code' opens it in the configured editor.

Workspaces live under globals.baseDir (default ~/sources/workspaces), one
directory per repository, with branch worktrees inside it.`,

		// Errors are printed by Run itself, with exit codes attached;
		// cobra's automatic usage/error output would duplicate that.
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(newCloneCommand(a))
	rootCmd.AddCommand(newGoCommand(a))
	rootCmd.AddCommand(newCodeCommand(a))
	rootCmd.AddCommand(newBranchCommand(a))
	rootCmd.AddCommand(newWorkspaceCommand(a))
	rootCmd.AddCommand(newConfigCommand(a))

	rootCmd.SetArgs(args[1:])
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			fmt.Fprintf(stderr, "Error: %s\n", cliErr.Error())
			return int(cliErr.Code)
		}
		fmt.Fprintf(stderr, "Error: %s\n", err.Error())
		return int(model.ExitGeneralError)
	}
	return int(model.ExitSuccess)
}

// verbosef prints a trace line to stderr only when --verbose is set.
func (a *app) verbosef(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(a.stderr, "[verbose] "+format+"\n", args...)
	}
}

// infof prints a progress/diagnostic line to stderr.
func (a *app) infof(format string, args ...any) {
	fmt.Fprintf(a.stderr, format+"\n", args...)
}

// load opens the config store and reads the config. Called at the start of
// every command; the returned Config is owned by this invocation until save.
func (a *app) load() (*config.Config, error) {
	store, err := config.NewStore()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "cannot locate config", err)
	}
	a.store = store

	path, _ := config.Path()
	a.verbosef("Config file: %s", path)

	cfg, err := store.Load()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUserError, "cannot load config", err)
	}
	return cfg, nil
}

// manager builds the workspace Manager for this invocation, wired to the
// real git binary and the interactive confirmer.
func (a *app) manager(cfg *config.Config) *workspace.Manager {
	return workspace.NewManager(cfg, git.NewCLI(), a.confirmer(), a.infof)
}

// saveKeeping persists the config and returns opErr, the operation's own
// outcome. It is called after every mutating operation, even a failed one:
// a partial failure may have registered state (a created worktree, a moved
// cursor) that must survive for the retry to converge. A save failure is
// only surfaced when the operation itself succeeded.
func (a *app) saveKeeping(cfg *config.Config, opErr error) error {
	if saveErr := a.store.Save(cfg); saveErr != nil {
		if opErr == nil {
			return model.WrapCLIError(model.ExitGeneralError, "cannot save config", saveErr)
		}
		a.infof("Warning: could not save config: %v", saveErr)
	}
	return opErr
}
