// Package model defines the domain types and value objects for the
// gitx CLI.
//
// This package contains pure data structures with no external dependencies:
// repository identifiers, workspace and branch-worktree records as they are
// persisted in the config file, the branch-name/path-segment codec, and the
// exit-code/error types shared by every command.
//
// The package also defines exit codes (ExitCode) and a custom error type
// (CLIError) that carries exit codes for proper OS process exit handling.
package model
