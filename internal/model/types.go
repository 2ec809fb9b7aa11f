package model

import (
	"fmt"
	"strings"
)

// RepoID identifies a managed repository as an "owner/name" pair.
// It is the unique key for a workspace in the config file.
type RepoID struct {
	Owner string
	Name  string
}

// String returns the canonical "owner/name" form.
func (r RepoID) String() string {
	return r.Owner + "/" + r.Name
}

// IsFullGitURL reports whether the given clone target is already a full
// git URL (or local path) rather than an "owner/name" shorthand.
func IsFullGitURL(target string) bool {
	return strings.HasPrefix(target, "https://") ||
		strings.HasPrefix(target, "http://") ||
		strings.HasPrefix(target, "git://") ||
		strings.HasPrefix(target, "ssh://") ||
		strings.HasPrefix(target, "file://") ||
		strings.HasPrefix(target, "git@") ||
		strings.HasPrefix(target, "/")
}

// ParseRepoID extracts an owner/name pair from a clone target.
//
// Accepted forms:
//
//	owner/name
//	https://host/owner/name.git
//	git@host:owner/name.git
//	ssh://git@host/owner/name.git
//	/path/to/owner/name.git
//
// For URL and path forms, the last two path segments are taken as owner
// and name.
func ParseRepoID(target string) (RepoID, error) {
	cleaned := target

	if IsFullGitURL(target) {
		// Normalize scp-like syntax (git@host:owner/name) to a plain path.
		cleaned = strings.TrimPrefix(cleaned, "ssh://")
		cleaned = strings.TrimPrefix(cleaned, "file://")
		cleaned = strings.TrimPrefix(cleaned, "https://")
		cleaned = strings.TrimPrefix(cleaned, "http://")
		cleaned = strings.TrimPrefix(cleaned, "git://")
		cleaned = strings.Replace(cleaned, ":", "/", 1)
		if at := strings.Index(cleaned, "@"); at >= 0 {
			cleaned = cleaned[at+1:]
		}
		// Drop the host segment, keep the path.
		if slash := strings.Index(cleaned, "/"); slash >= 0 {
			cleaned = cleaned[slash+1:]
		}
	}

	cleaned = strings.TrimSuffix(cleaned, ".git")
	cleaned = strings.Trim(cleaned, "/")

	parts := strings.Split(cleaned, "/")
	if len(parts) < 2 {
		return RepoID{}, fmt.Errorf("repository must be in the form 'owner/name', got %q", target)
	}
	// URLs may carry extra leading segments (e.g. gitlab subgroups); the
	// final two segments are the ones that matter for the workspace key.
	owner := parts[len(parts)-2]
	name := parts[len(parts)-1]
	if owner == "" || name == "" {
		return RepoID{}, fmt.Errorf("repository must be in the form 'owner/name', got %q", target)
	}

	return RepoID{Owner: owner, Name: name}, nil
}

// BranchWorktree is one materialized (workspace, branch) pair as recorded
// in the config file. The branch name itself is the key of the
// Workspace.Branches map.
type BranchWorktree struct {
	// Path is the absolute filesystem path of the worktree directory.
	Path string `json:"path"`

	// IsDefault marks the branch that was checked out at clone time.
	IsDefault bool `json:"isDefault,omitempty"`
}

// Workspace is one managed repository: a primary clone plus one worktree
// per branch. It is persisted under its RepoID key in the config file.
type Workspace struct {
	// BaseDir is the absolute path of the primary clone. All branch
	// worktrees live inside it.
	BaseDir string `json:"baseDir"`

	// Label is an optional short alias, unique across workspaces when set.
	Label string `json:"label,omitempty"`

	// LastOpenedBranch is the branch last resolved by `gitx go`/`gitx code`.
	LastOpenedBranch string `json:"lastOpenedBranch,omitempty"`

	// Branches maps branch name to its worktree record.
	Branches map[string]BranchWorktree `json:"branches"`
}

// DefaultBranch returns the name of the branch marked IsDefault,
// or "" if none is recorded.
func (w *Workspace) DefaultBranch() string {
	for name, bw := range w.Branches {
		if bw.IsDefault {
			return name
		}
	}
	return ""
}

// BranchState describes what reconciliation concluded about one branch
// of a workspace, comparing the config record against git's own
// worktree list:
//
//	Materialized: config entry present and git confirms the worktree
//	Stale:        config entry present but git has no such worktree
//	Untracked:    git has a worktree the config knows nothing about
type BranchState string

const (
	// StateMaterialized indicates config and git agree the worktree exists.
	StateMaterialized BranchState = "materialized"

	// StateStale indicates the config records a worktree that git no longer
	// has, typically because the directory was deleted out-of-band.
	StateStale BranchState = "stale"

	// StateUntracked indicates git has a worktree that was never registered,
	// typically created with raw `git worktree add`.
	StateUntracked BranchState = "untracked"
)

// String returns the string representation of BranchState.
func (s BranchState) String() string {
	return string(s)
}

// IsValid checks whether the BranchState value is one of the
// predefined valid states.
func (s BranchState) IsValid() bool {
	switch s {
	case StateMaterialized, StateStale, StateUntracked:
		return true
	default:
		return false
	}
}

// ExitCode defines the CLI exit codes. Distinct codes let scripts and CI
// distinguish user mistakes from conflicts and external-tool failures.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitUserError indicates invalid arguments or config input.
	ExitUserError ExitCode = 2

	// ExitNotFound indicates an unknown repoId, branch, label, or config key.
	ExitNotFound ExitCode = 3

	// ExitConflict indicates a duplicate clone, duplicate label, or an
	// operation refused without an explicit override.
	ExitConflict ExitCode = 4

	// ExitGitError indicates a Git subprocess failed.
	ExitGitError ExitCode = 5

	// ExitEditorError indicates the configured editor could not be spawned.
	ExitEditorError ExitCode = 6

	// ExitUserCancelled indicates the user declined a confirmation prompt.
	ExitUserCancelled ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
