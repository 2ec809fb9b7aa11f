package git

import (
	"errors"
	"fmt"
)

// Kind classifies a failed Gateway operation. Callers branch on kinds via
// KindOf rather than string-matching git's output themselves.
type Kind string

const (
	// KindCloneFailed: `git clone` exited nonzero (auth, network, path exists).
	KindCloneFailed Kind = "clone-failed"

	// KindNoDefaultBranch: neither origin/HEAD, main, nor master resolves.
	KindNoDefaultBranch Kind = "no-default-branch"

	// KindWorktreeExists: the target path or branch is already checked out
	// in another worktree.
	KindWorktreeExists Kind = "worktree-exists"

	// KindBranchNotFound: the branch exists neither locally nor on origin.
	KindBranchNotFound Kind = "branch-not-found"

	// KindWorktreeDirty: the worktree has uncommitted changes and the
	// removal was not forced.
	KindWorktreeDirty Kind = "worktree-dirty"

	// KindPushFailed: pushing a branch to origin failed.
	KindPushFailed Kind = "push-failed"

	// KindCommandFailed: any other nonzero git exit.
	KindCommandFailed Kind = "command-failed"
)

// Error is a failed Gateway operation. It preserves git's stderr so the
// underlying tool's message is never swallowed.
type Error struct {
	Kind   Kind
	Op     string // the logical operation, e.g. "worktree add"
	Stderr string // trimmed stderr from git, may be empty
	Err    error  // the exec error, if any
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("git %s failed", e.Op)
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Stderr)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain. Non-git errors report
// KindCommandFailed.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindCommandFailed
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
