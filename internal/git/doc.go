// Package git wraps all external Git invocations behind the Gateway
// interface.
//
// Each Gateway operation maps one logical Git action to a subprocess
// invocation against a specific repository directory and turns exit status
// plus stdout/stderr into either a structured value or a typed *Error.
// Git's own worktree metadata (`git worktree list --porcelain`) is the
// ground truth for what exists on disk; the config file is only a cache of
// intent layered on top.
//
// We shell out to `git` rather than using a Go Git library (e.g., go-git)
// because worktree operations require full Git CLI compatibility, and
// go-git's worktree support is limited.
package git
