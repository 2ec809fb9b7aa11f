// Package workspace implements the core workspace/worktree lifecycle
// manager.
//
// A workspace is one managed repository: a primary clone (its baseDir,
// HEAD detached) plus one Git worktree per branch. The Manager reconciles
// three sources of state (the persisted config, the on-disk directories,
// and git's own worktree list) and implements clone, branch add/remove/
// list, resolve (go), label, and workspace removal.
//
// Git is the ground truth for what exists; the config is a cache of intent
// (labels, last-opened branch) layered on top. Every mutating operation
// re-reads git's worktree list instead of trusting the config, so re-running
// a command after a partial failure converges to the same end state. That
// idempotence is the substitute for cross-process locking.
package workspace
