package workspace

import (
	"sort"

	"github.com/mmr-tortoise/gitx/internal/git"
	"github.com/mmr-tortoise/gitx/internal/model"
)

// BranchStatus is one row of reconciliation output for a workspace.
type BranchStatus struct {
	// Branch is the branch name. For untracked worktrees in a detached
	// state it may be empty.
	Branch string

	// Path is the worktree directory.
	Path string

	// State is what config and git truth agree (or disagree) on.
	State model.BranchState

	// IsDefault marks the workspace's clone-time default branch.
	IsDefault bool

	// Active marks the workspace's last-opened branch.
	Active bool
}

// Reconcile compares the config's view of a workspace against git's
// worktree list and classifies every branch:
//
//   - a config entry whose path git confirms        → Materialized
//   - a config entry git knows nothing about        → Stale
//   - a git worktree the config knows nothing about → Untracked
//
// The primary clone itself (path == ws.BaseDir) and bare entries are not
// branch worktrees and are skipped. Prunable entries (directory gone, but
// git still holds the registration) count as gone. Reconcile is pure: it
// touches neither disk nor git, so drift scenarios are testable with
// literal inputs.
func Reconcile(ws *model.Workspace, worktrees []git.Worktree) []BranchStatus {
	byPath := make(map[string]git.Worktree, len(worktrees))
	for _, wt := range worktrees {
		if wt.Prunable {
			continue
		}
		byPath[wt.Path] = wt
	}

	var statuses []BranchStatus

	branches := make([]string, 0, len(ws.Branches))
	for name := range ws.Branches {
		branches = append(branches, name)
	}
	sort.Strings(branches)

	claimed := make(map[string]bool, len(branches))
	for _, name := range branches {
		bw := ws.Branches[name]
		state := model.StateStale
		if _, ok := byPath[bw.Path]; ok {
			state = model.StateMaterialized
			claimed[bw.Path] = true
		}
		statuses = append(statuses, BranchStatus{
			Branch:    name,
			Path:      bw.Path,
			State:     state,
			IsDefault: bw.IsDefault,
			Active:    name == ws.LastOpenedBranch,
		})
	}

	// Git worktrees nobody registered. Sorted by path for stable output.
	var untracked []BranchStatus
	for _, wt := range worktrees {
		if wt.Bare || wt.Prunable || wt.Path == ws.BaseDir || claimed[wt.Path] {
			continue
		}
		untracked = append(untracked, BranchStatus{
			Branch: wt.Branch,
			Path:   wt.Path,
			State:  model.StateUntracked,
		})
	}
	sort.Slice(untracked, func(i, j int) bool { return untracked[i].Path < untracked[j].Path })

	return append(statuses, untracked...)
}
