package workspace

import (
	"context"
	"fmt"

	"github.com/mmr-tortoise/gitx/internal/git"
)

// fakeGateway is an in-memory git.Gateway. It models just enough branch and
// worktree state for the Manager's flows and records every call so tests
// can assert what was (not) invoked.
type fakeGateway struct {
	defaultBranch  string
	localBranches  map[string]bool
	remoteBranches map[string]bool
	worktrees      []git.Worktree
	dirtyPaths     map[string]bool

	cloneErr        error
	fetchErr        error
	pushErr         error
	branchDeleteErr error

	calls []string
}

func newFakeGateway(defaultBranch string) *fakeGateway {
	return &fakeGateway{
		defaultBranch:  defaultBranch,
		localBranches:  map[string]bool{},
		remoteBranches: map[string]bool{},
		dirtyPaths:     map[string]bool{},
	}
}

var _ git.Gateway = (*fakeGateway)(nil)

func (f *fakeGateway) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeGateway) called(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeGateway) Clone(_ context.Context, url, dest string) error {
	f.record("clone %s %s", url, dest)
	if f.cloneErr != nil {
		return f.cloneErr
	}
	// A fresh clone has the default branch checked out in the primary dir.
	f.localBranches[f.defaultBranch] = true
	f.worktrees = append(f.worktrees, git.Worktree{Path: dest, Branch: f.defaultBranch, HEAD: "abc123"})
	return nil
}

func (f *fakeGateway) DetectDefaultBranch(_ context.Context, repoPath string) (string, error) {
	f.record("detect-default %s", repoPath)
	if f.defaultBranch == "" {
		return "", &git.Error{Kind: git.KindNoDefaultBranch, Op: "detect default branch"}
	}
	return f.defaultBranch, nil
}

func (f *fakeGateway) DetachHead(_ context.Context, repoPath string) error {
	f.record("detach %s", repoPath)
	for i := range f.worktrees {
		if f.worktrees[i].Path == repoPath {
			f.worktrees[i].Branch = ""
			f.worktrees[i].Detached = true
		}
	}
	return nil
}

func (f *fakeGateway) Fetch(_ context.Context, repoPath string) error {
	f.record("fetch %s", repoPath)
	return f.fetchErr
}

func (f *fakeGateway) HasLocalBranch(_ context.Context, _, branch string) bool {
	return f.localBranches[branch]
}

func (f *fakeGateway) HasRemoteBranch(_ context.Context, _, branch string) bool {
	return f.remoteBranches[branch]
}

func (f *fakeGateway) WorktreeAdd(_ context.Context, repoPath, branch, targetPath string, createBranch bool) error {
	f.record("worktree-add %s %s create=%v", branch, targetPath, createBranch)
	if !createBranch && !f.localBranches[branch] && !f.remoteBranches[branch] {
		return &git.Error{Kind: git.KindBranchNotFound, Op: "worktree add"}
	}
	for _, wt := range f.worktrees {
		if wt.Branch == branch || wt.Path == targetPath {
			return &git.Error{Kind: git.KindWorktreeExists, Op: "worktree add"}
		}
	}
	f.localBranches[branch] = true
	f.worktrees = append(f.worktrees, git.Worktree{Path: targetPath, Branch: branch, HEAD: "abc123"})
	return nil
}

func (f *fakeGateway) WorktreeRemove(_ context.Context, _, targetPath string, force bool) error {
	f.record("worktree-remove %s force=%v", targetPath, force)
	if f.dirtyPaths[targetPath] && !force {
		return &git.Error{Kind: git.KindWorktreeDirty, Op: "worktree remove"}
	}
	for i, wt := range f.worktrees {
		if wt.Path == targetPath {
			f.worktrees = append(f.worktrees[:i], f.worktrees[i+1:]...)
			return nil
		}
	}
	return &git.Error{Kind: git.KindCommandFailed, Op: "worktree remove", Stderr: "not a working tree"}
}

func (f *fakeGateway) WorktreePrune(_ context.Context, repoPath string) error {
	f.record("worktree-prune %s", repoPath)
	kept := f.worktrees[:0]
	for _, wt := range f.worktrees {
		if !wt.Prunable {
			kept = append(kept, wt)
		}
	}
	f.worktrees = kept
	return nil
}

func (f *fakeGateway) BranchDelete(_ context.Context, _, branch string) error {
	f.record("branch-delete %s", branch)
	if f.branchDeleteErr != nil {
		return f.branchDeleteErr
	}
	if !f.localBranches[branch] {
		return &git.Error{Kind: git.KindBranchNotFound, Op: "branch delete"}
	}
	delete(f.localBranches, branch)
	return nil
}

func (f *fakeGateway) BranchDeleteRemote(_ context.Context, _, branch string) error {
	f.record("branch-delete-remote %s", branch)
	if !f.remoteBranches[branch] {
		return &git.Error{Kind: git.KindCommandFailed, Op: "push origin --delete", Stderr: "remote ref does not exist"}
	}
	delete(f.remoteBranches, branch)
	return nil
}

func (f *fakeGateway) ListWorktrees(_ context.Context, repoPath string) ([]git.Worktree, error) {
	f.record("list-worktrees %s", repoPath)
	out := make([]git.Worktree, len(f.worktrees))
	copy(out, f.worktrees)
	return out, nil
}

func (f *fakeGateway) PushNewBranch(_ context.Context, _, branch string) error {
	f.record("push %s", branch)
	if f.pushErr != nil {
		return f.pushErr
	}
	f.remoteBranches[branch] = true
	return nil
}
