package git

import (
	"context"
	"os/exec"
	"strings"
)

// Worktree holds metadata about a single Git worktree entry as parsed
// from `git worktree list --porcelain` output.
//
// Example porcelain block:
//
//	worktree /path/to/feature-branch
//	HEAD abc123def456
//	branch refs/heads/feature-branch
type Worktree struct {
	// Path is the absolute filesystem path to the worktree directory.
	Path string

	// Branch is the short branch name (e.g., "main").
	// Empty if the worktree is in a detached HEAD state.
	Branch string

	// HEAD is the commit SHA the worktree currently points to.
	HEAD string

	// Detached marks a detached-HEAD worktree (including the primary
	// clone, which gitx detaches at clone time to free its branch).
	Detached bool

	// Bare marks a bare repository entry.
	Bare bool

	// Prunable marks a worktree whose directory no longer exists on disk.
	// Git keeps the registration until `git worktree prune` runs.
	Prunable bool
}

// Gateway is the contract every Git-touching component depends on.
// The CLI implementation shells out to git; tests substitute a fake.
type Gateway interface {
	// Clone runs `git clone url dest`. Fails with KindCloneFailed.
	Clone(ctx context.Context, url, dest string) error

	// DetectDefaultBranch resolves the repository's default branch by
	// trying, in this fixed order: the remote's symbolic HEAD reference,
	// then "main", then "master". Fails with KindNoDefaultBranch when
	// none resolve.
	DetectDefaultBranch(ctx context.Context, repoPath string) (string, error)

	// DetachHead detaches the repository's HEAD so the checked-out branch
	// becomes available to a worktree.
	DetachHead(ctx context.Context, repoPath string) error

	// Fetch updates all remote-tracking refs.
	Fetch(ctx context.Context, repoPath string) error

	// HasLocalBranch reports whether refs/heads/<branch> exists.
	HasLocalBranch(ctx context.Context, repoPath, branch string) bool

	// HasRemoteBranch reports whether refs/remotes/origin/<branch> exists.
	HasRemoteBranch(ctx context.Context, repoPath, branch string) bool

	// WorktreeAdd materializes a branch at targetPath. With createBranch
	// the branch is created from HEAD (`-b`); without it the branch must
	// already exist locally or on origin (KindBranchNotFound otherwise).
	// Fails with KindWorktreeExists when git reports the path or branch
	// already checked out elsewhere.
	WorktreeAdd(ctx context.Context, repoPath, branch, targetPath string, createBranch bool) error

	// WorktreeRemove deletes the worktree at targetPath. Fails with
	// KindWorktreeDirty when uncommitted changes exist and force is false.
	WorktreeRemove(ctx context.Context, repoPath, targetPath string, force bool) error

	// WorktreePrune drops registrations of worktrees whose directories
	// are gone from disk. Needed before a branch held by such a worktree
	// can be deleted or its worktree re-created.
	WorktreePrune(ctx context.Context, repoPath string) error

	// BranchDelete force-deletes the local branch. Fails with
	// KindBranchNotFound when the branch does not exist.
	BranchDelete(ctx context.Context, repoPath, branch string) error

	// BranchDeleteRemote deletes the branch on origin. Best-effort for
	// callers: a failure is reported but should not abort local cleanup.
	BranchDeleteRemote(ctx context.Context, repoPath, branch string) error

	// ListWorktrees returns the worktrees git currently knows about.
	// This is the ground truth used to reconcile config drift.
	ListWorktrees(ctx context.Context, repoPath string) ([]Worktree, error)

	// PushNewBranch pushes the branch to origin with upstream tracking.
	// Fails with KindPushFailed.
	PushNewBranch(ctx context.Context, repoPath, branch string) error
}

// CLI is the Gateway implementation backed by the git binary on PATH.
// It is stateless; all methods receive the repository path as a parameter.
type CLI struct{}

// NewCLI creates the git-binary-backed Gateway.
func NewCLI() *CLI {
	return &CLI{}
}

var _ Gateway = (*CLI)(nil)

func (g *CLI) Clone(ctx context.Context, url, dest string) error {
	// Clone takes no -C: the destination does not exist yet.
	_, err := runGitAt(ctx, "", KindCloneFailed, "clone", url, dest)
	return err
}

func (g *CLI) DetectDefaultBranch(ctx context.Context, repoPath string) (string, error) {
	// 1. The remote's symbolic HEAD, e.g. "origin/main". Present on fresh
	// clones; may be unset on repos added by hand.
	out, err := runGit(ctx, repoPath, "symbolic-ref", "--short", "refs/remotes/origin/HEAD")
	if err == nil {
		ref := strings.TrimSpace(out)
		if branch, ok := strings.CutPrefix(ref, "origin/"); ok && branch != "" {
			return branch, nil
		}
	}

	// 2/3. Fixed fallback order, never reordered by locale or remote naming.
	for _, branch := range []string{"main", "master"} {
		if g.HasLocalBranch(ctx, repoPath, branch) || g.HasRemoteBranch(ctx, repoPath, branch) {
			return branch, nil
		}
	}

	return "", &Error{Kind: KindNoDefaultBranch, Op: "detect default branch",
		Stderr: "no origin/HEAD, main, or master branch found"}
}

func (g *CLI) DetachHead(ctx context.Context, repoPath string) error {
	_, err := runGit(ctx, repoPath, "checkout", "--detach")
	return err
}

func (g *CLI) Fetch(ctx context.Context, repoPath string) error {
	_, err := runGit(ctx, repoPath, "fetch", "--all", "--prune")
	return err
}

func (g *CLI) HasLocalBranch(ctx context.Context, repoPath, branch string) bool {
	_, err := runGit(ctx, repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

func (g *CLI) HasRemoteBranch(ctx context.Context, repoPath, branch string) bool {
	_, err := runGit(ctx, repoPath, "show-ref", "--verify", "--quiet", "refs/remotes/origin/"+branch)
	return err == nil
}

func (g *CLI) WorktreeAdd(ctx context.Context, repoPath, branch, targetPath string, createBranch bool) error {
	if createBranch {
		_, err := runGit(ctx, repoPath, "worktree", "add", "-b", branch, targetPath)
		return classifyWorktreeAdd(err)
	}

	if g.HasLocalBranch(ctx, repoPath, branch) {
		_, err := runGit(ctx, repoPath, "worktree", "add", targetPath, branch)
		return classifyWorktreeAdd(err)
	}

	if g.HasRemoteBranch(ctx, repoPath, branch) {
		// Create a local tracking branch from origin in the same step.
		_, err := runGit(ctx, repoPath, "worktree", "add", "--track", "-b", branch, targetPath, "origin/"+branch)
		return classifyWorktreeAdd(err)
	}

	return &Error{Kind: KindBranchNotFound, Op: "worktree add",
		Stderr: "branch '" + branch + "' not found locally or on origin"}
}

// classifyWorktreeAdd upgrades generic worktree-add failures to
// KindWorktreeExists when git's message indicates the path or branch is
// already in use.
func classifyWorktreeAdd(err error) error {
	var ge *Error
	if err == nil || !asError(err, &ge) {
		return err
	}
	stderr := strings.ToLower(ge.Stderr)
	if strings.Contains(stderr, "already checked out") ||
		strings.Contains(stderr, "already exists") ||
		strings.Contains(stderr, "already used by worktree") {
		ge.Kind = KindWorktreeExists
	}
	return ge
}

func (g *CLI) WorktreeRemove(ctx context.Context, repoPath, targetPath string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		// --force allows removing worktrees with untracked files or
		// uncommitted changes. Without it, git refuses to remove them.
		args = append(args, "--force")
	}
	args = append(args, targetPath)

	_, err := runGit(ctx, repoPath, args...)
	var ge *Error
	if err != nil && asError(err, &ge) {
		stderr := strings.ToLower(ge.Stderr)
		if strings.Contains(stderr, "contains modified or untracked files") ||
			strings.Contains(stderr, "is dirty") {
			ge.Kind = KindWorktreeDirty
		}
		return ge
	}
	return err
}

func (g *CLI) WorktreePrune(ctx context.Context, repoPath string) error {
	_, err := runGit(ctx, repoPath, "worktree", "prune")
	return err
}

func (g *CLI) BranchDelete(ctx context.Context, repoPath, branch string) error {
	if !g.HasLocalBranch(ctx, repoPath, branch) {
		return &Error{Kind: KindBranchNotFound, Op: "branch delete",
			Stderr: "branch '" + branch + "' not found"}
	}
	_, err := runGit(ctx, repoPath, "branch", "-D", branch)
	return err
}

func (g *CLI) BranchDeleteRemote(ctx context.Context, repoPath, branch string) error {
	_, err := runGit(ctx, repoPath, "push", "origin", "--delete", branch)
	return err
}

func (g *CLI) ListWorktrees(ctx context.Context, repoPath string) ([]Worktree, error) {
	out, err := runGit(ctx, repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}
	return parsePorcelain(out), nil
}

func (g *CLI) PushNewBranch(ctx context.Context, repoPath, branch string) error {
	_, err := runGit(ctx, repoPath, "push", "-u", "origin", branch)
	var ge *Error
	if err != nil && asError(err, &ge) {
		ge.Kind = KindPushFailed
		return ge
	}
	return err
}

// runGit executes git with `-C repoPath` and returns stdout. On nonzero
// exit it returns an *Error with the trimmed stderr preserved and the
// default kind for plain command failures.
func runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	return runGitAt(ctx, repoPath, KindCommandFailed, args...)
}

// runGitAt is runGit with an explicit failure kind. An empty repoPath
// omits the -C flag (used by clone, whose target does not exist yet).
func runGitAt(ctx context.Context, repoPath string, kind Kind, args ...string) (string, error) {
	fullArgs := args
	if repoPath != "" {
		// -C is handled by git itself and works with every subcommand;
		// it avoids mutating the process working directory.
		fullArgs = append([]string{"-C", repoPath}, args...)
	}

	cmd := exec.CommandContext(ctx, "git", fullArgs...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{
			Kind:   kind,
			Op:     strings.Join(args, " "),
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return stdout.String(), nil
}

// asError is errors.As specialized for *Error, kept local so classify
// helpers read cleanly.
func asError(err error, target **Error) bool {
	ge, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = ge
	return true
}
