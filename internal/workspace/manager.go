package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mmr-tortoise/gitx/internal/config"
	"github.com/mmr-tortoise/gitx/internal/git"
	"github.com/mmr-tortoise/gitx/internal/model"
)

// Confirmer answers a yes/no question posed to the user. It is injected
// rather than read from the terminal directly so the Manager stays
// headless-testable and embeddable behind non-interactive automation.
type Confirmer func(prompt string) bool

// DenyAll is the Confirmer used when none is provided: every destructive
// or creative question is answered "no".
func DenyAll(string) bool { return false }

// Manager is the workspace/worktree lifecycle core. It owns the loaded
// config for the duration of one command, calls git through the Gateway,
// and never prints to stdout; diagnostics go through logf.
type Manager struct {
	cfg     *config.Config
	git     git.Gateway
	confirm Confirmer
	logf    func(format string, args ...any)
}

// NewManager creates a Manager. confirm may be nil (treated as DenyAll);
// logf may be nil (diagnostics discarded).
func NewManager(cfg *config.Config, gateway git.Gateway, confirm Confirmer, logf func(format string, args ...any)) *Manager {
	if confirm == nil {
		confirm = DenyAll
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Manager{cfg: cfg, git: gateway, confirm: confirm, logf: logf}
}

// CloneResult reports a successful clone.
type CloneResult struct {
	RepoID        model.RepoID
	BaseDir       string
	DefaultBranch string
	WorktreePath  string
}

// buildCloneURL turns a clone target into a full git URL. Full URLs pass
// through; "owner/name" shorthands are expanded via the configured provider.
func buildCloneURL(target string, repo model.RepoID, provider string) (string, error) {
	if model.IsFullGitURL(target) {
		return target, nil
	}
	switch provider {
	case "github":
		return fmt.Sprintf("https://github.com/%s/%s.git", repo.Owner, repo.Name), nil
	default:
		return "", fmt.Errorf("unsupported provider: %q", provider)
	}
}

// Clone clones a repository into the workspace tree and registers it.
//
// The flow, with its recovery semantics:
//
//  1. Registration and path-conflict checks happen before any git call, so
//     an existing workspace or directory is never clobbered.
//  2. git clone into baseDir.
//  3. Detect the default branch, detach the clone's HEAD, and add the
//     default-branch worktree.
//  4. Register the workspace with lastOpenedBranch = default.
//
// If any step after 2 fails, the clone directory remains on disk and the
// workspace stays unregistered; re-running clone then reports the directory
// as a path conflict rather than silently overwriting it.
func (m *Manager) Clone(ctx context.Context, target string) (*CloneResult, error) {
	repo, err := model.ParseRepoID(target)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUserError, "invalid repository", err)
	}
	repoID := repo.String()

	if _, exists := m.cfg.Workspaces[repoID]; exists {
		return nil, model.NewCLIError(model.ExitConflict,
			fmt.Sprintf("workspace %q already exists", repoID))
	}

	baseRoot, err := m.cfg.ExpandedBaseDir()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUserError, "invalid globals.baseDir", err)
	}
	baseDir := BaseDir(baseRoot, repo)

	if _, statErr := os.Stat(baseDir); statErr == nil {
		return nil, model.NewCLIError(model.ExitConflict,
			fmt.Sprintf("directory %s already exists but is not a registered workspace; move it aside or remove it before cloning", baseDir))
	}

	url, err := buildCloneURL(target, repo, m.cfg.Globals.DefaultProvider)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitUserError, "cannot build clone URL", err)
	}

	if err := os.MkdirAll(filepath.Dir(baseDir), 0o755); err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "cannot create workspace directory", err)
	}

	m.logf("Cloning %s into %s", url, baseDir)
	if err := m.git.Clone(ctx, url, baseDir); err != nil {
		return nil, model.WrapCLIError(model.ExitGitError, "clone failed", err)
	}

	defaultBranch, err := m.git.DetectDefaultBranch(ctx, baseDir)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGitError, "cannot detect default branch", err)
	}
	m.logf("Default branch: %s", defaultBranch)

	// Detach the primary clone so the default branch is free for a worktree.
	if err := m.git.DetachHead(ctx, baseDir); err != nil {
		return nil, model.WrapCLIError(model.ExitGitError, "cannot detach clone HEAD", err)
	}

	wtPath := WorktreePath(baseDir, repo, defaultBranch)
	m.logf("Creating default worktree at %s", wtPath)
	if err := m.git.WorktreeAdd(ctx, baseDir, defaultBranch, wtPath, false); err != nil {
		return nil, model.WrapCLIError(model.ExitGitError, "cannot create default worktree", err)
	}

	m.cfg.Workspaces[repoID] = &model.Workspace{
		BaseDir:          baseDir,
		LastOpenedBranch: defaultBranch,
		Branches: map[string]model.BranchWorktree{
			defaultBranch: {Path: wtPath, IsDefault: true},
		},
	}

	return &CloneResult{
		RepoID:        repo,
		BaseDir:       baseDir,
		DefaultBranch: defaultBranch,
		WorktreePath:  wtPath,
	}, nil
}

// lookup resolves key (repoId or label) to the workspace record.
func (m *Manager) lookup(key string) (string, model.RepoID, *model.Workspace, error) {
	repoID, ws := m.cfg.LookupWorkspace(key)
	if ws == nil {
		return "", model.RepoID{}, nil, model.NewCLIError(model.ExitNotFound,
			fmt.Sprintf("no workspace for %q (run 'gitx clone %s' first?)", key, key))
	}
	repo, err := model.ParseRepoID(repoID)
	if err != nil {
		return "", model.RepoID{}, nil, model.WrapCLIError(model.ExitGeneralError, "corrupt workspace key in config", err)
	}
	return repoID, repo, ws, nil
}

// BranchAdd materializes a worktree for a branch, creating and pushing the
// branch first (after confirmation) when it exists nowhere.
//
// The operation is idempotent: when the branch worktree is already recorded
// and git confirms it on disk, the existing path is returned with no
// further git calls.
func (m *Manager) BranchAdd(ctx context.Context, key, branch string) (string, error) {
	_, repo, ws, err := m.lookup(key)
	if err != nil {
		return "", err
	}

	worktrees, err := m.git.ListWorktrees(ctx, ws.BaseDir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGitError, "cannot list worktrees", err)
	}
	onDisk := make(map[string]bool, len(worktrees))
	prunable := false
	for _, wt := range worktrees {
		if wt.Prunable {
			prunable = true
			continue
		}
		onDisk[wt.Path] = true
	}

	if bw, ok := ws.Branches[branch]; ok && onDisk[bw.Path] {
		m.logf("Branch %q already materialized at %s", branch, bw.Path)
		return bw.Path, nil
	}

	path := WorktreePath(ws.BaseDir, repo, branch)

	// Refresh remote refs so the branch-existence check sees the remote's
	// current state. Best-effort: offline use must not break local adds.
	if err := m.git.Fetch(ctx, ws.BaseDir); err != nil {
		m.logf("Warning: fetch failed, continuing with local refs: %v", err)
	}

	createBranch := false
	if !m.git.HasLocalBranch(ctx, ws.BaseDir, branch) && !m.git.HasRemoteBranch(ctx, ws.BaseDir, branch) {
		prompt := fmt.Sprintf("Branch %q does not exist locally or on origin. Create it and push to origin?", branch)
		if !m.confirm(prompt) {
			return "", model.NewCLIError(model.ExitUserCancelled,
				fmt.Sprintf("branch %q was not created", branch))
		}
		createBranch = true
	}

	// A worktree deleted out-of-band stays registered and blocks re-adding
	// its path until pruned.
	if prunable {
		if err := m.git.WorktreePrune(ctx, ws.BaseDir); err != nil {
			return "", model.WrapCLIError(model.ExitGitError, "cannot prune stale worktrees", err)
		}
	}

	m.logf("Creating worktree for %q at %s", branch, path)
	if err := m.git.WorktreeAdd(ctx, ws.BaseDir, branch, path, createBranch); err != nil {
		if git.IsKind(err, git.KindWorktreeExists) {
			return "", model.WrapCLIError(model.ExitConflict,
				fmt.Sprintf("branch %q is already checked out elsewhere", branch), err)
		}
		return "", model.WrapCLIError(model.ExitGitError, "cannot create worktree", err)
	}

	// Register before the push: the worktree now exists, and a failed push
	// must leave a state from which a retry converges. An existing record
	// keeps its IsDefault flag (re-materializing the default branch after
	// out-of-band deletion must not demote it).
	bw := ws.Branches[branch]
	bw.Path = path
	ws.Branches[branch] = bw

	if createBranch {
		m.logf("Pushing new branch %q to origin", branch)
		if err := m.git.PushNewBranch(ctx, ws.BaseDir, branch); err != nil {
			return "", model.WrapCLIError(model.ExitGitError,
				fmt.Sprintf("branch %q created locally but push failed", branch), err)
		}
	}

	return path, nil
}

// BranchRemoveOptions controls BranchRemove.
type BranchRemoveOptions struct {
	// Force overrides both the active-branch guard and git's dirty-worktree
	// refusal.
	Force bool

	// DeleteRemote additionally deletes the branch on origin, best-effort.
	DeleteRemote bool
}

// BranchRemove removes a branch worktree and deletes the local branch.
//
// Removing the active (last-opened) branch requires Force, since it would
// strand the `gitx go`/`gitx code` shortcut. The worktree removal, branch
// deletion, and config update are treated as a unit: the config entry is
// dropped only once git has neither the worktree nor the local branch, so
// a removal that fails partway is retryable.
// When Force removes the active branch, lastOpenedBranch falls back to the
// default branch, or is cleared when the default itself was removed.
func (m *Manager) BranchRemove(ctx context.Context, key, branch string, opts BranchRemoveOptions) error {
	_, _, ws, err := m.lookup(key)
	if err != nil {
		return err
	}

	bw, tracked := ws.Branches[branch]
	if !tracked {
		return model.NewCLIError(model.ExitNotFound,
			fmt.Sprintf("branch %q is not tracked for this workspace", branch))
	}

	if branch == ws.LastOpenedBranch && !opts.Force {
		return model.NewCLIError(model.ExitConflict,
			fmt.Sprintf("branch %q is the active branch; re-run with --force to remove it", branch))
	}

	// Git truth decides whether there is anything to remove on disk; the
	// directory may already be gone from a partial prior run.
	worktrees, err := m.git.ListWorktrees(ctx, ws.BaseDir)
	if err != nil {
		return model.WrapCLIError(model.ExitGitError, "cannot list worktrees", err)
	}
	exists := false
	for _, wt := range worktrees {
		if wt.Path == bw.Path && !wt.Prunable {
			exists = true
			break
		}
	}

	if exists {
		m.logf("Removing worktree %s", bw.Path)
		if err := m.git.WorktreeRemove(ctx, ws.BaseDir, bw.Path, opts.Force); err != nil {
			if git.IsKind(err, git.KindWorktreeDirty) {
				return model.WrapCLIError(model.ExitConflict,
					fmt.Sprintf("worktree %s has uncommitted changes; re-run with --force to discard them", bw.Path), err)
			}
			return model.WrapCLIError(model.ExitGitError, "cannot remove worktree", err)
		}
	} else {
		m.logf("Worktree %s already absent, removing config entry", bw.Path)
		// A lingering registration would block the branch deletion below.
		if err := m.git.WorktreePrune(ctx, ws.BaseDir); err != nil {
			return model.WrapCLIError(model.ExitGitError, "cannot prune stale worktrees", err)
		}
	}

	m.logf("Deleting local branch %q", branch)
	if err := m.git.BranchDelete(ctx, ws.BaseDir, branch); err != nil {
		if git.IsKind(err, git.KindBranchNotFound) {
			m.logf("Local branch %q already gone", branch)
		} else {
			// The entry stays registered so a re-run retries the branch
			// deletion instead of reporting the branch as untracked.
			return model.WrapCLIError(model.ExitGitError,
				fmt.Sprintf("worktree removed, but deleting local branch %q failed; re-run to finish", branch), err)
		}
	}

	delete(ws.Branches, branch)
	if ws.LastOpenedBranch == branch {
		ws.LastOpenedBranch = ws.DefaultBranch()
	}

	if opts.DeleteRemote {
		m.logf("Deleting branch %q on origin", branch)
		if err := m.git.BranchDeleteRemote(ctx, ws.BaseDir, branch); err != nil {
			// Best-effort: report, never abort the completed local removal.
			m.logf("Warning: could not delete branch %q on origin: %v", branch, err)
		}
	}

	return nil
}

// BranchList reconciles the config's branches against git's worktree list.
// A workspace whose clone directory vanished entirely reports every
// recorded branch as stale instead of failing.
func (m *Manager) BranchList(ctx context.Context, key string) ([]BranchStatus, error) {
	_, _, ws, err := m.lookup(key)
	if err != nil {
		return nil, err
	}

	var worktrees []git.Worktree
	if _, statErr := os.Stat(ws.BaseDir); statErr == nil {
		worktrees, err = m.git.ListWorktrees(ctx, ws.BaseDir)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitGitError, "cannot list worktrees", err)
		}
	} else {
		m.logf("Warning: clone directory %s is missing", ws.BaseDir)
	}

	return Reconcile(ws, worktrees), nil
}

// Resolve returns the worktree path for a branch of a workspace and moves
// the workspace's last-opened cursor to it. With branch == "" the
// last-opened branch is used.
//
// When the recorded worktree has drifted away on disk, Resolve offers to
// re-create it through the confirmer; it never repairs drift silently.
func (m *Manager) Resolve(ctx context.Context, key, branch string) (string, error) {
	_, repo, ws, err := m.lookup(key)
	if err != nil {
		return "", err
	}

	if branch == "" {
		branch = ws.LastOpenedBranch
		if branch == "" {
			return "", model.NewCLIError(model.ExitNotFound,
				"workspace has no last-opened branch; pass --branch")
		}
	}

	bw, ok := ws.Branches[branch]
	if !ok {
		return "", model.NewCLIError(model.ExitNotFound,
			fmt.Sprintf("no worktree for branch %q (run 'gitx branch add %s %s' first?)", branch, repo, branch))
	}

	// Without the clone directory there is nothing to resolve against and
	// nothing to re-create a worktree from.
	if _, statErr := os.Stat(ws.BaseDir); statErr != nil {
		return "", model.NewCLIError(model.ExitConflict,
			fmt.Sprintf("clone directory %s is missing; run 'gitx workspace remove %s' to drop the record", ws.BaseDir, key))
	}

	worktrees, err := m.git.ListWorktrees(ctx, ws.BaseDir)
	if err != nil {
		return "", model.WrapCLIError(model.ExitGitError, "cannot list worktrees", err)
	}
	materialized := false
	for _, wt := range worktrees {
		if wt.Path == bw.Path && !wt.Prunable {
			materialized = true
			break
		}
	}

	if !materialized {
		prompt := fmt.Sprintf("Worktree for %q is missing at %s. Re-create it?", branch, bw.Path)
		if !m.confirm(prompt) {
			return "", model.NewCLIError(model.ExitUserCancelled,
				fmt.Sprintf("worktree for %q is missing", branch))
		}
		if err := m.git.WorktreePrune(ctx, ws.BaseDir); err != nil {
			return "", model.WrapCLIError(model.ExitGitError, "cannot prune stale worktrees", err)
		}
		if err := m.git.WorktreeAdd(ctx, ws.BaseDir, branch, bw.Path, false); err != nil {
			return "", model.WrapCLIError(model.ExitGitError, "cannot re-create worktree", err)
		}
	}

	ws.LastOpenedBranch = branch
	return bw.Path, nil
}

// Label sets (or replaces) a workspace's alias. Labels share a namespace
// with nothing else; a label held by another workspace is a conflict.
func (m *Manager) Label(key, alias string) error {
	repoID, _, ws, err := m.lookup(key)
	if err != nil {
		return err
	}

	if alias == "" {
		return model.NewCLIError(model.ExitUserError, "label must not be empty")
	}
	// A label containing "/" would be ambiguous with repoId keys.
	for _, r := range alias {
		if r == '/' {
			return model.NewCLIError(model.ExitUserError, "label must not contain '/'")
		}
	}

	for otherID, other := range m.cfg.Workspaces {
		if otherID != repoID && other.Label == alias {
			return model.NewCLIError(model.ExitConflict,
				fmt.Sprintf("label %q is already used by %s", alias, otherID))
		}
	}

	ws.Label = alias
	return nil
}

// RemoveWorkspace deletes every branch worktree, the primary clone, and
// the config entry for a workspace. The config entry survives until the
// disk is actually clean, so a failed removal is retryable.
func (m *Manager) RemoveWorkspace(ctx context.Context, key string, force bool) error {
	repoID, _, ws, err := m.lookup(key)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(ws.BaseDir); statErr == nil {
		worktrees, err := m.git.ListWorktrees(ctx, ws.BaseDir)
		if err != nil {
			return model.WrapCLIError(model.ExitGitError, "cannot list worktrees", err)
		}
		for _, wt := range worktrees {
			if wt.Bare || wt.Prunable || wt.Path == ws.BaseDir {
				continue
			}
			m.logf("Removing worktree %s", wt.Path)
			if err := m.git.WorktreeRemove(ctx, ws.BaseDir, wt.Path, force); err != nil {
				if git.IsKind(err, git.KindWorktreeDirty) {
					return model.WrapCLIError(model.ExitConflict,
						fmt.Sprintf("worktree %s has uncommitted changes; re-run with --force to discard them", wt.Path), err)
				}
				return model.WrapCLIError(model.ExitGitError, "cannot remove worktree", err)
			}
		}

		m.logf("Removing clone directory %s", ws.BaseDir)
		if err := os.RemoveAll(ws.BaseDir); err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "cannot remove clone directory", err)
		}
	} else {
		m.logf("Clone directory %s already absent, removing config entry", ws.BaseDir)
	}

	delete(m.cfg.Workspaces, repoID)
	return nil
}

// WorkspaceInfo is one row of `gitx workspace list` output.
type WorkspaceInfo struct {
	RepoID           string
	Label            string
	LastOpenedBranch string
	BranchCount      int
	BaseDir          string

	// Missing is a drift marker: the config records this workspace but its
	// clone directory is gone from disk.
	Missing bool
}

// Workspaces lists the registered workspaces in repoId order, with a drift
// marker for clone directories that vanished out-of-band.
func (m *Manager) Workspaces() []WorkspaceInfo {
	ids := m.cfg.WorkspaceIDs()
	infos := make([]WorkspaceInfo, 0, len(ids))
	for _, id := range ids {
		ws := m.cfg.Workspaces[id]
		_, statErr := os.Stat(ws.BaseDir)
		infos = append(infos, WorkspaceInfo{
			RepoID:           id,
			Label:            ws.Label,
			LastOpenedBranch: ws.LastOpenedBranch,
			BranchCount:      len(ws.Branches),
			BaseDir:          ws.BaseDir,
			Missing:          os.IsNotExist(statErr),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].RepoID < infos[j].RepoID })
	return infos
}
