package workspace

import (
	"path/filepath"

	"github.com/mmr-tortoise/gitx/internal/model"
)

// BaseDir returns the primary clone directory for a repository:
// <baseRoot>/<owner>/<name>.
func BaseDir(baseRoot string, repo model.RepoID) string {
	return filepath.Join(baseRoot, repo.Owner, repo.Name)
}

// WorktreePath returns the deterministic worktree directory for a branch:
// <baseDir>/<name>--<encoded-branch>. Worktrees live inside the primary
// clone directory, next to its checked-out files; the encoding keeps
// distinct branch names on distinct paths (see model.EncodeBranchSegment).
func WorktreePath(baseDir string, repo model.RepoID, branch string) string {
	return filepath.Join(baseDir, repo.Name+"--"+model.EncodeBranchSegment(branch))
}
