package git

import "strings"

// parsePorcelain parses `git worktree list --porcelain` output.
//
// The porcelain format separates worktree blocks with blank lines. Within a
// block each line is a space-separated key/value pair, with standalone
// markers ("bare", "detached") carrying no value:
//
//	worktree /path/to/main
//	HEAD abc123
//	branch refs/heads/main
//
//	worktree /path/to/repo
//	HEAD def456
//	detached
func parsePorcelain(output string) []Worktree {
	var worktrees []Worktree

	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	var current *Worktree
	for _, line := range lines {
		// A blank line ends the current block.
		if line == "" {
			if current != nil {
				worktrees = append(worktrees, *current)
				current = nil
			}
			continue
		}

		key, value, _ := strings.Cut(line, " ")

		switch key {
		case "worktree":
			current = &Worktree{Path: value}
		case "HEAD":
			if current != nil {
				current.HEAD = value
			}
		case "branch":
			if current != nil {
				// Store the short name; the full ref form is a git
				// implementation detail callers never need.
				current.Branch = strings.TrimPrefix(value, "refs/heads/")
			}
		case "bare":
			if current != nil {
				current.Bare = true
			}
		case "detached":
			if current != nil {
				current.Detached = true
			}
		case "prunable":
			// The worktree directory is gone but its registration
			// lingers until `git worktree prune`.
			if current != nil {
				current.Prunable = true
			}
		}
	}

	// The last block may not be followed by a blank line.
	if current != nil {
		worktrees = append(worktrees, *current)
	}

	return worktrees
}
