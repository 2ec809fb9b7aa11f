package model

import "strings"

// Branch names may contain "/" (e.g. "feature/login"), which cannot appear
// in a single path segment. The encoding below maps any branch name to a
// filesystem-safe segment without collisions:
//
//	"/" → "--"
//	"-" → "-_"
//
// Because every "-" in the input is escaped, "--" can only ever mean "/",
// so the mapping is injective: two distinct branch names never share a
// worktree path, and DecodeBranchSegment recovers the original name.
//
// Examples:
//
//	main             → main
//	feature/login    → feature--login
//	fix/rate-limit   → fix--rate-_limit

// EncodeBranchSegment converts a branch name into the path segment used
// in worktree directory names.
func EncodeBranchSegment(branch string) string {
	var b strings.Builder
	b.Grow(len(branch) + 4)
	for _, r := range branch {
		switch r {
		case '/':
			b.WriteString("--")
		case '-':
			b.WriteString("-_")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DecodeBranchSegment reverses EncodeBranchSegment. Segments that were not
// produced by the encoder (a trailing lone "-", or "-" followed by an
// ordinary character) are returned with those characters kept as-is, so
// decoding never fails.
func DecodeBranchSegment(segment string) string {
	var b strings.Builder
	b.Grow(len(segment))
	for i := 0; i < len(segment); i++ {
		if segment[i] != '-' {
			b.WriteByte(segment[i])
			continue
		}
		if i+1 < len(segment) {
			switch segment[i+1] {
			case '-':
				b.WriteByte('/')
				i++
				continue
			case '_':
				b.WriteByte('-')
				i++
				continue
			}
		}
		b.WriteByte('-')
	}
	return b.String()
}
