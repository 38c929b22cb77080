package githost

import "strings"

// ResolveRepoName derives the repository name from a task id. It is pure
// and idempotent: the same task id always maps to the same repository.
// Lowercase, spaces and underscores become hyphens, and everything outside
// [a-z0-9-.] is dropped.
func ResolveRepoName(taskID string) string {
	s := strings.ToLower(taskID)
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// describeRepo builds a repository description from the brief: the first
// 100 characters with control characters stripped.
func describeRepo(brief string) string {
	runes := []rune(brief)
	if len(runes) > 100 {
		runes = runes[:100]
	}

	var b strings.Builder
	for _, r := range runes {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}

	return "Auto-generated web application: " + b.String() + "..."
}
