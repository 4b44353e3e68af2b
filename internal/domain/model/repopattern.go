package model

import "strings"

// MatchRepoPattern reports whether repoFullName ("owner/repo") matches the
// given pattern. Two pattern forms exist: "owner/repo" compares the full name
// for equality, and "owner/*" compares the owner segment only. All comparisons
// are case-insensitive. A wildcard pattern never matches as an exact pattern
// and vice versa.
//
// This is the single matching primitive behind both channel-mapping resolution
// and the repository allow-list. The two call sites keep different defaults
// (no mapping match means "use the transport default"; an empty allow-list
// means "allow everything"), so only the match itself is shared.
func MatchRepoPattern(pattern, repoFullName string) bool {
	pattern = strings.ToLower(pattern)
	repoFullName = strings.ToLower(repoFullName)

	if rest, ok := strings.CutSuffix(pattern, "/*"); ok {
		owner, _, _ := strings.Cut(repoFullName, "/")
		return owner == rest
	}

	return repoFullName == pattern
}

// ValidRepoPattern reports whether p is a well-formed "owner/repo" or
// "owner/*" pattern with a non-empty owner and name.
func ValidRepoPattern(p string) bool {
	owner, name, ok := strings.Cut(p, "/")
	return ok && owner != "" && name != "" && !strings.Contains(name, "/")
}
