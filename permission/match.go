package permission

import "strings"

const wildcardSuffix = ":*"

// Match reports whether the held permission grants the queried one: either
// an exact match, or held ends in ":*" and query's prefix up to its last ":"
// equals held's prefix.
func Match(held, query string) bool {
	if held == query {
		return true
	}
	if !strings.HasSuffix(held, wildcardSuffix) {
		return false
	}

	idx := strings.LastIndex(query, ":")
	if idx < 0 {
		return false
	}
	return query[:idx] == held[:len(held)-len(wildcardSuffix)]
}

// MatchAny reports whether any held permission grants the queried one.
func MatchAny(held []string, query string) bool {
	for _, p := range held {
		if Match(p, query) {
			return true
		}
	}
	return false
}

// MatchAll reports whether every queried permission is granted. An empty
// query list is vacuously granted.
func MatchAll(held, queries []string) bool {
	for _, q := range queries {
		if !MatchAny(held, q) {
			return false
		}
	}
	return true
}

// MatchSome reports whether at least one queried permission is granted. An
// empty query list is not.
func MatchSome(held, queries []string) bool {
	for _, q := range queries {
		if MatchAny(held, q) {
			return true
		}
	}
	return false
}

// Contains is an exact membership test, used for roles.
func Contains(set []string, value string) bool {
	for _, v := range set {
		if v == value {
			return true
		}
	}
	return false
}

// ContainsAny reports whether any of values is a member of set.
func ContainsAny(set, values []string) bool {
	for _, v := range values {
		if Contains(set, v) {
			return true
		}
	}
	return false
}
