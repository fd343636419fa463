package permission

import (
	"strings"
	"testing"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		held  string
		query string
		want  bool
	}{
		{"users:read", "users:read", true},
		{"users:read", "users:write", false},
		{"users:read", "users", false},

		{"users:*", "users:read", true},
		{"users:*", "users:delete", true},
		{"users:*", "users:*", true},
		{"users:*", "users", false},
		{"users:*", "accounts:read", false},
		{"users:*", "users:comments:read", false},

		{"system:*", "system:admin", true},
		{"system:*", "users:read", false},

		{"a:b:*", "a:b:c", true},
		{"a:b:*", "a:b", false},
		{"a:b:*", "a:c:d", false},

		{"*", "anything", false},
		{"", "", true},
		{"users:read", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.held+"/"+tc.query, func(t *testing.T) {
			if got := Match(tc.held, tc.query); got != tc.want {
				t.Fatalf("Match(%q, %q) = %v, want %v", tc.held, tc.query, got, tc.want)
			}
		})
	}
}

// referenceMatch is the spelled-out statement of the wildcard law: exact
// membership, or a held "prefix:*" whose prefix equals the query's prefix up
// to the last colon.
func referenceMatch(held, query string) bool {
	if held == query {
		return true
	}
	if !strings.HasSuffix(held, ":*") {
		return false
	}
	idx := strings.LastIndex(query, ":")
	if idx < 0 {
		return false
	}
	return strings.TrimSuffix(held, ":*") == query[:idx]
}

func TestMatchAgainstReference(t *testing.T) {
	atoms := []string{"", "users", "users:read", "users:*", "a:b", "a:b:c", "a:b:*", ":*", "*", "a:", ":"}

	for _, held := range atoms {
		for _, query := range atoms {
			if got, want := Match(held, query), referenceMatch(held, query); got != want {
				t.Fatalf("Match(%q, %q) = %v, reference says %v", held, query, got, want)
			}
		}
	}
}

func TestMatchAny(t *testing.T) {
	held := []string{"posts:read", "users:*"}

	if !MatchAny(held, "posts:read") {
		t.Fatal("exact grant missed")
	}
	if !MatchAny(held, "users:delete") {
		t.Fatal("wildcard grant missed")
	}
	if MatchAny(held, "posts:write") {
		t.Fatal("unexpected grant")
	}
	if MatchAny(nil, "posts:read") {
		t.Fatal("empty set granted something")
	}
}

func TestMatchAllAndSome(t *testing.T) {
	held := []string{"posts:read", "users:*"}

	if !MatchAll(held, []string{"posts:read", "users:read"}) {
		t.Fatal("expected all granted")
	}
	if MatchAll(held, []string{"posts:read", "billing:read"}) {
		t.Fatal("expected one denial to fail MatchAll")
	}
	if !MatchAll(held, nil) {
		t.Fatal("empty query list must be vacuously granted")
	}

	if !MatchSome(held, []string{"billing:read", "users:read"}) {
		t.Fatal("expected one grant to satisfy MatchSome")
	}
	if MatchSome(held, []string{"billing:read"}) {
		t.Fatal("unexpected grant")
	}
	if MatchSome(held, nil) {
		t.Fatal("empty query list must not satisfy MatchSome")
	}
}

func TestContains(t *testing.T) {
	roles := []string{"admin", "editor"}

	if !Contains(roles, "admin") {
		t.Fatal("membership missed")
	}
	if Contains(roles, "viewer") {
		t.Fatal("unexpected membership")
	}
	if !ContainsAny(roles, []string{"viewer", "editor"}) {
		t.Fatal("expected any-membership")
	}
	if ContainsAny(roles, []string{"viewer", "owner"}) {
		t.Fatal("unexpected any-membership")
	}
	if ContainsAny(roles, nil) {
		t.Fatal("empty values must not match")
	}
}
