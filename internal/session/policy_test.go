package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicyProtectedPathWithoutSession(t *testing.T) {
	policy := NewPolicy()

	for _, path := range []string{"/admin", "/admin/", "/admin/settings", "/admin/manage-users", "/profile", "/profile/questions"} {
		decision := policy.Evaluate(path, false)
		assert.Falsef(t, decision.Allow, "path %s should redirect", path)
		assert.NotEmpty(t, decision.RedirectTo)
	}
}

func TestPolicyProtectedPathWithSession(t *testing.T) {
	policy := NewPolicy()

	for _, path := range []string{"/admin/settings", "/profile/questions"} {
		decision := policy.Evaluate(path, true)
		assert.Truef(t, decision.Allow, "path %s should be allowed", path)
	}
}

func TestPolicyLoginPagesAlwaysReachable(t *testing.T) {
	policy := NewPolicy()

	assert.True(t, policy.Evaluate("/admin/login", false).Allow)
	assert.True(t, policy.Evaluate("/login", false).Allow)
}

func TestPolicyRealmIsolation(t *testing.T) {
	policy := NewPolicy()

	admin := policy.Evaluate("/admin/approvals", false)
	assert.Equal(t, "/admin/login", admin.RedirectTo)

	profile := policy.Evaluate("/profile/settings", false)
	assert.Equal(t, "/login", profile.RedirectTo)
}

func TestPolicyPublicPathsAllowed(t *testing.T) {
	policy := NewPolicy()

	for _, path := range []string{"/", "/register", "/api/v1/game/questions", "/health"} {
		assert.Truef(t, policy.Evaluate(path, false).Allow, "path %s should be public", path)
	}
}

func TestPolicyPrefixBoundary(t *testing.T) {
	policy := NewPolicy()

	// /administrator is not inside the /admin realm.
	assert.True(t, policy.Evaluate("/administrator", false).Allow)
	assert.True(t, policy.Evaluate("/profiles", false).Allow)
}

func TestPolicyLongestPrefixWins(t *testing.T) {
	policy := NewPolicy(
		Realm{Prefix: "/admin", LoginPath: "/admin/login"},
		Realm{Prefix: "/admin/audit", LoginPath: "/admin/audit/login"},
	)

	decision := policy.Evaluate("/admin/audit/logs", false)
	assert.Equal(t, "/admin/audit/login", decision.RedirectTo)

	decision = policy.Evaluate("/admin/settings", false)
	assert.Equal(t, "/admin/login", decision.RedirectTo)
}
