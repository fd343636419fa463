package goSession

import "github.com/MrEthical07/goSession/permission"

// HasPermission reports whether the current user holds the queried
// permission, either exactly or through a trailing-wildcard grant.
//
// HasPermission may return an error when input validation, dependency calls, or security checks fail.
// HasPermission does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) HasPermission(p string) bool {
	if m == nil {
		return false
	}
	m.metricInc(MetricPermissionChecks)

	m.mu.Lock()
	held := m.permissions
	ok := permission.MatchAny(held, p)
	m.mu.Unlock()

	if !ok {
		m.metricInc(MetricPermissionDenied)
	}
	return ok
}

// HasAllPermissions describes the hasallpermissions operation and its observable behavior.
//
// HasAllPermissions may return an error when input validation, dependency calls, or security checks fail.
// HasAllPermissions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) HasAllPermissions(queries []string) bool {
	if m == nil {
		return false
	}
	m.metricInc(MetricPermissionChecks)

	m.mu.Lock()
	ok := permission.MatchAll(m.permissions, queries)
	m.mu.Unlock()

	if !ok {
		m.metricInc(MetricPermissionDenied)
	}
	return ok
}

// HasAnyPermission describes the hasanypermission operation and its observable behavior.
//
// HasAnyPermission may return an error when input validation, dependency calls, or security checks fail.
// HasAnyPermission does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) HasAnyPermission(queries []string) bool {
	if m == nil {
		return false
	}
	m.metricInc(MetricPermissionChecks)

	m.mu.Lock()
	ok := permission.MatchSome(m.permissions, queries)
	m.mu.Unlock()

	if !ok {
		m.metricInc(MetricPermissionDenied)
	}
	return ok
}

// HasRole describes the hasrole operation and its observable behavior.
//
// HasRole may return an error when input validation, dependency calls, or security checks fail.
// HasRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) HasRole(role string) bool {
	if m == nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return permission.Contains(m.roles, role)
}

// HasAnyRole describes the hasanyrole operation and its observable behavior.
//
// HasAnyRole may return an error when input validation, dependency calls, or security checks fail.
// HasAnyRole does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Manager) HasAnyRole(roles []string) bool {
	if m == nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return permission.ContainsAny(m.roles, roles)
}
