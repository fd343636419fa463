package internaldefs

import (
	goSession "github.com/MrEthical07/goSession"
)

// CounterDef defines a public type used by goSession APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goSession APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goSession.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the session manager.
var CounterDefs = []CounterDef{
	{ID: goSession.MetricInitializeSuccess, Name: "gosession_initialize_success_total", Help: "Successful initialize operations."},
	{ID: goSession.MetricInitializeFailure, Name: "gosession_initialize_failure_total", Help: "Failed initialize operations."},
	{ID: goSession.MetricLoginSuccess, Name: "gosession_login_success_total", Help: "Successful login attempts."},
	{ID: goSession.MetricLoginFailure, Name: "gosession_login_failure_total", Help: "Failed login attempts."},
	{ID: goSession.MetricLoginTwoFactorRequired, Name: "gosession_login_two_factor_required_total", Help: "Login flows requiring a two-factor step."},
	{ID: goSession.MetricTwoFactorSuccess, Name: "gosession_two_factor_success_total", Help: "Successful two-factor verifications."},
	{ID: goSession.MetricTwoFactorFailure, Name: "gosession_two_factor_failure_total", Help: "Failed two-factor verifications."},
	{ID: goSession.MetricRegisterSuccess, Name: "gosession_register_success_total", Help: "Successful registrations."},
	{ID: goSession.MetricRegisterFailure, Name: "gosession_register_failure_total", Help: "Failed registrations."},
	{ID: goSession.MetricLogout, Name: "gosession_logout_total", Help: "Logout operations."},
	{ID: goSession.MetricRefreshSuccess, Name: "gosession_refresh_success_total", Help: "Successful refresh operations."},
	{ID: goSession.MetricRefreshFailure, Name: "gosession_refresh_failure_total", Help: "Failed refresh operations."},
	{ID: goSession.MetricRefreshScheduled, Name: "gosession_refresh_scheduled_total", Help: "Armed proactive refresh timers."},
	{ID: goSession.MetricRefreshSkippedNoToken, Name: "gosession_refresh_skipped_no_token_total", Help: "Refresh attempts skipped for lack of a refresh token."},
	{ID: goSession.MetricSessionChecked, Name: "gosession_session_checked_total", Help: "Session validity checks."},
	{ID: goSession.MetricSessionExtended, Name: "gosession_session_extended_total", Help: "Session extension operations."},
	{ID: goSession.MetricSessionExpired, Name: "gosession_session_expired_total", Help: "Sessions ended by refresh failure."},
	{ID: goSession.MetricPermissionChecks, Name: "gosession_permission_checks_total", Help: "Permission checks."},
	{ID: goSession.MetricPermissionDenied, Name: "gosession_permission_denied_total", Help: "Denied permission checks."},
	{ID: goSession.MetricPasswordChangeSuccess, Name: "gosession_password_change_success_total", Help: "Successful password changes."},
	{ID: goSession.MetricPasswordChangeFailure, Name: "gosession_password_change_failure_total", Help: "Failed password changes."},
	{ID: goSession.MetricPasswordResetRequest, Name: "gosession_password_reset_request_total", Help: "Password reset requests."},
	{ID: goSession.MetricPasswordResetConfirm, Name: "gosession_password_reset_confirm_total", Help: "Password reset confirmations."},
	{ID: goSession.MetricEmailVerificationSuccess, Name: "gosession_email_verification_success_total", Help: "Successful email verifications."},
	{ID: goSession.MetricEmailVerificationFailure, Name: "gosession_email_verification_failure_total", Help: "Failed email verifications."},
	{ID: goSession.MetricStaleResultDiscarded, Name: "gosession_stale_result_discarded_total", Help: "Async results discarded because auth state changed mid-flight."},
	{ID: goSession.MetricAPINetworkError, Name: "gosession_api_network_error_total", Help: "API calls failed by network errors."},
	{ID: goSession.MetricAPITimeout, Name: "gosession_api_timeout_total", Help: "API calls failed by timeouts."},
}

// HistogramDefs is an exported constant or variable used by the session manager.
var HistogramDefs = []HistogramDef{
	{ID: goSession.MetricLoginLatency, Name: "gosession_login_latency_seconds", Help: "Login latency histogram."},
	{ID: goSession.MetricRefreshLatency, Name: "gosession_refresh_latency_seconds", Help: "Refresh latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the session manager.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the session manager.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
