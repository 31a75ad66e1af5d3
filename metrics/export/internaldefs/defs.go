package internaldefs

import (
	pasetoAuth "github.com/MrEthical07/pasetoAuth"
)

// CounterDef defines a public type used by pasetoAuth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   pasetoAuth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by pasetoAuth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   pasetoAuth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication engine.
var CounterDefs = []CounterDef{
	{ID: pasetoAuth.MetricIssueSuccess, Name: "pasetoauth_issue_success_total", Help: "Successful token pair issuances."},
	{ID: pasetoAuth.MetricIssueFailure, Name: "pasetoauth_issue_failure_total", Help: "Failed token pair issuances."},
	{ID: pasetoAuth.MetricRefreshSuccess, Name: "pasetoauth_refresh_success_total", Help: "Successful access token refreshes."},
	{ID: pasetoAuth.MetricRefreshFailure, Name: "pasetoauth_refresh_failure_total", Help: "Failed access token refreshes."},
	{ID: pasetoAuth.MetricAuthSuccess, Name: "pasetoauth_auth_success_total", Help: "Requests authenticated with a live principal."},
	{ID: pasetoAuth.MetricAuthFailure, Name: "pasetoauth_auth_failure_total", Help: "Requests rejected with invalid credentials."},
	{ID: pasetoAuth.MetricAuthAnonymous, Name: "pasetoauth_auth_anonymous_total", Help: "Valid tokens resolved to the anonymous principal."},
	{ID: pasetoAuth.MetricProvisionSuccess, Name: "pasetoauth_provision_success_total", Help: "Successful app token provisions."},
	{ID: pasetoAuth.MetricProvisionFailure, Name: "pasetoauth_provision_failure_total", Help: "Failed app token provisions."},
	{ID: pasetoAuth.MetricRevoke, Name: "pasetoauth_revoke_total", Help: "Revoked token records."},
	{ID: pasetoAuth.MetricKeyCollision, Name: "pasetoauth_key_collision_total", Help: "Duplicate-key retries during key generation."},
}

// HistogramDefs is an exported constant or variable used by the authentication engine.
var HistogramDefs = []HistogramDef{
	{ID: pasetoAuth.MetricAuthenticateLatency, Name: "pasetoauth_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication engine.
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

// HistogramBoundSuffix is an exported constant or variable used by the authentication engine.
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

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
