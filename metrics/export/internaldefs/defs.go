package internaldefs

import (
	permbit "github.com/permbit/permbit"
)

// CounterDef maps an engine counter to its exported metric name.
type CounterDef struct {
	ID   permbit.MetricID
	Name string
	Help string
}

// HistogramDef maps an engine histogram to its exported metric name.
type HistogramDef struct {
	ID   permbit.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Exporters iterate this slice
// so the two exposition formats stay in lockstep.
var CounterDefs = []CounterDef{
	{ID: permbit.MetricGrant, Name: "permbit_grant_total", Help: "Successful grant mutations."},
	{ID: permbit.MetricRevoke, Name: "permbit_revoke_total", Help: "Successful revoke mutations."},
	{ID: permbit.MetricRoleGrant, Name: "permbit_role_grant_total", Help: "Role-based grant mutations."},
	{ID: permbit.MetricCheckAllowed, Name: "permbit_check_allowed_total", Help: "Checks satisfied by explicit bits."},
	{ID: permbit.MetricCheckDenied, Name: "permbit_check_denied_total", Help: "Checks that were denied."},
	{ID: permbit.MetricCheckUnrestricted, Name: "permbit_check_unrestricted_total", Help: "Checks satisfied by the unrestricted sentinel."},
	{ID: permbit.MetricSubjectReset, Name: "permbit_subject_reset_total", Help: "Subject grant-record deletions."},
	{ID: permbit.MetricTokenIssued, Name: "permbit_token_issued_total", Help: "Issued grant tokens."},
	{ID: permbit.MetricTokenRejected, Name: "permbit_token_rejected_total", Help: "Grant tokens that failed validation."},
	{ID: permbit.MetricStoreConflict, Name: "permbit_store_conflict_total", Help: "Optimistic store updates that exhausted retries."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: permbit.MetricCheckLatency, Name: "permbit_check_latency_seconds", Help: "Check latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, as exposed in
// Prometheus le labels.
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

// HistogramBoundSuffix mirrors HistogramBounds with characters safe for
// metric name suffixes.
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

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into the cumulative form
// Prometheus histograms expose.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
