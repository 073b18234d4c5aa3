package model

// Verdict is a coarse, human-readable quality classification derived from
// aggregate flow statistics.
type Verdict string

const (
	VerdictExcellent        Verdict = "EXCELLENT"
	VerdictGood             Verdict = "GOOD"
	VerdictNeedsImprovement Verdict = "NEEDS IMPROVEMENT"
	VerdictAcceptable       Verdict = "ACCEPTABLE"
)

// Report carries the aggregate metrics and classification verdicts for one
// simulation run, as plain data. Formatting and printing belong to the
// caller.
type Report struct {
	TxPackets   uint64
	RxPackets   uint64
	LostPackets uint64

	// LossRatePct is only meaningful when HasLossRate is true (i.e. at
	// least one packet was transmitted).
	LossRatePct float64
	HasLossRate bool

	ThroughputKbps float64

	// AvgLatencyMs is only meaningful when HasLatency is true (i.e. at
	// least one flow received a packet).
	AvgLatencyMs float64
	HasLatency   bool

	LossVerdict    Verdict
	LatencyVerdict Verdict
}
