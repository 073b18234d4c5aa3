package core

import (
	"time"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

// Classification thresholds. Boundaries are half-open on the upper side:
// exactly 3.0% loss is GOOD, exactly 50ms latency is GOOD.
const (
	lossExcellentPct = 3.0
	lossGoodPct      = 7.0

	latencyExcellentMs = 50.0
	latencyGoodMs      = 100.0
)

// Classify aggregates the finalized flow records into a report with tiered
// quality verdicts. simTime is the simulated duration used to normalize
// throughput.
func Classify(records []*FlowRecord, simTime time.Duration) model.Report {
	var rep model.Report
	var rxBytes uint64
	var delayTotal float64 // seconds, sum of per-flow means
	flowsWithRx := 0

	for _, r := range records {
		rep.TxPackets += r.TxPackets
		rep.RxPackets += r.RxPackets
		rxBytes += r.RxBytes

		if mean, ok := r.MeanDelay(); ok {
			delayTotal += mean.Seconds()
			flowsWithRx++
		}
	}

	rep.LostPackets = rep.TxPackets - rep.RxPackets

	if rep.TxPackets > 0 {
		rep.HasLossRate = true
		rep.LossRatePct = float64(rep.LostPackets) * 100.0 / float64(rep.TxPackets)
		rep.LossVerdict = classifyLoss(rep.LossRatePct)
	}

	if simTime > 0 {
		rep.ThroughputKbps = float64(rxBytes) * 8.0 / simTime.Seconds() / 1000.0
	}

	if flowsWithRx > 0 {
		rep.HasLatency = true
		rep.AvgLatencyMs = delayTotal / float64(flowsWithRx) * 1000.0
		rep.LatencyVerdict = classifyLatency(rep.AvgLatencyMs)
	}

	return rep
}

func classifyLoss(pct float64) model.Verdict {
	switch {
	case pct < lossExcellentPct:
		return model.VerdictExcellent
	case pct < lossGoodPct:
		return model.VerdictGood
	default:
		return model.VerdictNeedsImprovement
	}
}

func classifyLatency(ms float64) model.Verdict {
	switch {
	case ms < latencyExcellentMs:
		return model.VerdictExcellent
	case ms < latencyGoodMs:
		return model.VerdictGood
	default:
		return model.VerdictAcceptable
	}
}
