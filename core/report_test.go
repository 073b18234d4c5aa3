package core

import (
	"testing"
	"time"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

func TestClassifyAggregatesCounters(t *testing.T) {
	records := []*FlowRecord{
		{FlowID: "flow-school-1", TxPackets: 100, RxPackets: 98, RxBytes: 98 * 256, DelaySum: 98 * 40 * time.Millisecond},
		{FlowID: "flow-clinic-1", TxPackets: 150, RxPackets: 150, RxBytes: 150 * 512, DelaySum: 150 * 30 * time.Millisecond},
	}
	rep := Classify(records, 30*time.Second)

	if rep.TxPackets != 250 || rep.RxPackets != 248 || rep.LostPackets != 2 {
		t.Fatalf("counters = tx %d rx %d lost %d, want 250/248/2",
			rep.TxPackets, rep.RxPackets, rep.LostPackets)
	}
	if !rep.HasLossRate {
		t.Fatalf("HasLossRate = false with transmitted packets")
	}
	if got, want := rep.LossRatePct, 2.0*100.0/250.0; got != want {
		t.Fatalf("LossRatePct = %g, want %g", got, want)
	}
	wantKbps := float64(98*256+150*512) * 8.0 / 30.0 / 1000.0
	if rep.ThroughputKbps != wantKbps {
		t.Fatalf("ThroughputKbps = %g, want %g", rep.ThroughputKbps, wantKbps)
	}
	if !rep.HasLatency {
		t.Fatalf("HasLatency = false with deliveries")
	}
	// Average over per-flow means, not over packets: (40ms + 30ms) / 2.
	if got, want := rep.AvgLatencyMs, 35.0; got != want {
		t.Fatalf("AvgLatencyMs = %g, want %g", got, want)
	}
}

func TestClassifyLossVerdictBoundaries(t *testing.T) {
	tests := []struct {
		name string
		tx   uint64
		rx   uint64
		want model.Verdict
	}{
		{"no loss", 100, 100, model.VerdictExcellent},
		{"just under excellent bound", 100, 98, model.VerdictExcellent},
		{"exactly three percent", 100, 97, model.VerdictGood},
		{"just under good bound", 1000, 931, model.VerdictGood},
		{"exactly seven percent", 100, 93, model.VerdictNeedsImprovement},
		{"heavy loss", 100, 50, model.VerdictNeedsImprovement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := []*FlowRecord{{FlowID: "f", TxPackets: tc.tx, RxPackets: tc.rx}}
			rep := Classify(records, 30*time.Second)
			if rep.LossVerdict != tc.want {
				t.Fatalf("loss verdict for %d/%d = %q, want %q",
					tc.rx, tc.tx, rep.LossVerdict, tc.want)
			}
		})
	}
}

func TestClassifyLatencyVerdictBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		delay time.Duration
		want  model.Verdict
	}{
		{"well under excellent bound", 10 * time.Millisecond, model.VerdictExcellent},
		{"just under excellent bound", 49999 * time.Microsecond, model.VerdictExcellent},
		{"exactly fifty ms", 50 * time.Millisecond, model.VerdictGood},
		{"just under good bound", 99 * time.Millisecond, model.VerdictGood},
		{"exactly one hundred ms", 100 * time.Millisecond, model.VerdictAcceptable},
		{"far over", time.Second, model.VerdictAcceptable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records := []*FlowRecord{{FlowID: "f", TxPackets: 1, RxPackets: 1, DelaySum: tc.delay}}
			rep := Classify(records, 30*time.Second)
			if rep.LatencyVerdict != tc.want {
				t.Fatalf("latency verdict for %s = %q, want %q",
					tc.delay, rep.LatencyVerdict, tc.want)
			}
		})
	}
}

func TestClassifyEmptyRun(t *testing.T) {
	rep := Classify(nil, 30*time.Second)
	if rep.HasLossRate {
		t.Fatalf("HasLossRate = true with no transmissions")
	}
	if rep.HasLatency {
		t.Fatalf("HasLatency = true with no deliveries")
	}
	if rep.ThroughputKbps != 0 {
		t.Fatalf("ThroughputKbps = %g, want 0", rep.ThroughputKbps)
	}
}

func TestClassifyTransmitOnlyFlows(t *testing.T) {
	// Everything lost: loss is classifiable, latency is not.
	records := []*FlowRecord{{FlowID: "f", TxPackets: 10, RxPackets: 0}}
	rep := Classify(records, 30*time.Second)

	if !rep.HasLossRate || rep.LossRatePct != 100.0 {
		t.Fatalf("loss rate = %g (has=%v), want 100", rep.LossRatePct, rep.HasLossRate)
	}
	if rep.LossVerdict != model.VerdictNeedsImprovement {
		t.Fatalf("loss verdict = %q, want NEEDS IMPROVEMENT", rep.LossVerdict)
	}
	if rep.HasLatency {
		t.Fatalf("HasLatency = true with no deliveries")
	}
}
