package core

import (
	"sort"
	"time"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

// MetricsRecorder receives simulation events for export. The Prometheus
// implementation lives in internal/observability; core only depends on
// this interface so the simulation stays decoupled from the metrics
// backend.
type MetricsRecorder interface {
	SetTopologyCounts(nodes, links, flows int)
	PacketTransmitted(category string)
	PacketReceived(category string, delay time.Duration)
	PacketDropped(category string)
	ObserveRunDuration(d time.Duration)
}

// NoopMetrics returns a recorder that drops everything.
func NoopMetrics() MetricsRecorder { return noopMetrics{} }

type noopMetrics struct{}

func (noopMetrics) SetTopologyCounts(int, int, int)      {}
func (noopMetrics) PacketTransmitted(string)             {}
func (noopMetrics) PacketReceived(string, time.Duration) {}
func (noopMetrics) PacketDropped(string)                 {}
func (noopMetrics) ObserveRunDuration(time.Duration)     {}

// FlowRecord accumulates per-flow statistics. Records are created lazily
// the first time a packet of the flow is observed and are read-only once
// the monitor is finalized. Loss needs no explicit bookkeeping: a dropped
// packet simply never produces a delivery, so TxPackets-RxPackets is the
// loss count.
type FlowRecord struct {
	FlowID   string
	Source   string
	Category model.SiteCategory

	TxPackets uint64
	RxPackets uint64
	RxBytes   uint64
	DelaySum  time.Duration
}

// MeanDelay returns the flow's average one-way delay, or false if the flow
// received nothing.
func (r *FlowRecord) MeanDelay() (time.Duration, bool) {
	if r.RxPackets == 0 {
		return 0, false
	}
	return r.DelaySum / time.Duration(r.RxPackets), true
}

// FlowMonitor observes packets crossing the network during a run. It is
// mutated only from event actions, which the engine executes on a single
// goroutine, so no locking is needed.
type FlowMonitor struct {
	records   map[string]*FlowRecord
	finalized bool
	metrics   MetricsRecorder
}

// NewFlowMonitor creates a monitor. A nil recorder is replaced with a noop.
func NewFlowMonitor(metrics MetricsRecorder) *FlowMonitor {
	if metrics == nil {
		metrics = NoopMetrics()
	}
	return &FlowMonitor{
		records: make(map[string]*FlowRecord),
		metrics: metrics,
	}
}

// RecordTransmit counts one emitted packet for the flow.
func (m *FlowMonitor) RecordTransmit(f *Flow) {
	if m.finalized {
		return
	}
	r := m.record(f)
	r.TxPackets++
	m.metrics.PacketTransmitted(string(f.Category))
}

// RecordReceive counts one delivered packet with its accumulated one-way
// delay.
func (m *FlowMonitor) RecordReceive(f *Flow, sizeBytes int, delay time.Duration) {
	if m.finalized {
		return
	}
	r := m.record(f)
	r.RxPackets++
	r.RxBytes += uint64(sizeBytes)
	r.DelaySum += delay
	m.metrics.PacketReceived(string(f.Category), delay)
}

// RecordDrop reports a saturated-link drop to the metrics backend. The
// flow record itself is untouched: loss is derived, not stored.
func (m *FlowMonitor) RecordDrop(f *Flow) {
	m.metrics.PacketDropped(string(f.Category))
}

// Finalize freezes the monitor; later Record* calls are ignored.
func (m *FlowMonitor) Finalize() { m.finalized = true }

// Records returns the flow records sorted by flow ID.
func (m *FlowMonitor) Records() []*FlowRecord {
	out := make([]*FlowRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FlowID < out[j].FlowID })
	return out
}

func (m *FlowMonitor) record(f *Flow) *FlowRecord {
	r, ok := m.records[f.ID]
	if !ok {
		r = &FlowRecord{FlowID: f.ID, Source: f.Source, Category: f.Category}
		m.records[f.ID] = r
	}
	return r
}
