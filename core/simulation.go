package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/signalsfoundry/solarwan-simulator/internal/logging"
	"github.com/signalsfoundry/solarwan-simulator/model"
)

// Params is the plain parameter set for one simulation run. The caller
// (typically a CLI) does all parsing; the core only validates.
type Params struct {
	Schools    int
	Clinics    int
	Microgrids int
	Duration   time.Duration

	// Optional policy overrides; nil means defaults.
	LinkClasses map[LinkClass]LinkParams
	Policies    map[model.SiteCategory]TrafficPolicy

	// Optional collaborators; nil means noop.
	Logger  logging.Logger
	Metrics MetricsRecorder
}

// Results is everything a run produces, as plain data: finalized per-flow
// records, the classified report, and the display information an external
// renderer needs. Formatting, printing, and file writing stay outside the
// core.
type Results struct {
	RunID    string
	Duration time.Duration

	Schools    int
	Clinics    int
	Microgrids int

	Report model.Report
	Flows  []*FlowRecord

	Nodes []model.NodeDisplay
	Links []model.LinkDisplay
}

// Run executes one complete simulation: build the topology, allocate
// addresses, schedule traffic, drive the event queue to the stop time, and
// classify the resulting flow statistics. Runs with identical Params are
// deterministic.
func Run(ctx context.Context, p Params) (*Results, error) {
	if p.Duration <= 0 {
		return nil, fmt.Errorf("non-positive simulation duration %s", p.Duration)
	}
	metrics := p.Metrics
	if metrics == nil {
		metrics = NoopMetrics()
	}

	runID := uuid.NewString()
	ctx, log := logging.WithRunLogger(ctx, p.Logger, runID)

	started := time.Now()

	topo, err := BuildTopology(p.Schools, p.Clinics, p.Microgrids, p.LinkClasses)
	if err != nil {
		return nil, fmt.Errorf("build topology: %w", err)
	}
	log.Info(ctx, "topology built",
		logging.Int("nodes", topo.NodeCount()),
		logging.Int("links", topo.LinkCount()))

	plan, err := AllocateAddresses(topo)
	if err != nil {
		return nil, fmt.Errorf("allocate addresses: %w", err)
	}
	log.Info(ctx, "addresses allocated",
		logging.String("station_addr", plan.StationAddr.String()))

	engine := NewEngine(log)
	monitor := NewFlowMonitor(metrics)
	scheduler := NewTrafficScheduler(engine, topo, plan, monitor, p.Policies, log)

	flows, err := scheduler.ScheduleFlows(p.Duration)
	if err != nil {
		return nil, fmt.Errorf("schedule traffic: %w", err)
	}
	metrics.SetTopologyCounts(topo.NodeCount(), topo.LinkCount(), len(flows))
	log.Info(ctx, "traffic scheduled", logging.Int("flows", len(flows)))

	if err := engine.Run(ctx, p.Duration); err != nil {
		return nil, fmt.Errorf("engine run: %w", err)
	}
	monitor.Finalize()

	records := monitor.Records()
	report := Classify(records, p.Duration)
	metrics.ObserveRunDuration(time.Since(started))

	log.Info(ctx, "simulation complete",
		logging.Any("tx_packets", report.TxPackets),
		logging.Any("rx_packets", report.RxPackets),
		logging.Any("loss_pct", report.LossRatePct),
		logging.Any("avg_latency_ms", report.AvgLatencyMs))

	res := &Results{
		RunID:      runID,
		Duration:   p.Duration,
		Schools:    p.Schools,
		Clinics:    p.Clinics,
		Microgrids: p.Microgrids,
		Report:     report,
		Flows:      records,
	}
	for _, n := range topo.Nodes() {
		res.Nodes = append(res.Nodes, n.Display())
	}
	for _, l := range topo.Links() {
		res.Links = append(res.Links, model.LinkDisplay{
			ID:    l.ID,
			A:     l.A,
			B:     l.B,
			Block: l.Block.String(),
		})
	}
	return res, nil
}
