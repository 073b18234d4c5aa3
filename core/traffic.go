package core

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/signalsfoundry/solarwan-simulator/internal/logging"
	"github.com/signalsfoundry/solarwan-simulator/model"
)

// TrafficPolicy is the fixed per-category telemetry profile: how big the
// packets are, how often they go out, how many a site may send, and how the
// category's start times are staggered across sites.
type TrafficPolicy struct {
	PacketSizeBytes int
	Interval        time.Duration
	MaxPackets      int

	// Site i (one-based within its category) starts at
	// StartBase + i*StartStep, so flows never begin as one synchronized
	// burst and every start is strictly after the category base.
	StartBase time.Duration
	StartStep time.Duration
}

// DefaultTrafficPolicies returns the standard per-category profiles.
// Schools send small routine telemetry; clinics send larger, more frequent,
// earlier-starting health-facility data; micro-grids send the smallest
// packets at a moderate interval.
func DefaultTrafficPolicies() map[model.SiteCategory]TrafficPolicy {
	return map[model.SiteCategory]TrafficPolicy{
		model.CategorySchool: {
			PacketSizeBytes: 256,
			Interval:        500 * time.Millisecond,
			MaxPackets:      100,
			StartBase:       2 * time.Second,
			StartStep:       300 * time.Millisecond,
		},
		model.CategoryClinic: {
			PacketSizeBytes: 512,
			Interval:        300 * time.Millisecond,
			MaxPackets:      150,
			StartBase:       1500 * time.Millisecond,
			StartStep:       200 * time.Millisecond,
		},
		model.CategoryMicrogrid: {
			PacketSizeBytes: 128,
			Interval:        800 * time.Millisecond,
			MaxPackets:      80,
			StartBase:       3 * time.Second,
			StartStep:       400 * time.Millisecond,
		},
	}
}

// Flow is one site's packet stream to the central station. All flows share
// the station's single receiving endpoint; there is no site-to-site
// traffic.
type Flow struct {
	ID       string
	Source   string
	Category model.SiteCategory
	Dest     netip.Addr
	Policy   TrafficPolicy
	Start    time.Duration

	// path is resolved once at schedule time; the topology is static, so
	// packets of a flow always take the same links.
	path []*Link
}

// TrafficScheduler attaches a traffic source to every remote site and wires
// their emission chains into the engine. It also owns the per-link backlog
// state used by the saturation drop model.
type TrafficScheduler struct {
	engine  *Engine
	topo    *Topology
	plan    *AddressPlan
	monitor *FlowMonitor
	log     logging.Logger

	policies map[model.SiteCategory]TrafficPolicy
	stopTime time.Duration

	// linkBusy tracks, per link, the virtual time at which the link
	// finishes serializing everything already accepted. Packets arriving
	// while the backlog exceeds the link's MaxQueueDelay are dropped.
	linkBusy map[string]time.Duration
}

// NewTrafficScheduler wires a scheduler against an engine, topology,
// address plan, and monitor. Nil policies fall back to the defaults; a nil
// logger becomes a noop.
func NewTrafficScheduler(engine *Engine, topo *Topology, plan *AddressPlan, monitor *FlowMonitor,
	policies map[model.SiteCategory]TrafficPolicy, log logging.Logger) *TrafficScheduler {
	if policies == nil {
		policies = DefaultTrafficPolicies()
	}
	if log == nil {
		log = logging.Noop()
	}
	return &TrafficScheduler{
		engine:   engine,
		topo:     topo,
		plan:     plan,
		monitor:  monitor,
		log:      log,
		policies: policies,
		linkBusy: make(map[string]time.Duration),
	}
}

// ScheduleFlows creates one flow per remote site, staggered per category,
// and enqueues each flow's first emission. stopTime is the shared global
// stop; the engine truncates anything scheduled past it.
func (s *TrafficScheduler) ScheduleFlows(stopTime time.Duration) ([]*Flow, error) {
	s.stopTime = stopTime
	sites := s.topo.SitesByCategory()

	var flows []*Flow
	for _, cat := range model.SiteCategories {
		policy, ok := s.policies[cat]
		if !ok {
			return nil, fmt.Errorf("no traffic policy for category %q", cat)
		}
		for _, site := range sites[cat] {
			path, err := s.topo.Path(site.ID, NodeIDStation)
			if err != nil {
				return nil, fmt.Errorf("routing flow for %q: %w", site.ID, err)
			}
			f := &Flow{
				ID:       "flow-" + site.ID,
				Source:   site.ID,
				Category: cat,
				Dest:     s.plan.StationAddr,
				Policy:   policy,
				Start:    policy.StartBase + time.Duration(site.Index)*policy.StartStep,
				path:     path,
			}
			if err := s.scheduleEmission(f, 1, f.Start); err != nil {
				return nil, err
			}
			flows = append(flows, f)
		}
	}
	return flows, nil
}

func (s *TrafficScheduler) scheduleEmission(f *Flow, n int, at time.Duration) error {
	return s.engine.ScheduleAt(at, func() { s.emit(f, n) })
}

// emit fires packet n of the flow and, while the packet budget lasts,
// queues the next emission one interval later.
func (s *TrafficScheduler) emit(f *Flow, n int) {
	s.monitor.RecordTransmit(f)
	s.forward(f, 0, s.engine.Now())

	if n < f.Policy.MaxPackets {
		// Past-stop emissions are queued anyway; the engine discards them
		// when the clock would exceed the global stop.
		if err := s.scheduleEmission(f, n+1, s.engine.Now()+f.Policy.Interval); err != nil {
			s.log.Warn(context.Background(), "failed to schedule emission",
				logging.String("flow", f.ID), logging.String("error", err.Error()))
		}
	}
}

// forward pushes the packet onto hop number hop of the flow's path. Each
// hop adds queueing wait, serialization, and propagation delay; a hop whose
// backlog is past its bound drops the packet instead.
func (s *TrafficScheduler) forward(f *Flow, hop int, emitted time.Duration) {
	if hop >= len(f.path) {
		s.monitor.RecordReceive(f, f.Policy.PacketSizeBytes, s.engine.Now()-emitted)
		return
	}

	link := f.path[hop]
	now := s.engine.Now()

	wait := s.linkBusy[link.ID] - now
	if wait < 0 {
		wait = 0
	}
	if wait > link.MaxQueueDelay {
		s.monitor.RecordDrop(f)
		return
	}

	ser := link.SerializationDelay(f.Policy.PacketSizeBytes)
	s.linkBusy[link.ID] = now + wait + ser

	transit := wait + ser + link.PropDelay
	if err := s.engine.ScheduleAfter(transit, func() { s.forward(f, hop+1, emitted) }); err != nil {
		s.log.Warn(context.Background(), "failed to schedule hop",
			logging.String("flow", f.ID), logging.String("link", link.ID),
			logging.String("error", err.Error()))
	}
}
