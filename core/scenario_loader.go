package core

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

// Scenario is a declarative description of one simulation run: site counts,
// duration, and optional overrides of the link-class and traffic-policy
// tables. Anything omitted falls back to the defaults.
type Scenario struct {
	Schools    int
	Clinics    int
	Microgrids int
	Duration   time.Duration

	LinkClasses map[LinkClass]LinkParams
	Policies    map[model.SiteCategory]TrafficPolicy
}

// internal JSON shapes - kept unexported so we are free to evolve them.
type scenarioJSON struct {
	Schools         int                          `json:"schools"`
	Clinics         int                          `json:"clinics"`
	Microgrids      int                          `json:"microgrids"`
	DurationSeconds float64                      `json:"duration_seconds"`
	LinkClasses     map[string]linkClassJSON     `json:"link_classes"`
	Traffic         map[string]trafficPolicyJSON `json:"traffic"`
}

type linkClassJSON struct {
	CapacityMbps    float64  `json:"capacity_mbps"`
	DelayMs         float64  `json:"delay_ms"`
	MaxQueueDelayMs *float64 `json:"max_queue_delay_ms"` // optional; defaults per class
}

type trafficPolicyJSON struct {
	PacketSizeBytes  int     `json:"packet_size_bytes"`
	IntervalSeconds  float64 `json:"interval_seconds"`
	MaxPackets       int     `json:"max_packets"`
	StartBaseSeconds float64 `json:"start_base_seconds"`
	StartStepSeconds float64 `json:"start_step_seconds"`
}

// LoadScenario reads a JSON scenario from r. It fails only on JSON or
// structural errors (an unknown link class or category name); semantic
// validation such as the no-sites check happens when the scenario is run.
func LoadScenario(r io.Reader) (*Scenario, error) {
	var payload scenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("LoadScenario: decode failed: %w", err)
	}

	s := &Scenario{
		Schools:     payload.Schools,
		Clinics:     payload.Clinics,
		Microgrids:  payload.Microgrids,
		Duration:    secondsToDuration(payload.DurationSeconds),
		LinkClasses: DefaultLinkClasses(),
		Policies:    DefaultTrafficPolicies(),
	}

	for name, jc := range payload.LinkClasses {
		class := LinkClass(name)
		params, ok := s.LinkClasses[class]
		if !ok {
			return nil, fmt.Errorf("LoadScenario: unknown link class %q", name)
		}
		if jc.CapacityMbps > 0 {
			params.CapacityBps = int64(jc.CapacityMbps * 1_000_000)
		}
		if jc.DelayMs > 0 {
			params.PropDelay = millisToDuration(jc.DelayMs)
		}
		if jc.MaxQueueDelayMs != nil {
			params.MaxQueueDelay = millisToDuration(*jc.MaxQueueDelayMs)
		}
		s.LinkClasses[class] = params
	}

	for name, jp := range payload.Traffic {
		cat := model.SiteCategory(name)
		policy, ok := s.Policies[cat]
		if !ok {
			return nil, fmt.Errorf("LoadScenario: unknown traffic category %q", name)
		}
		if jp.PacketSizeBytes > 0 {
			policy.PacketSizeBytes = jp.PacketSizeBytes
		}
		if jp.IntervalSeconds > 0 {
			policy.Interval = secondsToDuration(jp.IntervalSeconds)
		}
		if jp.MaxPackets > 0 {
			policy.MaxPackets = jp.MaxPackets
		}
		if jp.StartBaseSeconds > 0 {
			policy.StartBase = secondsToDuration(jp.StartBaseSeconds)
		}
		if jp.StartStepSeconds > 0 {
			policy.StartStep = secondsToDuration(jp.StartStepSeconds)
		}
		s.Policies[cat] = policy
	}

	return s, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func millisToDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
