package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulationCollector bundles Prometheus metrics for the simulation core
// and provides a ready-to-serve /metrics handler.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	PacketsTransmitted *prometheus.CounterVec
	PacketsReceived    *prometheus.CounterVec
	PacketsDropped     *prometheus.CounterVec
	PacketDelay        *prometheus.HistogramVec
	RunDuration        prometheus.Histogram

	TopologyNodes prometheus.Gauge
	TopologyLinks prometheus.Gauge
	TrafficFlows  prometheus.Gauge
}

// NewSimulationCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	transmitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solarwan_packets_transmitted_total",
		Help: "Total packets emitted by remote-site traffic sources, labeled by site category.",
	}, []string{"category"})
	transmitted, err := registerCounterVec(reg, transmitted, "solarwan_packets_transmitted_total")
	if err != nil {
		return nil, err
	}

	received := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solarwan_packets_received_total",
		Help: "Total packets delivered to the central station, labeled by site category.",
	}, []string{"category"})
	received, err = registerCounterVec(reg, received, "solarwan_packets_received_total")
	if err != nil {
		return nil, err
	}

	dropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "solarwan_packets_dropped_total",
		Help: "Total packets dropped on saturated links, labeled by site category.",
	}, []string{"category"})
	dropped, err = registerCounterVec(reg, dropped, "solarwan_packets_dropped_total")
	if err != nil {
		return nil, err
	}

	delay := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "solarwan_packet_delay_seconds",
		Help:    "One-way packet delay in simulated seconds, labeled by site category.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.075, 0.1, 0.15, 0.25, 0.5, 1},
	}, []string{"category"})
	delay, err = registerHistogramVec(reg, delay, "solarwan_packet_delay_seconds")
	if err != nil {
		return nil, err
	}

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "solarwan_run_duration_seconds",
		Help:    "Wall-clock time spent executing one complete simulation run.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
	})
	runDuration, err = registerHistogram(reg, runDuration, "solarwan_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	nodes, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solarwan_topology_nodes",
		Help: "Number of nodes in the most recently built topology.",
	}), "solarwan_topology_nodes")
	if err != nil {
		return nil, err
	}
	links, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solarwan_topology_links",
		Help: "Number of links in the most recently built topology.",
	}), "solarwan_topology_links")
	if err != nil {
		return nil, err
	}
	flows, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "solarwan_traffic_flows",
		Help: "Number of scheduled traffic flows in the most recent run.",
	}), "solarwan_traffic_flows")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:           gatherer,
		PacketsTransmitted: transmitted,
		PacketsReceived:    received,
		PacketsDropped:     dropped,
		PacketDelay:        delay,
		RunDuration:        runDuration,
		TopologyNodes:      nodes,
		TopologyLinks:      links,
		TrafficFlows:       flows,
	}, nil
}

// SetTopologyCounts satisfies the core.MetricsRecorder interface so the
// simulation can drive gauge values directly.
func (c *SimulationCollector) SetTopologyCounts(nodes, links, flows int) {
	if c == nil {
		return
	}
	if c.TopologyNodes != nil {
		c.TopologyNodes.Set(float64(nodes))
	}
	if c.TopologyLinks != nil {
		c.TopologyLinks.Set(float64(links))
	}
	if c.TrafficFlows != nil {
		c.TrafficFlows.Set(float64(flows))
	}
}

// PacketTransmitted records one emitted packet.
func (c *SimulationCollector) PacketTransmitted(category string) {
	if c == nil || c.PacketsTransmitted == nil {
		return
	}
	c.PacketsTransmitted.WithLabelValues(category).Inc()
}

// PacketReceived records one delivered packet and its one-way delay.
func (c *SimulationCollector) PacketReceived(category string, delay time.Duration) {
	if c == nil {
		return
	}
	if c.PacketsReceived != nil {
		c.PacketsReceived.WithLabelValues(category).Inc()
	}
	if c.PacketDelay != nil {
		c.PacketDelay.WithLabelValues(category).Observe(delay.Seconds())
	}
}

// PacketDropped records one saturated-link drop.
func (c *SimulationCollector) PacketDropped(category string) {
	if c == nil || c.PacketsDropped == nil {
		return
	}
	c.PacketsDropped.WithLabelValues(category).Inc()
}

// ObserveRunDuration records the wall-clock duration of a completed run.
func (c *SimulationCollector) ObserveRunDuration(d time.Duration) {
	if c == nil || c.RunDuration == nil {
		return
	}
	c.RunDuration.Observe(d.Seconds())
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimulationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
