package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCollectorRecordsPacketCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	collector.PacketTransmitted("school")
	collector.PacketTransmitted("school")
	collector.PacketReceived("school", 40*time.Millisecond)
	collector.PacketDropped("microgrid")

	if got := testutil.ToFloat64(collector.PacketsTransmitted.WithLabelValues("school")); got != 2 {
		t.Fatalf("solarwan_packets_transmitted_total{school} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.PacketsReceived.WithLabelValues("school")); got != 1 {
		t.Fatalf("solarwan_packets_received_total{school} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.PacketsDropped.WithLabelValues("microgrid")); got != 1 {
		t.Fatalf("solarwan_packets_dropped_total{microgrid} = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "solarwan_packet_delay_seconds", map[string]string{
		"category": "school",
	}); count != 1 {
		t.Fatalf("solarwan_packet_delay_seconds sample_count = %d, want 1", count)
	}
}

func TestCollectorReregistrationReturnsExisting(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("first NewSimulationCollector: %v", err)
	}
	second, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("second NewSimulationCollector: %v", err)
	}

	first.PacketTransmitted("clinic")
	second.PacketTransmitted("clinic")
	if got := testutil.ToFloat64(second.PacketsTransmitted.WithLabelValues("clinic")); got != 2 {
		t.Fatalf("shared counter = %v, want 2", got)
	}
}

func TestMetricsHandlerExposesTopologyGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}
	collector.SetTopologyCounts(17, 17, 12)
	collector.PacketTransmitted("school")
	collector.ObserveRunDuration(25 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"solarwan_packets_transmitted_total",
		"solarwan_run_duration_seconds",
		"solarwan_topology_nodes",
		"solarwan_topology_links",
		"solarwan_traffic_flows",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if !strings.Contains(body, "solarwan_topology_nodes 17") {
		t.Fatalf("/metrics output missing topology gauge value:\n%s", body)
	}
	if !strings.Contains(body, "solarwan_traffic_flows 12") {
		t.Fatalf("/metrics output missing flow gauge value:\n%s", body)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var collector *SimulationCollector
	collector.SetTopologyCounts(1, 1, 1)
	collector.PacketTransmitted("school")
	collector.PacketReceived("school", time.Millisecond)
	collector.PacketDropped("school")
	collector.ObserveRunDuration(time.Millisecond)
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
