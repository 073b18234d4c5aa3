package core

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

func TestBuildTopologyCounts(t *testing.T) {
	cases := []struct {
		name                         string
		schools, clinics, microgrids int
	}{
		{"single school", 1, 0, 0},
		{"single microgrid", 0, 0, 1},
		{"standard scene", 5, 3, 4},
		{"large", 40, 25, 60},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			topo, err := BuildTopology(tc.schools, tc.clinics, tc.microgrids, nil)
			if err != nil {
				t.Fatalf("BuildTopology: %v", err)
			}

			sites := tc.schools + tc.clinics + tc.microgrids
			if got, want := topo.NodeCount(), 2+3+sites; got != want {
				t.Fatalf("node count = %d, want %d", got, want)
			}
			if got, want := topo.LinkCount(), 2+3+sites; got != want {
				t.Fatalf("link count = %d, want %d", got, want)
			}
		})
	}
}

func TestBuildTopologyNoSites(t *testing.T) {
	_, err := BuildTopology(0, 0, 0, nil)
	if !errors.Is(err, ErrNoSites) {
		t.Fatalf("BuildTopology(0,0,0) error = %v, want ErrNoSites", err)
	}
}

func TestBuildTopologyNegativeCount(t *testing.T) {
	if _, err := BuildTopology(-1, 0, 1, nil); err == nil {
		t.Fatalf("expected error for negative school count")
	}
}

func TestBuildTopologyAttachment(t *testing.T) {
	topo, err := BuildTopology(2, 2, 2, nil)
	if err != nil {
		t.Fatalf("BuildTopology: %v", err)
	}

	wantAttached := map[string]string{
		"school-1":    RouterID(1),
		"school-2":    RouterID(1),
		"clinic-1":    RouterID(2),
		"clinic-2":    RouterID(2),
		"microgrid-1": RouterID(0),
		"microgrid-2": RouterID(0),
		NodeIDStation: RouterID(0),
		NodeIDMonitor: RouterID(0),
	}
	for nodeID, router := range wantAttached {
		links := topo.LinksForNode(nodeID)
		if len(links) != 1 {
			t.Fatalf("%s has %d links, want 1", nodeID, len(links))
		}
		if got := links[0].Other(nodeID); got != router {
			t.Fatalf("%s attached to %s, want %s", nodeID, got, router)
		}
	}
}

func TestBuildTopologyBackboneTriangle(t *testing.T) {
	topo, err := BuildTopology(1, 0, 0, nil)
	if err != nil {
		t.Fatalf("BuildTopology: %v", err)
	}

	// Every router pair must be directly connected.
	pairs := [][2]int{{0, 1}, {1, 2}, {2, 0}}
	for _, p := range pairs {
		path, err := topo.Path(RouterID(p[0]), RouterID(p[1]))
		if err != nil {
			t.Fatalf("Path(router-%d, router-%d): %v", p[0], p[1], err)
		}
		if len(path) != 1 {
			t.Fatalf("router-%d to router-%d takes %d hops, want 1", p[0], p[1], len(path))
		}
	}
}

func TestBuildTopologyLinkClasses(t *testing.T) {
	topo, err := BuildTopology(1, 1, 1, nil)
	if err != nil {
		t.Fatalf("BuildTopology: %v", err)
	}

	defaults := DefaultLinkClasses()
	for _, l := range topo.Links() {
		want, ok := defaults[l.Class]
		if !ok {
			t.Fatalf("link %s has unknown class %q", l.ID, l.Class)
		}
		if l.CapacityBps != want.CapacityBps || l.PropDelay != want.PropDelay {
			t.Fatalf("link %s params = (%d bps, %s), want (%d bps, %s)",
				l.ID, l.CapacityBps, l.PropDelay, want.CapacityBps, want.PropDelay)
		}
	}

	if got := topo.Link("school-1-uplink").Class; got != LinkClassRemote {
		t.Fatalf("school uplink class = %q, want %q", got, LinkClassRemote)
	}
	if got := topo.Link("microgrid-1-uplink").Class; got != LinkClassMicrogrid {
		t.Fatalf("microgrid uplink class = %q, want %q", got, LinkClassMicrogrid)
	}
	if got := topo.Link("backbone-0-1").Class; got != LinkClassBackbone {
		t.Fatalf("backbone link class = %q, want %q", got, LinkClassBackbone)
	}
}

func TestSitesByCategoryOrdering(t *testing.T) {
	topo, err := BuildTopology(3, 0, 12, nil)
	if err != nil {
		t.Fatalf("BuildTopology: %v", err)
	}

	sites := topo.SitesByCategory()
	grids := sites[model.CategoryMicrogrid]
	if len(grids) != 12 {
		t.Fatalf("microgrid count = %d, want 12", len(grids))
	}
	for i, n := range grids {
		if n.Index != i+1 {
			t.Fatalf("microgrid at position %d has index %d, want %d", i, n.Index, i+1)
		}
	}
}
