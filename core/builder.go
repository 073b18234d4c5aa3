package core

import (
	"errors"
	"fmt"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

// ErrNoSites is returned when a build is requested with zero remote sites:
// there would be nothing to simulate.
var ErrNoSites = errors.New("no remote sites configured")

// Well-known node IDs.
const (
	NodeIDStation = "station"
	NodeIDMonitor = "monitor"
)

// RouterID returns the node ID for backbone router i.
func RouterID(i int) string { return fmt.Sprintf("router-%d", i) }

// BuildTopology constructs the WAN graph for the given site counts:
//
//   - one central station and one monitoring center, both on router 0
//   - three backbone routers interconnected as a triangle
//   - each school on router 1, each clinic on router 2, each micro-grid on
//     router 0
//
// Education and healthcare traffic land on distinct backbone routers;
// power-management and micro-grid telemetry share router 0 with the
// station. Fails with ErrNoSites when schools+clinics+microgrids == 0.
func BuildTopology(schools, clinics, microgrids int, classes map[LinkClass]LinkParams) (*Topology, error) {
	if schools < 0 || clinics < 0 || microgrids < 0 {
		return nil, fmt.Errorf("negative site count: schools=%d clinics=%d microgrids=%d", schools, clinics, microgrids)
	}
	if schools+clinics+microgrids == 0 {
		return nil, fmt.Errorf("%w: schools, clinics, and microgrids are all zero", ErrNoSites)
	}
	if classes == nil {
		classes = DefaultLinkClasses()
	}

	t := NewTopology()

	addNode := func(n *Node) error { return t.AddNode(n) }
	addLink := func(id, a, b string, class LinkClass) error {
		p := classes[class]
		return t.AddLink(&Link{
			ID:            id,
			A:             a,
			B:             b,
			Class:         class,
			CapacityBps:   p.CapacityBps,
			PropDelay:     p.PropDelay,
			MaxQueueDelay: p.MaxQueueDelay,
		})
	}

	if err := addNode(&Node{ID: NodeIDStation, Role: model.RoleCentralStation, X: 10, Y: 50}); err != nil {
		return nil, err
	}
	if err := addNode(&Node{ID: NodeIDMonitor, Role: model.RoleMonitoringCenter, X: 10, Y: 30}); err != nil {
		return nil, err
	}
	for i := 0; i < 3; i++ {
		n := &Node{ID: RouterID(i), Role: model.RoleBackboneRouter, Index: i, X: 30 + float64(i)*20, Y: 40}
		if err := addNode(n); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= schools; i++ {
		n := &Node{ID: fmt.Sprintf("school-%d", i), Role: model.RoleSchool, Index: i, X: 50, Y: 60 + float64(i)*5}
		if err := addNode(n); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= clinics; i++ {
		n := &Node{ID: fmt.Sprintf("clinic-%d", i), Role: model.RoleClinic, Index: i, X: 70, Y: 60 + float64(i)*5}
		if err := addNode(n); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= microgrids; i++ {
		n := &Node{ID: fmt.Sprintf("microgrid-%d", i), Role: model.RoleMicrogrid, Index: i, X: 30, Y: 10 + float64(i)*5}
		if err := addNode(n); err != nil {
			return nil, err
		}
	}

	// Link construction order matters: the address allocator hands out
	// fixed and backbone blocks in this sequence.
	if err := addLink("station-router-0", NodeIDStation, RouterID(0), LinkClassBackbone); err != nil {
		return nil, err
	}
	if err := addLink("monitor-router-0", NodeIDMonitor, RouterID(0), LinkClassBackbone); err != nil {
		return nil, err
	}

	// Backbone triangle, not a star.
	backbonePairs := [][2]int{{0, 1}, {1, 2}, {2, 0}}
	for _, pair := range backbonePairs {
		id := fmt.Sprintf("backbone-%d-%d", pair[0], pair[1])
		if err := addLink(id, RouterID(pair[0]), RouterID(pair[1]), LinkClassBackbone); err != nil {
			return nil, err
		}
	}

	for i := 1; i <= schools; i++ {
		id := fmt.Sprintf("school-%d-uplink", i)
		if err := addLink(id, fmt.Sprintf("school-%d", i), RouterID(1), LinkClassRemote); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= clinics; i++ {
		id := fmt.Sprintf("clinic-%d-uplink", i)
		if err := addLink(id, fmt.Sprintf("clinic-%d", i), RouterID(2), LinkClassRemote); err != nil {
			return nil, err
		}
	}
	for i := 1; i <= microgrids; i++ {
		id := fmt.Sprintf("microgrid-%d-uplink", i)
		if err := addLink(id, fmt.Sprintf("microgrid-%d", i), RouterID(0), LinkClassMicrogrid); err != nil {
			return nil, err
		}
	}

	return t, nil
}
