package core

import (
	"fmt"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

// Node is one element of the WAN: the central station, the monitoring
// center, a backbone router, or a remote solar site. Nodes are created once
// by the topology builder and are immutable afterwards.
type Node struct {
	ID   string     `json:"ID"`
	Role model.Role `json:"Role"`

	// Index is the one-based position within the node's category (site
	// roles) or the zero-based router number (backbone routers). Zero for
	// the station and monitor.
	Index int `json:"Index,omitempty"`

	// X/Y are display coordinates for visualization exports. They have no
	// physical meaning inside the simulation.
	X float64 `json:"X,omitempty"`
	Y float64 `json:"Y,omitempty"`
}

// Label returns the short descriptive name used by visualization exports.
func (n *Node) Label() string {
	switch n.Role {
	case model.RoleCentralStation:
		return "Central-Grid"
	case model.RoleMonitoringCenter:
		return "Monitor-Center"
	case model.RoleBackboneRouter:
		return fmt.Sprintf("WAN-Router-%d", n.Index)
	case model.RoleSchool:
		return fmt.Sprintf("School-%d", n.Index)
	case model.RoleClinic:
		return fmt.Sprintf("Clinic-%d", n.Index)
	case model.RoleMicrogrid:
		return fmt.Sprintf("Microgrid-%d", n.Index)
	default:
		return n.ID
	}
}

// Display returns the node's visualization data.
func (n *Node) Display() model.NodeDisplay {
	return model.NodeDisplay{
		ID:    n.ID,
		Label: n.Label(),
		Role:  n.Role,
		Color: model.ColorForRole(n.Role),
		X:     n.X,
		Y:     n.Y,
	}
}
