package model

// Color is an RGB display color for visualization exports.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// NodeDisplay is the per-node data an external renderer needs to draw the
// topology. The simulation core exposes these; it never formats or writes
// visualization files itself.
type NodeDisplay struct {
	ID    string
	Label string
	Role  Role
	Color Color
	X     float64
	Y     float64
}

// LinkDisplay is the per-link counterpart: endpoint node IDs plus the
// assigned address block, rendered as a prefix string.
type LinkDisplay struct {
	ID    string
	A     string
	B     string
	Block string
}

// ColorForRole maps each role to its display color.
func ColorForRole(r Role) Color {
	switch r {
	case RoleCentralStation:
		return Color{R: 255, G: 215, B: 0} // gold
	case RoleMonitoringCenter:
		return Color{R: 0, G: 0, B: 255}
	case RoleBackboneRouter:
		return Color{R: 0, G: 255, B: 0}
	case RoleSchool:
		return Color{R: 255, G: 165, B: 0} // orange
	case RoleClinic:
		return Color{R: 255, G: 0, B: 0}
	case RoleMicrogrid:
		return Color{R: 173, G: 216, B: 230} // light blue
	default:
		return Color{R: 128, G: 128, B: 128}
	}
}
