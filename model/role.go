package model

// Role identifies what a node does in the WAN.
type Role string

const (
	RoleCentralStation   Role = "central-station"
	RoleMonitoringCenter Role = "monitoring-center"
	RoleBackboneRouter   Role = "backbone-router"
	RoleSchool           Role = "school"
	RoleClinic           Role = "clinic"
	RoleMicrogrid        Role = "microgrid"
)

// SiteCategory groups the remote-site roles that generate telemetry
// traffic. Infrastructure roles (station, monitor, routers) have no
// category.
type SiteCategory string

const (
	CategorySchool    SiteCategory = "school"
	CategoryClinic    SiteCategory = "clinic"
	CategoryMicrogrid SiteCategory = "microgrid"
)

// SiteCategories lists the categories in their canonical order. Iteration
// over this slice (rather than a map) keeps scheduling deterministic.
var SiteCategories = []SiteCategory{CategorySchool, CategoryClinic, CategoryMicrogrid}

// CategoryForRole returns the traffic category for a role, or false for
// infrastructure roles.
func CategoryForRole(r Role) (SiteCategory, bool) {
	switch r {
	case RoleSchool:
		return CategorySchool, true
	case RoleClinic:
		return CategoryClinic, true
	case RoleMicrogrid:
		return CategoryMicrogrid, true
	default:
		return "", false
	}
}
