package core

import (
	"net/netip"
	"time"
)

// LinkClass is the capacity/delay tier of a point-to-point link.
type LinkClass string

const (
	// LinkClassBackbone connects routers, the station, and the monitor:
	// high capacity, high propagation delay.
	LinkClassBackbone LinkClass = "backbone"
	// LinkClassRemote connects schools and clinics to their router:
	// medium capacity, the longest propagation delay (remote locations).
	LinkClassRemote LinkClass = "remote"
	// LinkClassMicrogrid connects community micro-grids: low capacity,
	// short delay.
	LinkClassMicrogrid LinkClass = "microgrid"
)

// LinkParams are the declared characteristics of a link class.
type LinkParams struct {
	CapacityBps int64
	PropDelay   time.Duration

	// MaxQueueDelay bounds how far a link's backlog may run ahead of the
	// clock before further packets are dropped. This is the simplified
	// stand-in for a real queue.
	MaxQueueDelay time.Duration
}

// DefaultLinkClasses returns the declared parameters for each link class.
func DefaultLinkClasses() map[LinkClass]LinkParams {
	return map[LinkClass]LinkParams{
		LinkClassBackbone:  {CapacityBps: 100_000_000, PropDelay: 10 * time.Millisecond, MaxQueueDelay: 100 * time.Millisecond},
		LinkClassRemote:    {CapacityBps: 50_000_000, PropDelay: 20 * time.Millisecond, MaxQueueDelay: 100 * time.Millisecond},
		LinkClassMicrogrid: {CapacityBps: 10_000_000, PropDelay: 5 * time.Millisecond, MaxQueueDelay: 100 * time.Millisecond},
	}
}

// Link is a point-to-point connection between two nodes. Links are
// immutable after topology construction; transient transmit state lives in
// the traffic scheduler, not here.
type Link struct {
	ID string `json:"ID"`
	A  string `json:"A"`
	B  string `json:"B"`

	Class         LinkClass     `json:"Class"`
	CapacityBps   int64         `json:"CapacityBps"`
	PropDelay     time.Duration `json:"PropDelay"`
	MaxQueueDelay time.Duration `json:"MaxQueueDelay"`

	// Block is the /24 address block assigned by the allocator. Zero until
	// allocation runs.
	Block netip.Prefix `json:"Block,omitempty"`
}

// Other returns the far endpoint relative to nodeID, or "" if nodeID is not
// an endpoint of the link.
func (l *Link) Other(nodeID string) string {
	switch nodeID {
	case l.A:
		return l.B
	case l.B:
		return l.A
	default:
		return ""
	}
}

// SerializationDelay is the time to place size bytes onto the link.
func (l *Link) SerializationDelay(sizeBytes int) time.Duration {
	if l.CapacityBps <= 0 {
		return 0
	}
	bits := float64(sizeBytes) * 8
	return time.Duration(bits / float64(l.CapacityBps) * float64(time.Second))
}
