package core

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

var (
	// ErrAddressExhausted is returned when a site index exceeds its
	// family's addressable range (the third octet must stay in 1..254).
	ErrAddressExhausted = errors.New("address family exhausted")
	// ErrBlockCollision is returned when two links would receive the same
	// block. With the fixed numbering plan this indicates a builder bug.
	ErrBlockCollision = errors.New("address block collision")
	// ErrUnallocatableLink is returned for a link the numbering plan has
	// no family for.
	ErrUnallocatableLink = errors.New("link does not match any address family")
)

// Address numbering plan, one disjoint family per link group:
//
//	station-router0    10.1.1.0/24   (fixed)
//	monitor-router0    10.1.2.0/24   (fixed)
//	backbone link i    10.2.<i+1>.0/24  (link construction order)
//	school i           172.16.<i>.0/24
//	clinic i           172.17.<i>.0/24
//	microgrid i        192.168.<i>.0/24
const maxFamilyIndex = 254

// AddressPlan is the result of allocation: every link owns exactly one /24
// block, and the station's backbone-facing address is the shared traffic
// sink.
type AddressPlan struct {
	byLink      map[string]netip.Prefix
	StationAddr netip.Addr
}

// Block returns the block assigned to a link ID.
func (p *AddressPlan) Block(linkID string) (netip.Prefix, bool) {
	b, ok := p.byLink[linkID]
	return b, ok
}

// AllocateAddresses walks the topology's links in construction order and
// assigns each one a /24 block from its family. The allocation is fully
// deterministic: rebuilding the same topology yields the same plan.
func AllocateAddresses(t *Topology) (*AddressPlan, error) {
	plan := &AddressPlan{byLink: make(map[string]netip.Prefix)}
	used := make(map[netip.Prefix]string)

	backboneIdx := 0
	for _, l := range t.Links() {
		block, err := blockForLink(t, l, &backboneIdx)
		if err != nil {
			return nil, err
		}
		if prev, taken := used[block]; taken {
			return nil, fmt.Errorf("%w: %s claimed by both %q and %q", ErrBlockCollision, block, prev, l.ID)
		}
		used[block] = l.ID
		plan.byLink[l.ID] = block
		l.Block = block
	}

	stationBlock, ok := plan.byLink["station-router-0"]
	if !ok {
		return nil, fmt.Errorf("%w: no station uplink present", ErrUnallocatableLink)
	}
	plan.StationAddr = stationBlock.Addr().Next()

	return plan, nil
}

func blockForLink(t *Topology, l *Link, backboneIdx *int) (netip.Prefix, error) {
	a, b := t.Node(l.A), t.Node(l.B)

	switch {
	case hasRole(a, b, model.RoleCentralStation):
		return prefix24(10, 1, 1), nil
	case hasRole(a, b, model.RoleMonitoringCenter):
		return prefix24(10, 1, 2), nil
	case a.Role == model.RoleBackboneRouter && b.Role == model.RoleBackboneRouter:
		*backboneIdx++
		return indexedPrefix(10, 2, *backboneIdx)
	}

	site := a
	if _, ok := model.CategoryForRole(site.Role); !ok {
		site = b
	}
	cat, ok := model.CategoryForRole(site.Role)
	if !ok {
		return netip.Prefix{}, fmt.Errorf("%w: %q", ErrUnallocatableLink, l.ID)
	}

	switch cat {
	case model.CategorySchool:
		return indexedPrefix(172, 16, site.Index)
	case model.CategoryClinic:
		return indexedPrefix(172, 17, site.Index)
	case model.CategoryMicrogrid:
		return indexedPrefix(192, 168, site.Index)
	default:
		return netip.Prefix{}, fmt.Errorf("%w: %q", ErrUnallocatableLink, l.ID)
	}
}

func hasRole(a, b *Node, role model.Role) bool {
	return (a != nil && a.Role == role) || (b != nil && b.Role == role)
}

func indexedPrefix(o1, o2 uint8, idx int) (netip.Prefix, error) {
	if idx < 1 || idx > maxFamilyIndex {
		return netip.Prefix{}, fmt.Errorf("%w: index %d outside 1..%d for %d.%d.0.0 family",
			ErrAddressExhausted, idx, maxFamilyIndex, o1, o2)
	}
	return prefix24(o1, o2, uint8(idx)), nil
}

func prefix24(o1, o2, o3 uint8) netip.Prefix {
	return netip.PrefixFrom(netip.AddrFrom4([4]byte{o1, o2, o3, 0}), 24)
}
