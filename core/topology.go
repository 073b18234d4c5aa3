package core

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/signalsfoundry/solarwan-simulator/model"
)

var (
	ErrNodeExists   = errors.New("node already exists")
	ErrNodeNotFound = errors.New("node not found")
	ErrLinkExists   = errors.New("link already exists")
	ErrLinkNotFound = errors.New("link not found")
	ErrLinkBadInput = errors.New("invalid link")
	ErrNodeBadInput = errors.New("invalid node")
	ErrNoRoute      = errors.New("no route between nodes")
)

// Topology stores the nodes and links of one simulated WAN.
//
// The store is concurrency-safe via an internal RWMutex so it can be read
// from metrics handlers or exporters while a simulation owns it, as long as
// all access goes through these methods. Link insertion order is preserved:
// the address allocator consumes backbone blocks in construction order.
type Topology struct {
	mu sync.RWMutex

	nodes       map[string]*Node
	links       map[string]*Link
	linkOrder   []string
	linksByNode map[string][]string
}

// NewTopology creates an empty topology.
func NewTopology() *Topology {
	return &Topology{
		nodes:       make(map[string]*Node),
		links:       make(map[string]*Link),
		linksByNode: make(map[string][]string),
	}
}

// AddNode inserts a node. Node IDs must be unique.
func (t *Topology) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("%w", ErrNodeBadInput)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrNodeExists, n.ID)
	}
	t.nodes[n.ID] = n
	return nil
}

// AddLink inserts a link and updates adjacency. Both endpoints must already
// exist.
func (t *Topology) AddLink(l *Link) error {
	if l == nil || l.ID == "" || l.A == "" || l.B == "" || l.A == l.B {
		return fmt.Errorf("%w", ErrLinkBadInput)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.links[l.ID]; exists {
		return fmt.Errorf("%w: %q", ErrLinkExists, l.ID)
	}
	if _, ok := t.nodes[l.A]; !ok {
		return fmt.Errorf("%w: link %q references unknown node %q", ErrNodeNotFound, l.ID, l.A)
	}
	if _, ok := t.nodes[l.B]; !ok {
		return fmt.Errorf("%w: link %q references unknown node %q", ErrNodeNotFound, l.ID, l.B)
	}

	t.links[l.ID] = l
	t.linkOrder = append(t.linkOrder, l.ID)
	t.linksByNode[l.A] = append(t.linksByNode[l.A], l.ID)
	t.linksByNode[l.B] = append(t.linksByNode[l.B], l.ID)
	return nil
}

// Node returns a node by ID, or nil if missing.
func (t *Topology) Node(id string) *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[id]
}

// Link returns a link by ID, or nil if missing.
func (t *Topology) Link(id string) *Link {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.links[id]
}

// Nodes returns all nodes sorted by ID.
func (t *Topology) Nodes() []*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Links returns all links in insertion order.
func (t *Topology) Links() []*Link {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Link, 0, len(t.linkOrder))
	for _, id := range t.linkOrder {
		out = append(out, t.links[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (t *Topology) NodeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// LinkCount returns the number of links.
func (t *Topology) LinkCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.links)
}

// LinksForNode returns the links attached to a node in insertion order.
func (t *Topology) LinksForNode(nodeID string) []*Link {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := t.linksByNode[nodeID]
	out := make([]*Link, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.links[id])
	}
	return out
}

// Path returns the links of a shortest path from one node to another. The
// search is breadth-first over insertion-ordered adjacency, so the result
// is deterministic for a given construction sequence.
func (t *Topology) Path(from, to string) ([]*Link, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.nodes[from]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, from)
	}
	if _, ok := t.nodes[to]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, to)
	}
	if from == to {
		return nil, nil
	}

	// parent[n] records the link used to first reach n.
	parent := make(map[string]*Link)
	visited := map[string]bool{from: true}
	queue := []string{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, linkID := range t.linksByNode[cur] {
			l := t.links[linkID]
			next := l.Other(cur)
			if next == "" || visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = l
			if next == to {
				return t.assemblePath(from, to, parent), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, fmt.Errorf("%w: %q -> %q", ErrNoRoute, from, to)
}

// assemblePath walks parent pointers back from to and reverses the result.
// Caller must hold t.mu (read lock).
func (t *Topology) assemblePath(from, to string, parent map[string]*Link) []*Link {
	var reversed []*Link
	cur := to
	for cur != from {
		l := parent[cur]
		reversed = append(reversed, l)
		cur = l.Other(cur)
	}

	out := make([]*Link, len(reversed))
	for i, l := range reversed {
		out[len(reversed)-1-i] = l
	}
	return out
}

// SitesByCategory returns the remote-site nodes grouped by traffic
// category, each group ordered by site index.
func (t *Topology) SitesByCategory() map[model.SiteCategory][]*Node {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[model.SiteCategory][]*Node)
	for _, n := range t.nodes {
		if cat, ok := model.CategoryForRole(n.Role); ok {
			out[cat] = append(out[cat], n)
		}
	}
	for _, nodes := range out {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].Index < nodes[j].Index })
	}
	return out
}
