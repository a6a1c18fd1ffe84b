// Package pathfind implements cost-aware A* search over a region grid for
// land, naval, and amphibious movement, plus a budgeted reachability query.
package pathfind

import (
	"container/heap"
	"math"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
)

// Options tunes a pathfinding query.
type Options struct {
	Domain UnitDomain
	// MaxCost prunes exploration beyond a movement budget. Zero means
	// unlimited.
	MaxCost float64
	// IgnoreUnits skips occupancy checks even when Occupied is set.
	IgnoreUnits bool
	// Occupied reports whether a cell is blocked by a unit. Nil means no
	// occupancy information.
	Occupied func(hexgrid.Coord) bool
}

// Result is the outcome of a path query. An unreachable goal is a normal
// result with Reachable false and infinite cost, never an error.
type Result struct {
	Path      []hexgrid.Coord
	Cost      float64
	Reachable bool
}

// Finder runs read-only path queries over a region. Queries may run
// concurrently with each other as long as no generation pass is mutating
// the same grid.
type Finder struct {
	reg *region.RegionData
}

// New creates a Finder over the given region.
func New(reg *region.RegionData) *Finder {
	return &Finder{reg: reg}
}

// FindPath runs A* from start to goal with hex distance as the heuristic.
// A same-cell query returns a trivial single-cell, zero-cost path.
func (f *Finder) FindPath(start, goal hexgrid.Coord, opts Options) Result {
	if f.reg.CellAt(start) == nil || f.reg.CellAt(goal) == nil {
		return Result{Cost: math.Inf(1)}
	}
	if start == goal {
		return Result{Path: []hexgrid.Coord{start}, Reachable: true}
	}

	h := func(c hexgrid.Coord) float64 {
		return float64(hexgrid.Distance(c, goal))
	}
	cost := func(from, to hexgrid.Coord) float64 {
		if !opts.IgnoreUnits && opts.Occupied != nil && opts.Occupied(to) {
			return math.Inf(1)
		}
		return f.MovementCost(from, to, opts.Domain)
	}

	path, total, ok := Search(start, goal, f.neighbors, cost, h, opts.MaxCost)
	if !ok {
		return Result{Cost: math.Inf(1)}
	}
	return Result{Path: path, Cost: total, Reachable: true}
}

// ReachableCells relaxes outward from start and returns every cell reachable
// within the movement budget, mapped to its cheapest cost. The start cell is
// included at cost zero.
func (f *Finder) ReachableCells(start hexgrid.Coord, budget float64, opts Options) map[hexgrid.Coord]float64 {
	out := make(map[hexgrid.Coord]float64)
	if f.reg.CellAt(start) == nil || budget < 0 {
		return out
	}

	open := newQueue()
	open.push(start, 0)
	costSoFar := map[hexgrid.Coord]float64{start: 0}

	for open.Len() > 0 {
		cur := open.pop()
		curCost := costSoFar[cur.coord]
		if _, done := out[cur.coord]; done {
			continue
		}
		out[cur.coord] = curCost

		for _, nb := range f.neighbors(cur.coord) {
			if !opts.IgnoreUnits && opts.Occupied != nil && opts.Occupied(nb) {
				continue
			}
			step := f.MovementCost(cur.coord, nb, opts.Domain)
			if math.IsInf(step, 1) {
				continue
			}
			next := curCost + step
			if next > budget {
				continue
			}
			if old, seen := costSoFar[nb]; seen && old <= next {
				continue
			}
			costSoFar[nb] = next
			open.push(nb, next)
		}
	}
	return out
}

func (f *Finder) neighbors(c hexgrid.Coord) []hexgrid.Coord {
	out := make([]hexgrid.Coord, 0, 6)
	for _, nb := range c.Neighbors() {
		if f.reg.CellAt(nb) != nil {
			out = append(out, nb)
		}
	}
	return out
}

// Search is the generic A* core shared by unit movement and the road
// generator. cost may return +Inf for impassable edges. maxCost of zero
// means unlimited. Among equal-priority nodes, insertion order decides
// dequeue order, keeping results deterministic.
func Search(start, goal hexgrid.Coord,
	neighbors func(hexgrid.Coord) []hexgrid.Coord,
	cost func(from, to hexgrid.Coord) float64,
	h func(hexgrid.Coord) float64,
	maxCost float64,
) ([]hexgrid.Coord, float64, bool) {
	open := newQueue()
	open.push(start, h(start))

	costSoFar := map[hexgrid.Coord]float64{start: 0}
	cameFrom := map[hexgrid.Coord]hexgrid.Coord{}
	closed := map[hexgrid.Coord]bool{}

	for open.Len() > 0 {
		cur := open.pop()
		if closed[cur.coord] {
			continue
		}
		closed[cur.coord] = true

		if cur.coord == goal {
			path := []hexgrid.Coord{goal}
			for c := goal; c != start; {
				c = cameFrom[c]
				path = append(path, c)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path, costSoFar[goal], true
		}

		for _, nb := range neighbors(cur.coord) {
			if closed[nb] {
				continue
			}
			step := cost(cur.coord, nb)
			if math.IsInf(step, 1) || math.IsNaN(step) {
				continue
			}
			tentative := costSoFar[cur.coord] + step
			if maxCost > 0 && tentative > maxCost {
				continue
			}
			if old, seen := costSoFar[nb]; seen && old <= tentative {
				continue
			}
			costSoFar[nb] = tentative
			cameFrom[nb] = cur.coord
			open.push(nb, tentative+h(nb))
		}
	}
	return nil, math.Inf(1), false
}

// Priority queue keyed by f score with stable FIFO tie-breaking.
type pqNode struct {
	coord hexgrid.Coord
	f     float64
	seq   uint64
}

type nodeQueue struct {
	nodes []*pqNode
	next  uint64
}

func newQueue() *nodeQueue {
	q := &nodeQueue{}
	heap.Init(q)
	return q
}

func (q *nodeQueue) push(c hexgrid.Coord, f float64) {
	heap.Push(q, &pqNode{coord: c, f: f})
}

func (q *nodeQueue) pop() *pqNode {
	return heap.Pop(q).(*pqNode)
}

func (q *nodeQueue) Len() int { return len(q.nodes) }

func (q *nodeQueue) Less(i, j int) bool {
	if q.nodes[i].f != q.nodes[j].f {
		return q.nodes[i].f < q.nodes[j].f
	}
	return q.nodes[i].seq < q.nodes[j].seq
}

func (q *nodeQueue) Swap(i, j int) {
	q.nodes[i], q.nodes[j] = q.nodes[j], q.nodes[i]
}

func (q *nodeQueue) Push(x any) {
	n := x.(*pqNode)
	n.seq = q.next
	q.next++
	q.nodes = append(q.nodes, n)
}

func (q *nodeQueue) Pop() any {
	old := q.nodes
	n := len(old)
	x := old[n-1]
	q.nodes = old[:n-1]
	return x
}
