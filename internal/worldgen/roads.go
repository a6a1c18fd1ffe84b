package worldgen

import (
	"context"
	"math"
	"sort"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/pathfind"
	"github.com/talgya/hexregion/internal/region"
)

// generateRoads connects settlements with roads. Pairs are attempted
// shortest-hex-distance first; pairs already connected through earlier
// roads are skipped, and unreachable pairs are skipped silently. Pair
// ordering breaks ties on cell index, so the pass is fully deterministic.
func (g *Generator) generateRoads(ctx context.Context, reg *region.RegionData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	settlements := findSettlements(reg)
	if len(settlements) < 2 {
		return nil
	}

	type pair struct {
		a, b int // indices into settlements
		dist int
	}
	var pairs []pair
	for i := 0; i < len(settlements); i++ {
		for j := i + 1; j < len(settlements); j++ {
			d := hexgrid.Distance(reg.Coord(settlements[i]), reg.Coord(settlements[j]))
			pairs = append(pairs, pair{i, j, d})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].dist != pairs[j].dist {
			return pairs[i].dist < pairs[j].dist
		}
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})

	network := newUnionFind(len(settlements))
	for _, p := range pairs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if network.find(p.a) == network.find(p.b) {
			continue
		}
		path := roadPath(reg, settlements[p.a], settlements[p.b])
		if path == nil {
			continue // unreachable pair: not an error
		}
		applyRoad(reg, path)
		network.union(p.a, p.b)
	}
	return nil
}

// findSettlements lists cells qualifying for road connection: urban level at
// or above the threshold, or a castle or ziggurat. Underwater cells and
// megaflora never qualify.
func findSettlements(reg *region.RegionData) []int {
	var out []int
	for i := range reg.Cells {
		cell := &reg.Cells[i]
		if cell.Underwater() || cell.Special == region.SpecialMegaflora {
			continue
		}
		if cell.UrbanLevel >= SettlementThreshold ||
			cell.Special == region.SpecialCastle || cell.Special == region.SpecialZiggurat {
			out = append(out, i)
		}
	}
	return out
}

// roadPath runs A* between two settlement cells over feasible road edges.
// Gentle slopes are cheap and existing roads cheaper still, so routes
// consolidate into a network instead of fanning out.
func roadPath(reg *region.RegionData, from, to int) []hexgrid.Coord {
	start := reg.Coord(from)
	goal := reg.Coord(to)

	neighbors := func(c hexgrid.Coord) []hexgrid.Coord {
		out := make([]hexgrid.Coord, 0, 6)
		for _, nb := range c.Neighbors() {
			if reg.CellAt(nb) != nil {
				out = append(out, nb)
			}
		}
		return out
	}
	cost := func(a, b hexgrid.Coord) float64 {
		d, ok := directionBetween(a, b)
		if !ok || !CanPlaceRoad(reg, a, d) {
			return math.Inf(1)
		}
		cellA := reg.CellAt(a)
		cellB := reg.CellAt(b)
		if cellA.Roads.Has(d) {
			return 0.5 // reuse existing road edges
		}
		climb := int(cellB.Elevation) - int(cellA.Elevation)
		if climb < 0 {
			climb = -climb
		}
		return 1 + 0.5*float64(climb)
	}
	h := func(c hexgrid.Coord) float64 {
		return 0.5 * float64(hexgrid.Distance(c, goal))
	}

	path, _, ok := pathfind.Search(start, goal, neighbors, cost, h, 0)
	if !ok {
		return nil
	}
	return path
}

// CanPlaceRoad reports whether a road edge may leave coordinate a in
// direction d. Both endpoints must be above water, free of megaflora, and
// within one elevation step; a river blocks the edge unless it runs straight
// through the cell and the road crosses it perpendicularly.
func CanPlaceRoad(reg *region.RegionData, a hexgrid.Coord, d hexgrid.Direction) bool {
	cellA := reg.CellAt(a)
	cellB := reg.CellAt(a.Neighbor(d))
	if cellA == nil || cellB == nil {
		return false
	}
	if cellA.Underwater() || cellB.Underwater() {
		return false
	}
	if cellA.Special == region.SpecialMegaflora || cellB.Special == region.SpecialMegaflora {
		return false
	}
	diff := int(cellA.Elevation) - int(cellB.Elevation)
	if diff > 1 || diff < -1 {
		return false
	}
	return roadClearsRiver(cellA, d) && roadClearsRiver(cellB, d.Opposite())
}

// roadClearsRiver checks the river rule on one endpoint: no road along an
// edge the river itself uses, and no crossing a river that bends inside the
// cell. A straight river may be bridged in any other direction.
func roadClearsRiver(cell *region.CellData, d hexgrid.Direction) bool {
	if !cell.HasRiver() {
		return true
	}
	if cell.HasRiverThroughEdge(d) {
		return false
	}
	if cell.HasIncomingRiver && cell.HasOutgoingRiver && !cell.HasStraightRiver() {
		return false
	}
	return true
}

// applyRoad commits the path, setting the road bit in both directions for
// every consecutive cell pair. Paths shorter than two cells place nothing.
func applyRoad(reg *region.RegionData, path []hexgrid.Coord) {
	if len(path) < 2 {
		return
	}
	for i := 0; i+1 < len(path); i++ {
		d, ok := directionBetween(path[i], path[i+1])
		if !ok {
			continue
		}
		x, z := path[i].ToOffset()
		reg.AddRoad(x, z, d)
	}
}

func directionBetween(a, b hexgrid.Coord) (hexgrid.Direction, bool) {
	for d := hexgrid.Direction(0); d < 6; d++ {
		if a.Neighbor(d) == b {
			return d, true
		}
	}
	return 0, false
}

// Minimal union-find over settlement indices.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	uf.parent[uf.find(a)] = uf.find(b)
}
