package worldgen

import (
	"context"
	"math/rand"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
)

const (
	riverFitnessThreshold = 0.25
	minRiverLength        = 3
	maxRiverLength        = 100
)

type riverEdge struct {
	from int
	dir  hexgrid.Direction
}

type riverSource struct {
	index   int
	fitness float64
}

// generateRivers traces rivers by steepest descent from high, wet sources
// toward water. Each accepted trace is strictly downhill, at least
// minRiverLength edges long, and commits river flags on every segment.
// The budget, the weighted source picks, and the per-step descent choice
// all draw from one source seeded at seed+riverSeedOffset.
func (g *Generator) generateRivers(ctx context.Context, reg *region.RegionData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(int64(g.params.Seed) + riverSeedOffset))

	budget := int(float64(reg.LandCellCount()) * g.params.RiverFraction)
	if budget <= 0 {
		return nil
	}

	sources := riverSourceCandidates(reg)
	attempts := 2 * len(sources)

	for budget > 0 && len(sources) > 0 && attempts > 0 {
		attempts--
		pick := pickWeightedSource(rng, sources)
		src := sources[pick]
		sources = append(sources[:pick], sources[pick+1:]...)

		// The landscape changed since the candidate list was built;
		// sources that now touch a river no longer qualify.
		if adjacentToRiver(reg, src.index) {
			continue
		}

		edges := traceRiver(reg, rng, src.index)
		if len(edges) < minRiverLength {
			continue
		}
		commitRiver(reg, edges)
		budget -= len(edges)
	}
	return nil
}

// riverSourceCandidates lists land cells that are not already next to water
// or a river, with fitness = moisture * normalized height above sea level.
// Scanned in index order for determinism.
func riverSourceCandidates(reg *region.RegionData) []riverSource {
	var out []riverSource
	for i := range reg.Cells {
		cell := &reg.Cells[i]
		if cell.Underwater() || adjacentToWater(reg, i) || adjacentToRiver(reg, i) {
			continue
		}
		height := float64(int(cell.Elevation)-region.SeaLevel) /
			float64(region.MaxElevation-region.SeaLevel)
		fitness := float64(cell.Moisture) * height
		if fitness > riverFitnessThreshold {
			out = append(out, riverSource{index: i, fitness: fitness})
		}
	}
	return out
}

// pickWeightedSource selects a source index with superlinear weighting:
// top-tier fitness counts 4x, mid-tier 2x, the rest 1x.
func pickWeightedSource(rng *rand.Rand, sources []riverSource) int {
	total := 0
	for _, s := range sources {
		total += sourceWeight(s.fitness)
	}
	roll := rng.Intn(total)
	for i, s := range sources {
		roll -= sourceWeight(s.fitness)
		if roll < 0 {
			return i
		}
	}
	return len(sources) - 1
}

func sourceWeight(fitness float64) int {
	switch {
	case fitness >= 0.75:
		return 4
	case fitness >= 0.5:
		return 2
	default:
		return 1
	}
}

// traceRiver follows strictly downhill edges from the source. Among valid
// neighbors the step is a weighted pick favoring steeper drops (weight
// 1 + 3*drop). Tracing stops on merge with an existing river, on reaching
// water, when no downhill neighbor remains, when a cell would repeat, or at
// the hard length cap.
func traceRiver(reg *region.RegionData, rng *rand.Rand, start int) []riverEdge {
	var edges []riverEdge
	visited := map[int]bool{start: true}
	current := start

	for len(edges) < maxRiverLength {
		coord := reg.Coord(current)
		cell := &reg.Cells[current]

		type option struct {
			index  int
			dir    hexgrid.Direction
			weight int
		}
		var options []option
		totalWeight := 0
		for d := hexgrid.Direction(0); d < 6; d++ {
			nx, nz := coord.Neighbor(d).ToOffset()
			if !reg.Contains(nx, nz) {
				continue
			}
			ni := reg.Index(nx, nz)
			nb := &reg.Cells[ni]
			if nb.Elevation >= cell.Elevation {
				continue // uphill and level flow forbidden
			}
			if visited[ni] {
				continue
			}
			drop := int(cell.Elevation) - int(nb.Elevation)
			w := 1 + 3*drop
			options = append(options, option{ni, d, w})
			totalWeight += w
		}
		if len(options) == 0 {
			break
		}

		roll := rng.Intn(totalWeight)
		chosen := options[len(options)-1]
		for _, o := range options {
			roll -= o.weight
			if roll < 0 {
				chosen = o
				break
			}
		}

		edges = append(edges, riverEdge{from: current, dir: chosen.dir})
		next := &reg.Cells[chosen.index]
		if next.HasRiver() || next.Underwater() {
			break // merge into an existing river, or reached water
		}
		visited[chosen.index] = true
		current = chosen.index
	}
	return edges
}

// commitRiver sets the outgoing flag and direction on every segment and the
// incoming flag on each receiving cell.
func commitRiver(reg *region.RegionData, edges []riverEdge) {
	for _, e := range edges {
		from := &reg.Cells[e.from]
		from.HasOutgoingRiver = true
		from.OutgoingRiver = e.dir

		nx, nz := reg.Coord(e.from).Neighbor(e.dir).ToOffset()
		to := reg.Cell(nx, nz)
		to.HasIncomingRiver = true
		to.IncomingRiver = e.dir.Opposite()
	}
}

func adjacentToWater(reg *region.RegionData, index int) bool {
	coord := reg.Coord(index)
	for d := hexgrid.Direction(0); d < 6; d++ {
		nb := reg.Neighbor(coord, d)
		if nb != nil && nb.Underwater() {
			return true
		}
	}
	return false
}

func adjacentToRiver(reg *region.RegionData, index int) bool {
	coord := reg.Coord(index)
	for d := hexgrid.Direction(0); d < 6; d++ {
		nb := reg.Neighbor(coord, d)
		if nb != nil && nb.HasRiver() {
			return true
		}
	}
	return false
}
