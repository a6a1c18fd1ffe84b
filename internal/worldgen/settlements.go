package worldgen

import (
	"context"
	"math/rand"
	"sort"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
)

const (
	minSettlementSpacing = 6
	// SettlementThreshold is the urban level at which a cell qualifies for
	// road connection.
	SettlementThreshold = 2
)

// placeSettlements seeds urban centers on desirable land, assigns farm and
// plant density from moisture, and scatters a few special structures.
// Candidate order is by cell index and ties break on index, so results
// depend only on the seeded source, never on map iteration order.
func (g *Generator) placeSettlements(ctx context.Context, reg *region.RegionData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(int64(g.params.Seed) + settlementSeedOffset))

	type scored struct {
		index int
		score float64
	}
	var candidates []scored
	for i := range reg.Cells {
		cell := &reg.Cells[i]
		if cell.Underwater() {
			continue
		}
		s := settlementScore(reg, i)
		if s > 0 {
			candidates = append(candidates, scored{i, s})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].index < candidates[j].index
	})

	landCells := reg.LandCellCount()
	towns := landCells / 120
	if towns < 2 {
		towns = 2
	}
	if towns > 16 {
		towns = 16
	}
	cities := towns / 3
	if cities < 1 {
		cities = 1
	}

	var placed []int
	for _, c := range candidates {
		if len(placed) >= towns {
			break
		}
		if tooClose(reg, c.index, placed, minSettlementSpacing) {
			continue
		}
		cell := &reg.Cells[c.index]
		if len(placed) < cities {
			cell.UrbanLevel = 3
			cell.Walled = true
		} else {
			cell.UrbanLevel = 2
		}
		markOutskirts(reg, c.index)
		placed = append(placed, c.index)
	}

	// Farm and plant density trail moisture on workable terrain.
	for i := range reg.Cells {
		cell := &reg.Cells[i]
		if cell.Underwater() {
			continue
		}
		switch cell.Terrain {
		case region.TerrainPlains, region.TerrainGrassland:
			cell.FarmLevel = featureLevel(float64(cell.Moisture))
		case region.TerrainForest:
			cell.PlantLevel = featureLevel(float64(cell.Moisture))
		}
	}

	placeSpecials(reg, rng, placed)
	return nil
}

// settlementScore rates a cell's desirability. Flat, moist land near water
// scores best; peaks and ice score nothing.
func settlementScore(reg *region.RegionData, index int) float64 {
	cell := &reg.Cells[index]

	var score float64
	switch cell.Terrain {
	case region.TerrainPlains:
		score = 3.0
	case region.TerrainGrassland:
		score = 2.5
	case region.TerrainForest:
		score = 1.5
	case region.TerrainHills:
		score = 1.0
	case region.TerrainDesert, region.TerrainTundra:
		score = 0.5
	default:
		return 0
	}

	score += float64(cell.Moisture)

	coord := reg.Coord(index)
	for d := hexgrid.Direction(0); d < 6; d++ {
		nb := reg.Neighbor(coord, d)
		if nb == nil {
			continue
		}
		if nb.Underwater() {
			score += 1.0 // harbor potential
			break
		}
	}
	return score
}

func tooClose(reg *region.RegionData, index int, placed []int, minDist int) bool {
	coord := reg.Coord(index)
	for _, p := range placed {
		if hexgrid.Distance(coord, reg.Coord(p)) < minDist {
			return true
		}
	}
	return false
}

// markOutskirts raises the immediate ring around a settlement to a low
// urban level, leaving already-urban cells alone.
func markOutskirts(reg *region.RegionData, index int) {
	coord := reg.Coord(index)
	for d := hexgrid.Direction(0); d < 6; d++ {
		nb := reg.Neighbor(coord, d)
		if nb == nil || nb.Underwater() || nb.UrbanLevel > 0 {
			continue
		}
		if nb.Terrain == region.TerrainMountain || nb.Terrain == region.TerrainSnow {
			continue
		}
		nb.UrbanLevel = 1
	}
}

func featureLevel(moisture float64) uint8 {
	switch {
	case moisture < 0.3:
		return 0
	case moisture < 0.5:
		return 1
	case moisture < 0.75:
		return 2
	default:
		return 3
	}
}

// placeSpecials scatters unique structures: castles guard hills near
// settlements, ziggurats rise from the desert, megaflora root in wet
// forest. Megaflora block roads, so they never land on urban cells.
func placeSpecials(reg *region.RegionData, rng *rand.Rand, settlements []int) {
	var hills, deserts, forests []int
	for i := range reg.Cells {
		cell := &reg.Cells[i]
		if cell.Underwater() || cell.UrbanLevel > 0 {
			continue
		}
		switch cell.Terrain {
		case region.TerrainHills:
			hills = append(hills, i)
		case region.TerrainDesert:
			deserts = append(deserts, i)
		case region.TerrainForest:
			if cell.Moisture > 0.75 {
				forests = append(forests, i)
			}
		}
	}

	pick := func(pool []int, special region.SpecialFeature) {
		if len(pool) == 0 {
			return
		}
		i := pool[rng.Intn(len(pool))]
		reg.SetSpecial(i%reg.Width, i/reg.Width, special)
	}

	if len(settlements) > 0 {
		pick(hills, region.SpecialCastle)
	}
	pick(deserts, region.SpecialZiggurat)
	pick(forests, region.SpecialMegaflora)
}
