package pathfind

import (
	"math"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
)

// UnitDomain selects which terrain cost table applies to a unit.
type UnitDomain uint8

const (
	DomainLand UnitDomain = iota
	DomainNaval
	DomainAmphibious
)

var impassable = math.Inf(1)

// Base cost to enter a cell by terrain, for land movement.
var landCosts = [...]float64{
	region.TerrainOcean:     math.Inf(1),
	region.TerrainCoast:     math.Inf(1),
	region.TerrainPlains:    1.0,
	region.TerrainGrassland: 1.0,
	region.TerrainForest:    1.5,
	region.TerrainDesert:    1.5,
	region.TerrainHills:     2.0,
	region.TerrainTundra:    2.0,
	region.TerrainMountain:  math.Inf(1),
	region.TerrainSnow:      2.5,
}

// Base cost to enter a cell by terrain, for naval movement.
var navalCosts = [...]float64{
	region.TerrainOcean:     1.0,
	region.TerrainCoast:     1.5,
	region.TerrainPlains:    math.Inf(1),
	region.TerrainGrassland: math.Inf(1),
	region.TerrainForest:    math.Inf(1),
	region.TerrainDesert:    math.Inf(1),
	region.TerrainHills:     math.Inf(1),
	region.TerrainTundra:    math.Inf(1),
	region.TerrainMountain:  math.Inf(1),
	region.TerrainSnow:      math.Inf(1),
}

// MovementCost returns the cost of moving between two adjacent cells for the
// given domain, or +Inf when the edge is impassable. Amphibious units pay
// the cheaper of the land and naval costs.
func (f *Finder) MovementCost(from, to hexgrid.Coord, domain UnitDomain) float64 {
	a := f.reg.CellAt(from)
	b := f.reg.CellAt(to)
	if a == nil || b == nil {
		return impassable
	}
	switch domain {
	case DomainLand:
		return landCost(a, b)
	case DomainNaval:
		return navalCost(a, b)
	case DomainAmphibious:
		return math.Min(landCost(a, b), navalCost(a, b))
	}
	return impassable
}

// landCost charges the destination terrain's base cost plus a climbing
// penalty. The cost tables make water terrain impassable; the elevation-gap
// rule applies to land movement only, so amphibious units can still cross
// the shoreline on their naval leg.
func landCost(a, b *region.CellData) float64 {
	if int(b.Terrain) >= len(landCosts) {
		return impassable
	}
	base := landCosts[b.Terrain]
	if math.IsInf(base, 1) || b.Underwater() {
		return impassable
	}
	diff := int(b.Elevation) - int(a.Elevation)
	if diff >= 2 || diff <= -2 {
		return impassable
	}
	if diff > 0 {
		base += 0.5 * float64(diff) // climbing penalty
	}
	return base
}

func navalCost(a, b *region.CellData) float64 {
	if !b.Underwater() || int(b.Terrain) >= len(navalCosts) {
		return impassable
	}
	return navalCosts[b.Terrain]
}
