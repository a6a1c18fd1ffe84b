package worldgen

import (
	"context"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
)

// assignTerrain derives every cell's terrain type from elevation and
// moisture. Water cells become coast when they touch land, ocean otherwise.
func (g *Generator) assignTerrain(ctx context.Context, reg *region.RegionData) error {
	for z := 0; z < reg.Height; z++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := 0; x < reg.Width; x++ {
			cell := reg.Cell(x, z)
			if cell.Underwater() {
				cell.Terrain = waterTerrain(reg, x, z)
			} else {
				cell.Terrain = landTerrain(cell)
			}
		}
	}
	return nil
}

func waterTerrain(reg *region.RegionData, x, z int) region.TerrainType {
	coord := hexgrid.FromOffset(x, z)
	for d := hexgrid.Direction(0); d < 6; d++ {
		nb := reg.Neighbor(coord, d)
		if nb != nil && !nb.Underwater() {
			return region.TerrainCoast
		}
	}
	return region.TerrainOcean
}

func landTerrain(cell *region.CellData) region.TerrainType {
	elev := int(cell.Elevation)
	moisture := float64(cell.Moisture)

	switch {
	case elev >= region.MaxElevation:
		return region.TerrainSnow
	case elev >= 11:
		return region.TerrainMountain
	case elev >= 9:
		if moisture < 0.25 {
			return region.TerrainTundra
		}
		return region.TerrainHills
	}

	switch {
	case moisture < 0.25:
		return region.TerrainDesert
	case moisture < 0.45:
		return region.TerrainPlains
	case moisture < 0.7:
		return region.TerrainGrassland
	default:
		return region.TerrainForest
	}
}
