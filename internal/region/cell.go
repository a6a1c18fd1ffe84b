// Package region provides the per-cell terrain state, the region grid
// container, and the packed binary cell encoding.
package region

import "github.com/talgya/hexregion/internal/hexgrid"

// Elevation bounds. Sea level sits inside the range; anything below
// LandMinimum is water depth.
const (
	MinElevation = 0
	MaxElevation = 13
	SeaLevel     = 4
	LandMinimum  = 5
)

// MaxFeatureLevel caps urban, farm, and plant density levels.
const MaxFeatureLevel = 3

// TerrainType enumerates the terrain classes a cell can hold.
type TerrainType uint8

const (
	TerrainOcean TerrainType = iota
	TerrainCoast
	TerrainPlains
	TerrainGrassland
	TerrainForest
	TerrainDesert
	TerrainHills
	TerrainTundra
	TerrainMountain
	TerrainSnow
)

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t TerrainType) string {
	switch t {
	case TerrainOcean:
		return "Ocean"
	case TerrainCoast:
		return "Coast"
	case TerrainPlains:
		return "Plains"
	case TerrainGrassland:
		return "Grassland"
	case TerrainForest:
		return "Forest"
	case TerrainDesert:
		return "Desert"
	case TerrainHills:
		return "Hills"
	case TerrainTundra:
		return "Tundra"
	case TerrainMountain:
		return "Mountain"
	case TerrainSnow:
		return "Snow"
	default:
		return "Unknown"
	}
}

// SpecialFeature marks a unique structure occupying a cell. A nonzero
// special removes existing roads from the cell when set; megaflora also
// blocks new roads entirely.
type SpecialFeature uint8

const (
	SpecialNone SpecialFeature = iota
	SpecialCastle
	SpecialZiggurat
	SpecialMegaflora
)

// RoadMask holds one bit per hex edge direction.
type RoadMask uint8

// Has reports whether a road crosses the edge in direction d.
func (m RoadMask) Has(d hexgrid.Direction) bool {
	return m&(1<<d) != 0
}

// Set returns the mask with the road bit for d set.
func (m RoadMask) Set(d hexgrid.Direction) RoadMask {
	return m | 1<<d
}

// Clear returns the mask with the road bit for d cleared.
func (m RoadMask) Clear(d hexgrid.Direction) RoadMask {
	return m &^ (1 << d)
}

// Any reports whether the cell has any road edge.
func (m RoadMask) Any() bool {
	return m != 0
}

// CellData is the full terrain state of one grid cell.
type CellData struct {
	Elevation  int8
	WaterLevel int8
	Terrain    TerrainType

	UrbanLevel uint8
	FarmLevel  uint8
	PlantLevel uint8
	Special    SpecialFeature
	Walled     bool

	HasIncomingRiver bool
	HasOutgoingRiver bool
	IncomingRiver    hexgrid.Direction // meaningful only when HasIncomingRiver
	OutgoingRiver    hexgrid.Direction // meaningful only when HasOutgoingRiver

	Roads RoadMask

	Moisture float32
}

// Underwater reports whether the cell is submerged.
func (c *CellData) Underwater() bool {
	return c.WaterLevel > c.Elevation
}

// HasRiver reports whether any river passes through the cell.
func (c *CellData) HasRiver() bool {
	return c.HasIncomingRiver || c.HasOutgoingRiver
}

// HasRiverThroughEdge reports whether a river enters or leaves the cell
// across the edge in direction d.
func (c *CellData) HasRiverThroughEdge(d hexgrid.Direction) bool {
	return (c.HasIncomingRiver && c.IncomingRiver == d) ||
		(c.HasOutgoingRiver && c.OutgoingRiver == d)
}

// HasStraightRiver reports whether a river flows straight through the cell,
// entering and leaving across opposite edges. Only straight rivers can be
// bridged by a perpendicular road.
func (c *CellData) HasStraightRiver() bool {
	return c.HasIncomingRiver && c.HasOutgoingRiver &&
		c.OutgoingRiver == c.IncomingRiver.Opposite()
}
