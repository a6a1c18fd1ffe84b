package region

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexregion/internal/hexgrid"
)

// Connection links this region to another via travel ports.
type Connection struct {
	TargetID           uuid.UUID
	Name               string
	DeparturePortIndex int32
	ArrivalPortIndex   int32
	TravelTimeMinutes  float32
	DangerLevel        float32
}

// RegionData is the in-memory grid container: identity, dimensions, seed,
// and a flat cell array indexed by z*Width+x. It is exclusively owned by
// whichever operation (generation, save, load) is in flight.
type RegionData struct {
	ID          uuid.UUID
	Name        string
	Width       int
	Height      int
	Seed        int32
	GeneratedAt time.Time
	Cells       []CellData
	Connections []Connection
}

// New creates an empty region with freshly allocated cells.
func New(name string, width, height int, seed int32) *RegionData {
	return &RegionData{
		ID:     uuid.New(),
		Name:   name,
		Width:  width,
		Height: height,
		Seed:   seed,
		Cells:  make([]CellData, width*height),
	}
}

// Index returns the flat cell index for offset coordinates.
func (r *RegionData) Index(x, z int) int {
	return z*r.Width + x
}

// Contains reports whether the offset coordinates are inside the grid.
func (r *RegionData) Contains(x, z int) bool {
	return x >= 0 && x < r.Width && z >= 0 && z < r.Height
}

// Cell returns the cell at offset coordinates, or nil when out of bounds.
func (r *RegionData) Cell(x, z int) *CellData {
	if !r.Contains(x, z) {
		return nil
	}
	return &r.Cells[r.Index(x, z)]
}

// CellAt returns the cell at an axial coordinate, or nil when out of bounds.
func (r *RegionData) CellAt(c hexgrid.Coord) *CellData {
	x, z := c.ToOffset()
	return r.Cell(x, z)
}

// Coord returns the axial coordinate of the cell at a flat index.
func (r *RegionData) Coord(index int) hexgrid.Coord {
	return hexgrid.FromOffset(index%r.Width, index/r.Width)
}

// Neighbor returns the adjacent cell in direction d, or nil at the grid edge.
func (r *RegionData) Neighbor(c hexgrid.Coord, d hexgrid.Direction) *CellData {
	return r.CellAt(c.Neighbor(d))
}

// SetSpecial assigns a special structure to the cell at the given offset
// coordinates. Nonzero specials force road removal, clearing the reciprocal
// bits on neighbors too so road symmetry holds.
func (r *RegionData) SetSpecial(x, z int, s SpecialFeature) {
	cell := r.Cell(x, z)
	if cell == nil {
		return
	}
	cell.Special = s
	if s == SpecialNone {
		return
	}
	coord := hexgrid.FromOffset(x, z)
	for d := hexgrid.Direction(0); d < 6; d++ {
		if !cell.Roads.Has(d) {
			continue
		}
		cell.Roads = cell.Roads.Clear(d)
		if nb := r.Neighbor(coord, d); nb != nil {
			nb.Roads = nb.Roads.Clear(d.Opposite())
		}
	}
}

// AddRoad sets the road bit on both sides of the edge leaving (x, z) in
// direction d. Callers are responsible for feasibility checks.
func (r *RegionData) AddRoad(x, z int, d hexgrid.Direction) {
	cell := r.Cell(x, z)
	if cell == nil {
		return
	}
	nb := r.Neighbor(hexgrid.FromOffset(x, z), d)
	if nb == nil {
		return
	}
	cell.Roads = cell.Roads.Set(d)
	nb.Roads = nb.Roads.Set(d.Opposite())
}

// LandCellCount returns the number of cells at or above land elevation.
func (r *RegionData) LandCellCount() int {
	n := 0
	for i := range r.Cells {
		if !r.Cells[i].Underwater() {
			n++
		}
	}
	return n
}

// TerrainCounts returns the terrain type distribution.
func (r *RegionData) TerrainCounts() map[TerrainType]int {
	counts := make(map[TerrainType]int)
	for i := range r.Cells {
		counts[r.Cells[i].Terrain]++
	}
	return counts
}

func (r *RegionData) String() string {
	return fmt.Sprintf("Region(%q %dx%d seed=%d)", r.Name, r.Width, r.Height, r.Seed)
}
