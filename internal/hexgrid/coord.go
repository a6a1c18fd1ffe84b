// Package hexgrid provides axial coordinate math for a pointy-top hex grid.
// The third cube coordinate s is derived: s = -q - r.
package hexgrid

// Geometry constants shared with mesh-building collaborators. Elevation is
// stored as small integers; world-space height is elevation * ElevationStep.
const (
	OuterRadius   = 10.0
	InnerRadius   = OuterRadius * 0.866025403784438 // outer * sqrt(3)/2
	ElevationStep = 3.0
)

// Terrace interpolation constants. A slope between two elevation levels is
// split into TerraceSteps segments alternating flat and sloped.
const (
	TerracesPerSlope          = 2
	TerraceSteps              = TerracesPerSlope*2 + 1
	HorizontalTerraceStepSize = 1.0 / TerraceSteps
	VerticalTerraceStepSize   = 1.0 / (TerracesPerSlope + 1)
)

// Coord is a position on the hex grid in axial coordinates.
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Direction indexes the six hex edges, clockwise from northeast.
type Direction uint8

const (
	NE Direction = iota
	E
	SE
	SW
	W
	NW
)

// Directions holds the axial offsets for the six neighbor directions,
// indexed by Direction.
var Directions = [6]Coord{
	{Q: 1, R: -1}, // NE
	{Q: 1, R: 0},  // E
	{Q: 0, R: 1},  // SE
	{Q: -1, R: 1}, // SW
	{Q: -1, R: 0}, // W
	{Q: 0, R: -1}, // NW
}

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	return (d + 3) % 6
}

func (d Direction) String() string {
	switch d {
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case SW:
		return "SW"
	case W:
		return "W"
	case NW:
		return "NW"
	}
	return "?"
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return -c.Q - c.R
}

// Add returns c+o in axial space.
func (c Coord) Add(o Coord) Coord {
	return Coord{Q: c.Q + o.Q, R: c.R + o.R}
}

// Neighbor returns the adjacent coordinate in the given direction.
func (c Coord) Neighbor(d Direction) Coord {
	return c.Add(Directions[d])
}

// Neighbors returns the six adjacent coordinates.
func (c Coord) Neighbors() [6]Coord {
	var result [6]Coord
	for i, dir := range Directions {
		result[i] = c.Add(dir)
	}
	return result
}

// FromOffset converts row-major offset coordinates (x = column, z = row)
// to axial. Rows are shifted so the grid stays a rectangle.
func FromOffset(x, z int) Coord {
	return Coord{Q: x - z/2, R: z}
}

// ToOffset converts axial coordinates back to offset (x, z).
func (c Coord) ToOffset() (x, z int) {
	return c.Q + c.R/2, c.R
}

// Distance returns the hex distance between two coordinates:
// the max of the absolute cube coordinate differences.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.S() - b.S())
	max := dq
	if dr > max {
		max = dr
	}
	if ds > max {
		max = ds
	}
	return max
}

// WorldPosition converts the coordinate and an elevation level to a
// world-space position. Pure function of the geometry constants.
func (c Coord) WorldPosition(elevation int) (x, y, z float64) {
	x = (float64(c.Q) + float64(c.R)*0.5) * InnerRadius * 2
	z = float64(c.R) * OuterRadius * 1.5
	y = float64(elevation) * ElevationStep
	return
}

// TerraceLerp interpolates horizontally between two values along a terraced
// slope. step ranges over [0, TerraceSteps].
func TerraceLerp(a, b float64, step int) float64 {
	h := float64(step) * HorizontalTerraceStepSize
	return a + (b-a)*h
}

// TerraceLerpVertical interpolates vertically: only odd steps rise, giving
// the flat-tread, steep-riser terrace profile.
func TerraceLerpVertical(a, b float64, step int) float64 {
	v := float64((step+1)/2) * VerticalTerraceStepSize
	return a + (b-a)*v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
