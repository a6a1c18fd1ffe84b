package region

import "github.com/talgya/hexregion/internal/hexgrid"

// CellSink receives region cell state, typically a renderer-side grid.
// Apply drives it in three ordered passes — properties, then rivers, then
// roads — so the sink sees the same invariants generation established
// (rivers need elevations in place, roads need rivers in place).
type CellSink interface {
	SetCellProperties(x, z int, elevation, waterLevel int, terrain TerrainType, moisture float32)
	SetCellFeatures(x, z int, urban, farm, plant int, special SpecialFeature, walled bool)
	SetOutgoingRiver(x, z int, d hexgrid.Direction)
	AddRoad(x, z int, d hexgrid.Direction)
}

// Apply writes the region's cell state into the sink. Road edges are
// reported once each, from the lower-index endpoint; the sink is expected
// to mirror the opposite bit itself.
func (r *RegionData) Apply(sink CellSink) {
	for i := range r.Cells {
		c := &r.Cells[i]
		x, z := i%r.Width, i/r.Width
		sink.SetCellProperties(x, z, int(c.Elevation), int(c.WaterLevel), c.Terrain, c.Moisture)
		sink.SetCellFeatures(x, z, int(c.UrbanLevel), int(c.FarmLevel), int(c.PlantLevel), c.Special, c.Walled)
	}

	for i := range r.Cells {
		c := &r.Cells[i]
		if !c.HasOutgoingRiver {
			continue
		}
		sink.SetOutgoingRiver(i%r.Width, i/r.Width, c.OutgoingRiver)
	}

	for i := range r.Cells {
		c := &r.Cells[i]
		if !c.Roads.Any() {
			continue
		}
		x, z := i%r.Width, i/r.Width
		coord := hexgrid.FromOffset(x, z)
		for d := hexgrid.Direction(0); d < 6; d++ {
			if !c.Roads.Has(d) {
				continue
			}
			nx, nz := coord.Neighbor(d).ToOffset()
			if !r.Contains(nx, nz) || r.Index(nx, nz) < i {
				continue
			}
			sink.AddRoad(x, z, d)
		}
	}
}
