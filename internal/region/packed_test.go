package region

import (
	"math"
	"testing"

	"github.com/talgya/hexregion/internal/hexgrid"
)

const moistureTolerance = 1e-3

func TestPackCellRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		x, z int
		cell CellData
	}{
		{
			name: "zero value",
			cell: CellData{},
		},
		{
			name: "min elevation water",
			cell: CellData{Elevation: MinElevation, WaterLevel: SeaLevel + 1, Terrain: TerrainOcean, Moisture: 0.5},
		},
		{
			name: "max elevation peak",
			x:    511, z: 511,
			cell: CellData{Elevation: MaxElevation, Terrain: TerrainSnow, Moisture: 1},
		},
		{
			name: "all road bits",
			x:    17, z: 3,
			cell: CellData{Elevation: 7, Terrain: TerrainPlains, Roads: 0x3f, Moisture: 0.25},
		},
		{
			name: "full features walled",
			cell: CellData{
				Elevation: 6, Terrain: TerrainGrassland,
				UrbanLevel: 3, FarmLevel: 3, PlantLevel: 3, Walled: true,
				Special: SpecialCastle, Moisture: 0.75,
			},
		},
		{
			name: "megaflora",
			cell: CellData{Elevation: 8, Terrain: TerrainForest, Special: SpecialMegaflora},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf [PackedCellSize]byte
			PackCell(tc.x, tc.z, &tc.cell, buf[:])
			gx, gz, got := UnpackCell(buf[:])
			if gx != tc.x || gz != tc.z {
				t.Errorf("position (%d,%d), want (%d,%d)", gx, gz, tc.x, tc.z)
			}
			assertCellsEqual(t, &tc.cell, &got)
		})
	}
}

func TestPackCellRiverDirections(t *testing.T) {
	for dir := hexgrid.Direction(0); dir < 6; dir++ {
		cell := CellData{
			Elevation:        9,
			Terrain:          TerrainHills,
			HasIncomingRiver: true,
			IncomingRiver:    dir,
			HasOutgoingRiver: true,
			OutgoingRiver:    dir.Opposite(),
			Moisture:         0.6,
		}
		var buf [PackedCellSize]byte
		PackCell(0, 0, &cell, buf[:])
		_, _, got := UnpackCell(buf[:])
		if !got.HasIncomingRiver || got.IncomingRiver != dir {
			t.Errorf("dir %v: incoming river lost: %+v", dir, got)
		}
		if !got.HasOutgoingRiver || got.OutgoingRiver != dir.Opposite() {
			t.Errorf("dir %v: outgoing river lost: %+v", dir, got)
		}
	}
}

func TestPackCellDirectionMeaninglessWhenUnset(t *testing.T) {
	// In-memory direction values without their flag must not leak into the
	// packed form.
	cell := CellData{Elevation: 5, IncomingRiver: 4, OutgoingRiver: 5}
	var buf [PackedCellSize]byte
	PackCell(0, 0, &cell, buf[:])
	if buf[9] != 0 {
		t.Errorf("river byte = %#x, want 0 when both flags unset", buf[9])
	}
	_, _, got := UnpackCell(buf[:])
	if got.HasIncomingRiver || got.HasOutgoingRiver || got.IncomingRiver != 0 || got.OutgoingRiver != 0 {
		t.Errorf("unset rivers decoded as %+v", got)
	}
}

func TestPackCellMoisturePrecision(t *testing.T) {
	for _, m := range []float32{0, 0.001, 0.25, 0.333, 0.5, 0.999, 1} {
		cell := CellData{Moisture: m}
		var buf [PackedCellSize]byte
		PackCell(0, 0, &cell, buf[:])
		_, _, got := UnpackCell(buf[:])
		if diff := math.Abs(float64(got.Moisture - m)); diff > moistureTolerance {
			t.Errorf("moisture %v round-tripped to %v (diff %v)", m, got.Moisture, diff)
		}
	}
}

func TestPackCellSize(t *testing.T) {
	if PackedCellSize != 16 {
		t.Fatalf("packed cell size = %d, want 16", PackedCellSize)
	}
}

func assertCellsEqual(t *testing.T, want, got *CellData) {
	t.Helper()
	if got.Elevation != want.Elevation {
		t.Errorf("elevation %d, want %d", got.Elevation, want.Elevation)
	}
	if got.WaterLevel != want.WaterLevel {
		t.Errorf("water level %d, want %d", got.WaterLevel, want.WaterLevel)
	}
	if got.Terrain != want.Terrain {
		t.Errorf("terrain %d, want %d", got.Terrain, want.Terrain)
	}
	if got.UrbanLevel != want.UrbanLevel || got.FarmLevel != want.FarmLevel || got.PlantLevel != want.PlantLevel {
		t.Errorf("features %d/%d/%d, want %d/%d/%d",
			got.UrbanLevel, got.FarmLevel, got.PlantLevel,
			want.UrbanLevel, want.FarmLevel, want.PlantLevel)
	}
	if got.Special != want.Special {
		t.Errorf("special %d, want %d", got.Special, want.Special)
	}
	if got.Walled != want.Walled {
		t.Errorf("walled %v, want %v", got.Walled, want.Walled)
	}
	if got.HasIncomingRiver != want.HasIncomingRiver || got.HasOutgoingRiver != want.HasOutgoingRiver {
		t.Errorf("river flags %v/%v, want %v/%v",
			got.HasIncomingRiver, got.HasOutgoingRiver,
			want.HasIncomingRiver, want.HasOutgoingRiver)
	}
	if want.HasIncomingRiver && got.IncomingRiver != want.IncomingRiver {
		t.Errorf("incoming river %v, want %v", got.IncomingRiver, want.IncomingRiver)
	}
	if want.HasOutgoingRiver && got.OutgoingRiver != want.OutgoingRiver {
		t.Errorf("outgoing river %v, want %v", got.OutgoingRiver, want.OutgoingRiver)
	}
	if got.Roads != want.Roads {
		t.Errorf("roads %06b, want %06b", got.Roads, want.Roads)
	}
	if diff := math.Abs(float64(got.Moisture - want.Moisture)); diff > moistureTolerance {
		t.Errorf("moisture %v, want %v within %v", got.Moisture, want.Moisture, moistureTolerance)
	}
}
