package worldgen

import (
	"context"
	"reflect"
	"testing"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
	"github.com/talgya/hexregion/internal/regionfile"
)

func generate(t *testing.T, params Params) *region.RegionData {
	t.Helper()
	reg, err := New(params).Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return reg
}

func testParams(seed int32, w, h int) Params {
	p := DefaultParams()
	p.Seed = seed
	p.Width = w
	p.Height = h
	return p
}

func TestDeterminism(t *testing.T) {
	params := testParams(7, 40, 30)
	params.RiverFraction = 0.1

	a := generate(t, params)
	b := generate(t, params)

	if !reflect.DeepEqual(a.Cells, b.Cells) {
		for i := range a.Cells {
			if a.Cells[i] != b.Cells[i] {
				t.Fatalf("cell %d differs between runs:\n  %+v\n  %+v", i, a.Cells[i], b.Cells[i])
			}
		}
		t.Fatal("cell arrays differ")
	}
}

func TestSeed42HasLandAndWater(t *testing.T) {
	reg := generate(t, testParams(42, 50, 50))

	land, water := 0, 0
	for i := range reg.Cells {
		if reg.Cells[i].Underwater() {
			water++
		} else {
			land++
		}
	}
	if land == 0 {
		t.Error("no land cells at default land fraction")
	}
	if water == 0 {
		t.Error("no water cells at default land fraction")
	}
}

func TestElevationRangesRespectSeaLevel(t *testing.T) {
	reg := generate(t, testParams(3, 48, 48))
	for i := range reg.Cells {
		cell := &reg.Cells[i]
		if cell.Elevation < region.MinElevation || cell.Elevation > region.MaxElevation {
			t.Fatalf("cell %d elevation %d out of range", i, cell.Elevation)
		}
		if cell.Underwater() && cell.Elevation > region.SeaLevel {
			t.Fatalf("cell %d is underwater with elevation %d above sea level", i, cell.Elevation)
		}
		if !cell.Underwater() && cell.Elevation < region.LandMinimum {
			t.Fatalf("cell %d is land with elevation %d below land minimum", i, cell.Elevation)
		}
	}
}

func TestRiverMonotonicity(t *testing.T) {
	totalRivers := 0
	for seed := int32(1); seed <= 5; seed++ {
		params := testParams(seed, 64, 64)
		params.RiverFraction = 0.1
		reg := generate(t, params)

		for i := range reg.Cells {
			cell := &reg.Cells[i]
			if !cell.HasOutgoingRiver {
				continue
			}
			totalRivers++
			nb := reg.Neighbor(reg.Coord(i), cell.OutgoingRiver)
			if nb == nil {
				t.Fatalf("seed %d: river at cell %d flows off the grid", seed, i)
			}
			if nb.Elevation > cell.Elevation {
				t.Errorf("seed %d: river at cell %d flows uphill (%d -> %d)",
					seed, i, cell.Elevation, nb.Elevation)
			}
			if !nb.HasIncomingRiver && !nb.Underwater() && !nb.HasOutgoingRiver {
				t.Errorf("seed %d: river at cell %d has no continuation downstream", seed, i)
			}
		}
	}
	if totalRivers == 0 {
		t.Error("no rivers generated across five seeds; tracing is likely broken")
	}
}

func TestRiverMinimumLength(t *testing.T) {
	for seed := int32(1); seed <= 8; seed++ {
		params := testParams(seed, 64, 64)
		params.RiverFraction = 0.1
		reg := generate(t, params)

		for i := range reg.Cells {
			cell := &reg.Cells[i]
			// Sources are cells where a river starts: outgoing but nothing
			// flowing in. Downstream merges only lengthen the walk.
			if !cell.HasOutgoingRiver || cell.HasIncomingRiver {
				continue
			}
			length := 0
			cur := i
			for reg.Cells[cur].HasOutgoingRiver && length <= len(reg.Cells) {
				coord := reg.Coord(cur)
				next := coord.Neighbor(reg.Cells[cur].OutgoingRiver)
				nx, nz := next.ToOffset()
				if !reg.Contains(nx, nz) {
					t.Fatalf("seed %d: river from cell %d flows off the grid", seed, i)
				}
				length++
				cur = reg.Index(nx, nz)
			}
			if length > len(reg.Cells) {
				t.Fatalf("seed %d: river from cell %d does not terminate", seed, i)
			}
			if length < minRiverLength {
				t.Errorf("seed %d: river from cell %d is %d edges, want at least %d",
					seed, i, length, minRiverLength)
			}
		}
	}
}

func TestRoadInvariants(t *testing.T) {
	for seed := int32(1); seed <= 3; seed++ {
		reg := generate(t, testParams(seed, 64, 64))

		for i := range reg.Cells {
			cell := &reg.Cells[i]
			hasRoad := cell.Roads.Any()
			if hasRoad && cell.Underwater() {
				t.Errorf("seed %d: underwater cell %d has a road", seed, i)
			}
			if hasRoad && cell.Special == region.SpecialMegaflora {
				t.Errorf("seed %d: megaflora cell %d has a road", seed, i)
			}
			for d := hexgrid.Direction(0); d < 6; d++ {
				if !cell.Roads.Has(d) {
					continue
				}
				nb := reg.Neighbor(reg.Coord(i), d)
				if nb == nil {
					t.Errorf("seed %d: road at cell %d leads off the grid", seed, i)
					continue
				}
				if !nb.Roads.Has(d.Opposite()) {
					t.Errorf("seed %d: road at cell %d dir %v is asymmetric", seed, i, d)
				}
				elevDiff := int(cell.Elevation) - int(nb.Elevation)
				if elevDiff > 1 || elevDiff < -1 {
					t.Errorf("seed %d: road at cell %d crosses elevation gap %d", seed, i, elevDiff)
				}
			}
		}
	}
}

func TestSettlementsPlaced(t *testing.T) {
	reg := generate(t, testParams(42, 64, 48))
	settlements := findSettlements(reg)
	if len(settlements) == 0 {
		t.Error("no settlements placed on a half-land region")
	}
	for _, i := range settlements {
		if reg.Cells[i].Underwater() {
			t.Errorf("settlement %d is underwater", i)
		}
	}
}

func TestCanPlaceRoadRules(t *testing.T) {
	reg := region.New("rules", 5, 5, 1)
	for i := range reg.Cells {
		reg.Cells[i].Elevation = region.LandMinimum
		reg.Cells[i].Terrain = region.TerrainPlains
	}
	a := hexgrid.FromOffset(2, 2)

	t.Run("flat land", func(t *testing.T) {
		if !CanPlaceRoad(reg, a, hexgrid.E) {
			t.Error("flat land edge should accept a road")
		}
	})

	t.Run("elevation gap", func(t *testing.T) {
		nb := reg.CellAt(a.Neighbor(hexgrid.E))
		nb.Elevation = region.LandMinimum + 2
		if CanPlaceRoad(reg, a, hexgrid.E) {
			t.Error("two-step cliff should reject a road")
		}
		nb.Elevation = region.LandMinimum
	})

	t.Run("megaflora", func(t *testing.T) {
		reg.CellAt(a).Special = region.SpecialMegaflora
		if CanPlaceRoad(reg, a, hexgrid.E) {
			t.Error("megaflora endpoint should reject a road")
		}
		reg.CellAt(a).Special = region.SpecialNone
	})

	t.Run("underwater", func(t *testing.T) {
		nb := reg.CellAt(a.Neighbor(hexgrid.E))
		nb.Elevation = region.SeaLevel
		nb.WaterLevel = region.SeaLevel + 1
		if CanPlaceRoad(reg, a, hexgrid.E) {
			t.Error("underwater endpoint should reject a road")
		}
		nb.Elevation = region.LandMinimum
		nb.WaterLevel = 0
	})

	t.Run("river through edge", func(t *testing.T) {
		cell := reg.CellAt(a)
		cell.HasOutgoingRiver = true
		cell.OutgoingRiver = hexgrid.E
		if CanPlaceRoad(reg, a, hexgrid.E) {
			t.Error("road along a river edge should be rejected")
		}
		cell.HasOutgoingRiver = false
	})

	t.Run("perpendicular bridge over straight river", func(t *testing.T) {
		cell := reg.CellAt(a)
		cell.HasIncomingRiver = true
		cell.IncomingRiver = hexgrid.NW
		cell.HasOutgoingRiver = true
		cell.OutgoingRiver = hexgrid.SE
		if !CanPlaceRoad(reg, a, hexgrid.E) {
			t.Error("perpendicular crossing of a straight river should bridge")
		}
		// A bend cannot be bridged in any direction.
		cell.OutgoingRiver = hexgrid.SW
		if CanPlaceRoad(reg, a, hexgrid.E) {
			t.Error("bent river should reject all crossings")
		}
		cell.HasIncomingRiver = false
		cell.HasOutgoingRiver = false
	})
}

func TestRoadConstraintsSurviveRoundTrip(t *testing.T) {
	reg := generate(t, testParams(2, 48, 48))
	data, err := regionfile.Serialize(context.Background(), reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := regionfile.Deserialize(context.Background(), data, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := range loaded.Cells {
		cell := &loaded.Cells[i]
		if !cell.Roads.Any() {
			continue
		}
		if cell.Underwater() {
			t.Errorf("loaded underwater cell %d has a road", i)
		}
		if cell.Special == region.SpecialMegaflora {
			t.Errorf("loaded megaflora cell %d has a road", i)
		}
		for d := hexgrid.Direction(0); d < 6; d++ {
			if !cell.Roads.Has(d) {
				continue
			}
			nb := loaded.Neighbor(loaded.Coord(i), d)
			if nb == nil || !nb.Roads.Has(d.Opposite()) {
				t.Errorf("loaded road at cell %d dir %v is asymmetric", i, d)
			}
		}
	}
}

func TestGenerateCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testParams(1, 64, 64)).Generate(ctx, nil)
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestProgressReported(t *testing.T) {
	var passes []string
	_, err := New(testParams(1, 16, 16)).Generate(context.Background(),
		func(pass string, fraction float64) {
			passes = append(passes, pass)
			if fraction < 0 || fraction > 1 {
				t.Errorf("pass %s fraction %v out of range", pass, fraction)
			}
		})
	if err != nil {
		t.Fatal(err)
	}
	if len(passes) < 6 || passes[0] != "land" || passes[len(passes)-1] != "done" {
		t.Errorf("unexpected pass sequence %v", passes)
	}
}
