package worldgen

import (
	"context"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
)

// Noise sampling parameters. World positions are divided back down to hex
// units before sampling so frequency is independent of the geometry scale.
const (
	landOctaves     = 4
	landFrequency   = 0.08
	landPersistence = 0.5
)

// generateLand assigns every cell an elevation from seeded noise and the
// target land fraction. Samples below the water threshold map into the
// underwater range [0, SeaLevel], rounding up so near-threshold shallows
// land exactly at sea level and terrace one step to adjacent land; the rest
// map into [LandMinimum, MaxElevation].
func (g *Generator) generateLand(ctx context.Context, reg *region.RegionData) error {
	noise := opensimplex.NewNormalized(int64(g.params.Seed))
	waterThreshold := 1 - g.params.LandFraction

	for z := 0; z < reg.Height; z++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := 0; x < reg.Width; x++ {
			cell := reg.Cell(x, z)
			wx, _, wz := hexgrid.FromOffset(x, z).WorldPosition(0)
			sample := octaveNoise(noise, wx/(hexgrid.InnerRadius*2), wz/(hexgrid.InnerRadius*2),
				landOctaves, landFrequency, landPersistence)

			if sample < waterThreshold {
				t := sample / waterThreshold
				cell.Elevation = int8(math.Round(t * region.SeaLevel))
				cell.WaterLevel = region.SeaLevel + 1
			} else {
				t := 0.0
				if waterThreshold < 1 {
					t = (sample - waterThreshold) / (1 - waterThreshold)
				}
				elev := region.LandMinimum + int(math.Round(t*(region.MaxElevation-region.LandMinimum)))
				if elev > region.MaxElevation {
					elev = region.MaxElevation
				}
				cell.Elevation = int8(elev)
				cell.WaterLevel = 0
			}
		}
	}
	return nil
}

// octaveNoise layers multiple noise frequencies into fractal terrain,
// normalized back to [0, 1].
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
