package worldgen

import (
	"context"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexregion/internal/hexgrid"
	"github.com/talgya/hexregion/internal/region"
)

const (
	climateOctaves     = 3
	climateFrequency   = 0.06
	climatePersistence = 0.5
)

// generateClimate assigns moisture from a second noise field, seeded with a
// fixed offset so it does not correlate with the elevation field. Moisture
// is a pure function of position; it never depends on elevation.
func (g *Generator) generateClimate(ctx context.Context, reg *region.RegionData) error {
	noise := opensimplex.NewNormalized(int64(g.params.Seed) + climateSeedOffset)

	for z := 0; z < reg.Height; z++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for x := 0; x < reg.Width; x++ {
			wx, _, wz := hexgrid.FromOffset(x, z).WorldPosition(0)
			m := octaveNoise(noise, wx/(hexgrid.InnerRadius*2), wz/(hexgrid.InnerRadius*2),
				climateOctaves, climateFrequency, climatePersistence)
			if m < 0 {
				m = 0
			}
			if m > 1 {
				m = 1
			}
			reg.Cell(x, z).Moisture = float32(m)
		}
	}
	return nil
}
