// Command regiongen generates a hex terrain region and saves it as a binary
// .region file, recording it in the region catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/talgya/hexregion/internal/catalog"
	"github.com/talgya/hexregion/internal/config"
	"github.com/talgya/hexregion/internal/region"
	"github.com/talgya/hexregion/internal/regionfile"
	"github.com/talgya/hexregion/internal/worldgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	configPath := flag.String("config", "regiongen.yaml", "path to YAML config")
	name := flag.String("name", "", "region name (overrides config)")
	seed := flag.Int("seed", 0, "generation seed (overrides config, 0 = time-based)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *name != "" {
		cfg.Region.Name = *name
	}
	if *seed != 0 {
		cfg.Region.Seed = int32(*seed)
	}
	if cfg.Region.Seed == 0 {
		cfg.Region.Seed = int32(time.Now().UnixNano())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params := worldgen.Params{
		Name:          cfg.Region.Name,
		Width:         cfg.Region.Width,
		Height:        cfg.Region.Height,
		Seed:          cfg.Region.Seed,
		LandFraction:  cfg.Generation.LandFraction,
		RiverFraction: cfg.Generation.RiverFraction,
	}

	slog.Info("generating region",
		"name", params.Name,
		"size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"seed", params.Seed,
	)

	gen := worldgen.New(params)
	reg, err := gen.Generate(ctx, func(pass string, fraction float64) {
		slog.Info("generation pass", "pass", pass, "progress", fmt.Sprintf("%.0f%%", fraction*100))
	})
	if err != nil {
		slog.Error("generation failed", "error", err)
		os.Exit(1)
	}

	for t, c := range reg.TerrainCounts() {
		slog.Info("terrain", "type", region.TerrainName(t), "count", c)
	}
	slog.Info("generated", "land_cells", reg.LandCellCount(), "total_cells", len(reg.Cells))

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		slog.Error("failed to create output dir", "error", err)
		os.Exit(1)
	}
	outPath := filepath.Join(cfg.Output.Dir, fileName(reg.Name)+".region")

	var lastReported int
	err = regionfile.Write(ctx, outPath, reg, func(fraction float64) {
		pct := int(fraction * 100)
		if pct >= lastReported+20 {
			lastReported = pct
			slog.Info("saving", "progress", fmt.Sprintf("%d%%", pct))
		}
	})
	if err != nil {
		slog.Error("save failed", "error", err)
		os.Exit(1)
	}
	slog.Info("region saved", "path", outPath, "id", reg.ID)

	db, err := catalog.Open(cfg.Output.CatalogPath)
	if err != nil {
		slog.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	meta, err := regionfile.ReadMetadata(outPath)
	if err != nil {
		slog.Error("failed to read back metadata", "error", err)
		os.Exit(1)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		slog.Error("failed to stat region file", "error", err)
		os.Exit(1)
	}
	if err := db.Record(outPath, meta, info.Size()); err != nil {
		slog.Error("failed to catalog region", "error", err)
		os.Exit(1)
	}
	slog.Info("region cataloged", "catalog", cfg.Output.CatalogPath)
}

func fileName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
	return strings.Trim(s, "-")
}
