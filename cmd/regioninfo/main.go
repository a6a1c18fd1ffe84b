// Command regioninfo lists cataloged regions and inspects region files via
// the metadata-only fast read path.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/talgya/hexregion/internal/catalog"
	"github.com/talgya/hexregion/internal/regionfile"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	catalogPath := flag.String("catalog", "data/regions.db", "path to the region catalog")
	scanDir := flag.String("scan", "", "directory to (re)scan for .region files")
	flag.Parse()

	// File arguments: print metadata directly, no catalog needed.
	if flag.NArg() > 0 {
		for _, path := range flag.Args() {
			meta, err := regionfile.ReadMetadata(path)
			if err != nil {
				slog.Error("failed to read metadata", "path", path, "error", err)
				os.Exit(1)
			}
			printMetadata(path, meta)
		}
		return
	}

	db, err := catalog.Open(*catalogPath)
	if err != nil {
		slog.Error("failed to open catalog", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if *scanDir != "" {
		n, err := db.Scan(*scanDir)
		if err != nil {
			slog.Error("scan failed", "dir", *scanDir, "error", err)
			os.Exit(1)
		}
		slog.Info("scan complete", "dir", *scanDir, "indexed", n)
	}

	entries, err := db.List()
	if err != nil {
		slog.Error("failed to list regions", "error", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("catalog is empty")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s  %-24s %4dx%-4d seed=%-11d %8d bytes  %s\n",
			e.ID, e.Name, e.Width, e.Height, e.Seed, e.FileSize, e.Path)
	}
}

func printMetadata(path string, meta *regionfile.Metadata) {
	fmt.Printf("%s\n", path)
	fmt.Printf("  id:          %s\n", meta.ID)
	fmt.Printf("  name:        %s\n", meta.Name)
	fmt.Printf("  size:        %dx%d\n", meta.Width, meta.Height)
	fmt.Printf("  seed:        %d\n", meta.Seed)
	fmt.Printf("  generated:   %s\n", meta.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("  version:     %d\n", meta.Version)
	fmt.Printf("  connections: %d\n", len(meta.Connections))
	for _, c := range meta.Connections {
		fmt.Printf("    -> %s (%s) travel=%.1fmin danger=%.2f\n",
			c.Name, c.TargetID, c.TravelTimeMinutes, c.DangerLevel)
	}
}
