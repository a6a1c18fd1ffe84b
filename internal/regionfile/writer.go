package regionfile

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/talgya/hexregion/internal/region"
)

// Write serializes the region fully in memory, then writes it atomically to
// path via a temp file and rename. Progress runs 0.10-0.80 while
// serializing and 0.80-1.00 while writing.
func Write(ctx context.Context, path string, reg *region.RegionData, progress ProgressFunc) error {
	report(progress, 0.10)
	data, err := Serialize(ctx, reg, func(f float64) {
		report(progress, 0.10+0.70*f)
	})
	if err != nil {
		return err
	}
	report(progress, 0.80)

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".region-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	report(progress, 1.0)
	return nil
}

// Serialize encodes the region to its binary form in memory, which also
// yields the exact file size before any I/O happens.
func Serialize(ctx context.Context, reg *region.RegionData, progress ProgressFunc) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(headerSize + len(reg.Cells)*region.PackedCellSize)

	writeHeader(&buf, reg)
	writeMetadata(&buf, reg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cell [region.PackedCellSize]byte
	for i := range reg.Cells {
		if i%cellBatch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(progress, float64(i)/float64(len(reg.Cells)))
		}
		region.PackCell(i%reg.Width, i/reg.Width, &reg.Cells[i], cell[:])
		buf.Write(cell[:])
	}
	report(progress, 1.0)
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, reg *region.RegionData) {
	var h [headerSize]byte
	binary.LittleEndian.PutUint32(h[0:4], Magic)
	binary.LittleEndian.PutUint32(h[4:8], Version)
	copy(h[8:24], reg.ID[:])
	binary.LittleEndian.PutUint32(h[24:28], uint32(int32(reg.Width)))
	binary.LittleEndian.PutUint32(h[28:32], uint32(int32(reg.Height)))
	buf.Write(h[:])
}

func writeMetadata(buf *bytes.Buffer, reg *region.RegionData) {
	writeString(buf, reg.Name)
	writeInt32(buf, reg.Seed)
	writeInt64(buf, toTicks(reg.GeneratedAt))
	writeInt32(buf, int32(len(reg.Connections)))
	for _, conn := range reg.Connections {
		buf.Write(conn.TargetID[:])
		writeString(buf, conn.Name)
		writeInt32(buf, conn.DeparturePortIndex)
		writeInt32(buf, conn.ArrivalPortIndex)
		writeFloat32(buf, conn.TravelTimeMinutes)
		writeFloat32(buf, conn.DangerLevel)
	}
}

func writeString(buf *bytes.Buffer, s string) {
	writeInt32(buf, int32(len(s)))
	buf.WriteString(s)
}

func writeInt32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func writeInt64(buf *bytes.Buffer, v int64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	buf.Write(b[:])
}

func writeFloat32(buf *bytes.Buffer, v float32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	buf.Write(b[:])
}

func report(progress ProgressFunc, f float64) {
	if progress != nil {
		progress(f)
	}
}
