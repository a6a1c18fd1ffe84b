package regionfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/talgya/hexregion/internal/region"
)

// Maximum lengths accepted while decoding, guarding against corrupt files.
const (
	maxNameLen     = 1 << 16
	maxConnections = 1 << 16
	maxDimension   = 1 << 14
)

// Read loads a complete region from path. Validation failures return the
// typed sentinels; cancellation returns ctx.Err(); a failed read never
// returns a partially populated region.
func Read(ctx context.Context, path string, progress ProgressFunc) (*region.RegionData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}
	defer f.Close()
	return decode(ctx, bufio.NewReader(f), progress)
}

// Deserialize decodes a region from an in-memory buffer, the inverse of
// Serialize.
func Deserialize(ctx context.Context, data []byte, progress ProgressFunc) (*region.RegionData, error) {
	return decode(ctx, bytes.NewReader(data), progress)
}

func decode(ctx context.Context, r io.Reader, progress ProgressFunc) (*region.RegionData, error) {
	meta, err := readHeaderAndMetadata(r)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reg := &region.RegionData{
		ID:          meta.ID,
		Name:        meta.Name,
		Width:       meta.Width,
		Height:      meta.Height,
		Seed:        meta.Seed,
		GeneratedAt: meta.GeneratedAt,
		Cells:       make([]region.CellData, meta.Width*meta.Height),
		Connections: meta.Connections,
	}

	total := len(reg.Cells)
	var buf [region.PackedCellSize]byte
	for i := 0; i < total; i++ {
		if i%cellBatch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			report(progress, float64(i)/float64(total))
		}
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, fmt.Errorf("read cell %d: %w", i, err)
		}
		x, z, cell := region.UnpackCell(buf[:])
		if !reg.Contains(x, z) {
			return nil, fmt.Errorf("cell %d has out-of-range position (%d, %d)", i, x, z)
		}
		reg.Cells[reg.Index(x, z)] = cell
	}
	report(progress, 1.0)
	return reg, nil
}

// ReadMetadata reads only the header and metadata block, stopping before any
// cell bytes. Used for lightweight catalog and listing cases.
func ReadMetadata(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}
	defer f.Close()
	return readHeaderAndMetadata(bufio.NewReader(f))
}

func readHeaderAndMetadata(r io.Reader) (*Metadata, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if binary.LittleEndian.Uint32(header[0:4]) != Magic {
		return nil, ErrBadMagic
	}
	meta := &Metadata{}
	meta.Version = binary.LittleEndian.Uint32(header[4:8])
	if meta.Version > Version {
		return nil, fmt.Errorf("%w: %d > %d", ErrUnsupportedVersion, meta.Version, Version)
	}
	copy(meta.ID[:], header[8:24])
	meta.Width = int(int32(binary.LittleEndian.Uint32(header[24:28])))
	meta.Height = int(int32(binary.LittleEndian.Uint32(header[28:32])))
	if meta.Width <= 0 || meta.Height <= 0 || meta.Width > maxDimension || meta.Height > maxDimension {
		return nil, fmt.Errorf("invalid dimensions %dx%d", meta.Width, meta.Height)
	}

	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("read name: %w", err)
	}
	meta.Name = name

	seed, err := readInt32(r)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	meta.Seed = seed

	ticks, err := readInt64(r)
	if err != nil {
		return nil, fmt.Errorf("read timestamp: %w", err)
	}
	meta.GeneratedAt = fromTicks(ticks)

	count, err := readInt32(r)
	if err != nil {
		return nil, fmt.Errorf("read connection count: %w", err)
	}
	if count < 0 || count > maxConnections {
		return nil, fmt.Errorf("invalid connection count %d", count)
	}
	for i := int32(0); i < count; i++ {
		conn, err := readConnection(r)
		if err != nil {
			return nil, fmt.Errorf("read connection %d: %w", i, err)
		}
		meta.Connections = append(meta.Connections, conn)
	}
	return meta, nil
}

func readConnection(r io.Reader) (region.Connection, error) {
	var conn region.Connection
	if _, err := io.ReadFull(r, conn.TargetID[:]); err != nil {
		return conn, err
	}
	name, err := readString(r)
	if err != nil {
		return conn, err
	}
	conn.Name = name
	if conn.DeparturePortIndex, err = readInt32(r); err != nil {
		return conn, err
	}
	if conn.ArrivalPortIndex, err = readInt32(r); err != nil {
		return conn, err
	}
	if conn.TravelTimeMinutes, err = readFloat32(r); err != nil {
		return conn, err
	}
	if conn.DangerLevel, err = readFloat32(r); err != nil {
		return conn, err
	}
	return conn, nil
}

func readString(r io.Reader) (string, error) {
	n, err := readInt32(r)
	if err != nil {
		return "", err
	}
	if n < 0 || n > maxNameLen {
		return "", fmt.Errorf("invalid string length %d", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", err
	}
	return string(b), nil
}

func readInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b[:])), nil
}

func readInt64(r io.Reader) (int64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func readFloat32(r io.Reader) (float32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b[:])), nil
}
