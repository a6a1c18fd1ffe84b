// Package regionfile reads and writes the versioned binary region format:
// a fixed 32-byte header, a variable metadata block, then one 16-byte packed
// record per cell in row-major order. All integers are little-endian.
package regionfile

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/hexregion/internal/region"
)

const (
	// Magic is "HEXR" read as a little-endian u32.
	Magic uint32 = 0x52584548
	// Version is the current format version. Readers accept any version up
	// to and including this one.
	Version uint32 = 1

	headerSize = 32

	// Progress/cancellation granularity while streaming cells.
	cellBatch = 10000
)

// Validation failures surfaced by Read and ReadMetadata. Distinct from I/O
// failures and from cancellation.
var (
	ErrBadMagic           = errors.New("regionfile: bad magic number")
	ErrUnsupportedVersion = errors.New("regionfile: file version newer than supported")
)

// Metadata is everything before the cell array: the fast listing view of a
// region file.
type Metadata struct {
	Version     uint32
	ID          uuid.UUID
	Name        string
	Width       int
	Height      int
	Seed        int32
	GeneratedAt time.Time
	Connections []region.Connection
}

// ProgressFunc receives a completion fraction in [0, 1].
type ProgressFunc func(fraction float64)

// Timestamps are stored as 100-nanosecond ticks since 0001-01-01 UTC.
var tickEpoch = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

const ticksPerSecond = 10_000_000

func toTicks(t time.Time) int64 {
	secs := t.Unix() - tickEpoch.Unix()
	return secs*ticksPerSecond + int64(t.Nanosecond())/100
}

func fromTicks(ticks int64) time.Time {
	secs := ticks / ticksPerSecond
	rem := ticks % ticksPerSecond
	return time.Unix(tickEpoch.Unix()+secs, rem*100).UTC()
}
