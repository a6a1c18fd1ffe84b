package region

import (
	"encoding/binary"

	"github.com/x448/float16"

	"github.com/talgya/hexregion/internal/hexgrid"
)

// PackedCellSize is the fixed on-disk size of one cell record.
const PackedCellSize = 16

// Packed cell layout, little-endian:
//
//	0  x:i16          2  z:i16
//	4  elevation:i8   5  waterLevel:i8
//	6  terrain:u8     7  special:u8
//	8  featureFlags   9  riverFlags
//	10 roadFlags      11 reserved
//	12 moistureHalf:u16
//	14 padding:u16
//
// featureFlags: bits 0-1 urban, 2-3 farm, 4-5 plant, 6 walled.
// riverFlags: bit 0 hasIncoming, bits 1-3 incoming direction,
// bit 4 hasOutgoing, bits 5-7 outgoing direction.
// roadFlags: bits 0-5, one per edge direction.
//
// Every field round-trips exactly except moisture, which is stored as an
// IEEE 754 half-precision float.

// PackCell encodes a cell and its offset coordinates into buf, which must be
// at least PackedCellSize bytes.
func PackCell(x, z int, c *CellData, buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(int16(x)))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(int16(z)))
	buf[4] = byte(c.Elevation)
	buf[5] = byte(c.WaterLevel)
	buf[6] = byte(c.Terrain)
	buf[7] = byte(c.Special)

	features := c.UrbanLevel&0x3 | (c.FarmLevel&0x3)<<2 | (c.PlantLevel&0x3)<<4
	if c.Walled {
		features |= 1 << 6
	}
	buf[8] = features

	var rivers byte
	if c.HasIncomingRiver {
		rivers |= 1
		rivers |= byte(c.IncomingRiver&0x7) << 1
	}
	if c.HasOutgoingRiver {
		rivers |= 1 << 4
		rivers |= byte(c.OutgoingRiver&0x7) << 5
	}
	buf[9] = rivers

	buf[10] = byte(c.Roads) & 0x3f
	buf[11] = 0

	binary.LittleEndian.PutUint16(buf[12:14], float16.Fromfloat32(c.Moisture).Bits())
	binary.LittleEndian.PutUint16(buf[14:16], 0)
}

// UnpackCell decodes one packed cell record. Directions decode to zero when
// the corresponding river flag is unset.
func UnpackCell(buf []byte) (x, z int, c CellData) {
	x = int(int16(binary.LittleEndian.Uint16(buf[0:2])))
	z = int(int16(binary.LittleEndian.Uint16(buf[2:4])))
	c.Elevation = int8(buf[4])
	c.WaterLevel = int8(buf[5])
	c.Terrain = TerrainType(buf[6])
	c.Special = SpecialFeature(buf[7])

	features := buf[8]
	c.UrbanLevel = features & 0x3
	c.FarmLevel = (features >> 2) & 0x3
	c.PlantLevel = (features >> 4) & 0x3
	c.Walled = features&(1<<6) != 0

	rivers := buf[9]
	if rivers&1 != 0 {
		c.HasIncomingRiver = true
		c.IncomingRiver = hexgrid.Direction((rivers >> 1) & 0x7)
	}
	if rivers&(1<<4) != 0 {
		c.HasOutgoingRiver = true
		c.OutgoingRiver = hexgrid.Direction((rivers >> 5) & 0x7)
	}

	c.Roads = RoadMask(buf[10] & 0x3f)
	c.Moisture = float16.Frombits(binary.LittleEndian.Uint16(buf[12:14])).Float32()
	return
}
