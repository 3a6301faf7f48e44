package hw

import (
	"fmt"

	"invaders/hw/hwio"
)

// Memory map of the Midway 8080 board. The single 8 KiB RAM chip holds
// both work RAM and the video bitmap; address decoding ignores bit 13
// so the whole block mirrors at $4000. Above $6000 nothing is wired:
// reads float to 0, writes go nowhere.
const (
	RomStart = 0x0000
	RomSize  = 0x2000

	RamStart = 0x2000
	RamSize  = 0x2000 // work RAM + video RAM

	VramStart = 0x2400
	VramSize  = 0x1c00

	MirrorStart = 0x4000
	MirrorEnd   = 0x5fff
)

// Memory owns the flat address space: ROM, work RAM and the video RAM
// sub-region, assembled on an hwio table.
type Memory struct {
	Bus *hwio.Table

	ram []byte
}

// NewMemory builds the bus around an 8 KiB program image. The image
// must fill the whole ROM region; a short or oversized image means the
// ROM set was assembled wrong and is rejected before power-up.
func NewMemory(romimg []byte) (*Memory, error) {
	if len(romimg) != RomSize {
		return nil, fmt.Errorf("rom image is %d bytes, want %d", len(romimg), RomSize)
	}

	m := &Memory{
		Bus: hwio.NewTable("mem"),
		ram: make([]byte, RamSize),
	}

	m.Bus.MapMem(RomStart, &hwio.Mem{
		Name:  "rom",
		Data:  romimg,
		VSize: RomSize,
		Flags: hwio.MemFlagNoROLog,
	})
	m.Bus.MapMem(RamStart, &hwio.Mem{
		Name:  "ram",
		Data:  m.ram,
		VSize: RamSize,
	})
	m.Bus.MapMem(MirrorStart, &hwio.Mem{
		Name:  "ram.mirror",
		Data:  m.ram,
		VSize: MirrorEnd - MirrorStart + 1,
	})

	return m, nil
}

// VRAM returns the video RAM region as seen by the rasterizer. The
// slice aliases live memory: CPU writes are visible through it.
func (m *Memory) VRAM() []byte {
	return m.ram[VramStart-RamStart : VramStart-RamStart+VramSize]
}

// Reset clears RAM, as a power cycle would. ROM is untouched.
func (m *Memory) Reset() {
	clear(m.ram)
}
