package hwio

import (
	"invaders/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlag8ReadOnly MemFlags = (1 << iota) // writes are dropped and logged
	MemFlagNoROLog                          // writes are dropped silently
)

// Mem is a linear memory area that can be mapped into a Table.
//
// VSize may be larger than len(Data), in which case the buffer is
// mirrored across the whole mapped range (the hardware decodes only the
// low address lines).
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	VSize   int                 // virtual size of the mapped range
	Flags   MemFlags            // how the memory can be accessed
	WriteCb func(uint16, uint8) // if set, called instead of writing
}

func (m *Mem) bankIO8() *mem {
	if len(m.Data)&(len(m.Data)-1) != 0 {
		panic("memory buffer size is not pow2")
	}
	return &mem{
		buf:  m.Data,
		mask: uint16(len(m.Data) - 1),
		wcb:  m.WriteCb,
		ro:   m.Flags,
	}
}

// mem is the internal structure implementing BankIO8 for a Mem.
//
// Stored by pointer within Table so that the concrete-type check in
// FetchPointer stays cheap.
type mem struct {
	buf  []byte
	mask uint16
	wcb  func(uint16, uint8)
	ro   MemFlags
}

func (m *mem) Read8(addr uint16) uint8 {
	return m.buf[addr&m.mask]
}

func (m *mem) Write8(addr uint16, val uint8) {
	if m.wcb != nil {
		m.wcb(addr, val)
		return
	}

	switch m.ro {
	case MemFlagReadWrite:
		m.buf[addr&m.mask] = val
	case MemFlag8ReadOnly:
		log.ModHwIo.ErrorZ("Write8 to readonly memory").
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	case MemFlagNoROLog:
		log.ModHwIo.DebugZ("dropped write to readonly memory").
			Hex8("val", val).
			Hex16("addr", addr).
			End()
	}
}

func (m *mem) fetchPointer(addr uint16) []uint8 {
	off := addr & m.mask
	return m.buf[off:]
}
