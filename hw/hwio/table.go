// Package hwio provides the primitives used to assemble an 8-bit memory
// bus: a page-granular mapping table, linear memory regions with
// mirroring and write protection, and callback-backed registers.
package hwio

import (
	"fmt"

	"invaders/emu/log"
)

type BankIO8 interface {
	Read8(addr uint16) uint8
	Write8(addr uint16, val uint8)
}

func Read16(b BankIO8, addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func Write16(b BankIO8, addr uint16, val uint16) {
	b.Write8(addr, uint8(val&0xff))
	b.Write8(addr+1, uint8(val>>8))
}

const pageSize = 256

// Table decodes a 16-bit address space at page (256-byte) granularity.
// Every access lands on exactly one mapped device; unmapped pages read
// 0 and swallow writes.
type Table struct {
	Name string

	pages [pageSize]BankIO8
}

func NewTable(name string) *Table {
	t := new(Table)
	t.Name = name
	return t
}

func (t *Table) Reset() {
	t.pages = [pageSize]BankIO8{}
}

// MapMem maps a linear memory region. The mapped range covers VSize
// bytes starting at addr; both must be page-aligned.
func (t *Table) MapMem(addr uint16, m *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Int("size", int64(m.VSize)).
		String("area", m.Name).
		String("bus", t.Name).
		End()

	t.mapBus8(addr, m.VSize, m.bankIO8())
}

// MapMemorySlice maps buf over [addr, end]. The buffer is mirrored if
// the range is larger than the buffer.
func (t *Table) MapMemorySlice(addr, end uint16, buf []uint8, readonly bool) {
	var flags MemFlags
	if readonly {
		flags |= MemFlag8ReadOnly
	}
	t.MapMem(addr, &Mem{
		Data:  buf,
		Flags: flags,
		VSize: int(end-addr) + 1,
	})
}

// size is an int so that a region spanning the whole 16-bit space
// ($10000 bytes) stays representable.
func (t *Table) mapBus8(addr uint16, size int, io BankIO8) {
	if int(addr)%pageSize != 0 || size%pageSize != 0 {
		panic(fmt.Errorf("hwio: mapping $%04X+$%04X not page aligned", addr, size))
	}
	if int(addr)+size > pageSize*pageSize {
		panic(fmt.Errorf("hwio: mapping $%04X+$%04X exceeds the address space", addr, size))
	}
	first := int(addr) / pageSize
	for page := first; page < first+size/pageSize; page++ {
		if t.pages[page] != nil {
			panic(fmt.Errorf("hwio: page $%02X mapped twice on bus %s", page, t.Name))
		}
		t.pages[page] = io
	}
}

func (t *Table) Unmap(begin, end uint16) {
	for page := int(begin / pageSize); page <= int(end/pageSize); page++ {
		t.pages[page] = nil
	}
}

// Read8 forwards the read to the device mapped at addr.
func (t *Table) Read8(addr uint16) uint8 {
	io := t.pages[addr>>8]
	if io == nil {
		return 0
	}
	return io.Read8(addr)
}

func (t *Table) Write8(addr uint16, val uint8) {
	io := t.pages[addr>>8]
	if io == nil {
		return
	}
	io.Write8(addr, val)
}

// FetchPointer returns a slice aliasing the underlying memory mapped at
// addr, from addr to the end of the region. Returns nil if addr maps to
// a non-memory device.
func (t *Table) FetchPointer(addr uint16) []uint8 {
	if m, ok := t.pages[addr>>8].(*mem); ok {
		return m.fetchPointer(addr)
	}
	return nil
}
