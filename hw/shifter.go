package hw

import (
	"invaders/hw/hwio"
)

// ShiftRegister is the dedicated 16-bit shift hardware the game uses to
// draw at arbitrary bit offsets without CPU-side shifting. Writing the
// data port slides a new byte in at the high end; the result port reads
// back the byte selected by the 3-bit amount.
type ShiftRegister struct {
	value  uint16
	amount uint8
}

func (s *ShiftRegister) SetAmount(v uint8) {
	s.amount = v & 0x07
}

func (s *ShiftRegister) ShiftIn(v uint8) {
	s.value = uint16(v)<<8 | s.value>>8
}

// Result returns the high byte of the register shifted left by the
// current amount. Pure read: no state changes.
func (s *ShiftRegister) Result() uint8 {
	return uint8(s.value << s.amount >> 8)
}

func (s *ShiftRegister) Reset() {
	s.value = 0
	s.amount = 0
}

// InitPorts wires the shift register to its three I/O ports.
func (s *ShiftRegister) InitPorts(p *Ports) {
	p.MapOut(PortShiftAmount, &hwio.Reg8{
		Name:    "SHIFTAMNT",
		WriteCb: func(_, val uint8) { s.SetAmount(val) },
	})
	p.MapOut(PortShiftData, &hwio.Reg8{
		Name:    "SHIFTDATA",
		WriteCb: func(_, val uint8) { s.ShiftIn(val) },
	})
	p.MapIn(PortShiftIn, &hwio.Reg8{
		Name:   "SHIFTRES",
		ReadCb: func(uint8) uint8 { return s.Result() },
	})
}
