package hw

import (
	"invaders/emu/log"
	"invaders/hw/hwio"
)

// Port assignments of the Midway 8080 board.
const (
	PortInput0  = 0 // unused input lines
	PortInput1  = 1 // coin, starts, player 1
	PortInput2  = 2 // DIP switches, tilt, player 2
	PortShiftIn = 3 // shift register result

	PortShiftAmount = 2 // shift offset (write)
	PortSound1      = 3 // sound latch bank 1 (write)
	PortShiftData   = 4 // shift register data in (write)
	PortSound2      = 5 // sound latch bank 2 (write)
	PortWatchdog    = 6 // kicked every frame by the program (write)
)

// Ports is the CPU's I/O address space, separate from the memory bus.
// IN and OUT route here. Each port is an hwio register; unmapped ports
// read 0 and swallow writes.
type Ports struct {
	in  [256]*hwio.Reg8
	out [256]*hwio.Reg8
}

func NewPorts() *Ports {
	return &Ports{}
}

func (p *Ports) MapIn(port uint8, reg *hwio.Reg8) {
	if p.in[port] != nil {
		panic("input port mapped twice")
	}
	p.in[port] = reg
}

func (p *Ports) MapOut(port uint8, reg *hwio.Reg8) {
	if p.out[port] != nil {
		panic("output port mapped twice")
	}
	p.out[port] = reg
}

// InitWatchdogPort maps the watchdog reset port. The program kicks it
// every frame; an emulated machine never reboots on a missed kick, so
// writes are only accounted for.
func InitWatchdogPort(p *Ports) {
	p.MapOut(PortWatchdog, &hwio.Reg8{
		Name: "WATCHDOG",
		WriteCb: func(_, val uint8) {
			log.ModHwIo.DebugZ("watchdog kicked").Hex8("val", val).End()
		},
	})
}

func (p *Ports) In(port uint8) uint8 {
	reg := p.in[port]
	if reg == nil {
		log.ModHwIo.DebugZ("IN from unmapped port").Hex8("port", port).End()
		return 0
	}
	return reg.Read8(uint16(port))
}

func (p *Ports) Out(port uint8, val uint8) {
	reg := p.out[port]
	if reg == nil {
		log.ModHwIo.DebugZ("OUT to unmapped port").
			Hex8("port", port).
			Hex8("val", val).
			End()
		return
	}
	reg.Write8(uint16(port), val)
}
