package hw

import (
	"invaders/hw/hwio"
)

// Buttons is a snapshot of the cabinet controls, updated once per frame
// by the frontend and sampled by the program through IN 1 and IN 2.
type Buttons struct {
	Coin   bool
	Tilt   bool
	Start1 bool
	Start2 bool

	P1Fire  bool
	P1Left  bool
	P1Right bool

	P2Fire  bool
	P2Left  bool
	P2Right bool
}

// DIPSwitches holds the board's soldered option switches.
type DIPSwitches struct {
	Lives      int  // 3 to 6
	BonusAt    int  // extra ship at 1000 or 1500 points
	CoinInfoOn bool // show coin info on the demo screen
}

// Input drives the three input ports. Port bits are active high except
// where the board ties them; the unpopulated lines on port 0 read back
// a fixed pattern.
type Input struct {
	buttons Buttons
	dip     DIPSwitches

	port1 *hwio.Reg8
	port2 *hwio.Reg8
}

func NewInput(dip DIPSwitches) *Input {
	return &Input{dip: dip}
}

// InitPorts maps the input ports. Port 0 is wired but unread by the
// program; ports 1 and 2 are rebuilt from the button snapshot on every
// read.
func (in *Input) InitPorts(p *Ports) {
	p.MapIn(PortInput0, &hwio.Reg8{Name: "INP0", Value: 0x0e, Flags: hwio.ReadOnlyFlag})
	in.port1 = &hwio.Reg8{Name: "INP1", ReadCb: in.readPort1}
	in.port2 = &hwio.Reg8{Name: "INP2", ReadCb: in.readPort2}
	p.MapIn(PortInput1, in.port1)
	p.MapIn(PortInput2, in.port2)
}

// SetButtons installs a fresh control snapshot.
func (in *Input) SetButtons(b Buttons) {
	in.buttons = b
}

func (in *Input) readPort1(uint8) uint8 {
	b := &in.buttons
	var v uint8
	hwio.SetBit8(&v, 3) // always set on this board
	hwio.WriteBit8(&v, 0, b.Coin)
	hwio.WriteBit8(&v, 1, b.Start2)
	hwio.WriteBit8(&v, 2, b.Start1)
	hwio.WriteBit8(&v, 4, b.P1Fire)
	hwio.WriteBit8(&v, 5, b.P1Left)
	hwio.WriteBit8(&v, 6, b.P1Right)
	return v
}

func (in *Input) readPort2(uint8) uint8 {
	b := &in.buttons
	var v uint8

	// DIP3/DIP5 select the number of lives: 00=3, 01=4, 10=5, 11=6.
	lives := in.dip.Lives - 3
	if lives < 0 || lives > 3 {
		lives = 0
	}
	hwio.WriteBit8(&v, 0, lives&1 != 0)
	hwio.WriteBit8(&v, 1, lives&2 != 0)

	hwio.WriteBit8(&v, 2, b.Tilt)
	hwio.WriteBit8(&v, 3, in.dip.BonusAt == 1000)
	hwio.WriteBit8(&v, 4, b.P2Fire)
	hwio.WriteBit8(&v, 5, b.P2Left)
	hwio.WriteBit8(&v, 6, b.P2Right)
	hwio.WriteBit8(&v, 7, !in.dip.CoinInfoOn)
	return v
}
