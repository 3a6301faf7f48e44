package hw

import (
	"invaders/emu/log"
	"invaders/hw/hwio"
)

// Sound effect bits, one per latch line. The analog sound board is not
// emulated; the latches accept writes and expose edges so a speaker can
// be attached later.
var soundNames = [2][8]string{
	{"ufo", "shot", "player_die", "invader_die", "extra_life", "", "", ""},
	{"fleet1", "fleet2", "fleet3", "fleet4", "ufo_hit", "", "", ""},
}

// SoundLatch records the two sound output ports. A bit going high
// triggers the corresponding discrete sound on real hardware; the UFO
// bit is level-held for the whole flight.
type SoundLatch struct {
	banks [2]uint8
}

// InitPorts maps the two latch banks on their output ports.
func (s *SoundLatch) InitPorts(p *Ports) {
	p.MapOut(PortSound1, &hwio.Reg8{
		Name:    "SOUND1",
		WriteCb: func(_, val uint8) { s.write(0, val) },
	})
	p.MapOut(PortSound2, &hwio.Reg8{
		Name:    "SOUND2",
		WriteCb: func(_, val uint8) { s.write(1, val) },
	})
}

func (s *SoundLatch) write(bank int, val uint8) {
	rising := val &^ s.banks[bank]
	s.banks[bank] = val

	for bit := uint(0); bit < 8; bit++ {
		if !hwio.GetBit8(rising, bit) {
			continue
		}
		name := soundNames[bank][bit]
		if name == "" {
			continue
		}
		log.ModSound.DebugZ("sound triggered").String("fx", name).End()
	}
}

// Bank returns the last value written to latch bank 0 or 1.
func (s *SoundLatch) Bank(n int) uint8 {
	return s.banks[n]
}

// Reset drops both latches, silencing held sounds.
func (s *SoundLatch) Reset() {
	s.banks = [2]uint8{}
}
