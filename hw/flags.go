package hw

import "math/bits"

// PSW is the 8080 processor status word. Five condition bits; bits 5
// and 3 always read 0, bit 1 always reads 1.
type PSW uint8

const (
	pbitS = 7 - iota // Sign
	pbitZ            // Zero
	_                // always 0
	pbitA            // Auxiliary carry (carry out of bit 3)
	_                // always 0
	pbitP            // Parity (set when even)
	_                // always 1
	pbitC            // Carry
)

const (
	pswFixedOn  PSW = 0x02
	pswFixedOff PSW = 0x28
)

func (p *PSW) reset() {
	*p = pswFixedOn
}

func (p PSW) S() bool { return p&(1<<pbitS) != 0 }
func (p PSW) Z() bool { return p&(1<<pbitZ) != 0 }
func (p PSW) A() bool { return p&(1<<pbitA) != 0 }
func (p PSW) P() bool { return p&(1<<pbitP) != 0 }
func (p PSW) C() bool { return p&(1<<pbitC) != 0 }

// carry returns the carry flag as 0 or 1, for carry-in arithmetic.
func (p PSW) carry() uint8 {
	return uint8(p) & 1
}

// checkZSP recomputes the zero, sign and parity flags from a result byte.
func (p *PSW) checkZSP(v uint8) {
	p.writeBit(pbitZ, v == 0)
	p.writeBit(pbitS, v&0x80 != 0)
	p.writeBit(pbitP, bits.OnesCount8(v)&1 == 0)
}

// canonical returns the PSW byte as it appears on the bus (PUSH PSW):
// fixed bits forced to their hardwired values.
func (p PSW) canonical() uint8 {
	return uint8((p | pswFixedOn) &^ pswFixedOff)
}

func (p *PSW) writeBit(i int, v bool) {
	if v {
		*p |= PSW(1 << i)
	} else {
		*p &= ^PSW(1 << i)
	}
}

func (p *PSW) ibit(i int) uint8 {
	return (uint8(*p) & (1 << i)) >> i
}

func (p PSW) String() string {
	const bits = "sz.a.p.cSZ.A.P.C"

	s := make([]byte, 8)
	for i := 0; i < 8; i++ {
		s[i] = bits[i+int(8*p.ibit(7-i))]
	}
	return string(s)
}

func b2i(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
