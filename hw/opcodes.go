package hw

// ops is the instruction dispatch table, one entry per opcode byte.
// Opcodes without an 8080 meaning would be nil and trip the
// UnimplementedOpcode path in Step; on this CPU all 256 slots decode to
// something, the out-of-pattern ones being documented aliases (NOP at
// $08..$38, JMP at $CB, RET at $D9, CALL at $DD/$ED/$FD).
var ops = [256]func(*CPU){
	0x00: NOP,
	0x01: lxi(setBC),
	0x02: stax((*CPU).BC),
	0x03: inx((*CPU).BC, setBC),
	0x04: inrR(ptrB),
	0x05: dcrR(ptrB),
	0x06: mviR(ptrB),
	0x07: RLC,
	0x08: NOP, // alias
	0x09: dad((*CPU).BC),
	0x0A: ldax((*CPU).BC),
	0x0B: dcx((*CPU).BC, setBC),
	0x0C: inrR(ptrC),
	0x0D: dcrR(ptrC),
	0x0E: mviR(ptrC),
	0x0F: RRC,
	0x10: NOP, // alias
	0x11: lxi(setDE),
	0x12: stax((*CPU).DE),
	0x13: inx((*CPU).DE, setDE),
	0x14: inrR(ptrD),
	0x15: dcrR(ptrD),
	0x16: mviR(ptrD),
	0x17: RAL,
	0x18: NOP, // alias
	0x19: dad((*CPU).DE),
	0x1A: ldax((*CPU).DE),
	0x1B: dcx((*CPU).DE, setDE),
	0x1C: inrR(ptrE),
	0x1D: dcrR(ptrE),
	0x1E: mviR(ptrE),
	0x1F: RAR,
	0x20: NOP, // alias
	0x21: lxi(setHL),
	0x22: SHLD,
	0x23: inx((*CPU).HL, setHL),
	0x24: inrR(ptrH),
	0x25: dcrR(ptrH),
	0x26: mviR(ptrH),
	0x27: DAA,
	0x28: NOP, // alias
	0x29: dad((*CPU).HL),
	0x2A: LHLD,
	0x2B: dcx((*CPU).HL, setHL),
	0x2C: inrR(ptrL),
	0x2D: dcrR(ptrL),
	0x2E: mviR(ptrL),
	0x2F: CMA,
	0x30: NOP, // alias
	0x31: lxi(setSP),
	0x32: STA,
	0x33: inx(spVal, setSP),
	0x34: INRm,
	0x35: DCRm,
	0x36: MVIm,
	0x37: STC,
	0x38: NOP, // alias
	0x39: dad(spVal),
	0x3A: LDA,
	0x3B: dcx(spVal, setSP),
	0x3C: inrR(ptrA),
	0x3D: dcrR(ptrA),
	0x3E: mviR(ptrA),
	0x3F: CMC,
	0x40: mov(ptrB, getB),
	0x41: mov(ptrB, getC),
	0x42: mov(ptrB, getD),
	0x43: mov(ptrB, getE),
	0x44: mov(ptrB, getH),
	0x45: mov(ptrB, getL),
	0x46: mov(ptrB, getM),
	0x47: mov(ptrB, getA),
	0x48: mov(ptrC, getB),
	0x49: mov(ptrC, getC),
	0x4A: mov(ptrC, getD),
	0x4B: mov(ptrC, getE),
	0x4C: mov(ptrC, getH),
	0x4D: mov(ptrC, getL),
	0x4E: mov(ptrC, getM),
	0x4F: mov(ptrC, getA),
	0x50: mov(ptrD, getB),
	0x51: mov(ptrD, getC),
	0x52: mov(ptrD, getD),
	0x53: mov(ptrD, getE),
	0x54: mov(ptrD, getH),
	0x55: mov(ptrD, getL),
	0x56: mov(ptrD, getM),
	0x57: mov(ptrD, getA),
	0x58: mov(ptrE, getB),
	0x59: mov(ptrE, getC),
	0x5A: mov(ptrE, getD),
	0x5B: mov(ptrE, getE),
	0x5C: mov(ptrE, getH),
	0x5D: mov(ptrE, getL),
	0x5E: mov(ptrE, getM),
	0x5F: mov(ptrE, getA),
	0x60: mov(ptrH, getB),
	0x61: mov(ptrH, getC),
	0x62: mov(ptrH, getD),
	0x63: mov(ptrH, getE),
	0x64: mov(ptrH, getH),
	0x65: mov(ptrH, getL),
	0x66: mov(ptrH, getM),
	0x67: mov(ptrH, getA),
	0x68: mov(ptrL, getB),
	0x69: mov(ptrL, getC),
	0x6A: mov(ptrL, getD),
	0x6B: mov(ptrL, getE),
	0x6C: mov(ptrL, getH),
	0x6D: mov(ptrL, getL),
	0x6E: mov(ptrL, getM),
	0x6F: mov(ptrL, getA),
	0x70: movM(getB),
	0x71: movM(getC),
	0x72: movM(getD),
	0x73: movM(getE),
	0x74: movM(getH),
	0x75: movM(getL),
	0x76: HLT,
	0x77: movM(getA),
	0x78: mov(ptrA, getB),
	0x79: mov(ptrA, getC),
	0x7A: mov(ptrA, getD),
	0x7B: mov(ptrA, getE),
	0x7C: mov(ptrA, getH),
	0x7D: mov(ptrA, getL),
	0x7E: mov(ptrA, getM),
	0x7F: mov(ptrA, getA),
	0x80: addR(getB),
	0x81: addR(getC),
	0x82: addR(getD),
	0x83: addR(getE),
	0x84: addR(getH),
	0x85: addR(getL),
	0x86: addR(getM),
	0x87: addR(getA),
	0x88: adcR(getB),
	0x89: adcR(getC),
	0x8A: adcR(getD),
	0x8B: adcR(getE),
	0x8C: adcR(getH),
	0x8D: adcR(getL),
	0x8E: adcR(getM),
	0x8F: adcR(getA),
	0x90: subR(getB),
	0x91: subR(getC),
	0x92: subR(getD),
	0x93: subR(getE),
	0x94: subR(getH),
	0x95: subR(getL),
	0x96: subR(getM),
	0x97: subR(getA),
	0x98: sbbR(getB),
	0x99: sbbR(getC),
	0x9A: sbbR(getD),
	0x9B: sbbR(getE),
	0x9C: sbbR(getH),
	0x9D: sbbR(getL),
	0x9E: sbbR(getM),
	0x9F: sbbR(getA),
	0xA0: anaR(getB),
	0xA1: anaR(getC),
	0xA2: anaR(getD),
	0xA3: anaR(getE),
	0xA4: anaR(getH),
	0xA5: anaR(getL),
	0xA6: anaR(getM),
	0xA7: anaR(getA),
	0xA8: xraR(getB),
	0xA9: xraR(getC),
	0xAA: xraR(getD),
	0xAB: xraR(getE),
	0xAC: xraR(getH),
	0xAD: xraR(getL),
	0xAE: xraR(getM),
	0xAF: xraR(getA),
	0xB0: oraR(getB),
	0xB1: oraR(getC),
	0xB2: oraR(getD),
	0xB3: oraR(getE),
	0xB4: oraR(getH),
	0xB5: oraR(getL),
	0xB6: oraR(getM),
	0xB7: oraR(getA),
	0xB8: cmpR(getB),
	0xB9: cmpR(getC),
	0xBA: cmpR(getD),
	0xBB: cmpR(getE),
	0xBC: cmpR(getH),
	0xBD: cmpR(getL),
	0xBE: cmpR(getM),
	0xBF: cmpR(getA),
	0xC0: retIf(flagClear(pbitZ)),
	0xC1: pop(setBC),
	0xC2: jmpIf(flagClear(pbitZ)),
	0xC3: JMP,
	0xC4: callIf(flagClear(pbitZ)),
	0xC5: push((*CPU).BC),
	0xC6: ADI,
	0xC7: rst(0),
	0xC8: retIf(flagSet(pbitZ)),
	0xC9: RET,
	0xCA: jmpIf(flagSet(pbitZ)),
	0xCB: JMP, // alias
	0xCC: callIf(flagSet(pbitZ)),
	0xCD: CALL,
	0xCE: ACI,
	0xCF: rst(1),
	0xD0: retIf(flagClear(pbitC)),
	0xD1: pop(setDE),
	0xD2: jmpIf(flagClear(pbitC)),
	0xD3: OUT,
	0xD4: callIf(flagClear(pbitC)),
	0xD5: push((*CPU).DE),
	0xD6: SUI,
	0xD7: rst(2),
	0xD8: retIf(flagSet(pbitC)),
	0xD9: RET, // alias
	0xDA: jmpIf(flagSet(pbitC)),
	0xDB: IN,
	0xDC: callIf(flagSet(pbitC)),
	0xDD: CALL, // alias
	0xDE: SBI,
	0xDF: rst(3),
	0xE0: retIf(flagClear(pbitP)),
	0xE1: pop(setHL),
	0xE2: jmpIf(flagClear(pbitP)),
	0xE3: XTHL,
	0xE4: callIf(flagClear(pbitP)),
	0xE5: push((*CPU).HL),
	0xE6: ANI,
	0xE7: rst(4),
	0xE8: retIf(flagSet(pbitP)),
	0xE9: PCHL,
	0xEA: jmpIf(flagSet(pbitP)),
	0xEB: XCHG,
	0xEC: callIf(flagSet(pbitP)),
	0xED: CALL, // alias
	0xEE: XRI,
	0xEF: rst(5),
	0xF0: retIf(flagClear(pbitS)),
	0xF1: POPpsw,
	0xF2: jmpIf(flagClear(pbitS)),
	0xF3: DI,
	0xF4: callIf(flagClear(pbitS)),
	0xF5: PUSHpsw,
	0xF6: ORI,
	0xF7: rst(6),
	0xF8: retIf(flagSet(pbitS)),
	0xF9: SPHL,
	0xFA: jmpIf(flagSet(pbitS)),
	0xFB: EI,
	0xFC: callIf(flagSet(pbitS)),
	0xFD: CALL, // alias
	0xFE: CPI,
	0xFF: rst(7),
}

// opsCycles gives each instruction's clock cost. Conditional CALL and
// RET list the not-taken cost; the taken path adds 6 (see callIf,
// retIf). Conditional jumps cost 10 either way on the 8080.
var opsCycles = [256]uint8{
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4, // 00
	4, 10, 7, 5, 5, 5, 7, 4, 4, 10, 7, 5, 5, 5, 7, 4, // 10
	4, 10, 16, 5, 5, 5, 7, 4, 4, 10, 16, 5, 5, 5, 7, 4, // 20
	4, 10, 13, 5, 10, 10, 10, 4, 4, 10, 13, 5, 5, 5, 7, 4, // 30
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5, // 40
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5, // 50
	5, 5, 5, 5, 5, 5, 7, 5, 5, 5, 5, 5, 5, 5, 7, 5, // 60
	7, 7, 7, 7, 7, 7, 7, 7, 5, 5, 5, 5, 5, 5, 7, 5, // 70
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 80
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // 90
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // a0
	4, 4, 4, 4, 4, 4, 7, 4, 4, 4, 4, 4, 4, 4, 7, 4, // b0
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11, // c0
	5, 10, 10, 10, 11, 11, 7, 11, 5, 10, 10, 10, 11, 17, 7, 11, // d0
	5, 10, 10, 18, 11, 11, 7, 11, 5, 5, 10, 5, 11, 17, 7, 11, // e0
	5, 10, 10, 4, 11, 11, 7, 11, 5, 5, 10, 4, 11, 17, 7, 11, // f0
}

// condTakenCycles is the extra cost of a taken conditional CALL or RET.
const condTakenCycles = 6

/* register accessors used by the op constructors */

func getA(c *CPU) uint8 { return c.A }
func getB(c *CPU) uint8 { return c.B }
func getC(c *CPU) uint8 { return c.C }
func getD(c *CPU) uint8 { return c.D }
func getE(c *CPU) uint8 { return c.E }
func getH(c *CPU) uint8 { return c.H }
func getL(c *CPU) uint8 { return c.L }
func getM(c *CPU) uint8 { return c.readM() }

func ptrA(c *CPU) *uint8 { return &c.A }
func ptrB(c *CPU) *uint8 { return &c.B }
func ptrC(c *CPU) *uint8 { return &c.C }
func ptrD(c *CPU) *uint8 { return &c.D }
func ptrE(c *CPU) *uint8 { return &c.E }
func ptrH(c *CPU) *uint8 { return &c.H }
func ptrL(c *CPU) *uint8 { return &c.L }

func setBC(c *CPU, v uint16) { c.setBC(v) }
func setDE(c *CPU, v uint16) { c.setDE(v) }
func setHL(c *CPU, v uint16) { c.setHL(v) }
func setSP(c *CPU, v uint16) { c.SP = v }
func spVal(c *CPU) uint16    { return c.SP }

func flagSet(bit int) func(*CPU) bool {
	return func(c *CPU) bool { return c.PSW.ibit(bit) != 0 }
}

func flagClear(bit int) func(*CPU) bool {
	return func(c *CPU) bool { return c.PSW.ibit(bit) == 0 }
}

/* flag-setting arithmetic helpers */

// addA adds val and a carry-in to the accumulator, setting all five
// flags. Half carry is the carry out of bit 3 of the byte addition.
func addA(c *CPU, val, cy uint8) {
	sum := uint16(c.A) + uint16(val) + uint16(cy)
	half := c.A ^ val ^ uint8(sum)
	c.PSW.writeBit(pbitC, sum > 0xff)
	c.PSW.writeBit(pbitA, half&0x10 != 0)
	c.A = uint8(sum)
	c.PSW.checkZSP(c.A)
}

// subA subtracts val and a borrow-in from the accumulator via two's
// complement addition; carry out is inverted into a borrow flag, half
// carry stays as the internal addition produced it, like the silicon.
func subA(c *CPU, val, borrow uint8) {
	addA(c, ^val, 1-borrow)
	c.PSW.writeBit(pbitC, !c.PSW.C())
}

func anaA(c *CPU, val uint8) {
	// On the 8080 AC becomes the OR of bit 3 of both operands. The
	// 8085 instead sets it unconditionally; the game's self test
	// expects the 8080 rule.
	half := (c.A|val)&0x08 != 0
	c.A &= val
	c.PSW.writeBit(pbitC, false)
	c.PSW.writeBit(pbitA, half)
	c.PSW.checkZSP(c.A)
}

func xraA(c *CPU, val uint8) {
	c.A ^= val
	c.PSW.writeBit(pbitC, false)
	c.PSW.writeBit(pbitA, false)
	c.PSW.checkZSP(c.A)
}

func oraA(c *CPU, val uint8) {
	c.A |= val
	c.PSW.writeBit(pbitC, false)
	c.PSW.writeBit(pbitA, false)
	c.PSW.checkZSP(c.A)
}

func cmpA(c *CPU, val uint8) {
	a := c.A
	subA(c, val, 0)
	c.A = a
}

/* data transfer */

func NOP(c *CPU) {}

func mov(dst func(*CPU) *uint8, src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { *dst(c) = src(c) }
}

func movM(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { c.writeM(src(c)) }
}

func mviR(dst func(*CPU) *uint8) func(*CPU) {
	return func(c *CPU) { *dst(c) = c.fetch8() }
}

func MVIm(c *CPU) {
	c.writeM(c.fetch8())
}

func lxi(set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, c.fetch16()) }
}

func ldax(pair func(*CPU) uint16) func(*CPU) {
	return func(c *CPU) { c.A = c.Read8(pair(c)) }
}

func stax(pair func(*CPU) uint16) func(*CPU) {
	return func(c *CPU) { c.Write8(pair(c), c.A) }
}

func LDA(c *CPU) {
	c.A = c.Read8(c.fetch16())
}

func STA(c *CPU) {
	c.Write8(c.fetch16(), c.A)
}

func LHLD(c *CPU) {
	c.setHL(c.Read16(c.fetch16()))
}

func SHLD(c *CPU) {
	c.Write16(c.fetch16(), c.HL())
}

func XCHG(c *CPU) {
	d, e := c.D, c.E
	c.D, c.E = c.H, c.L
	c.H, c.L = d, e
}

/* 8-bit arithmetic and logic */

func addR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { addA(c, src(c), 0) }
}

func adcR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { addA(c, src(c), c.PSW.carry()) }
}

func subR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { subA(c, src(c), 0) }
}

func sbbR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { subA(c, src(c), c.PSW.carry()) }
}

func anaR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { anaA(c, src(c)) }
}

func xraR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { xraA(c, src(c)) }
}

func oraR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { oraA(c, src(c)) }
}

func cmpR(src func(*CPU) uint8) func(*CPU) {
	return func(c *CPU) { cmpA(c, src(c)) }
}

func ADI(c *CPU) { addA(c, c.fetch8(), 0) }
func ACI(c *CPU) { addA(c, c.fetch8(), c.PSW.carry()) }
func SUI(c *CPU) { subA(c, c.fetch8(), 0) }
func SBI(c *CPU) { subA(c, c.fetch8(), c.PSW.carry()) }
func ANI(c *CPU) { anaA(c, c.fetch8()) }
func XRI(c *CPU) { xraA(c, c.fetch8()) }
func ORI(c *CPU) { oraA(c, c.fetch8()) }
func CPI(c *CPU) { cmpA(c, c.fetch8()) }

// inrR/dcrR affect every flag but carry.
func inrR(dst func(*CPU) *uint8) func(*CPU) {
	return func(c *CPU) {
		p := dst(c)
		v := *p + 1
		*p = v
		c.PSW.writeBit(pbitA, v&0x0f == 0)
		c.PSW.checkZSP(v)
	}
}

func dcrR(dst func(*CPU) *uint8) func(*CPU) {
	return func(c *CPU) {
		p := dst(c)
		v := *p - 1
		*p = v
		c.PSW.writeBit(pbitA, v&0x0f != 0x0f)
		c.PSW.checkZSP(v)
	}
}

func INRm(c *CPU) {
	v := c.readM() + 1
	c.writeM(v)
	c.PSW.writeBit(pbitA, v&0x0f == 0)
	c.PSW.checkZSP(v)
}

func DCRm(c *CPU) {
	v := c.readM() - 1
	c.writeM(v)
	c.PSW.writeBit(pbitA, v&0x0f != 0x0f)
	c.PSW.checkZSP(v)
}

// DAA adjusts the accumulator to packed BCD after an addition.
func DAA(c *CPU) {
	cy := c.PSW.C()
	var adjust uint8
	if c.A&0x0f > 9 || c.PSW.A() {
		adjust += 0x06
	}
	if c.A>>4 > 9 || c.PSW.C() || (c.A>>4 >= 9 && c.A&0x0f > 9) {
		adjust += 0x60
		cy = true
	}
	addA(c, adjust, 0)
	c.PSW.writeBit(pbitC, cy)
}

func CMA(c *CPU) {
	c.A = ^c.A
}

func STC(c *CPU) {
	c.PSW.writeBit(pbitC, true)
}

func CMC(c *CPU) {
	c.PSW.writeBit(pbitC, !c.PSW.C())
}

/* 16-bit arithmetic: INX/DCX touch no flags, DAD only carry */

func inx(get func(*CPU) uint16, set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, get(c)+1) }
}

func dcx(get func(*CPU) uint16, set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, get(c)-1) }
}

func dad(get func(*CPU) uint16) func(*CPU) {
	return func(c *CPU) {
		sum := uint32(c.HL()) + uint32(get(c))
		c.PSW.writeBit(pbitC, sum > 0xffff)
		c.setHL(uint16(sum))
	}
}

/* rotates: only the carry flag is affected */

func RLC(c *CPU) {
	cy := c.A >> 7
	c.A = c.A<<1 | cy
	c.PSW.writeBit(pbitC, cy != 0)
}

func RRC(c *CPU) {
	cy := c.A & 1
	c.A = c.A>>1 | cy<<7
	c.PSW.writeBit(pbitC, cy != 0)
}

func RAL(c *CPU) {
	cy := c.A >> 7
	c.A = c.A<<1 | c.PSW.carry()
	c.PSW.writeBit(pbitC, cy != 0)
}

func RAR(c *CPU) {
	cy := c.A & 1
	c.A = c.A>>1 | c.PSW.carry()<<7
	c.PSW.writeBit(pbitC, cy != 0)
}

/* jumps, calls, returns */

func JMP(c *CPU) {
	c.PC = c.fetch16()
}

func jmpIf(cond func(*CPU) bool) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetch16()
		if cond(c) {
			c.PC = addr
		}
	}
}

func CALL(c *CPU) {
	addr := c.fetch16()
	c.push16(c.PC)
	c.PC = addr
}

func callIf(cond func(*CPU) bool) func(*CPU) {
	return func(c *CPU) {
		addr := c.fetch16()
		if cond(c) {
			c.push16(c.PC)
			c.PC = addr
			c.Cycles += condTakenCycles
		}
	}
}

func RET(c *CPU) {
	c.PC = c.pull16()
}

func retIf(cond func(*CPU) bool) func(*CPU) {
	return func(c *CPU) {
		if cond(c) {
			c.PC = c.pull16()
			c.Cycles += condTakenCycles
		}
	}
}

func rst(n uint8) func(*CPU) {
	return func(c *CPU) {
		c.push16(c.PC)
		c.PC = uint16(n) * 8
	}
}

func PCHL(c *CPU) {
	c.PC = c.HL()
}

/* stack */

func push(pair func(*CPU) uint16) func(*CPU) {
	return func(c *CPU) { c.push16(pair(c)) }
}

func pop(set func(*CPU, uint16)) func(*CPU) {
	return func(c *CPU) { set(c, c.pull16()) }
}

func PUSHpsw(c *CPU) {
	c.push8(c.A)
	c.push8(c.PSW.canonical())
}

func POPpsw(c *CPU) {
	c.PSW = (PSW(c.pull8()) | pswFixedOn) &^ pswFixedOff
	c.A = c.pull8()
}

func XTHL(c *CPU) {
	hl := c.HL()
	c.setHL(c.Read16(c.SP))
	c.Write16(c.SP, hl)
}

func SPHL(c *CPU) {
	c.SP = c.HL()
}

/* interrupt flip flop, halt, I/O */

func EI(c *CPU) {
	c.INTE = true
}

func DI(c *CPU) {
	c.INTE = false
}

func HLT(c *CPU) {
	c.halted = true
}

func IN(c *CPU) {
	c.A = c.Ports.In(c.fetch8())
}

func OUT(c *CPU) {
	c.Ports.Out(c.fetch8(), c.A)
}
