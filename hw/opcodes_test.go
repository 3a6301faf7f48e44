package hw

import "testing"

func TestAllOpcodesAreImplemented(t *testing.T) {
	for opcode, op := range ops {
		if op == nil {
			t.Errorf("opcode %02x not implemented", opcode)
		}
		if opsCycles[opcode] == 0 {
			t.Errorf("opcode %02x has no cycle cost", opcode)
		}
	}
}

func TestADDFlags(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0xff
	load(cpu, 0x0100, 0xc6, 0x01) // ADI $01
	runAndCheckState(t, cpu, 7,
		"A", uint8(0x00),
		"Pz", uint8(1),
		"Pc", uint8(1),
		"Pp", uint8(1),
		"Ps", uint8(0),
		"Pa", uint8(1),
	)
}

func TestADCCarryIn(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x3d
	cpu.PSW.writeBit(pbitC, true)
	load(cpu, 0x0100, 0xce, 0x42) // ACI $42
	runAndCheckState(t, cpu, 7,
		"A", uint8(0x80),
		"Ps", uint8(1),
		"Pc", uint8(0),
		"Pa", uint8(1),
	)
}

func TestSUBBorrow(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x00
	load(cpu, 0x0100, 0xd6, 0x01) // SUI $01
	runAndCheckState(t, cpu, 7,
		"A", uint8(0xff),
		"Pc", uint8(1), // borrow
		"Ps", uint8(1),
		"Pp", uint8(1),
		"Pz", uint8(0),
		"Pa", uint8(0),
	)
}

func TestSBBChain(t *testing.T) {
	// 16-bit subtract: DE=0x1234 - 0x0235 using SUI/SBI.
	cpu := testCPU(t)
	cpu.A = 0x34
	load(cpu, 0x0100,
		0xd6, 0x35, // SUI $35 -> borrow
		0x5f,       // MOV E,A
		0x3e, 0x12, // MVI A,$12
		0xde, 0x02, // SBI $02
		0x57, // MOV D,A
	)
	runAndCheckState(t, cpu, 7+5+7+7+5,
		"DE", uint16(0x0fff),
		"Pc", uint8(0),
	)
}

func TestCMP(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x0a
	load(cpu, 0x0100, 0xfe, 0x0a) // CPI $0A
	runAndCheckState(t, cpu, 7,
		"A", uint8(0x0a), // accumulator untouched
		"Pz", uint8(1),
		"Pc", uint8(0),
	)

	load(cpu, 0x0100, 0xfe, 0x0b) // CPI $0B
	runAndCheckState(t, cpu, 7,
		"A", uint8(0x0a),
		"Pz", uint8(0),
		"Pc", uint8(1),
	)
}

func TestANAHalfCarry(t *testing.T) {
	// AC is the OR of bit 3 of both operands.
	cpu := testCPU(t)
	cpu.A = 0x0f
	cpu.B = 0x08
	cpu.PSW.writeBit(pbitC, true)
	load(cpu, 0x0100, 0xa0) // ANA B
	runAndCheckState(t, cpu, 4,
		"A", uint8(0x08),
		"Pa", uint8(1),
		"Pc", uint8(0), // always cleared
	)

	cpu.A = 0x07
	load(cpu, 0x0100, 0xe6, 0x03) // ANI $03
	runAndCheckState(t, cpu, 7,
		"A", uint8(0x03),
		"Pa", uint8(0),
	)
}

func TestXRAClearsAccumulator(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x5a
	cpu.PSW.writeBit(pbitC, true)
	load(cpu, 0x0100, 0xaf) // XRA A
	runAndCheckState(t, cpu, 4,
		"A", uint8(0x00),
		"Pz", uint8(1),
		"Pp", uint8(1),
		"Pc", uint8(0),
		"Pa", uint8(0),
	)
}

func TestINRDCRLeaveCarry(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x0f
	load(cpu, 0x0100,
		0x37, // STC
		0x3c, // INR A
	)
	runAndCheckState(t, cpu, 4+5,
		"A", uint8(0x10),
		"Pa", uint8(1),
		"Pc", uint8(1), // untouched by INR
	)

	cpu.B = 0x10
	load(cpu, 0x0100, 0x05) // DCR B
	runAndCheckState(t, cpu, 5,
		"B", uint8(0x0f),
		"Pa", uint8(0),
		"Pc", uint8(1),
	)
}

func TestINRMemory(t *testing.T) {
	cpu := testCPU(t)
	cpu.setHL(0x2000)
	cpu.Write8(0x2000, 0xff)
	load(cpu, 0x0100, 0x34) // INR M
	runAndCheckState(t, cpu, 10,
		"Pz", uint8(1),
		"mem", "2000: 00",
	)
}

func TestDAA(t *testing.T) {
	// 0x9B adjusts to 0x01 with both carries set.
	cpu := testCPU(t)
	cpu.A = 0x9b
	load(cpu, 0x0100, 0x27) // DAA
	runAndCheckState(t, cpu, 4,
		"A", uint8(0x01),
		"Pc", uint8(1),
		"Pa", uint8(1),
	)

	// BCD addition: 0x19 + 0x28 = 0x41, then DAA -> 0x47.
	cpu = testCPU(t)
	cpu.A = 0x19
	load(cpu, 0x0100,
		0xc6, 0x28, // ADI $28
		0x27, // DAA
	)
	runAndCheckState(t, cpu, 7+4,
		"A", uint8(0x47),
		"Pc", uint8(0),
	)
}

func TestRotates(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x80
	load(cpu, 0x0100, 0x07) // RLC
	runAndCheckState(t, cpu, 4, "A", uint8(0x01), "Pc", uint8(1))

	cpu.A = 0x01
	load(cpu, 0x0100, 0x0f) // RRC
	runAndCheckState(t, cpu, 4, "A", uint8(0x80), "Pc", uint8(1))

	cpu.A = 0x80
	cpu.PSW.writeBit(pbitC, false)
	load(cpu, 0x0100, 0x17) // RAL
	runAndCheckState(t, cpu, 4, "A", uint8(0x00), "Pc", uint8(1))

	cpu.A = 0x01
	cpu.PSW.writeBit(pbitC, true)
	load(cpu, 0x0100, 0x1f) // RAR
	runAndCheckState(t, cpu, 4, "A", uint8(0x80), "Pc", uint8(1))
}

func TestRotatesLeaveOtherFlags(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x00
	load(cpu, 0x0100,
		0xc6, 0x00, // ADI $00, sets Z
		0x07, // RLC
	)
	runAndCheckState(t, cpu, 7+4,
		"Pz", uint8(1), // RLC must not clear Z
		"Pc", uint8(0),
	)
}

func TestDAD(t *testing.T) {
	cpu := testCPU(t)
	cpu.setHL(0xffff)
	cpu.setBC(0x0001)
	load(cpu, 0x0100, 0x09) // DAD B
	runAndCheckState(t, cpu, 10,
		"HL", uint16(0x0000),
		"Pc", uint8(1),
		"Pz", uint8(0), // DAD touches only carry
	)
}

func TestINXDCXNoFlags(t *testing.T) {
	cpu := testCPU(t)
	cpu.setBC(0xffff)
	psw := cpu.PSW
	load(cpu, 0x0100, 0x03) // INX B
	runAndCheckState(t, cpu, 5, "BC", uint16(0x0000))
	if cpu.PSW != psw {
		t.Errorf("INX changed flags: %s -> %s", psw, cpu.PSW)
	}

	load(cpu, 0x0100, 0x0b) // DCX B
	runAndCheckState(t, cpu, 5, "BC", uint16(0xffff))
}

func TestDataTransfer(t *testing.T) {
	cpu := testCPU(t)
	load(cpu, 0x0100,
		0x21, 0x00, 0x20, // LXI H,$2000
		0x36, 0xab, // MVI M,$AB
		0x46,             // MOV B,M
		0x78,             // MOV A,B
		0x32, 0x10, 0x20, // STA $2010
		0x2a, 0x10, 0x20, // LHLD $2010
	)
	runAndCheckState(t, cpu, 10+10+7+5+13+16,
		"A", uint8(0xab),
		"B", uint8(0xab),
		"HL", uint16(0x00ab),
		"mem", "2000: ab\n2010: ab",
	)
}

func TestXCHG(t *testing.T) {
	cpu := testCPU(t)
	cpu.setDE(0x1234)
	cpu.setHL(0xabcd)
	load(cpu, 0x0100, 0xeb) // XCHG
	runAndCheckState(t, cpu, 5,
		"DE", uint16(0xabcd),
		"HL", uint16(0x1234),
	)
}

func TestStackOps(t *testing.T) {
	cpu := testCPU(t)
	load(cpu, 0x0100,
		0x31, 0x00, 0x24, // LXI SP,$2400
		0x01, 0x34, 0x12, // LXI B,$1234
		0xc5, // PUSH B
		0xd1, // POP D
	)
	runAndCheckState(t, cpu, 10+10+11+10,
		"DE", uint16(0x1234),
		"SP", uint16(0x2400),
		"mem", "23fe: 34 12",
	)
}

func TestPushPopPSW(t *testing.T) {
	cpu := testCPU(t)
	cpu.SP = 0x2400
	cpu.A = 0x42
	cpu.PSW = PSW(0xff) // try to smuggle the fixed bits
	load(cpu, 0x0100,
		0xf5, // PUSH PSW
		0xaf, // XRA A
		0xf1, // POP PSW
	)
	runAndCheckState(t, cpu, 11+4+10,
		"A", uint8(0x42),
		"PSW", uint8(0xd7), // fixed bits forced on the bus
		"mem", "23fe: d7 42",
	)
}

func TestXTHL(t *testing.T) {
	cpu := testCPU(t)
	cpu.SP = 0x23fe
	cpu.setHL(0x1234)
	cpu.Write16(0x23fe, 0xabcd)
	load(cpu, 0x0100, 0xe3) // XTHL
	runAndCheckState(t, cpu, 18,
		"HL", uint16(0xabcd),
		"SP", uint16(0x23fe),
		"mem", "23fe: 34 12",
	)
}

func TestJumpsAndCalls(t *testing.T) {
	cpu := testCPU(t)
	cpu.SP = 0x2400
	load(cpu, 0x0100,
		0xc3, 0x10, 0x01, // JMP $0110
	)
	load(cpu, 0x0110,
		0xcd, 0x20, 0x01, // CALL $0120
	)
	load(cpu, 0x0120,
		0xc9, // RET
	)
	cpu.PC = 0x0100
	runAndCheckState(t, cpu, 10+17+10,
		"PC", uint16(0x0113),
		"SP", uint16(0x2400),
	)
}

func TestConditionalCallCycles(t *testing.T) {
	cpu := testCPU(t)
	cpu.SP = 0x2400
	cpu.PSW.writeBit(pbitZ, true)
	load(cpu, 0x0100, 0xc4, 0x20, 0x01) // CNZ $0120, not taken
	if got := cpu.Step(); got != 11 {
		t.Errorf("CNZ not taken: got %d cycles, want 11", got)
	}
	if cpu.PC != 0x0103 {
		t.Errorf("CNZ not taken: PC = $%04X, want $0103", cpu.PC)
	}

	cpu.PSW.writeBit(pbitZ, false)
	load(cpu, 0x0100, 0xc4, 0x20, 0x01) // CNZ $0120, taken
	if got := cpu.Step(); got != 17 {
		t.Errorf("CNZ taken: got %d cycles, want 17", got)
	}
	if cpu.PC != 0x0120 {
		t.Errorf("CNZ taken: PC = $%04X, want $0120", cpu.PC)
	}
}

func TestConditionalRetCycles(t *testing.T) {
	cpu := testCPU(t)
	cpu.SP = 0x23fe
	cpu.Write16(0x23fe, 0x0200)

	cpu.PSW.writeBit(pbitC, false)
	load(cpu, 0x0100, 0xd8) // RC, not taken
	if got := cpu.Step(); got != 5 {
		t.Errorf("RC not taken: got %d cycles, want 5", got)
	}

	cpu.PSW.writeBit(pbitC, true)
	load(cpu, 0x0100, 0xd8) // RC, taken
	if got := cpu.Step(); got != 11 {
		t.Errorf("RC taken: got %d cycles, want 11", got)
	}
	if cpu.PC != 0x0200 {
		t.Errorf("RC taken: PC = $%04X, want $0200", cpu.PC)
	}
}

func TestConditionalJumpCycles(t *testing.T) {
	// Unlike calls and returns, jumps cost 10 taken or not.
	cpu := testCPU(t)
	for _, z := range []bool{true, false} {
		cpu.PSW.writeBit(pbitZ, z)
		load(cpu, 0x0100, 0xca, 0x20, 0x01) // JZ $0120
		if got := cpu.Step(); got != 10 {
			t.Errorf("JZ (z=%t): got %d cycles, want 10", z, got)
		}
	}
}

func TestRST(t *testing.T) {
	cpu := testCPU(t)
	cpu.SP = 0x2400
	load(cpu, 0x0100, 0xd7) // RST 2
	runAndCheckState(t, cpu, 11,
		"PC", uint16(0x0010),
		"mem", "23fe: 01 01",
	)
}

func TestPCHLSPHL(t *testing.T) {
	cpu := testCPU(t)
	cpu.setHL(0x0200)
	load(cpu, 0x0100, 0xe9) // PCHL
	runAndCheckState(t, cpu, 5, "PC", uint16(0x0200))

	cpu.setHL(0x2400)
	load(cpu, 0x0100, 0xf9) // SPHL
	runAndCheckState(t, cpu, 5, "SP", uint16(0x2400))
}

func TestUndocumentedAliases(t *testing.T) {
	// $CB decodes as JMP, $D9 as RET, $DD as CALL, $08 as NOP.
	cpu := testCPU(t)
	load(cpu, 0x0100, 0xcb, 0x20, 0x01)
	runAndCheckState(t, cpu, 10, "PC", uint16(0x0120))

	cpu.SP = 0x2400
	load(cpu, 0x0100, 0xdd, 0x30, 0x01)
	runAndCheckState(t, cpu, 17, "PC", uint16(0x0130), "SP", uint16(0x23fe))

	load(cpu, 0x0100, 0xd9)
	runAndCheckState(t, cpu, 10, "PC", uint16(0x0103), "SP", uint16(0x2400))

	psw := cpu.PSW
	load(cpu, 0x0100, 0x08)
	runAndCheckState(t, cpu, 4, "PC", uint16(0x0101))
	if cpu.PSW != psw {
		t.Error("$08 alias NOP changed flags")
	}
}

func TestCMASTCCMC(t *testing.T) {
	cpu := testCPU(t)
	cpu.A = 0x55
	load(cpu, 0x0100,
		0x2f, // CMA
		0x37, // STC
		0x3f, // CMC
	)
	runAndCheckState(t, cpu, 4+4+4,
		"A", uint8(0xaa),
		"Pc", uint8(0),
	)
}
