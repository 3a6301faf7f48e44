package hw

import (
	"fmt"
	"io"
)

// opInfo describes one opcode for the disassembler: a format string
// receiving the decoded operand (if any) and the instruction size.
type opInfo struct {
	format string
	size   int
}

var disasmOps [256]opInfo

func init() {
	for i := range disasmOps {
		disasmOps[i] = opInfo{"NOP*", 1}
	}

	// register/register-pair instructions, generated from the operand
	// encoding in bits 5..3 and 2..0.
	regs := [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}
	alu := [8]string{"ADD", "ADC", "SUB", "SBB", "ANA", "XRA", "ORA", "CMP"}
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			disasmOps[0x40+i*8+j] = opInfo{"MOV " + regs[i] + "," + regs[j], 1}
		}
		for j := 0; j < 8; j++ {
			disasmOps[0x80+i*8+j] = opInfo{alu[i] + " " + regs[j], 1}
		}
		disasmOps[0x04+i*8] = opInfo{"INR " + regs[i], 1}
		disasmOps[0x05+i*8] = opInfo{"DCR " + regs[i], 1}
		disasmOps[0x06+i*8] = opInfo{"MVI " + regs[i] + ",$%02X", 2}
		disasmOps[0xc7+i*8] = opInfo{fmt.Sprintf("RST %d", i), 1}
	}
	pairs := [4]string{"B", "D", "H", "SP"}
	for i := 0; i < 4; i++ {
		disasmOps[0x01+i*16] = opInfo{"LXI " + pairs[i] + ",$%04X", 3}
		disasmOps[0x03+i*16] = opInfo{"INX " + pairs[i], 1}
		disasmOps[0x09+i*16] = opInfo{"DAD " + pairs[i], 1}
		disasmOps[0x0b+i*16] = opInfo{"DCX " + pairs[i], 1}
	}

	for op, info := range map[uint8]opInfo{
		0x00: {"NOP", 1},
		0x02: {"STAX B", 1},
		0x07: {"RLC", 1},
		0x0a: {"LDAX B", 1},
		0x0f: {"RRC", 1},
		0x12: {"STAX D", 1},
		0x17: {"RAL", 1},
		0x1a: {"LDAX D", 1},
		0x1f: {"RAR", 1},
		0x22: {"SHLD $%04X", 3},
		0x27: {"DAA", 1},
		0x2a: {"LHLD $%04X", 3},
		0x2f: {"CMA", 1},
		0x32: {"STA $%04X", 3},
		0x37: {"STC", 1},
		0x3a: {"LDA $%04X", 3},
		0x3f: {"CMC", 1},
		0x76: {"HLT", 1},

		0xc0: {"RNZ", 1},
		0xc1: {"POP B", 1},
		0xc2: {"JNZ $%04X", 3},
		0xc3: {"JMP $%04X", 3},
		0xc4: {"CNZ $%04X", 3},
		0xc5: {"PUSH B", 1},
		0xc6: {"ADI $%02X", 2},
		0xc8: {"RZ", 1},
		0xc9: {"RET", 1},
		0xca: {"JZ $%04X", 3},
		0xcb: {"JMP* $%04X", 3},
		0xcc: {"CZ $%04X", 3},
		0xcd: {"CALL $%04X", 3},
		0xce: {"ACI $%02X", 2},
		0xd0: {"RNC", 1},
		0xd1: {"POP D", 1},
		0xd2: {"JNC $%04X", 3},
		0xd3: {"OUT $%02X", 2},
		0xd4: {"CNC $%04X", 3},
		0xd5: {"PUSH D", 1},
		0xd6: {"SUI $%02X", 2},
		0xd8: {"RC", 1},
		0xd9: {"RET*", 1},
		0xda: {"JC $%04X", 3},
		0xdb: {"IN $%02X", 2},
		0xdc: {"CC $%04X", 3},
		0xdd: {"CALL* $%04X", 3},
		0xde: {"SBI $%02X", 2},
		0xe0: {"RPO", 1},
		0xe1: {"POP H", 1},
		0xe2: {"JPO $%04X", 3},
		0xe3: {"XTHL", 1},
		0xe4: {"CPO $%04X", 3},
		0xe5: {"PUSH H", 1},
		0xe6: {"ANI $%02X", 2},
		0xe8: {"RPE", 1},
		0xe9: {"PCHL", 1},
		0xea: {"JPE $%04X", 3},
		0xeb: {"XCHG", 1},
		0xec: {"CPE $%04X", 3},
		0xed: {"CALL* $%04X", 3},
		0xee: {"XRI $%02X", 2},
		0xf0: {"RP", 1},
		0xf1: {"POP PSW", 1},
		0xf2: {"JP $%04X", 3},
		0xf3: {"DI", 1},
		0xf4: {"CP $%04X", 3},
		0xf5: {"PUSH PSW", 1},
		0xf6: {"ORI $%02X", 2},
		0xf8: {"RM", 1},
		0xf9: {"SPHL", 1},
		0xfa: {"JM $%04X", 3},
		0xfb: {"EI", 1},
		0xfc: {"CM $%04X", 3},
		0xfd: {"CALL* $%04X", 3},
		0xfe: {"CPI $%02X", 2},
	} {
		disasmOps[op] = info
	}
}

// DisasmOp is one decoded instruction.
type DisasmOp struct {
	Text string // mnemonic with operand
	Buf  []byte // raw instruction bytes
	PC   uint16
}

// Disasm decodes the instruction at pc without touching CPU state.
func (c *CPU) Disasm(pc uint16) DisasmOp {
	opcode := c.Read8(pc)
	info := disasmOps[opcode]

	buf := make([]byte, info.size)
	for i := range buf {
		buf[i] = c.Read8(pc + uint16(i))
	}

	var text string
	switch info.size {
	case 2:
		text = fmt.Sprintf(info.format, buf[1])
	case 3:
		text = fmt.Sprintf(info.format, uint16(buf[2])<<8|uint16(buf[1]))
	default:
		text = info.format
	}

	return DisasmOp{Text: text, Buf: buf, PC: pc}
}

// tracer writes one line per executed instruction with the CPU state
// as it was before execution.
type tracer struct {
	w   io.Writer
	buf []byte
}

func (t *tracer) write(c *CPU) {
	dis := c.Disasm(c.PC)

	t.buf = fmt.Appendf(t.buf[:0], "%04X  ", dis.PC)
	for _, b := range dis.Buf {
		t.buf = fmt.Appendf(t.buf, "%02X ", b)
	}
	for len(t.buf) < 16 {
		t.buf = append(t.buf, ' ')
	}

	t.buf = fmt.Appendf(t.buf, "%-14s A:%02X BC:%04X DE:%04X HL:%04X SP:%04X %s CYC:%d\n",
		dis.Text, c.A, c.BC(), c.DE(), c.HL(), c.SP, c.PSW, c.Cycles)
	t.w.Write(t.buf)
}
