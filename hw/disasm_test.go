package hw

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisasm(t *testing.T) {
	cpu := testCPU(t)

	tests := []struct {
		prog []uint8
		want string
	}{
		{[]uint8{0x00}, "NOP"},
		{[]uint8{0x3e, 0x42}, "MVI A,$42"},
		{[]uint8{0x21, 0x34, 0x12}, "LXI H,$1234"},
		{[]uint8{0x78}, "MOV A,B"},
		{[]uint8{0x77}, "MOV M,A"},
		{[]uint8{0xa3}, "ANA E"},
		{[]uint8{0xc3, 0xcd, 0xab}, "JMP $ABCD"},
		{[]uint8{0xd3, 0x06}, "OUT $06"},
		{[]uint8{0xdb, 0x01}, "IN $01"},
		{[]uint8{0xd7}, "RST 2"},
		{[]uint8{0x76}, "HLT"},
		{[]uint8{0xcb, 0x00, 0x20}, "JMP* $2000"},
		{[]uint8{0x08}, "NOP*"},
	}
	for _, tt := range tests {
		load(cpu, 0x0100, tt.prog...)
		dis := cpu.Disasm(0x0100)
		if dis.Text != tt.want {
			t.Errorf("got %q, want %q", dis.Text, tt.want)
		}
		if !bytes.Equal(dis.Buf, tt.prog) {
			t.Errorf("%s: raw bytes % 02X, want % 02X", tt.want, dis.Buf, tt.prog)
		}
	}
}

func TestDisasmDoesNotTouchState(t *testing.T) {
	cpu := testCPU(t)
	load(cpu, 0x0100, 0x3e, 0x42)

	pc, cycles := cpu.PC, cpu.Cycles
	cpu.Disasm(0x0100)
	if cpu.PC != pc || cpu.Cycles != cycles {
		t.Error("Disasm advanced the cpu")
	}
}

func TestTracerOutput(t *testing.T) {
	cpu := testCPU(t)
	var buf bytes.Buffer
	cpu.SetTraceOutput(&buf)

	load(cpu, 0x0100, 0x3e, 0x42, 0x47) // MVI A,$42 / MOV B,A
	cpu.Step()
	cpu.Step()

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d trace lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "0100  3E 42") || !strings.Contains(lines[0], "MVI A,$42") {
		t.Errorf("unexpected trace line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "A:42") {
		t.Errorf("second line should show A:42, got %q", lines[1])
	}
}
