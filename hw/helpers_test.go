package hw

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"
	"testing"

	"invaders/hw/hwio"
)

func hasPanicked(f func()) (yes bool, msg any) {
	defer func() {
		msg = recover()
		if msg != nil {
			yes = true
		}
	}()
	f()
	return yes, msg
}

/* cpu specific testing helpers */

// testCPU returns a CPU wired to 64K of flat RAM and empty I/O ports.
func testCPU(tb testing.TB) *CPU {
	tb.Helper()

	bus := hwio.NewTable("cputest")
	bus.MapMem(0x0000, &hwio.Mem{
		Name:  "ram",
		Data:  make([]byte, 0x10000),
		VSize: 0x10000,
	})
	return NewCPU(bus, NewPorts())
}

// load copies prog at addr and points PC at it.
func load(cpu *CPU, addr uint16, prog ...uint8) {
	for i, b := range prog {
		cpu.Write8(addr+uint16(i), b)
	}
	cpu.PC = addr
}

func wantMem8(t *testing.T, cpu *CPU, addr uint16, want uint8) {
	t.Helper()

	if got := cpu.Read8(addr); got != want {
		t.Errorf("$%04X = %02X want %02X", addr, got, want)
	}
}

func wantMem(t *testing.T, cpu *CPU, dl dumpline) {
	t.Helper()

	mem := []byte{}
	for i := range dl.bytes {
		mem = append(mem, cpu.Read8(dl.off+uint16(i)))
	}

	if !bytes.Equal(mem, dl.bytes) {
		hd := hex.Dump(mem)
		got := hd[10 : 10+3*len(mem)]
		hd = hex.Dump(dl.bytes)
		want := hd[10 : 10+3*dl.len]
		t.Errorf("mem mismatch at 0x%04x.\ngot: %s\nwant:%s", dl.off, got, want)
	}
}

// runAndCheckState runs the cpu for ncycles then checks the listed
// state pairs: register name / value, flag bits ("Pzc", 1), or a "mem"
// hex dump.
func runAndCheckState(t *testing.T, cpu *CPU, ncycles int64, states ...any) {
	t.Helper()

	if len(states)%2 != 0 {
		panic("odd number of states")
	}

	checkbool := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=%d, want %d", name, got, want)
		}
	}
	checkuint8 := func(name string, got, want uint8) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%02X, want $%02X", name, got, want)
		}
	}
	checkuint16 := func(name string, got, want uint16) {
		t.Helper()
		if got != want {
			t.Errorf("got %s=$%04X, want $%04X", name, got, want)
		}
	}

	if testing.Verbose() {
		cpu.SetTraceOutput(tbwriter{t})
	}

	cpu.Run(cpu.Cycles + ncycles)

	for i := 0; i < len(states); i += 2 {
		s := states[i].(string)
		switch {
		case s == "A":
			checkuint8("A", cpu.A, states[i+1].(uint8))
		case s == "B":
			checkuint8("B", cpu.B, states[i+1].(uint8))
		case s == "C":
			checkuint8("C", cpu.C, states[i+1].(uint8))
		case s == "D":
			checkuint8("D", cpu.D, states[i+1].(uint8))
		case s == "E":
			checkuint8("E", cpu.E, states[i+1].(uint8))
		case s == "H":
			checkuint8("H", cpu.H, states[i+1].(uint8))
		case s == "L":
			checkuint8("L", cpu.L, states[i+1].(uint8))
		case s == "BC":
			checkuint16("BC", cpu.BC(), states[i+1].(uint16))
		case s == "DE":
			checkuint16("DE", cpu.DE(), states[i+1].(uint16))
		case s == "HL":
			checkuint16("HL", cpu.HL(), states[i+1].(uint16))
		case s == "PC":
			checkuint16("PC", cpu.PC, states[i+1].(uint16))
		case s == "SP":
			checkuint16("SP", cpu.SP, states[i+1].(uint16))
		case s == "PSW":
			if got, want := cpu.PSW.canonical(), states[i+1].(uint8); got != want {
				t.Errorf("got PSW=$%02X(%s), want $%02X(%s)", got, PSW(got), want, PSW(want))
			}
		case len(s) > 1 && s[0] == 'P':
			for j := 1; j < len(s); j++ {
				bit := states[i+1].(uint8)
				switch s[j] {
				case 's':
					checkbool("Ps", b2i(cpu.PSW.S()), bit)
				case 'z':
					checkbool("Pz", b2i(cpu.PSW.Z()), bit)
				case 'a':
					checkbool("Pa", b2i(cpu.PSW.A()), bit)
				case 'p':
					checkbool("Pp", b2i(cpu.PSW.P()), bit)
				case 'c':
					checkbool("Pc", b2i(cpu.PSW.C()), bit)
				default:
					panic("unknown PSW bit: " + string(s[j]))
				}
			}
		case s == "mem":
			lines := loadDump(t, states[i+1].(string))
			for _, line := range lines {
				wantMem(t, cpu, line)
			}

		default:
			panic("unknown state: " + s)
		}
	}

	if t.Failed() {
		t.FailNow()
	}
}

type tbwriter struct{ tb testing.TB }

func (w tbwriter) Write(p []byte) (int, error) {
	w.tb.Logf("%s", bytes.TrimSuffix(p, []byte{'\n'}))
	return len(p), nil
}

type dumpline struct {
	off   uint16
	len   uint16 // actual length
	bytes []byte // pow2 sized (padded with 0)
}

func loadDump(tb testing.TB, dump string) []dumpline {
	tb.Helper()

	var lines []dumpline
	scan := bufio.NewScanner(strings.NewReader(dump))
	for scan.Scan() {
		line := scan.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		off, octets, ok := strings.Cut(line, ":")
		if !ok {
			tb.Fatalf("malformed line: %s", line)
		}

		ioff, err := strconv.ParseUint(off, 16, 16)
		if err != nil {
			tb.Fatalf("malformed offset %s: %s", off, err)
		}
		var buf []byte
		for _, c := range octets {
			if c != ' ' {
				buf = append(buf, byte(c))
			}
		}
		n, err := hex.Decode(buf, buf)
		if err != nil {
			tb.Fatalf("hex decode: %s", err)
		}
		// clear the rest of the buffer
		nbytes := nextpow2(uint64(n))
		for i := uint64(n); i < nbytes; i++ {
			buf[i] = 0
		}
		dl := dumpline{off: uint16(ioff), len: uint16(nbytes), bytes: buf[:nbytes]}
		lines = append(lines, dl)
	}
	if scan.Err() != nil {
		tb.Fatalf("scan error: %s", scan.Err())
	}

	return lines
}

func nextpow2(v uint64) uint64 {
	v--
	v |= v>>1 | v>>2 | v>>4 | v>>8 | v>>16 | v>>32
	return v + 1
}
