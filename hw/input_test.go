package hw

import "testing"

func inPort(t *testing.T, cpu *CPU, port uint8) uint8 {
	t.Helper()
	load(cpu, 0x0100, 0xdb, port) // IN port
	cpu.Step()
	return cpu.A
}

func TestInputPortIdle(t *testing.T) {
	cpu := testCPU(t)
	in := NewInput(DIPSwitches{Lives: 3, BonusAt: 1500})
	in.InitPorts(cpu.Ports)

	if got := inPort(t, cpu, PortInput0); got != 0x0e {
		t.Errorf("IN 0 = $%02X, want $0E", got)
	}
	// Bit 3 of port 1 is tied high on the board.
	if got := inPort(t, cpu, PortInput1); got != 0x08 {
		t.Errorf("IN 1 = $%02X, want $08", got)
	}
	if got := inPort(t, cpu, PortInput2); got != 0x80 {
		t.Errorf("IN 2 = $%02X, want $80", got)
	}
}

func TestInputButtons(t *testing.T) {
	cpu := testCPU(t)
	in := NewInput(DIPSwitches{Lives: 3, BonusAt: 1500})
	in.InitPorts(cpu.Ports)

	in.SetButtons(Buttons{Coin: true, Start1: true, P1Fire: true, P1Right: true})
	want := uint8(0x08 | 0x01 | 0x04 | 0x10 | 0x40)
	if got := inPort(t, cpu, PortInput1); got != want {
		t.Errorf("IN 1 = $%02X, want $%02X", got, want)
	}

	in.SetButtons(Buttons{Tilt: true, P2Left: true})
	want = uint8(0x80 | 0x04 | 0x20)
	if got := inPort(t, cpu, PortInput2); got != want {
		t.Errorf("IN 2 = $%02X, want $%02X", got, want)
	}

	// Releasing everything goes back to idle.
	in.SetButtons(Buttons{})
	if got := inPort(t, cpu, PortInput1); got != 0x08 {
		t.Errorf("IN 1 = $%02X after release, want $08", got)
	}
}

func TestInputDIPSwitches(t *testing.T) {
	tests := []struct {
		dip  DIPSwitches
		want uint8
	}{
		{DIPSwitches{Lives: 3, BonusAt: 1500}, 0x80},
		{DIPSwitches{Lives: 4, BonusAt: 1500}, 0x81},
		{DIPSwitches{Lives: 5, BonusAt: 1500}, 0x82},
		{DIPSwitches{Lives: 6, BonusAt: 1500}, 0x83},
		{DIPSwitches{Lives: 3, BonusAt: 1000}, 0x88},
		{DIPSwitches{Lives: 3, BonusAt: 1500, CoinInfoOn: true}, 0x00},
	}
	for _, tt := range tests {
		cpu := testCPU(t)
		in := NewInput(tt.dip)
		in.InitPorts(cpu.Ports)
		if got := inPort(t, cpu, PortInput2); got != tt.want {
			t.Errorf("IN 2 with %+v = $%02X, want $%02X", tt.dip, got, tt.want)
		}
	}
}
