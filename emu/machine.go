package emu

import (
	"invaders/hw"
	"invaders/rom"
)

// Machine is the assembled cabinet hardware: CPU, memory, display
// counter, shift register, I/O and sound latches.
type Machine struct {
	CPU     *hw.CPU
	Mem     *hw.Memory
	IRQ     *hw.IRQController
	Video   *hw.Video
	Shifter *hw.ShiftRegister
	Sound   *hw.SoundLatch
	Input   *hw.Input
	Ports   *hw.Ports
}

func powerUp(set *rom.Set, dip hw.DIPSwitches) (*Machine, error) {
	mem, err := hw.NewMemory(set.Image())
	if err != nil {
		return nil, err
	}

	ports := hw.NewPorts()
	shifter := &hw.ShiftRegister{}
	shifter.InitPorts(ports)
	sound := &hw.SoundLatch{}
	sound.InitPorts(ports)
	input := hw.NewInput(dip)
	input.InitPorts(ports)
	hw.InitWatchdogPort(ports)

	cpu := hw.NewCPU(mem.Bus, ports)

	m := &Machine{
		CPU:     cpu,
		Mem:     mem,
		IRQ:     hw.NewIRQController(cpu),
		Video:   hw.NewVideo(mem.VRAM()),
		Shifter: shifter,
		Sound:   sound,
		Input:   input,
		Ports:   ports,
	}
	return m, nil
}

// Reset brings the machine back to power-up state. A soft reset keeps
// RAM contents, like the cabinet reset button.
func (m *Machine) Reset(soft bool) {
	if !soft {
		m.Mem.Reset()
	}
	m.CPU.Reset()
	m.IRQ.Reset()
	m.Shifter.Reset()
	m.Sound.Reset()
}

// RunOneFrame emulates one display frame and rasterizes it into
// frame's video buffer.
func (m *Machine) RunOneFrame(frame hw.Frame) {
	m.IRQ.RunFrame()
	m.Video.Rasterize(frame.Video)
}
