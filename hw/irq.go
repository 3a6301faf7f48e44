package hw

import (
	"invaders/emu/log"
)

// Frame timing. The CPU runs at 2 MHz against a 60 Hz tube; the
// display hardware raises RST 1 when the beam is mid-screen and RST 2
// at the bottom (vblank).
const (
	CPUClockHz      = 2_000_000
	FramesPerSecond = 60

	CyclesPerFrame = CPUClockHz / FramesPerSecond
	MidScreenCycle = CyclesPerFrame / 2

	// The beam reaches the bottom of the picture at scanline 224 of
	// 262; the rest of the frame is the blanking interval, where the
	// vblank handler gets to run before the next frame starts.
	VBlankCycle = CyclesPerFrame * 224 / 262
)

// IRQController tracks the CPU cycle counter against the two scanline
// thresholds and forces the restart calls. Delivery is gated by the
// CPU's interrupt-enable flip flop; a frame with interrupts disabled
// simply skips them, which is correct emulated behavior.
type IRQController struct {
	CPU *CPU

	frameStart int64 // CPU cycle count when the current frame began
}

func NewIRQController(cpu *CPU) *IRQController {
	return &IRQController{CPU: cpu}
}

// RunFrame drives the CPU through one frame worth of cycles, delivering
// both interrupts at their thresholds, and leaves the counter primed
// for the next frame.
func (ic *IRQController) RunFrame() {
	ic.CPU.Run(ic.frameStart + MidScreenCycle)
	ic.deliver(MidScreenVector)

	ic.CPU.Run(ic.frameStart + VBlankCycle)
	ic.deliver(VBlankVector)

	// Blanking interval: the vblank handler runs before the frame ends
	// and the framebuffer is sampled.
	ic.CPU.Run(ic.frameStart + CyclesPerFrame)
	ic.frameStart += CyclesPerFrame
}

func (ic *IRQController) deliver(vector uint8) {
	if ic.CPU.Interrupt(vector) {
		log.ModIRQ.DebugZ("interrupt delivered").
			Hex8("vector", vector).
			Hex16("PC", ic.CPU.PC).
			End()
	}
}

// Reset realigns the controller with a freshly reset CPU.
func (ic *IRQController) Reset() {
	ic.frameStart = 0
}
