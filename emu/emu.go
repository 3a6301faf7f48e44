package emu

import (
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"invaders/emu/log"
	"invaders/hw"
	"invaders/rom"
)

// Output is where finished frames go and where user input comes from.
// The SDL window implements it; tests and headless runs use lighter
// implementations.
type Output interface {
	BeginFrame() hw.Frame
	EndFrame(hw.Frame)
	Poll() bool
	Buttons() hw.Buttons
	Screenshot() *image.RGBA
	Close()
}

type Emulator struct {
	Machine *Machine
	out     Output

	// These are accessed concurrently by the emulator loop and the UI.
	quit    atomic.Bool
	paused  atomic.Bool
	reset   atomic.Bool
	restart atomic.Bool

	nframes        int
	maxFrames      int
	screenshotPath string
}

// Launch powers up the machine and creates the video output. It does
// not start the emulation loop, call Run for that.
func Launch(set *rom.Set, cfg Config) (*Emulator, error) {
	machine, err := powerUp(set, cfg.Machine.DIP())
	if err != nil {
		return nil, fmt.Errorf("power up failed: %s", err)
	}

	out, err := hw.NewOutput(hw.OutputConfig{
		Width:        hw.ScreenWidth,
		Height:       hw.ScreenHeight,
		Title:        "Space Invaders",
		ScaleFactor:  cfg.Video.ScaleFactor,
		DisableVSync: cfg.Video.DisableVSync,
		CRT:          cfg.Video.CRT,
		Overlay:      !cfg.Video.NoOverlay,
		Headless:     cfg.Headless,
		Input:        cfg.Input,
	})
	if err != nil {
		return nil, err
	}

	if cfg.TraceOut != nil {
		machine.CPU.SetTraceOutput(cfg.TraceOut)
	}

	return &Emulator{
		Machine: machine,
		out:     out,
	}, nil
}

func (e *Emulator) RunOneFrame() {
	e.Machine.Input.SetButtons(e.out.Buttons())

	frame := e.out.BeginFrame()
	e.Machine.RunOneFrame(frame)
	e.out.EndFrame(frame)
}

func (e *Emulator) loop() {
	for e.out.Poll() {
		if e.isPaused() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else {
			e.RunOneFrame()
			e.nframes++
			if e.maxFrames > 0 && e.nframes >= e.maxFrames {
				break
			}
		}
		if e.shouldStop() {
			break
		}
		e.handleReset()
	}

	e.out.Close()
}

func (e *Emulator) Run() error {
	e.loop()
	log.ModEmu.InfoZ("emulation loop exited").
		Int("cycles", e.Machine.CPU.Cycles).
		End()

	if e.screenshotPath != "" {
		if err := hw.SaveAsPNG(e.out.Screenshot(), e.screenshotPath); err != nil {
			log.ModEmu.WarnZ("failed to save screenshot").
				String("path", e.screenshotPath).
				Error("err", err).
				End()
		}
	}
	return e.Machine.CPU.Err()
}

// SetScreenshotPath makes Run save the final frame as PNG on exit.
func (e *Emulator) SetScreenshotPath(path string) { e.screenshotPath = path }

// SetFrameLimit makes Run exit after n frames. 0 means no limit.
func (e *Emulator) SetFrameLimit(n int) { e.maxFrames = n }

// SetPause, Stop, Reset and Restart control the emulator loop in a
// concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Restart()            { e.restart.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

func (e *Emulator) isPaused() bool {
	return e.paused.Load()
}

func (e *Emulator) shouldStop() bool {
	return e.quit.Load() || e.Machine.CPU.Err() != nil
}

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("performing soft reset").End()
		e.Machine.Reset(true)
	} else if e.restart.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("performing hard reset").End()
		e.Machine.Reset(false)
	}
}
