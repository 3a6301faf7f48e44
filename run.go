package main

import (
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/veandco/go-sdl2/sdl"

	"invaders/emu"
	"invaders/rom"
)

// emuMain runs the emulator with the given rom set.
func emuMain(args Run) {
	var exitcode int
	sdl.Main(func() {
		set, err := rom.Load(args.RomPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading ROM set: %s\n", err)
			exitcode = 1
			return
		}

		cfg := emu.LoadConfigOrDefault()
		cfg.Headless = args.Headless

		var traceout io.WriteCloser
		if args.Trace != nil {
			traceout = args.Trace
			defer traceout.Close()
		}
		cfg.TraceOut = traceout

		emulator, err := emu.Launch(set, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start emulator: %v\n", err)
			exitcode = 1
			return
		}
		emulator.SetFrameLimit(args.Frames)
		if args.Screenshot != "" {
			emulator.SetScreenshotPath(args.Screenshot)
		}

		if args.CPUProfile != "" {
			f, err := os.Create(args.CPUProfile)
			checkf(err, "failed to create cpu profile file")
			checkf(pprof.StartCPUProfile(f), "failed to start cpu profile")
			defer func() {
				pprof.StopCPUProfile()
				f.Close()
				fmt.Println("CPU profile written to", args.CPUProfile)
			}()
		}

		if err := emulator.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "emulation stopped: %v\n", err)
			exitcode = 1
		}
	})
	os.Exit(exitcode)
}
