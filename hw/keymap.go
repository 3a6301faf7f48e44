package hw

import (
	"github.com/veandco/go-sdl2/sdl"

	"invaders/emu/log"
)

// InputConfig maps cabinet controls to keyboard keys, by SDL key name.
// Empty entries take the default binding.
type InputConfig struct {
	Coin   string `toml:"coin"`
	Tilt   string `toml:"tilt"`
	Start1 string `toml:"start1"`
	Start2 string `toml:"start2"`

	P1Left  string `toml:"p1_left"`
	P1Right string `toml:"p1_right"`
	P1Fire  string `toml:"p1_fire"`

	P2Left  string `toml:"p2_left"`
	P2Right string `toml:"p2_right"`
	P2Fire  string `toml:"p2_fire"`
}

var defaultBindings = InputConfig{
	Coin:    "C",
	Tilt:    "T",
	Start1:  "1",
	Start2:  "2",
	P1Left:  "Left",
	P1Right: "Right",
	P1Fire:  "Space",
	P2Left:  "A",
	P2Right: "D",
	P2Fire:  "S",
}

// keymap is InputConfig with key names resolved to scancodes.
type keymap struct {
	coin, tilt, start1, start2 sdl.Scancode
	p1l, p1r, p1f              sdl.Scancode
	p2l, p2r, p2f              sdl.Scancode
}

func (c InputConfig) resolve() keymap {
	return keymap{
		coin:   scancode(c.Coin, defaultBindings.Coin),
		tilt:   scancode(c.Tilt, defaultBindings.Tilt),
		start1: scancode(c.Start1, defaultBindings.Start1),
		start2: scancode(c.Start2, defaultBindings.Start2),
		p1l:    scancode(c.P1Left, defaultBindings.P1Left),
		p1r:    scancode(c.P1Right, defaultBindings.P1Right),
		p1f:    scancode(c.P1Fire, defaultBindings.P1Fire),
		p2l:    scancode(c.P2Left, defaultBindings.P2Left),
		p2r:    scancode(c.P2Right, defaultBindings.P2Right),
		p2f:    scancode(c.P2Fire, defaultBindings.P2Fire),
	}
}

func scancode(name, fallback string) sdl.Scancode {
	if name == "" {
		name = fallback
	}
	sc := sdl.GetScancodeFromName(name)
	if sc == sdl.SCANCODE_UNKNOWN {
		log.ModInput.WarnZ("unknown key name in input config").
			String("key", name).
			String("fallback", fallback).
			End()
		sc = sdl.GetScancodeFromName(fallback)
	}
	return sc
}

// sample reads the pressed state of every bound key.
func (km keymap) sample(state []uint8) Buttons {
	down := func(sc sdl.Scancode) bool { return state[sc] != 0 }
	return Buttons{
		Coin:    down(km.coin),
		Tilt:    down(km.tilt),
		Start1:  down(km.start1),
		Start2:  down(km.start2),
		P1Left:  down(km.p1l),
		P1Right: down(km.p1r),
		P1Fire:  down(km.p1f),
		P2Left:  down(km.p2l),
		P2Right: down(km.p2r),
		P2Fire:  down(km.p2f),
	}
}
