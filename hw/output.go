package hw

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/veandco/go-sdl2/sdl"

	"invaders/emu/log"
)

type OutputConfig struct {
	Width          int
	Height         int
	NumBackBuffers int
	Title          string
	ScaleFactor    int
	DisableVSync   bool
	CRT            bool // scanline/vignette shader
	Overlay        bool // cabinet color gel overlay
	Headless       bool // no window, frames are discarded

	Input InputConfig
}

// Frame is a video back buffer handed out for one emulated frame.
type Frame struct {
	Video Framebuffer
}

// Output owns the window and paces the emulation: EndFrame blocks
// until the previous frame has been presented.
type Output struct {
	cfg  OutputConfig
	win  *window
	keys keymap

	framebufidx int
	framebuf    []Framebuffer
	framech     chan Frame

	mu        sync.Mutex
	lastFrame Framebuffer

	buttons Buttons
	quit    bool
}

func NewOutput(cfg OutputConfig) (*Output, error) {
	if cfg.NumBackBuffers == 0 {
		cfg.NumBackBuffers = 2
	}
	vb := make([]Framebuffer, cfg.NumBackBuffers)
	for i := range vb {
		vb[i] = NewFramebuffer()
	}

	o := &Output{
		cfg:      cfg,
		keys:     cfg.Input.resolve(),
		framebuf: vb,
		framech:  make(chan Frame),
	}

	if !cfg.Headless {
		var err error
		sdl.Do(func() {
			o.win, err = newWindow(cfg.Title, cfg.Width, cfg.Height,
				cfg.ScaleFactor, !cfg.DisableVSync, cfg.CRT)
		})
		if err != nil {
			return nil, err
		}
	}

	go o.render()
	return o, nil
}

// BeginFrame returns the next back buffer to rasterize into.
func (o *Output) BeginFrame() Frame {
	o.framebufidx++
	if o.framebufidx == o.cfg.NumBackBuffers {
		o.framebufidx = 0
	}
	return Frame{Video: o.framebuf[o.framebufidx]}
}

func (o *Output) EndFrame(frame Frame) {
	o.framech <- frame
}

func (o *Output) render() {
	if o.cfg.Headless {
		for frame := range o.framech {
			o.setLastFrame(frame.Video)
		}
		return
	}

	pix := make([]byte, o.cfg.Width*o.cfg.Height*4)
	for frame := range o.framech {
		o.setLastFrame(frame.Video)
		o.expand(frame.Video, pix)
		sdl.Do(func() {
			o.win.blit(pix)
		})
	}
}

func (o *Output) setLastFrame(fb Framebuffer) {
	o.mu.Lock()
	o.lastFrame = fb
	o.mu.Unlock()
}

// expand converts the 1bpp framebuffer to RGBA, applying the color
// overlay if enabled.
func (o *Output) expand(fb Framebuffer, pix []byte) {
	for y := 0; y < o.cfg.Height; y++ {
		r, g, b := overlayColor(y, o.cfg.Overlay)
		row := y * o.cfg.Width
		for x := 0; x < o.cfg.Width; x++ {
			off := (row + x) * 4
			if fb[row+x] != 0 {
				pix[off+0] = r
				pix[off+1] = g
				pix[off+2] = b
			} else {
				pix[off+0] = 0
				pix[off+1] = 0
				pix[off+2] = 0
			}
			pix[off+3] = 0xff
		}
	}
}

// overlayColor returns the tint of the color gel strip covering screen
// row y on the cabinet: red over the UFO band, green over the player
// area, white elsewhere.
func overlayColor(y int, overlay bool) (r, g, b uint8) {
	if !overlay {
		return 0xff, 0xff, 0xff
	}
	switch {
	case y >= 32 && y < 62:
		return 0xff, 0x20, 0x20
	case y >= 184 && y < 240:
		return 0x20, 0xff, 0x20
	default:
		return 0xff, 0xff, 0xff
	}
}

// Poll pumps window events and samples the keyboard. It returns false
// when the user asked to quit.
func (o *Output) Poll() bool {
	if o.cfg.Headless {
		return !o.quit
	}

	sdl.Do(func() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				o.quit = true
			case *sdl.WindowEvent:
				if e.Event == sdl.WINDOWEVENT_RESIZED {
					o.win.resize(e.Data1, e.Data2)
				}
			}
		}

		state := sdl.GetKeyboardState()
		if state[sdl.SCANCODE_ESCAPE] != 0 {
			o.quit = true
		}
		o.buttons = o.keys.sample(state)
	})
	return !o.quit
}

// Buttons returns the cabinet controls as sampled by the last Poll.
func (o *Output) Buttons() Buttons {
	return o.buttons
}

// Screenshot converts the last presented frame to an RGBA image.
func (o *Output) Screenshot() *image.RGBA {
	o.mu.Lock()
	fb := o.lastFrame
	o.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, o.cfg.Width, o.cfg.Height))
	if fb == nil {
		return img
	}
	for y := 0; y < o.cfg.Height; y++ {
		r, g, b := overlayColor(y, o.cfg.Overlay)
		for x := 0; x < o.cfg.Width; x++ {
			if fb[y*o.cfg.Width+x] != 0 {
				img.SetRGBA(x, y, color.RGBA{r, g, b, 0xff})
			} else {
				img.SetRGBA(x, y, color.RGBA{0, 0, 0, 0xff})
			}
		}
	}
	return img
}

func (o *Output) Close() {
	close(o.framech)
	if o.win != nil {
		var err error
		sdl.Do(func() {
			err = o.win.close()
		})
		if err != nil {
			log.ModEmu.WarnZ("failed to close window").Error("err", err).End()
		}
	}
}

// SaveAsPNG encodes img to path.
func SaveAsPNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
