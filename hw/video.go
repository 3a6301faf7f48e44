package hw

// Physical screen dimensions. The tube is mounted rotated 90°: video
// memory runs in 224 columns of 32 bytes, each byte 8 vertically
// contiguous pixels, bit 0 nearest the bottom of the screen.
const (
	ScreenWidth  = 224
	ScreenHeight = 256

	vramColBytes = ScreenHeight / 8
)

// Framebuffer is a fully unpacked frame, one byte per pixel in
// left-to-right top-to-bottom order, 0 off and 1 lit.
type Framebuffer []uint8

func NewFramebuffer() Framebuffer {
	return make(Framebuffer, ScreenWidth*ScreenHeight)
}

func (fb Framebuffer) At(x, y int) uint8 {
	return fb[y*ScreenWidth+x]
}

// Video regenerates the framebuffer from the packed video RAM once per
// frame. No state of its own beyond the VRAM view.
type Video struct {
	vram []byte
}

func NewVideo(vram []byte) *Video {
	if len(vram) != ScreenWidth*vramColBytes {
		panic("vram view has wrong size")
	}
	return &Video{vram: vram}
}

// Rasterize unpacks the whole VRAM into fb, applying the rotated
// layout. This is the hottest loop outside the CPU: one byte becomes 8
// single-column pixel stores walking up the screen, no branches.
func (v *Video) Rasterize(fb Framebuffer) {
	_ = fb[ScreenWidth*ScreenHeight-1]

	for col := 0; col < ScreenWidth; col++ {
		base := col * vramColBytes
		for row := 0; row < vramColBytes; row++ {
			b := v.vram[base+row]

			// bit k lights pixel (col, 255-(row*8+k))
			off := (ScreenHeight-1-row*8)*ScreenWidth + col
			fb[off] = b & 1
			fb[off-1*ScreenWidth] = b >> 1 & 1
			fb[off-2*ScreenWidth] = b >> 2 & 1
			fb[off-3*ScreenWidth] = b >> 3 & 1
			fb[off-4*ScreenWidth] = b >> 4 & 1
			fb[off-5*ScreenWidth] = b >> 5 & 1
			fb[off-6*ScreenWidth] = b >> 6 & 1
			fb[off-7*ScreenWidth] = b >> 7 & 1
		}
	}
}
