package graphics

import (
	"image"

	"nescore/internal/ppu"
)

// FrameBuffer holds one picture as palette indices.
type FrameBuffer struct {
	pixels [ppu.Height][ppu.Width]uint8
	video  *VideoProcessor
}

// NewFrameBuffer creates a frame buffer. A nil processor leaves colours as
// the palette defines them.
func NewFrameBuffer(video *VideoProcessor) *FrameBuffer {
	return &FrameBuffer{video: video}
}

// SetPixel stores a palette index. Coordinates off the picture are ignored.
func (fb *FrameBuffer) SetPixel(x, y int, colorIndex uint8) {
	if x < 0 || x >= ppu.Width || y < 0 || y >= ppu.Height {
		return
	}
	fb.pixels[y][x] = colorIndex
}

// At returns the palette index at x, y.
func (fb *FrameBuffer) At(x, y int) uint8 {
	return fb.pixels[y][x]
}

// Image converts the buffer to RGBA.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, ppu.Width, ppu.Height))
	fb.Draw(img)
	return img
}

// Draw writes the buffer into img, which must be at least Width by Height.
func (fb *FrameBuffer) Draw(img *image.RGBA) {
	for y := 0; y < ppu.Height; y++ {
		for x := 0; x < ppu.Width; x++ {
			c := ppu.RGBA(fb.pixels[y][x])
			if fb.video != nil {
				c = fb.video.Adjust(c)
			}
			img.SetRGBA(x, y, c)
		}
	}
}
