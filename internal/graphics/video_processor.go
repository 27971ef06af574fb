package graphics

import "image/color"

// VideoProcessor applies brightness and contrast to palette colours.
type VideoProcessor struct {
	brightness float32
	contrast   float32

	// Adjusted colours are cached per input colour.
	cache map[color.RGBA]color.RGBA
}

// NewVideoProcessor returns nil when both settings are neutral, so callers
// skip the adjustment entirely. Zero counts as unset.
func NewVideoProcessor(brightness, contrast float32) *VideoProcessor {
	if brightness <= 0 {
		brightness = 1.0
	}
	if contrast <= 0 {
		contrast = 1.0
	}
	if brightness == 1.0 && contrast == 1.0 {
		return nil
	}
	return &VideoProcessor{
		brightness: brightness,
		contrast:   contrast,
		cache:      make(map[color.RGBA]color.RGBA, 64),
	}
}

// Adjust returns c with brightness then contrast applied.
func (vp *VideoProcessor) Adjust(c color.RGBA) color.RGBA {
	if adjusted, ok := vp.cache[c]; ok {
		return adjusted
	}
	adjusted := color.RGBA{
		R: vp.channel(c.R),
		G: vp.channel(c.G),
		B: vp.channel(c.B),
		A: c.A,
	}
	vp.cache[c] = adjusted
	return adjusted
}

func (vp *VideoProcessor) channel(v uint8) uint8 {
	f := float32(v) * vp.brightness
	if vp.contrast != 1.0 {
		f = (f-127.5)*vp.contrast + 127.5
	}
	return uint8(clamp(f+0.5, 0, 255))
}

// clamp limits a value to a range
func clamp(value, min, max float32) float32 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
