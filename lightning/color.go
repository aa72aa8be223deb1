package lightning

import (
	"image/color"
	"math"
)

// Colorable is implemented by segments whose tint can change after creation.
type Colorable interface {
	SetColor(c color.RGBA)
}

// ColorAt samples a closed color loop. Each unit of t moves one step along the
// loop, blending linearly between neighbours; t wraps after the last step.
func ColorAt(loop []color.RGBA, t float64) color.RGBA {
	switch len(loop) {
	case 0:
		return DefaultColor
	case 1:
		return loop[0]
	}

	steps := float64(len(loop) - 1)
	t = math.Mod(t, steps)
	if t < 0 {
		t += steps
	}
	i := int(t)
	if i >= len(loop)-1 {
		i = len(loop) - 2
	}
	return lerpRGBA(loop[i], loop[i+1], t-float64(i))
}

func lerpRGBA(a, b color.RGBA, f float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*f))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// ColorAt returns the bolt's tint after seconds of animation at its color speed.
func (b *Bolt) ColorAt(seconds float64) color.RGBA {
	return ColorAt(b.colorRange, seconds*b.colorSpeed)
}

// Recolor tints every colorable segment for the given animation time and
// returns how many were updated.
func (b *Bolt) Recolor(seconds float64) int {
	c := b.ColorAt(seconds)
	n := 0
	for _, seg := range b.segments {
		if tint, ok := seg.(Colorable); ok {
			tint.SetColor(c)
			n++
		}
	}
	return n
}
