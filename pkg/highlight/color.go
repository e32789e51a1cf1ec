package highlight

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	hueStep    = 57
	saturation = 0.70
	lightness  = 0.85
)

// Color is the display color assigned to one rank of the chunk list.
type Color struct {
	Hue int
}

// ColorFor returns the color of the chunk at rank index.
func ColorFor(index int) Color {
	return Color{Hue: (index * hueStep) % 360}
}

// Palette assigns a color to each of n ranks.
func Palette(n int) []Color {
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = ColorFor(i)
	}
	return colors
}

// CSS returns the color as a CSS hsl() value.
func (c Color) CSS() string {
	return fmt.Sprintf("hsl(%d 70%% 85%%)", c.Hue)
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return colorful.Hsl(float64(c.Hue), saturation, lightness).Clamped().Hex()
}
