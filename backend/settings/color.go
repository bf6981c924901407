package settings

import (
	"fmt"
	"math"

	"github.com/mazznoer/csscolorparser"
)

// AccentColor holds normalized RGB channels. Equality is exact per component.
type AccentColor [3]float64

// ParseAccentColor parses any CSS color syntax and converts each 8-bit
// channel to a float by dividing by 256.
func ParseAccentColor(css string) (AccentColor, error) {
	c, err := csscolorparser.Parse(css)
	if err != nil {
		return AccentColor{}, &ColorError{Value: css, Err: err}
	}
	r, g, b, _ := c.RGBA255()
	return AccentColor{
		float64(r) / 256.0,
		float64(g) / 256.0,
		float64(b) / 256.0,
	}, nil
}

// Slice returns the channels as the "ad" wire value.
func (a AccentColor) Slice() []float64 {
	return []float64{a[0], a[1], a[2]}
}

// Hex renders the color back to "#rrggbb", inverting the division by 256.
func (a AccentColor) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel8(a[0]), channel8(a[1]), channel8(a[2]))
}

func channel8(v float64) uint8 {
	n := math.Round(v * 256.0)
	switch {
	case n < 0:
		return 0
	case n > 255:
		return 255
	}
	return uint8(n)
}
