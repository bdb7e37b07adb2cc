// Package colorspace converts between 8-bit RGB and HSL.
package colorspace

import (
	"github.com/chewxy/math32"
)

// HSL holds hue, saturation and lightness, each in [0, 1]. Hue wraps at 1.
type HSL struct {
	H, S, L float32
}

// RGBToHSL converts an 8-bit colour. Achromatic colours report H = 0 and S = 0.
func RGBToHSL(r, g, b uint8) HSL {
	rf := float32(r) / 255
	gf := float32(g) / 255
	bf := float32(b) / 255

	max := math32.Max(rf, math32.Max(gf, bf))
	min := math32.Min(rf, math32.Min(gf, bf))
	l := (max + min) / 2

	if max == min {
		return HSL{H: 0, S: 0, L: l}
	}

	d := max - min
	var s float32
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	var h float32
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}
	h /= 6

	return HSL{H: h, S: s, L: l}
}

// HSLToRGB converts back to 8-bit, rounding to the nearest level.
func HSLToRGB(c HSL) (uint8, uint8, uint8) {
	if c.S <= 0 {
		v := toByte(c.L)
		return v, v, v
	}

	var q float32
	if c.L < 0.5 {
		q = c.L * (1 + c.S)
	} else {
		q = c.L + c.S - c.L*c.S
	}
	p := 2*c.L - q

	return toByte(hueToRGB(p, q, c.H+1.0/3)),
		toByte(hueToRGB(p, q, c.H)),
		toByte(hueToRGB(p, q, c.H-1.0/3))
}

// Saturate scales the saturation of an 8-bit colour by factor, clamping S to 1.
func Saturate(r, g, b uint8, factor float32) (uint8, uint8, uint8) {
	c := RGBToHSL(r, g, b)
	c.S = math32.Min(1, c.S*factor)
	return HSLToRGB(c)
}

func hueToRGB(p, q, t float32) float32 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}

func toByte(v float32) uint8 {
	v = math32.Floor(v*255 + 0.5)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
