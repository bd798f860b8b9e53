package color

// Tint ports the four applyTint methods from CDRTypes.cpp (CDRCMYKColor,
// CDRRGBColor, CDRLab2Color, CDRLab4Color), each operating on the color
// model's own normalized components rather than on a resolved RGB value:
// "20% tint of spot color N" means deriving a paler CMYK/RGB/Lab value
// first, then running it through Decode, not lightening an already-resolved
// RGB triple.

func clampTintFactor(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// TintCMYK applies a tint fraction to a CMYK color given as fractions in
// [0,1] per channel (as CDRCMYKColor stores them, whether originally 100- or
// 255-scaled on the wire).
func TintCMYK(c, m, y, k, tint float64) (tc, tm, ty, tk float64) {
	t := clampTintFactor(tint)
	return c * t, m * t, y * t, k * t
}

// TintRGB applies a tint fraction to an RGB color given as fractions in
// [0,1] per channel.
func TintRGB(r, g, b, tint float64) (tr, tg, tb float64) {
	t := clampTintFactor(tint)
	tr = 1.0 + r*t - t
	tg = 1.0 + g*t - t
	tb = 1.0 + b*t - t
	return
}

// TintLab applies a tint fraction to a Lab color (L in [0,100]); both the
// signed and biased a/b wire encodings reduce to the same formula once
// decoded to signed components.
func TintLab(l, a, b, tint float64) (tl, ta, tb float64) {
	t := clampTintFactor(tint)
	tl = (1.0-t)*100.0 + t*l
	ta = a * t
	tb = b * t
	return
}
