package color

import (
	"encoding/binary"
	"errors"
	"math"
)

// ErrICCTagNotFound is returned by ParseICCRGBTransform when a required matrix/TRC tag
// is missing from a supplied profile, in which case the caller should fall
// back to the compiled-in default for that color space.
var ErrICCTagNotFound = errors.New("color: required ICC tag not found")

// CMYKTransform converts a CMYK color, each channel in [0,100], to sRGB.
type CMYKTransform func(c, m, y, k float64) RGB

// RGBTransform converts a device RGB triple (0-255 per channel, in r,g,b
// order) to sRGB. Most documents declare no RGB profile, in which case this
// is the identity.
type RGBTransform func(r, g, b byte) RGB

// LabTransform converts a CIE L*a*b* color (L in [0,100], a/b roughly
// [-128,127]) to sRGB.
type LabTransform func(l, a, b float64) RGB

// Profiles bundles the three replaceable color-space transforms a document's
// iccd records can override. Each defaults to a fixed, compiled-in
// approximation (SWOP-like for CMYK, identity for RGB, D50 Lab for Lab) and
// can be replaced independently by assigning its field (the styles pass's
// CollectColorProfile replaces RGBToSRGB), mirroring the source's
// three separate cmsHPROFILE/cmsHTRANSFORM handles for CMYK, RGB and Lab.
type Profiles struct {
	CMYKToSRGB CMYKTransform
	RGBToSRGB  RGBTransform
	LabToSRGB  LabTransform
}

// DefaultProfiles returns the compiled-in profile set used when a document
// carries no iccd record, or when one does but its embedded profile cannot
// be parsed. Exact colorimetric accuracy beyond sRGB is out of scope; these
// approximations target visually reasonable sRGB output, not a certified CMM.
func DefaultProfiles() Profiles {
	return Profiles{
		CMYKToSRGB: swopCMYKToSRGB,
		RGBToSRGB:  identityRGB,
		LabToSRGB:  d50LabToSRGB,
	}
}

func identityRGB(r, g, b byte) RGB {
	return RGB{R: r, G: g, B: b}
}

// swopCMYKToSRGB is a naive subtractive approximation of a SWOP-style
// CMYK->sRGB conversion: no real CMM is linked, so this targets "looks like
// print ink" rather than a certified profile's exact gamut mapping.
func swopCMYKToSRGB(c, m, y, k float64) RGB {
	cc, mm, yy, kk := c/100.0, m/100.0, y/100.0, k/100.0
	r := 255.0 * (1 - cc) * (1 - kk)
	g := 255.0 * (1 - mm) * (1 - kk)
	b := 255.0 * (1 - yy) * (1 - kk)
	return RGB{R: byteRound(r), G: byteRound(g), B: byteRound(b)}
}

func byteRound(v float64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v + 0.5)
}

// d50LabToSRGB converts CIE L*a*b* (D50 white point, as CorelDRAW stores it)
// to sRGB via CIEXYZ, using the standard Lab->XYZ inverse and the
// Bradford-adapted D50->D65 sRGB matrix baked in as constants.
func d50LabToSRGB(l, a, b float64) RGB {
	fy := (l + 16.0) / 116.0
	fx := fy + a/500.0
	fz := fy - b/200.0

	finv := func(t float64) float64 {
		if t > 6.0/29.0 {
			return t * t * t
		}
		return 3.0 * (6.0 / 29.0) * (6.0 / 29.0) * (t - 4.0/29.0)
	}

	const xn, yn, zn = 0.9642, 1.0, 0.8249 // D50 white point
	x := xn * finv(fx)
	y := yn * finv(fy)
	z := zn * finv(fz)

	// D50-adapted sRGB (XYZ scaled to D50) linear-light matrix.
	rl := 3.1338561*x - 1.6168667*y - 0.4906146*z
	gl := -0.9787684*x + 1.9161415*y + 0.0334540*z
	bl := 0.0719453*x - 0.2289914*y + 1.4052427*z

	gamma := func(c float64) float64 {
		if c <= 0.0031308 {
			c = 12.92 * c
		} else {
			c = 1.055*math.Pow(c, 1.0/2.4) - 0.055
		}
		return c
	}

	return RGB{
		R: byteRound(255.0 * clampUnit(gamma(rl))),
		G: byteRound(255.0 * clampUnit(gamma(gl))),
		B: byteRound(255.0 * clampUnit(gamma(bl))),
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// iccProfile is a minimal ICC v2/v4 profile reader, just enough to pull the
// redMatrixColumn/greenMatrixColumn/blueMatrixColumn tags out of a
// matrix/TRC RGB profile. Header layout, the tag table walk and the
// s15Fixed16 fixed-point XYZ decode follow the same byte offsets as a
// reference hand-rolled ICC tag reader (no Go ICC library exists in the
// ecosystem precedent this module draws from); full LUT-based (A2B/B2A)
// profiles and CMYK device profiles are out of scope, matching this
// module's sRGB-only color-management Non-goal.
type iccProfile struct {
	b []byte
}

func (p iccProfile) tagCount() int {
	if len(p.b) < 132 {
		return 0
	}
	return int(binary.BigEndian.Uint32(p.b[128:132]))
}

func (p iccProfile) tag(sig string) (off, size int, err error) {
	n := p.tagCount()
	j := 132
	for i := 0; i < n; i++ {
		if j+12 > len(p.b) {
			break
		}
		s := string(p.b[j : j+4])
		if s == sig {
			off = int(binary.BigEndian.Uint32(p.b[j+4 : j+8]))
			size = int(binary.BigEndian.Uint32(p.b[j+8 : j+12]))
			return off, size, nil
		}
		j += 12
	}
	return 0, 0, ErrICCTagNotFound
}

// xyz decodes an XYZNumber (three s15Fixed16Number, 4 bytes each) at byte
// offset i.
func (p iccProfile) xyz(i int) (x, y, z float64) {
	read := func(o int) float64 {
		return float64(int32(binary.BigEndian.Uint32(p.b[o:o+4]))) / 65536.0
	}
	return read(i), read(i + 4), read(i + 8)
}

func (p iccProfile) matrixCol(sig string) (x, y, z float64, err error) {
	off, size, err := p.tag(sig)
	if err != nil {
		return 0, 0, 0, err
	}
	if size < 20 || off+20 > len(p.b) {
		return 0, 0, 0, ErrICCTagNotFound
	}
	x, y, z = p.xyz(off + 8)
	return x, y, z, nil
}

// ParseICCRGBTransform parses an embedded ICC RGB matrix/TRC profile (as
// carried by a document's iccd record with deviceClass RGB) and returns an
// RGBTransform approximating its device-to-sRGB mapping as a single 3x3
// matrix multiply followed by an sRGB gamma encode, ignoring the profile's
// per-channel tone curves (another casualty of not linking a full CMM).
// Returns ErrICCTagNotFound if the profile isn't a recognizable matrix/TRC
// RGB profile, in which case the caller should keep the default transform.
func ParseICCRGBTransform(data []byte) (RGBTransform, error) {
	p := iccProfile{b: data}
	rX, rY, rZ, err := p.matrixCol("rXYZ")
	if err != nil {
		return nil, err
	}
	gX, gY, gZ, err := p.matrixCol("gXYZ")
	if err != nil {
		return nil, err
	}
	bX, bY, bZ, err := p.matrixCol("bXYZ")
	if err != nil {
		return nil, err
	}

	return func(r, g, b byte) RGB {
		rl, gl, bl := float64(r)/255.0, float64(g)/255.0, float64(b)/255.0
		x := rX*rl + gX*gl + bX*bl
		y := rY*rl + gY*gl + bY*bl
		z := rZ*rl + gZ*gl + bZ*bl

		// Profile-connection XYZ is treated as already D65-relative sRGB
		// linear space; the sRGB forward matrix converts it back.
		rr := 3.2404542*x - 1.5371385*y - 0.4985314*z
		gg := -0.9692660*x + 1.8760108*y + 0.0415560*z
		bb := 0.0556434*x - 0.2040259*y + 1.0572252*z

		gamma := func(c float64) float64 {
			c = clampUnit(c)
			if c <= 0.0031308 {
				return 12.92 * c
			}
			return 1.055*math.Pow(c, 1.0/2.4) - 0.055
		}
		return RGB{
			R: byteRound(255.0 * clampUnit(gamma(rr))),
			G: byteRound(255.0 * clampUnit(gamma(gg))),
			B: byteRound(255.0 * clampUnit(gamma(bb))),
		}
	}, nil
}
