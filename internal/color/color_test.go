package color

import "testing"

func TestDecodeCMY(t *testing.T) {
	c := Color{Model: ModelCMY, Value: uint32(50) | uint32(100)<<8 | uint32(0)<<16}
	got := Decode(c, DefaultProfiles())
	want := RGB{R: 205, G: 155, B: 255}
	if got != want {
		t.Fatalf("Decode(CMY) = %+v, want %+v", got, want)
	}
}

func TestDecodeGrayscale(t *testing.T) {
	c := Color{Model: ModelGrayscale, Value: 128}
	got := Decode(c, DefaultProfiles())
	if got.R != 128 || got.G != 128 || got.B != 128 {
		t.Fatalf("Decode(Grayscale) = %+v", got)
	}
}

func TestDecodeRGBByteOrder(t *testing.T) {
	// wire value packs b,g,r in the low three bytes (m_colorValue low byte
	// is blue); RGBToSRGB receives them reordered to (r, g, b).
	c := Color{Model: ModelRGB, Value: uint32(0x10) | uint32(0x20)<<8 | uint32(0x30)<<16}
	got := Decode(c, DefaultProfiles())
	want := RGB{R: 0x30, G: 0x20, B: 0x10}
	if got != want {
		t.Fatalf("Decode(RGB) = %+v, want %+v", got, want)
	}
}

func TestDecodeHSBPureHues(t *testing.T) {
	cases := []struct {
		hue  int
		want RGB
	}{
		{0, RGB{255, 0, 0}},
		{120, RGB{0, 255, 0}},
		{240, RGB{0, 0, 255}},
	}
	for _, tc := range cases {
		value := uint32(tc.hue&0xff) | uint32((tc.hue>>8)&0xff)<<8 | uint32(255)<<16 | uint32(255)<<24
		c := Color{Model: ModelHSB, Value: value}
		got := Decode(c, DefaultProfiles())
		if got != tc.want {
			t.Errorf("hue %d: Decode(HSB) = %+v, want %+v", tc.hue, got, tc.want)
		}
	}
}

func TestDecodeHKSDuplicateTables(t *testing.T) {
	if &hksGreen[0] == &hksRed[0] {
		t.Fatalf("hksGreen should be an independent copy, not an alias, even though its contents match hksRed")
	}
	for i := range hksRed {
		if hksGreen[i] != hksRed[i] || hksBlue[i] != hksRed[i] {
			t.Fatalf("HKS tables diverged at index %d; this module intentionally keeps them identical", i)
		}
	}
}

func TestTintRGBBounds(t *testing.T) {
	r, g, b := TintRGB(0, 0, 0, 0.5)
	if r != 0.5 || g != 0.5 || b != 0.5 {
		t.Fatalf("TintRGB(black, 0.5) = (%v,%v,%v), want (0.5,0.5,0.5)", r, g, b)
	}
	r, g, b = TintRGB(1, 1, 1, 0.5)
	if r != 1 || g != 1 || b != 1 {
		t.Fatalf("TintRGB(white, 0.5) = (%v,%v,%v), want (1,1,1)", r, g, b)
	}
}

func TestTintLabClampsOutOfRangeFraction(t *testing.T) {
	l, a, b := TintLab(80, 10, -10, 1.5)
	if l != 80 || a != 10 || b != -10 {
		t.Fatalf("TintLab with tint>1 should clamp to 1 (identity): got (%v,%v,%v)", l, a, b)
	}
}

func TestParseICCRGBTransformMissingTag(t *testing.T) {
	if _, err := ParseICCRGBTransform([]byte{0, 0, 0, 0}); err == nil {
		t.Fatal("expected error for a profile too short to contain a tag table")
	}
}
