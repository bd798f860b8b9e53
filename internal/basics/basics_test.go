package basics

import "testing"

func TestAlmostZeroAndEqual(t *testing.T) {
	if !AlmostZero(1e-9) {
		t.Fatalf("AlmostZero(1e-9) = false, want true")
	}
	if AlmostZero(1e-3) {
		t.Fatalf("AlmostZero(1e-3) = true, want false")
	}
	if !AlmostEqual(1.0000001, 1.0000002) {
		t.Fatalf("AlmostEqual should tolerate sub-epsilon difference")
	}
	if AlmostEqual(1.0, 1.1) {
		t.Fatalf("AlmostEqual should not tolerate 0.1 difference")
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{0.5, 1},
		{-0.5, -1},
		{2.4, 2},
		{2.6, 3},
		{-2.6, -3},
		{0, 0},
	}
	for _, c := range cases {
		if got := Round(c.in); got != c.want {
			t.Errorf("Round(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestUnpackMSBBits(t *testing.T) {
	// 0b10110000 0b11000000 -> bits 1,0,1,1,0,0,0,0,1,1 for the first 10
	data := []byte{0b10110000, 0b11000000}
	bs := UnpackMSBBits(data, 10)
	want := []bool{true, false, true, true, false, false, false, false, true, true}
	for i, w := range want {
		if got := bs.Test(uint(i)); got != w {
			t.Errorf("bit %d = %v, want %v", i, got, w)
		}
	}
}

func TestUnpackMSBBitsShortData(t *testing.T) {
	bs := UnpackMSBBits([]byte{0xff}, 16)
	for i := uint(0); i < 8; i++ {
		if !bs.Test(i) {
			t.Errorf("bit %d = false, want true", i)
		}
	}
	for i := uint(8); i < 16; i++ {
		if bs.Test(i) {
			t.Errorf("bit %d = true, want false (no data)", i)
		}
	}
}

func TestClampByte(t *testing.T) {
	cases := []struct {
		in   int
		want byte
	}{
		{-10, 0},
		{0, 0},
		{128, 128},
		{255, 255},
		{300, 255},
	}
	for _, c := range cases {
		if got := ClampByte(c.in); got != c.want {
			t.Errorf("ClampByte(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
