package styles

import (
	"testing"

	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/MeKo-Christian/cdrimport/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterializeBitmap1bpp(t *testing.T) {
	// 2x1 monochrome row: first pixel set (white), second clear (black).
	bitmap := []byte{0x80}
	bmp, ok := MaterializeBitmap(6, 2, 1, 1, nil, bitmap, color.DefaultProfiles())
	require.True(t, ok)
	assert.Equal(t, byte('B'), bmp[0])
	assert.Equal(t, byte('M'), bmp[1])
	// Pixel array starts right after the 14+40 byte header.
	pixels := bmp[54:]
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0x00}, pixels[0:4], "first pixel should be white BGRA")
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, pixels[4:8], "second pixel should be black BGRA")
}

func TestMaterializeBitmapUnsupportedDropsImage(t *testing.T) {
	_, ok := MaterializeBitmap(3, 2, 1, 16, nil, []byte{0, 0, 0, 0}, color.DefaultProfiles())
	assert.False(t, ok)
}

func TestMaterializeBitmapPaletteIndexed(t *testing.T) {
	palette := []uint32{0x000000, 0xffffff}
	bitmap := []byte{0x01, 0x00}
	bmp, ok := MaterializeBitmap(0, 2, 1, 8, palette, bitmap, color.DefaultProfiles())
	require.True(t, ok)
	assert.Len(t, bmp, 14+40+2*4)
}

func TestCollectPageSizeBeforeFirstPage(t *testing.T) {
	c := NewCollector(state.New())
	c.CollectPageSize(10, 20, -5, -10)
	c.CollectPage()
	require.Len(t, c.State.Pages, 1)
	assert.Equal(t, 10.0, c.State.Pages[0].Width)
}

func TestCollectPageSizePatchesLastPage(t *testing.T) {
	c := NewCollector(state.New())
	c.CollectPage() // pushes the 8.5x11 default
	c.CollectPageSize(3, 4, 0, 0)
	require.Len(t, c.State.Pages, 1)
	assert.Equal(t, 3.0, c.State.Pages[0].Width)
}

func TestCollectTextSingleRunNarrow(t *testing.T) {
	c := NewCollector(state.New())
	data := []byte("AB")
	charDescriptions := []byte{0x00, 0x00}
	c.CollectText(1, 0, data, charDescriptions, nil)

	lines := c.State.Texts[1]
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Runs, 1)
	assert.Equal(t, "AB", lines[0].Runs[0].String)
}

func TestCollectTextSplitsOnDescriptionChange(t *testing.T) {
	c := NewCollector(state.New())
	data := []byte("AB")
	charDescriptions := []byte{0x00, 0x02}
	c.CollectText(1, 0, data, charDescriptions, nil)

	lines := c.State.Texts[1]
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Runs, 2)
	assert.Equal(t, "A", lines[0].Runs[0].String)
	assert.Equal(t, "B", lines[0].Runs[1].String)
}

func TestCollectTextWideRun(t *testing.T) {
	c := NewCollector(state.New())
	// U+0041 'A', U+0042 'B' as UTF-16LE, description byte 0x01 = wide.
	data := []byte{0x41, 0x00, 0x42, 0x00}
	charDescriptions := []byte{0x01, 0x01}
	c.CollectText(1, 0, data, charDescriptions, nil)

	lines := c.State.Texts[1]
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Runs, 1)
	assert.Equal(t, "AB", lines[0].Runs[0].String)
}

func TestCollectFontRecordsNameAndEncoding(t *testing.T) {
	c := NewCollector(state.New())
	c.CollectFont(3, 0xCC, "Garamond")

	f, ok := c.State.Fonts[3]
	require.True(t, ok)
	assert.Equal(t, "Garamond", f.Name)
	assert.Equal(t, uint16(0xCC), f.Encoding)
}

func TestCollectPreviewBitmapCopiesPayload(t *testing.T) {
	c := NewCollector(state.New())
	payload := []byte{'B', 'M', 1, 2, 3}
	c.CollectPreviewBitmap(payload)
	payload[2] = 9

	require.Len(t, c.State.Preview, 5)
	assert.Equal(t, byte(1), c.State.Preview[2], "stored preview must not alias the caller's buffer")
}

func TestCollectStldAndGetRecursedStyle(t *testing.T) {
	c := NewCollector(state.New())
	cs := state.NewCharStyle()
	cs.FontName = "Arial"
	c.CollectStld(5, cs)

	resolved, ok := c.State.GetRecursedStyle(5)
	require.True(t, ok)
	assert.Equal(t, "Arial", resolved.FontName)
}
