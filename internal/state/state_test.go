package state

import (
	"testing"

	"github.com/MeKo-Christian/cdrimport/internal/color"
	"github.com/stretchr/testify/assert"
)

func TestNewCharStyleHasUnsetSentinels(t *testing.T) {
	cs := NewCharStyle()
	assert.Equal(t, int32(CharSetUnset), cs.CharSet)
	assert.Equal(t, int32(LineKindUnset), cs.LineStyle.Kind)
	assert.Equal(t, int32(FillKindUnset), cs.FillStyle.Kind)
}

func TestOverrideSkipsUnsetFields(t *testing.T) {
	base := NewCharStyle()
	base.FontName = "Arial"
	base.FontSize = 12
	base.Align = 1
	base.LeftIndent, base.FirstIndent, base.RightIndent = 1, 2, 3

	empty := NewCharStyle() // every field left unset
	result := base.Override(empty)

	assert.Equal(t, base, result, "overriding with an all-unset CharStyle must change nothing")
}

func TestOverrideAppliesSuppliedFields(t *testing.T) {
	base := NewCharStyle()
	base.FontName = "Arial"
	base.FontSize = 12

	override := NewCharStyle()
	override.FontName = "Times"
	override.CharSet = 0 // explicitly supplied (not the sentinel), must win
	override.FontSize = 0 // treated as "not supplied" (almost-zero), must NOT win

	result := base.Override(override)
	assert.Equal(t, "Times", result.FontName)
	assert.Equal(t, int32(0), result.CharSet)
	assert.Equal(t, 12.0, result.FontSize, "almost-zero fontSize in override must not clobber base")
}

func TestOverrideIndentsAreAllOrNothing(t *testing.T) {
	base := NewCharStyle()
	base.LeftIndent, base.FirstIndent, base.RightIndent = 1, 2, 3

	override := NewCharStyle()
	override.LeftIndent = 5 // only one of three set

	result := base.Override(override)
	assert.Equal(t, 1.0, result.LeftIndent, "partial indent triple must not override")
}

func TestOverrideCopiesEmbeddedStylesAsUnits(t *testing.T) {
	base := NewCharStyle()
	base.LineStyle = LineStyle{Kind: 0, Width: 1}
	base.FillStyle = FillStyle{Kind: 0, Color1: color.Color{Model: color.ModelRGB, Value: 0x00ff00}}

	override := NewCharStyle()
	override.LineStyle = LineStyle{Kind: 2, Width: 9}

	result := base.Override(override)
	assert.Equal(t, int32(2), result.LineStyle.Kind)
	assert.Equal(t, 9.0, result.LineStyle.Width)
	assert.Equal(t, base.FillStyle, result.FillStyle, "override's unset FillStyle must not replace base's")
}

func TestGetRecursedStyleWalksParentChain(t *testing.T) {
	s := New()
	root := NewCharStyle()
	root.ID = 1
	root.FontName = "Arial"
	root.FontSize = 10
	s.AddCharStyle(root)

	child := NewCharStyle()
	child.ID = 2
	child.ParentID = 1
	child.FontSize = 20 // overrides the root's size, keeps its font name
	s.AddCharStyle(child)

	resolved, ok := s.GetRecursedStyle(2)
	assert.True(t, ok)
	assert.Equal(t, "Arial", resolved.FontName)
	assert.Equal(t, 20.0, resolved.FontSize)
}

func TestGetRecursedStyleBreaksCycles(t *testing.T) {
	s := New()
	a := NewCharStyle()
	a.ID = 1
	a.ParentID = 2
	s.AddCharStyle(a)

	b := NewCharStyle()
	b.ID = 2
	b.ParentID = 1
	s.AddCharStyle(b)

	resolved, ok := s.GetRecursedStyle(1)
	assert.True(t, ok, "a cyclic chain should still resolve using the styles it did see")
	_ = resolved
}

func TestGetRecursedStyleUnknownID(t *testing.T) {
	s := New()
	_, ok := s.GetRecursedStyle(999)
	assert.False(t, ok)
}

func TestImageMiddlePoints(t *testing.T) {
	img := Image{X1: 0, X2: 10, Y1: 4, Y2: 8}
	assert.Equal(t, 5.0, img.MiddleX())
	assert.Equal(t, 6.0, img.MiddleY())
}
