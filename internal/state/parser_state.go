package state

import "github.com/MeKo-Christian/cdrimport/internal/color"

// ParserState accumulates everything a styles-collector pass resolves and a
// content-collector pass later reads back: per-id bitmaps/patterns/vector
// sub-documents, the page list, the color palette, resolved text, the
// charStyle inheritance table, and the document's (or default) ICC
// transforms. It is the Go equivalent of CDRParserState's member fields
// (libcdr/src/lib/CDRCollector.h).
type ParserState struct {
	Bitmaps  map[uint32][]byte
	Patterns map[uint32]Pattern
	Vectors  map[uint32][]byte
	Pages    []Page
	Palette  map[uint32]color.Color
	Texts    map[uint32][]TextLine
	Fonts    map[uint16]Font

	// Preview holds the document's `DISP` preview raster, rewrapped as a
	// complete BMP file. Debugging aid only; nothing in the content pass
	// reads it back.
	Preview []byte

	// FillStyles and LineStyles hold `fild`/`outl` records keyed by their
	// document id, for objects that reference a style by id rather than
	// carrying it inline.
	FillStyles  map[uint32]FillStyle
	LineStyles  map[uint32]LineStyle

	charStyles map[uint32]CharStyle

	Profiles color.Profiles
}

// New returns a ParserState with every map initialized and Profiles
// defaulted to sRGB/SWOP/D50-Lab, ready to be overridden by a document's
// `iccd` record.
func New() *ParserState {
	return &ParserState{
		Bitmaps:    make(map[uint32][]byte),
		Patterns:   make(map[uint32]Pattern),
		Vectors:    make(map[uint32][]byte),
		Palette:    make(map[uint32]color.Color),
		Texts:      make(map[uint32][]TextLine),
		Fonts:      make(map[uint16]Font),
		FillStyles: make(map[uint32]FillStyle),
		LineStyles: make(map[uint32]LineStyle),
		charStyles: make(map[uint32]CharStyle),
		Profiles:   color.DefaultProfiles(),
	}
}

// AddCharStyle records a charStyle record by id, as read off a `styd`/`stlt`
// chunk, for later resolution by GetRecursedStyle.
func (s *ParserState) AddCharStyle(cs CharStyle) {
	s.charStyles[cs.ID] = cs
}

// CharStyle looks up a previously recorded charStyle by id without
// resolving its inheritance chain.
func (s *ParserState) CharStyle(id uint32) (CharStyle, bool) {
	cs, ok := s.charStyles[id]
	return cs, ok
}

// maxStyleDepth bounds the parentId walk against cyclic or runaway chains;
// no CDR document nests character styles anywhere near this deep.
const maxStyleDepth = 64

// GetRecursedStyle resolves id's full inheritance chain, walking parentId
// links from id up to its root ancestor, then applying Override top-down
// (root first, id's own record last) so that a leaf style's explicitly-set
// fields always win over an ancestor's. This is a port of
// CDRParserState::getRecursedStyle (libcdr/src/lib/CDRCollector.cpp),
// generalized to return a plain (CharStyle, bool) rather than mutating a
// caller-supplied pointer.
func (s *ParserState) GetRecursedStyle(id uint32) (CharStyle, bool) {
	var chain []CharStyle
	visited := make(map[uint32]bool)

	current := id
	for depth := 0; depth < maxStyleDepth; depth++ {
		cs, ok := s.charStyles[current]
		if !ok {
			break
		}
		if visited[current] {
			break // cyclic parentId chain
		}
		visited[current] = true
		chain = append(chain, cs)
		if cs.ParentID == 0 || cs.ParentID == current {
			break
		}
		current = cs.ParentID
	}
	if len(chain) == 0 {
		return CharStyle{}, false
	}

	result := NewCharStyle()
	for i := len(chain) - 1; i >= 0; i-- {
		result = result.Override(chain[i])
	}
	return result, true
}
