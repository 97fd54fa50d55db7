package ot

import "fmt"

// Coverage defines a unique index value, the Coverage Index, for each
// covered glyph of a lookup subtable. Coverage tables come in two formats:
// format 1 lists glyph IDs, format 2 lists ranges of glyph IDs.
//
// We decode coverage tables into a flat list of glyphs in coverage order,
// which is what clients iterating over adjustments need.
type Coverage struct {
	Format uint16
	glyphs []GlyphIndex
}

// Len returns the number of glyphs covered.
func (c Coverage) Len() int {
	return len(c.glyphs)
}

// Glyphs returns the covered glyphs, in coverage index order.
func (c Coverage) Glyphs() []GlyphIndex {
	return c.glyphs
}

// Match returns the coverage index for glyph g, if g is covered.
func (c Coverage) Match(g GlyphIndex) (int, bool) {
	// OpenType requires sorted glyphs; we do not rely on it
	for i, cg := range c.glyphs {
		if cg == g {
			return i, true
		}
	}
	return 0, false
}

// Coverage format 1:
//
//	uint16  coverageFormat
//	uint16  glyphCount
//	uint16  glyphArray[glyphCount]
//
// Coverage format 2:
//
//	uint16       coverageFormat
//	uint16       rangeCount
//	RangeRecord  rangeRecords[rangeCount]   { startGlyphID, endGlyphID, startCoverageIndex }
func parseCoverage(b binarySegm) (Coverage, error) {
	c := Coverage{}
	var err error
	if c.Format, err = b.u16(0); err != nil {
		return c, err
	}
	tracer().Debugf("parsing Coverage of format %d", c.Format)
	switch c.Format {
	case 1:
		gids, err := b.u16Array(2)
		if err != nil {
			return c, err
		}
		c.glyphs = make([]GlyphIndex, len(gids))
		for i, g := range gids {
			c.glyphs[i] = GlyphIndex(g)
		}
	case 2:
		count, err := b.u16(2)
		if err != nil {
			return c, err
		}
		// ranges have to be sorted by glyph, and coverage indices have to
		// continue where the previous range ended
		next := -1
		for i := 0; i < int(count); i++ {
			rec, err := b.view(4+i*6, 6)
			if err != nil {
				return c, err
			}
			from, to, start := rec.U16(0), rec.U16(2), int(rec.U16(4))
			if to < from {
				return c, fmt.Errorf("coverage range %d..%d inverted", from, to)
			}
			if int(from) < next {
				return c, fmt.Errorf("coverage range %d..%d overlaps previous range", from, to)
			}
			if start != len(c.glyphs) {
				return c, fmt.Errorf("coverage range %d..%d starts at index %d, expected %d",
					from, to, start, len(c.glyphs))
			}
			for g := int(from); g <= int(to); g++ {
				c.glyphs = append(c.glyphs, GlyphIndex(g))
			}
			next = int(to) + 1
		}
	default:
		return c, fmt.Errorf("unknown coverage format %d", c.Format)
	}
	return c, nil
}
