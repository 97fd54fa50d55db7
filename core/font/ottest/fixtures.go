package ottest

// Glyph IDs of the CJK sample font.
const (
	GlyphNotdef = iota
	GlyphA
	GlyphComma   // uni3001 IDEOGRAPHIC COMMA
	GlyphBracket // uni300C LEFT CORNER BRACKET
	GlyphBar     // uni30FC KATAKANA-HIRAGANA PROLONGED SOUND MARK
)

// CJKSample returns a small CJK font with proportional alternate metrics.
// The font has UPM 1000, a typographic descender of -120 and an hhea
// descender of -150. Lookups are:
//
//	0  single adjustment, format 2: comma XAdv -520; bracket XPla -450, XAdv -450
//	1  single adjustment, format 2: comma YAdv -480; bracket YPla 420, YAdv -420
//	2  extension, single adjustment format 1: bar XPla -100, XAdv -200
//	3  pair adjustment (not interpreted)
//
// 'palt' references lookups 0 and 2 (from two feature records), 'vpal' lookup 1,
// 'kern' lookup 3. withPalt and withVpal select which of the proportional
// features are present; 'kern' is always present.
func CJKSample(withPalt, withVpal bool) Font {
	typoDesc := int16(-120)
	f := Font{
		Outlines:      TrueType,
		UnitsPerEm:    1000,
		Ascender:      880,
		Descender:     -150,
		TypoDescender: &typoDesc,
		Family:        "Sample Mincho",
		Vertical:      true,
		Glyphs: []Glyph{
			{Name: ".notdef", Advance: 1000, VAdvance: 1000},
			{Name: "A", Advance: 600, LSB: 20, VAdvance: 1000, TSB: 160},
			{Name: "uni3001", Advance: 1000, LSB: 90, VAdvance: 1000, TSB: 560},
			{Name: "uni300C", Advance: 1000, LSB: 480, VAdvance: 1000, TSB: 60},
			{Name: "uni30FC", Advance: 1000, LSB: 100, VAdvance: 1000, TSB: 440},
		},
		Lookups: []Lookup{
			{
				Glyphs: []uint16{GlyphComma, GlyphBracket},
				Values: []Value{{XAdvance: -520}, {XPlacement: -450, XAdvance: -450}},
			},
			{
				Glyphs: []uint16{GlyphComma, GlyphBracket},
				Values: []Value{{YAdvance: -480}, {YPlacement: 420, YAdvance: -420}},
			},
			{
				Format:    1,
				Glyphs:    []uint16{GlyphBar},
				Values:    []Value{{XPlacement: -100, XAdvance: -200}},
				Extension: true,
			},
			{Type: 2},
		},
	}
	if withPalt {
		f.Features = append(f.Features, Feature{Tag: "palt", Lookups: []uint16{2, 0}})
	}
	f.Features = append(f.Features, Feature{Tag: "kern", Lookups: []uint16{3}})
	if withVpal {
		f.Features = append(f.Features, Feature{Tag: "vpal", Lookups: []uint16{1}})
	}
	if withPalt {
		f.Features = append(f.Features, Feature{Tag: "palt", Lookups: []uint16{0}})
	}
	return f
}

// PlainSample returns a font without a GPOS table.
func PlainSample() Font {
	f := CJKSample(false, false)
	f.Features, f.Lookups = nil, nil
	return f
}

// CIDSample returns a CID-keyed CFF version of the CJK sample, with glyphs
// named 'cid00000', 'cid00034', 'cid00634', 'cid00651', 'cid00660' (CIDs of
// Adobe-Japan1).
func CIDSample(withPalt, withVpal bool) Font {
	f := CJKSample(withPalt, withVpal)
	f.Outlines = CIDKeyedCFF
	cids := []uint16{0, 34, 634, 651, 660}
	glyphs := make([]Glyph, len(f.Glyphs))
	copy(glyphs, f.Glyphs)
	for i := range glyphs {
		glyphs[i].CID = cids[i]
	}
	f.Glyphs = glyphs
	return f
}
