package otquery

import (
	"github.com/npillmayer/cjkanchor/core/font/ot"
)

// FontType returns the font type, encoded in the font header, as a string.
func FontType(otf *ot.Font) string {
	if otf.Header == nil {
		return "<empty>"
	}
	switch otf.Header.FontType {
	case 0x4f54544f: // OTTO
		return "OpenType (CFF outlines)"
	case 0x00010000: // TrueType
		return "TrueType"
	case 0x74727565: // true
		return "TrueType (Mac legacy)"
	}
	return "<unknown>"
}

// FamilyName returns the family name of a font, as stated in table 'name'.
// The typographic family name is preferred. If neither is present, "" is returned.
func FamilyName(otf *ot.Font) string {
	if name := otf.Name(ot.NameIDTypographicFamily); name != "" {
		return name
	}
	return otf.Name(ot.NameIDFamily)
}

// HasFeature is a predicate: does the font's GPOS table declare a feature
// with the given tag? A font without a GPOS table has no features.
func HasFeature(otf *ot.Font, tag ot.Tag) bool {
	if otf.Layout.GPos == nil {
		return false
	}
	for _, rec := range otf.Layout.GPos.FeatureList {
		if rec.Tag == tag {
			return true
		}
	}
	return false
}
