package otquery

import (
	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font/ot"
)

// FontMetricsInfo contains the global metrics of a font which are relevant
// for placing anchors, in font units.
type FontMetricsInfo struct {
	UnitsPerEm int
	Ascent     int
	Descent    int // typographic descender, usually negative
}

// FontMetrics retrieves selected metrics of a font. Ascent and descent are
// taken from OS/2 typographic metrics, if present, otherwise from 'hhea'.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{
		UnitsPerEm: otf.UnitsPerEm(),
		Ascent:     int(otf.HHea.Ascender),
		Descent:    otf.Descender(),
	}
	if otf.OS2 != nil && otf.OS2.HasTypoMetrics() {
		tracer().Debugf("using typographic metrics of OS/2")
		metrics.Ascent = int(otf.OS2.TypoAscender)
	}
	return metrics
}

// GlyphMetricsInfo contains the metrics of a single glyph, in font units.
// Vertical metrics are 0 for fonts without a 'vmtx' table.
type GlyphMetricsInfo struct {
	AdvanceWidth  int
	LSB           int // left side bearing
	AdvanceHeight int
	TSB           int // top side bearing
}

// GlyphMetrics retrieves horizontal and vertical metrics for a glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) (GlyphMetricsInfo, error) {
	m := GlyphMetricsInfo{}
	adv, lsb, ok := otf.HMtx.Metrics(gid)
	if !ok {
		return m, core.Error(core.EMISSING, "no horizontal metrics for glyph %d", gid)
	}
	m.AdvanceWidth, m.LSB = int(adv), int(lsb)
	if otf.VMtx != nil {
		if adv, tsb, ok := otf.VMtx.Metrics(gid); ok {
			m.AdvanceHeight, m.TSB = int(adv), int(tsb)
		}
	}
	return m, nil
}

// GlyphMetricsByName retrieves horizontal and vertical metrics for a glyph,
// identified by its glyph name.
func GlyphMetricsByName(otf *ot.Font, name string) (GlyphMetricsInfo, error) {
	gid, ok := otf.GlyphByName(name)
	if !ok {
		return GlyphMetricsInfo{}, core.Error(core.EMISSING, "no glyph named %q in font", name)
	}
	return GlyphMetrics(otf, gid)
}
