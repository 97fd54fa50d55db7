package anchor

import (
	"fmt"

	"github.com/npillmayer/cjkanchor/core/font/ot"
	"github.com/npillmayer/cjkanchor/core/font/otquery"
	"github.com/npillmayer/cjkanchor/core/glyphs"
)

// Names of the side-bearing anchors.
const (
	LSB = "LSB"
	RSB = "RSB"
	TSB = "TSB"
	BSB = "BSB"
)

// Metrics is the source of edge insets for Derive.
// It is implemented by *otquery.AlternateMetrics.
type Metrics interface {
	HasFeature(tag ot.Tag) bool
	EdgeInsets(glyph string) (otquery.EdgeInsets, bool)
}

// Options for Derive.
type Options struct {
	// CIDMap, if set, is consulted for glyphs which have no insets under their
	// own name: the glyph is then looked up under its CID name.
	CIDMap *CIDMap
}

// Stats reports what Derive did.
type Stats struct {
	Horizontal bool // 'palt' present, LSB/RSB were recomputed
	Vertical   bool // 'vpal' present, TSB/BSB were recomputed
	Glyphs     int  // glyphs with edge insets
	Placed     int  // anchors set
	Removed    int  // anchors removed and not set again
}

func (s Stats) String() string {
	return fmt.Sprintf("palt=%v vpal=%v glyphs=%d placed=%d removed=%d",
		s.Horizontal, s.Vertical, s.Glyphs, s.Placed, s.Removed)
}

// Derive places side-bearing anchors on all layers of all glyphs of doc.
// For a layer of width w and a master with descender d, in a font of size upm,
// with edge insets (left, right, top, bottom) of the glyph:
//
//	LSB = (left, upm/2 + d)          if 'palt' and left ≠ 0
//	RSB = (w - right, upm/2 + d)     if 'palt' and right ≠ 0
//	TSB = (w/2, upm - top + d)       if 'vpal' and top ≠ 0
//	BSB = (w/2, bottom + d)          if 'vpal' and bottom ≠ 0
//
// Existing anchors of a direction are removed if the font declares the feature
// for the direction, but the glyph has no insets for it.
// Derive does not batch its changes; clients should call it within doc.Update.
func Derive(doc *glyphs.Font, metrics Metrics, opts Options) Stats {
	stats := Stats{
		Horizontal: metrics.HasFeature(otquery.PALT),
		Vertical:   metrics.HasFeature(otquery.VPAL),
	}
	if !stats.Horizontal && !stats.Vertical {
		tracer().Infof("font has neither 'palt' nor 'vpal', no anchors placed")
		return stats
	}
	upm := float64(doc.UPM)
	for _, g := range doc.Glyphs {
		insets, ok := lookupInsets(g.Name, metrics, opts.CIDMap)
		if ok {
			stats.Glyphs++
		}
		for _, master := range doc.Masters {
			layer, found := g.Layers[master.ID]
			if !found {
				continue
			}
			center := glyphs.Point{X: layer.Width / 2, Y: upm/2 + master.Descender}
			if stats.Horizontal {
				stats.set(layer, LSB, ok && insets.Left != 0,
					glyphs.Point{X: float64(insets.Left), Y: center.Y})
				stats.set(layer, RSB, ok && insets.Right != 0,
					glyphs.Point{X: layer.Width - float64(insets.Right), Y: center.Y})
			}
			if stats.Vertical {
				stats.set(layer, TSB, ok && insets.Top != 0,
					glyphs.Point{X: center.X, Y: upm - float64(insets.Top) + master.Descender})
				stats.set(layer, BSB, ok && insets.Bottom != 0,
					glyphs.Point{X: center.X, Y: float64(insets.Bottom) + master.Descender})
			}
		}
	}
	tracer().Infof("anchors derived: %s", stats)
	return stats
}

// set places anchor name at pos if place is true, otherwise removes it.
func (s *Stats) set(layer *glyphs.Layer, name string, place bool, pos glyphs.Point) {
	if place {
		layer.UpsertAnchor(name, pos)
		s.Placed++
	} else if layer.RemoveAnchor(name) {
		s.Removed++
	}
}

func lookupInsets(name string, metrics Metrics, cidmap *CIDMap) (otquery.EdgeInsets, bool) {
	if insets, ok := metrics.EdgeInsets(name); ok {
		return insets, true
	}
	if cidmap != nil {
		if cid, ok := cidmap.CID(name); ok {
			return metrics.EdgeInsets(cid)
		}
	}
	return otquery.EdgeInsets{}, false
}
