/*
Package anchor places side-bearing anchors on the glyphs of CJK fonts.

CJK fonts often come with proportional alternate metrics, i.e. the OpenType
features 'palt' (horizontal) and 'vpal' (vertical). They tell where the ink of
a full-width glyph starts and ends within its em box. Package anchor turns
these metrics into four anchors per glyph layer:

	LSB   left side bearing, on the horizontal center line
	RSB   right side bearing, on the horizontal center line
	TSB   top side bearing, on the vertical center line
	BSB   bottom side bearing, on the vertical center line

Anchors for one direction are only touched if the font declares the
corresponding feature. Running the import twice yields the same anchors.

The importer is meant to run whenever a font document is opened from an
OpenType file; see Importer.DocumentOpened.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package anchor

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'cjkanchor.anchors'
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.anchors")
}
