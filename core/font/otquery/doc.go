/*
Package otquery queries metrics and layout information from OpenType fonts.

Package ot exposes the tables of a font more or less as they are stored in the
font binary. Package otquery knows which tables to address for a question and
how to combine them. Its main client is the anchor importer, which needs

▪︎ the presence of the proportional alternate metrics features 'palt' and 'vpal',

▪︎ horizontal and vertical glyph metrics,

▪︎ the positioning adjustments of 'palt' and 'vpal', folded into edge insets per glyph.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'cjkanchor.fonts'
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.fonts")
}
