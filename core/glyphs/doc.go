/*
Package glyphs implements the font document that anchors are placed on.

A font document is what a font editor presents to the designer: a font with
one or more masters, and glyphs with one layer per master. Layers carry the
advance width and height and a list of named anchors. Documents are either
created from an OpenType font file or read from a YAML file previously written
by Save.

Mutations of a document should be wrapped into Update, which batches them and
notifies observers once at the end of the batch.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package glyphs

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'cjkanchor.anchors'
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.anchors")
}
