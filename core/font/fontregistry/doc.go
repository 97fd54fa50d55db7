/*
Package fontregistry manages a registry for loaded fonts.

Fonts are registered under a key made from the font file path and the index
of the font within a collection, see Key.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package fontregistry

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'cjkanchor.fonts'
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.fonts")
}
