/*
Package ot provides access to the OpenType font tables needed for deriving
side-bearing anchors of CJK fonts.

Package ot will not interpret the tables beyond what is needed to expose them
to clients: it knows about table directories (including font collections),
metrics tables, glyph names and the structure of the GPOS table. Clients will
have to check for the availability of information and consult the appropriate
table(s) themselves. Functions for getting layout information out of a font
are homed in sister package otquery.

Package ot keeps the font binary in memory and hands out views into it,
without copying out too much into separate buffers. Tables therefore remain
valid as long as the byte slice given to Parse is not modified.

Font bugs: many fonts in the wild contain entries that, strictly speaking, infringe
upon the OT specification, but an application using them should not fail because
of recoverable errors. Package ot will skip over sub-tables it does not understand
and report errors only for structures it actually has to read.

# Status

No variable fonts are supported. Of the GPOS lookup types, only single
adjustments (type 1) are decoded in full, all other lookup types are
recorded with their format only. Extension lookups (type 9) are resolved
to the lookup type they wrap.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package ot

import (
	"fmt"

	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/schuko/tracing"
)

// Code comments often cite passages from the OpenType specification
// version 1.8.4; see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// tracer writes to trace with key 'cjkanchor.fonts'
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.fonts")
}

// errFontFormat produces user level errors for font parsing.
func errFontFormat(format string, v ...interface{}) error {
	return core.Error(core.EINVALID, "OpenType font format: %s", fmt.Sprintf(format, v...))
}
