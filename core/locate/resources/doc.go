/*
Package resources resolves fonts for an application.

As resource loading may be a time-consuming task, functions named

	Resolve…(…)

will return a resource-specific promise type, which the client will call later
to receive the loaded resource. The call to the promise-function will then block
until loading has completed.

Fonts are searched for as font files, then as system fonts, and finally in the
list of fonts known to fontconfig (https://www.freedesktop.org/wiki/Software/fontconfig/),
if fontconfig is configured.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package resources

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'cjkanchor.resources'.
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.resources")
}
