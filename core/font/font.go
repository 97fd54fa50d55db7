/*
Package font is for loading font files.

A "scalable font" is a font, i.e. a variant of a typeface with a certain
weight, slant, etc. Font files may contain a single font (*.otf, *.ttf) or
a collection of fonts (*.otc, *.ttc), in which case fonts are addressed
by their index within the collection.

Package font will read a font file completely into memory and hand out the
binary data for clients to parse. Parsing of OpenType tables is done in
package ot.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package font

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font/ot"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/sfnt"
)

// tracer traces with key 'cjkanchor.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.fonts")
}

// ScalableFont is a font loaded from a font file.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Index    int        // index of the font within a collection, 0 otherwise
	Binary   []byte     // raw data of the complete font file
	SFNT     *sfnt.Font // the font's container; nil if not decodable by x/image
	parsed   sync.Once
	otf      *ot.Font
	otfErr   error
}

// openTypeExtensions are the file extensions of fonts we are able to
// read anchors from.
var openTypeExtensions = []string{".otf", ".ttf", ".otc", ".ttc"}

// IsOpenTypeFile is a predicate: does the path denote an OpenType font file
// (or collection), judging from its file extension? Case is ignored.
func IsOpenTypeFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range openTypeExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadOpenTypeFont loads a font from a file. For font collections, index
// selects the font; for single fonts index must be 0.
func LoadOpenTypeFont(fontfile string, index int) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez, index)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	if f.Fontname == "" {
		f.Fontname = NormalizeFontname(filepath.Base(fontfile))
	}
	return f, nil
}

// ParseOpenTypeFont wraps font binary data into a ScalableFont.
// It checks that index is valid for the font data, but does not interpret
// any font tables except for the font's name.
func ParseOpenTypeFont(fbytes []byte, index int) (*ScalableFont, error) {
	n, err := ot.NumFonts(fbytes)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= n {
		return nil, core.Error(core.EINVALID, "font index %d out of range, font file contains %d font(s)", index, n)
	}
	f := &ScalableFont{Binary: fbytes, Index: index}
	if ot.IsCollection(fbytes) {
		var coll *sfnt.Collection
		if coll, err = sfnt.ParseCollection(fbytes); err == nil {
			f.SFNT, err = coll.Font(index)
		}
	} else {
		f.SFNT, err = sfnt.Parse(fbytes)
	}
	if err != nil {
		// ot will report errors for the tables we are really interested in
		tracer().Debugf("font not decodable by sfnt: %v", err)
		f.SFNT = nil
		return f, nil
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return f, nil
}

// OpenType parses the font tables of f. Tables are parsed once, subsequent
// calls return the same result.
func (f *ScalableFont) OpenType() (*ot.Font, error) {
	f.parsed.Do(func() {
		f.otf, f.otfErr = ot.ParseFont(f.Binary, f.Index)
		if f.otfErr != nil {
			f.otf = nil
			return
		}
		if f.SFNT != nil && int(f.SFNT.UnitsPerEm()) != f.otf.UnitsPerEm() {
			tracer().Errorf("font %s: units per em differ, %d vs %d", f.Fontname,
				f.SFNT.UnitsPerEm(), f.otf.UnitsPerEm())
		}
	})
	return f.otf, f.otfErr
}

// GlyphIndex returns the glyph for a code-point, using the font's cmap table.
// If the font does not map r, or the font has no cmap table, false is returned.
func (f *ScalableFont) GlyphIndex(r rune) (ot.GlyphIndex, bool) {
	if f.SFNT == nil {
		return 0, false
	}
	gid, err := f.SFNT.GlyphIndex(nil, r)
	if err != nil || gid == 0 {
		return 0, false
	}
	return ot.GlyphIndex(gid), true
}

// Locate resolves a font name to a font file path. If name is a path of an
// existing file, it is returned unchanged. Otherwise name is looked up
// as a system font.
func Locate(name string) (string, error) {
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return name, nil
	}
	fpath, err := findfont.Find(name) // try to find as system font
	if err != nil || fpath == "" {
		return "", core.WrapError(err, core.EMISSING, "font not found: %s", name)
	}
	tracer().Debugf("%s is a system font at %s", name, fpath)
	return fpath, nil
}

// NormalizeFontname strips the file extension from a font name and lower-cases it.
// Spaces are replaced by underscores.
func NormalizeFontname(fname string) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	return fname
}
