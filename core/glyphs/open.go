package glyphs

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font/fontregistry"
	"github.com/npillmayer/cjkanchor/core/font/ot"
	"github.com/npillmayer/cjkanchor/core/font/otquery"
	"gopkg.in/yaml.v3"
)

// DefaultMasterID is the ID of the single master of documents created from
// an OpenType font.
const DefaultMasterID = "m01"

// Option configures how a document is opened.
type Option func(*options)

type options struct {
	index   int
	renames map[string]string
}

// WithIndex selects a font within a font collection.
func WithIndex(index int) Option {
	return func(o *options) {
		o.index = index
	}
}

// WithGlyphRenames renames glyphs when a document is created from an OpenType
// font. It is used to give glyphs of CID-keyed fonts ('cid01234') friendly names.
func WithGlyphRenames(renames map[string]string) Option {
	return func(o *options) {
		o.renames = renames
	}
}

// Open opens a font document. Files with extension .yaml or .yml are decoded
// as saved documents, all other files are read as OpenType fonts. OpenType
// fonts are loaded through the global font registry.
//
// The document's Filepath is always path. SourceFont names the font file the
// document has been created from; for saved documents it is taken from the file.
func Open(path string, opts ...Option) (*Font, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		file, err := os.Open(path)
		if err != nil {
			return nil, core.WrapError(err, core.EMISSING, "cannot open document %s", path)
		}
		defer file.Close()
		doc, err := Decode(file)
		if err != nil {
			return nil, err
		}
		doc.Filepath = path
		return doc, nil
	}
	sf, err := fontregistry.GlobalRegistry().Font(path, o.index)
	if err != nil {
		return nil, err
	}
	otf, err := sf.OpenType()
	if err != nil {
		return nil, err
	}
	doc := FromOpenType(otf, o.renames)
	doc.Filepath, doc.SourceFont, doc.Index = path, path, o.index
	if doc.FamilyName == "" {
		doc.FamilyName = sf.Fontname
	}
	tracer().Infof("opened font %s with %d glyphs", path, len(doc.Glyphs))
	return doc, nil
}

// FromOpenType creates a document from an OpenType font. The document has a
// single master. Glyphs are named by the font's glyph names, optionally
// renamed by renames.
func FromOpenType(otf *ot.Font, renames map[string]string) *Font {
	doc := &Font{
		FamilyName: otquery.FamilyName(otf),
		UPM:        otf.UnitsPerEm(),
		Masters: []*Master{{
			ID:        DefaultMasterID,
			Name:      "Regular",
			Descender: float64(otf.Descender()),
		}},
	}
	names := otf.GlyphNames()
	doc.Glyphs = make([]*Glyph, 0, len(names))
	for gid, name := range names {
		if renamed, ok := renames[name]; ok {
			name = renamed
		}
		m, err := otquery.GlyphMetrics(otf, ot.GlyphIndex(gid))
		if err != nil {
			tracer().Errorf("glyph %s: %v", name, err)
		}
		layer := &Layer{Width: float64(m.AdvanceWidth), VertWidth: float64(m.AdvanceHeight)}
		if layer.VertWidth == 0 {
			layer.VertWidth = float64(doc.UPM)
		}
		doc.Glyphs = append(doc.Glyphs, &Glyph{
			Name:   name,
			Layers: map[string]*Layer{DefaultMasterID: layer},
		})
	}
	return doc
}

// Decode reads a document in YAML format.
func Decode(r io.Reader) (*Font, error) {
	doc := &Font{}
	if err := yaml.NewDecoder(r).Decode(doc); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot decode document")
	}
	if len(doc.Masters) == 0 {
		return nil, core.Error(core.EINVALID, "document has no masters")
	}
	return doc, nil
}

// Save writes the document in YAML format.
func (f *Font) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return core.WrapError(err, core.EINTERNAL, "cannot encode document")
	}
	return enc.Close()
}
