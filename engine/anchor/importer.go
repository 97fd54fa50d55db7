package anchor

import (
	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font"
	"github.com/npillmayer/cjkanchor/core/font/fontregistry"
	"github.com/npillmayer/cjkanchor/core/font/otquery"
	"github.com/npillmayer/cjkanchor/core/glyphs"
	"github.com/npillmayer/schuko"
)

// Configuration keys read by the importer.
const (
	ConfCIDMap = "cidmap" // path of a CID map file, optional
)

// Importer reads alternate metrics from the font file of a document and
// places side-bearing anchors on the document's glyphs.
type Importer struct {
	conf   schuko.Configuration
	cidmap *CIDMap
	loaded bool
	last   Stats // of the latest import
}

// NewImporter creates an importer. conf may be nil.
func NewImporter(conf schuko.Configuration) *Importer {
	return &Importer{conf: conf}
}

// WithCIDMap sets a CID map, overriding the configuration.
func (imp *Importer) WithCIDMap(m *CIDMap) *Importer {
	imp.cidmap, imp.loaded = m, true
	return imp
}

// DocumentOpened is a hook for glyphs.Host. Documents which have not been
// opened from an OpenType file are ignored, including saved documents created
// from one.
func (imp *Importer) DocumentOpened(doc *glyphs.Font) error {
	if doc == nil || !font.IsOpenTypeFile(doc.Filepath) {
		return nil
	}
	_, err := imp.Import(doc)
	return err
}

// LastStats returns the statistics of the latest call to Import.
func (imp *Importer) LastStats() Stats {
	return imp.last
}

// Import reads the font doc has been created from (doc.SourceFont) and derives
// anchors for doc. The font is taken from the global font registry.
// The font is completely read and parsed before the document is changed;
// if reading fails, doc stays untouched.
// A font without 'palt' and 'vpal' is not an error; Import then does nothing.
func (imp *Importer) Import(doc *glyphs.Font) (Stats, error) {
	imp.last = Stats{}
	if doc.SourceFont == "" {
		return Stats{}, core.Error(core.EMISSING, "document %s has no source font", doc.Filepath)
	}
	sf, err := fontregistry.GlobalRegistry().Font(doc.SourceFont, doc.Index)
	if err != nil {
		return Stats{}, err
	}
	otf, err := sf.OpenType()
	if err != nil {
		return Stats{}, err
	}
	metrics := otquery.NewAlternateMetrics(otf)
	if !metrics.HasMetrics() {
		tracer().Infof("%s has no proportional alternate metrics", doc.SourceFont)
		return Stats{}, nil
	}
	cidmap, err := imp.cidMap()
	if err != nil {
		return Stats{}, err
	}
	var stats Stats
	err = doc.Update(func(f *glyphs.Font) error {
		stats = Derive(f, metrics, Options{CIDMap: cidmap})
		return nil
	})
	if err != nil {
		return stats, core.WrapError(err, core.EINTERNAL, "cannot update document")
	}
	imp.last = stats
	return stats, nil
}

func (imp *Importer) cidMap() (*CIDMap, error) {
	if imp.loaded {
		return imp.cidmap, nil
	}
	if imp.conf == nil || imp.conf.GetString(ConfCIDMap) == "" {
		imp.loaded = true
		return nil, nil
	}
	m, err := LoadCIDMap(imp.conf.GetString(ConfCIDMap))
	if err != nil {
		return nil, err
	}
	imp.cidmap, imp.loaded = m, true
	return m, nil
}
