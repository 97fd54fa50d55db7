package otquery

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/npillmayer/cjkanchor/core/font/ot"
)

// Feature tags of the proportional alternate metrics.
var (
	PALT = ot.T("palt") // proportional alternate widths
	VPAL = ot.T("vpal") // proportional alternate vertical metrics
)

// Direction is the writing direction an adjustment applies to.
type Direction int

// Directions of adjustments
const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Vertical {
		return "V"
	}
	return "H"
}

// Adjustment is the positioning adjustment of a single glyph for one direction,
// taken from a GPOS single adjustment subtable. Values are in font units.
type Adjustment struct {
	Glyph     string
	Placement int
	Advance   int
	Direction Direction
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s[%s: pla=%d adv=%d]", a.Glyph, a.Direction, a.Placement, a.Advance)
}

// EdgeInsets are the distances between the edges of a glyph's em box and the
// edges of its proportional box, in font units. Positive values shrink the box.
type EdgeInsets struct {
	Left, Right, Top, Bottom int
}

// IsZero is a predicate: are all insets 0?
func (e EdgeInsets) IsZero() bool {
	return e == EdgeInsets{}
}

// AlternateMetrics reads the proportional alternate metrics of a font, i.e.
// the GPOS features 'palt' and 'vpal'. All information is collected when
// the reader is created; afterwards it does not reference the font any more.
type AlternateMetrics struct {
	tags        *linkedhashset.Set      // feature tags in order of first occurrence
	lookups     map[ot.Tag]*treeset.Set // tag -> sorted lookup indices
	adjustments [][]Adjustment          // per lookup
	insets      map[string]EdgeInsets
	palt, vpal  bool
}

// NewAlternateMetrics collects the alternate metrics of otf. A font without a
// GPOS table results in an empty reader, for which HasMetrics is false.
func NewAlternateMetrics(otf *ot.Font) *AlternateMetrics {
	am := &AlternateMetrics{
		tags:    linkedhashset.New(),
		lookups: make(map[ot.Tag]*treeset.Set),
		insets:  make(map[string]EdgeInsets),
	}
	am.palt, am.vpal = HasFeature(otf, PALT), HasFeature(otf, VPAL)
	gpos := otf.Layout.GPos
	if gpos == nil {
		tracer().Infof("font has no GPOS table, no alternate metrics available")
		return am
	}
	for _, rec := range gpos.FeatureList {
		am.tags.Add(rec.Tag)
		set, ok := am.lookups[rec.Tag]
		if !ok {
			set = treeset.NewWithIntComparator()
			am.lookups[rec.Tag] = set
		}
		for _, inx := range rec.LookupIndices {
			set.Add(inx)
		}
	}
	am.adjustments = make([][]Adjustment, len(gpos.LookupList))
	for i, lookup := range gpos.LookupList {
		am.adjustments[i] = adjustmentsFromLookup(otf, lookup)
	}
	am.makeEdgeInsets()
	tracer().Debugf("font has alternate metrics for %d glyphs", len(am.insets))
	return am
}

// Tags returns the feature tags of the font's GPOS table, in order of their
// first occurrence in the feature list.
func (am *AlternateMetrics) Tags() []ot.Tag {
	tags := make([]ot.Tag, 0, am.tags.Size())
	for _, t := range am.tags.Values() {
		tags = append(tags, t.(ot.Tag))
	}
	return tags
}

// HasFeature is a predicate: does the font declare feature tag?
func (am *AlternateMetrics) HasFeature(tag ot.Tag) bool {
	return am.tags.Contains(tag)
}

// HasMetrics is a predicate: does the font declare 'palt' or 'vpal'?
func (am *AlternateMetrics) HasMetrics() bool {
	return am.palt || am.vpal
}

// LookupsFromTag returns the indices of all lookups referenced by any feature record
// for tag, sorted and without duplicates.
func (am *AlternateMetrics) LookupsFromTag(tag ot.Tag) []int {
	set, ok := am.lookups[tag]
	if !ok {
		return nil
	}
	indices := make([]int, 0, set.Size())
	for _, inx := range set.Values() {
		indices = append(indices, inx.(int))
	}
	return indices
}

// AdjustmentsFromLookup returns the adjustments of a lookup. Lookups other than
// single adjustments yield no adjustments.
func (am *AlternateMetrics) AdjustmentsFromLookup(inx int) []Adjustment {
	if inx < 0 || inx >= len(am.adjustments) {
		return nil
	}
	return am.adjustments[inx]
}

// AdjustmentsFromTag returns the adjustments of all lookups of a feature.
func (am *AlternateMetrics) AdjustmentsFromTag(tag ot.Tag) []Adjustment {
	var adjustments []Adjustment
	for _, inx := range am.LookupsFromTag(tag) {
		adjustments = append(adjustments, am.AdjustmentsFromLookup(inx)...)
	}
	return adjustments
}

// EdgeInsets returns the edge insets for a glyph. If the glyph is not adjusted by
// 'palt' or 'vpal', false is returned.
func (am *AlternateMetrics) EdgeInsets(glyph string) (EdgeInsets, bool) {
	e, ok := am.insets[glyph]
	return e, ok
}

// Glyphs returns the names of all glyphs with edge insets, sorted.
func (am *AlternateMetrics) Glyphs() []string {
	names := make([]string, 0, len(am.insets))
	for name := range am.insets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// makeEdgeInsets sums up the adjustments of 'palt' and 'vpal' per glyph:
//
//	left   = -Σ XPlacement
//	right  = -(Σ XAdvance - Σ XPlacement)
//	top    =  Σ YPlacement
//	bottom = -(Σ YAdvance + Σ YPlacement)
func (am *AlternateMetrics) makeEdgeInsets() {
	type sums struct{ px, ax, py, ay int }
	acc := make(map[string]*sums)
	for _, tag := range am.Tags() {
		if tag != PALT && tag != VPAL {
			continue
		}
		for _, adj := range am.AdjustmentsFromTag(tag) {
			s, ok := acc[adj.Glyph]
			if !ok {
				s = &sums{}
				acc[adj.Glyph] = s
			}
			if adj.Direction == Horizontal {
				s.px += adj.Placement
				s.ax += adj.Advance
			} else {
				s.py += adj.Placement
				s.ay += adj.Advance
			}
		}
	}
	for glyph, s := range acc {
		am.insets[glyph] = EdgeInsets{
			Left:   -s.px,
			Right:  -(s.ax - s.px),
			Top:    s.py,
			Bottom: -(s.ay + s.py),
		}
	}
}

// adjustmentsFromLookup extracts the adjustments of a single adjustment lookup.
// Value records with X fields yield a horizontal adjustment, records with
// Y fields a vertical one; records with both yield two adjustments.
func adjustmentsFromLookup(otf *ot.Font, lookup ot.Lookup) []Adjustment {
	if lookup.Type != ot.GPosLookupTypeSingle {
		return nil
	}
	var adjustments []Adjustment
	for _, sub := range lookup.Subtables {
		vf := sub.ValueFormat
		horizontal := vf.Has(ot.ValueXPlacement) || vf.Has(ot.ValueXAdvance)
		vertical := vf.Has(ot.ValueYPlacement) || vf.Has(ot.ValueYAdvance)
		for i, gid := range sub.Coverage.Glyphs() {
			v, ok := sub.ValueFor(i)
			if !ok {
				tracer().Errorf("single adjustment has no value for coverage index %d", i)
				continue
			}
			name := otf.GlyphName(gid)
			if name == "" {
				tracer().Errorf("single adjustment covers glyph %d, font has %d glyphs", gid, otf.NumGlyphs())
				continue
			}
			if horizontal {
				adjustments = append(adjustments, Adjustment{
					Glyph:     name,
					Placement: int(v.XPlacement),
					Advance:   int(v.XAdvance),
					Direction: Horizontal,
				})
			}
			if vertical {
				adjustments = append(adjustments, Adjustment{
					Glyph:     name,
					Placement: int(v.YPlacement),
					Advance:   int(v.YAdvance),
					Direction: Vertical,
				})
			}
		}
	}
	return adjustments
}
