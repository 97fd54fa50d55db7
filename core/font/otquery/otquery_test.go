package otquery

import (
	"testing"

	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font/ot"
	"github.com/npillmayer/cjkanchor/core/font/ottest"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type QueryTestEnviron struct {
	suite.Suite
	sample *ot.Font // palt + vpal
	palt   *ot.Font // palt only
	kern   *ot.Font // neither palt nor vpal
	plain  *ot.Font // no GPOS
}

// listen for 'go test' command --> run test methods
func TestQueryFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	suite.Run(t, new(QueryTestEnviron))
}

// run once, before test suite methods
func (env *QueryTestEnviron) SetupSuite() {
	env.T().Log("Setting up test suite")
	tracing.Select("cjkanchor.fonts").SetTraceLevel(tracing.LevelError)
	env.sample = parse(env.T(), ottest.CJKSample(true, true))
	env.palt = parse(env.T(), ottest.CJKSample(true, false))
	env.kern = parse(env.T(), ottest.CJKSample(false, false))
	env.plain = parse(env.T(), ottest.PlainSample())
	tracing.Select("cjkanchor.fonts").SetTraceLevel(tracing.LevelInfo)
}

// --- Tests -----------------------------------------------------------------

func (env *QueryTestEnviron) TestFontInfo() {
	env.Equal("TrueType", FontType(env.sample))
	env.Equal("Sample Mincho", FamilyName(env.sample))
	env.True(HasFeature(env.sample, PALT))
	env.True(HasFeature(env.sample, VPAL))
	env.False(HasFeature(env.palt, VPAL))
	env.False(HasFeature(env.plain, ot.T("kern")))
}

func (env *QueryTestEnviron) TestFontMetrics() {
	m := FontMetrics(env.sample)
	env.Equal(FontMetricsInfo{UnitsPerEm: 1000, Ascent: 880, Descent: -120}, m)
}

func (env *QueryTestEnviron) TestGlyphMetrics() {
	m, err := GlyphMetricsByName(env.sample, "uni300C")
	env.Require().NoError(err)
	env.Equal(GlyphMetricsInfo{AdvanceWidth: 1000, LSB: 480, AdvanceHeight: 1000, TSB: 60}, m)
	_, err = GlyphMetricsByName(env.sample, "uni4E00")
	env.Equal(core.EMISSING, core.Code(err))
	_, err = GlyphMetrics(env.sample, 42)
	env.Error(err)
}

func (env *QueryTestEnviron) TestTagsAndLookups() {
	am := NewAlternateMetrics(env.sample)
	env.Equal([]ot.Tag{ot.T("palt"), ot.T("kern"), ot.T("vpal")}, am.Tags())
	env.Equal([]int{0, 2}, am.LookupsFromTag(PALT))
	env.Equal([]int{1}, am.LookupsFromTag(VPAL))
	env.Nil(am.LookupsFromTag(ot.T("liga")))
	env.True(am.HasMetrics())
}

func (env *QueryTestEnviron) TestAdjustments() {
	am := NewAlternateMetrics(env.sample)
	env.Equal([]Adjustment{
		{Glyph: "uni3001", Placement: 0, Advance: -520, Direction: Horizontal},
		{Glyph: "uni300C", Placement: -450, Advance: -450, Direction: Horizontal},
	}, am.AdjustmentsFromLookup(0))
	env.Equal([]Adjustment{
		{Glyph: "uni3001", Placement: 0, Advance: -480, Direction: Vertical},
		{Glyph: "uni300C", Placement: 420, Advance: -420, Direction: Vertical},
	}, am.AdjustmentsFromTag(VPAL))
	env.Len(am.AdjustmentsFromTag(PALT), 3, "expected extension lookup to contribute")
	env.Empty(am.AdjustmentsFromLookup(3), "expected pair adjustments to be ignored")
	env.Empty(am.AdjustmentsFromLookup(17))
}

func (env *QueryTestEnviron) TestEdgeInsets() {
	am := NewAlternateMetrics(env.sample)
	env.Equal([]string{"uni3001", "uni300C", "uni30FC"}, am.Glyphs())
	for glyph, expected := range map[string]EdgeInsets{
		"uni3001": {Left: 0, Right: 520, Top: 0, Bottom: 480},
		"uni300C": {Left: 450, Right: 0, Top: 420, Bottom: 0},
		"uni30FC": {Left: 100, Right: 100},
	} {
		e, ok := am.EdgeInsets(glyph)
		env.True(ok, glyph)
		env.Equal(expected, e, glyph)
	}
	_, ok := am.EdgeInsets("A")
	env.False(ok)
}

func (env *QueryTestEnviron) TestPaltOnly() {
	am := NewAlternateMetrics(env.palt)
	env.True(am.HasMetrics())
	env.False(am.HasFeature(VPAL))
	env.Equal(HasFeature(env.palt, VPAL), am.HasFeature(VPAL))
	e, _ := am.EdgeInsets("uni3001")
	env.Equal(EdgeInsets{Right: 520}, e)
}

func (env *QueryTestEnviron) TestNoMetrics() {
	am := NewAlternateMetrics(env.kern)
	env.False(am.HasMetrics())
	env.Equal([]ot.Tag{ot.T("kern")}, am.Tags())
	env.Empty(am.Glyphs())
	am = NewAlternateMetrics(env.plain)
	env.False(am.HasMetrics())
	env.Empty(am.Tags())
}

func (env *QueryTestEnviron) TestCIDNames() {
	otf := parse(env.T(), ottest.CIDSample(true, true))
	am := NewAlternateMetrics(otf)
	env.Equal([]string{"cid00634", "cid00651", "cid00660"}, am.Glyphs())
	env.Equal("OpenType (CFF outlines)", FontType(otf))
}

func (env *QueryTestEnviron) TestMixedValueFormat() {
	f := ottest.PlainSample()
	f.Features = []ottest.Feature{{Tag: "vpal", Lookups: []uint16{0}}}
	f.Lookups = []ottest.Lookup{{
		Format: 1,
		Glyphs: []uint16{ottest.GlyphComma, ottest.GlyphBracket},
		Values: []ottest.Value{{XPlacement: 10, YPlacement: 20, XAdvance: 30, YAdvance: 40}},
	}}
	am := NewAlternateMetrics(parse(env.T(), f))
	env.Len(am.AdjustmentsFromTag(VPAL), 4)
	e, _ := am.EdgeInsets("uni300C")
	env.Equal(EdgeInsets{Left: -10, Right: -20, Top: 20, Bottom: -60}, e)
}

// --- Helpers ---------------------------------------------------------------

func parse(t *testing.T, f ottest.Font) *ot.Font {
	otf, err := ot.Parse(f.Bytes())
	if err != nil {
		t.Fatalf("cannot parse synthetic font: %v", err)
	}
	return otf
}
