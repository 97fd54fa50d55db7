package ot

import (
	"testing"

	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font/ottest"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPosFeatureList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	otf, err := Parse(ottest.CJKSample(true, true).Bytes())
	require.NoError(t, err)
	gpos := otf.Layout.GPos
	require.NotNil(t, gpos)
	assert.Equal(t, uint16(1), gpos.Major)
	require.Len(t, gpos.FeatureList, 4)
	tags := make([]string, len(gpos.FeatureList))
	for i, rec := range gpos.FeatureList {
		tags[i] = rec.Tag.String()
	}
	assert.Equal(t, []string{"palt", "kern", "vpal", "palt"}, tags)
	assert.Equal(t, []int{2, 0}, gpos.FeatureList[0].LookupIndices)
	assert.Equal(t, []int{1}, gpos.FeatureList[2].LookupIndices)
}

func TestGPosSingleAdjustment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	otf, err := Parse(ottest.CJKSample(true, true).Bytes())
	require.NoError(t, err)
	lookups := otf.Layout.GPos.LookupList
	require.Len(t, lookups, 4)
	//
	l0 := lookups[0]
	assert.Equal(t, GPosLookupTypeSingle, l0.Type)
	assert.False(t, l0.Extension)
	require.Len(t, l0.Subtables, 1)
	sub := l0.Subtables[0]
	assert.Equal(t, uint16(2), sub.Format)
	assert.True(t, sub.ValueFormat.Has(ValueXPlacement|ValueXAdvance))
	assert.Equal(t, []GlyphIndex{ottest.GlyphComma, ottest.GlyphBracket}, sub.Coverage.Glyphs())
	v, ok := sub.ValueFor(1)
	assert.True(t, ok)
	assert.Equal(t, ValueRecord{XPlacement: -450, XAdvance: -450}, v)
	//
	l2 := lookups[2]
	assert.Equal(t, GPosLookupTypeSingle, l2.Type, "expected extension to be unwrapped")
	assert.True(t, l2.Extension)
	require.Len(t, l2.Subtables, 1)
	assert.Equal(t, uint16(1), l2.Subtables[0].Format)
	v, ok = l2.Subtables[0].ValueFor(0)
	assert.True(t, ok)
	assert.Equal(t, ValueRecord{XPlacement: -100, XAdvance: -200}, v)
	//
	assert.Equal(t, GPosLookupTypePair, lookups[3].Type)
	assert.Equal(t, "Pair", lookups[3].Type.GPosString())
}

func TestCoverageFormat2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	f := ottest.CJKSample(true, false)
	f.Lookups[0].Coverage = 2
	f.Lookups[0].ValueFormat = 0x0055 // XPla, XAdv and their device offsets
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	sub := otf.Layout.GPos.LookupList[0].Subtables[0]
	assert.Equal(t, uint16(2), sub.Coverage.Format)
	inx, ok := sub.Coverage.Match(ottest.GlyphBracket)
	assert.True(t, ok)
	assert.Equal(t, 1, inx)
	_, ok = sub.Coverage.Match(ottest.GlyphA)
	assert.False(t, ok)
	assert.Equal(t, 8, sub.ValueFormat.Size())
	v, _ := sub.ValueFor(0)
	assert.Equal(t, ValueRecord{XAdvance: -520}, v)
}

func TestCoverageRanges(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	c, err := parseCoverage(binarySegm{0, 2, 0, 2, 0, 2, 0, 3, 0, 0, 0, 7, 0, 7, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []GlyphIndex{2, 3, 7}, c.Glyphs())
	for name, data := range map[string][]byte{
		"index gap":       {0, 2, 0, 2, 0, 2, 0, 3, 0, 0, 0, 7, 0, 7, 0, 4},
		"index overlap":   {0, 2, 0, 2, 0, 2, 0, 3, 0, 0, 0, 7, 0, 7, 0, 1},
		"glyph overlap":   {0, 2, 0, 2, 0, 2, 0, 5, 0, 0, 0, 4, 0, 6, 0, 4},
		"unsorted ranges": {0, 2, 0, 2, 0, 7, 0, 7, 0, 0, 0, 2, 0, 3, 0, 1},
		"not at index 0":  {0, 2, 0, 1, 0, 2, 0, 3, 0, 1},
	} {
		_, err := parseCoverage(binarySegm(data))
		assert.Error(t, err, name)
	}
}

func TestMalformedGPos(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	f := ottest.PlainSample()
	f.RawGPOS = []byte{0, 1, 0, 0, 0, 10, 0, 12, 0, 200, 0, 0}
	_, err := Parse(f.Bytes())
	require.Error(t, err)
	assert.Equal(t, core.EINVALID, core.Code(err))
	//
	f.RawGPOS = []byte{0, 2, 0, 0, 0, 0, 0, 0, 0, 0}
	_, err = Parse(f.Bytes())
	assert.Error(t, err, "expected unsupported GPOS version to be rejected")
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, 0, ValueFormat(0).Size())
	assert.Equal(t, 8, (ValueXPlacement | ValueYPlacement | ValueXAdvance | ValueYAdvance).Size())
	assert.Equal(t, "ValueFormat(0x0005)", (ValueXPlacement | ValueXAdvance).String())
	rec := parseValueRecord(binarySegm{0xff, 0x9c, 0x00, 0x00, 0xff, 0x38},
		ValueYPlacement|ValueYAdvance|ValueXAdvanceDevice)
	assert.Equal(t, ValueRecord{YPlacement: -100, YAdvance: 0}, rec)
}
