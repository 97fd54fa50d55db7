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

func TestTags(t *testing.T) {
	assert.Equal(t, "palt", T("palt").String())
	assert.Equal(t, "CFF ", T("CFF").String())
	assert.Equal(t, T("vpal"), MakeTag([]byte("vpal")))
	assert.Equal(t, Tag(0x00000041), MakeTag([]byte("A")))
	tags := []Tag{T("vpal"), T("GPOS"), T("palt"), T("OS/2")}
	sortTags(tags)
	assert.Equal(t, []Tag{T("GPOS"), T("OS/2"), T("palt"), T("vpal")}, tags)
}

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	otf, err := Parse(ottest.CJKSample(true, true).Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00010000), otf.Header.FontType)
	assert.False(t, otf.Header.IsCFF())
	assert.Equal(t, 1000, otf.UnitsPerEm())
	assert.Equal(t, 5, otf.NumGlyphs())
	assert.Equal(t, -120, otf.Descender(), "expected descender from OS/2")
	for _, tag := range []string{"GPOS", "OS/2", "head", "hhea", "hmtx", "maxp", "name", "post", "vhea", "vmtx"} {
		assert.True(t, otf.HasTable(T(tag)), "expected table %s", tag)
	}
	assert.Equal(t, T("GPOS"), otf.TableTags()[0])
	require.NotNil(t, otf.VMtx)
	require.NotNil(t, otf.Layout.GPos)
}

func TestDescenderWithoutOS2(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	f := ottest.PlainSample()
	f.TypoDescender = nil
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.Nil(t, otf.OS2)
	assert.Nil(t, otf.Layout.GPos)
	assert.Equal(t, -150, otf.Descender(), "expected descender from hhea")
}

func TestMetrics(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	f := ottest.CJKSample(false, false)
	f.Glyphs = append(f.Glyphs,
		ottest.Glyph{Name: "uni3002", Advance: 1000, LSB: 77, VAdvance: 1000, TSB: 33},
	)
	f.CompactHMtx = true
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 3, otf.HMtx.NumberOfMetrics, "expected trailing glyphs to share the advance")
	adv, lsb, ok := otf.HMtx.Metrics(1)
	assert.True(t, ok)
	assert.Equal(t, uint16(600), adv)
	assert.Equal(t, int16(20), lsb)
	adv, lsb, ok = otf.HMtx.Metrics(5)
	assert.True(t, ok)
	assert.Equal(t, uint16(1000), adv)
	assert.Equal(t, int16(77), lsb)
	adv, tsb, ok := otf.VMtx.Metrics(4)
	assert.True(t, ok)
	assert.Equal(t, uint16(1000), adv)
	assert.Equal(t, int16(440), tsb)
	_, _, ok = otf.HMtx.Metrics(6)
	assert.False(t, ok)
}

func TestParseCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	plain := ottest.PlainSample()
	plain.UnitsPerEm = 2048
	ttc := ottest.Collection(ottest.CJKSample(true, true), plain)
	assert.True(t, IsCollection(ttc))
	n, err := NumFonts(ttc)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	otf, err := ParseFont(ttc, 1)
	require.NoError(t, err)
	assert.Equal(t, 2048, otf.UnitsPerEm())
	assert.Nil(t, otf.Layout.GPos)
	otf, err = Parse(ttc)
	require.NoError(t, err)
	assert.NotNil(t, otf.Layout.GPos)
	_, err = ParseFont(ttc, 2)
	assert.Error(t, err)
	_, err = ParseFont(ottest.PlainSample().Bytes(), 1)
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	tracer().SetTraceLevel(tracing.LevelError)
	//
	_, err := Parse([]byte("wOFF"))
	assert.Error(t, err)
	_, err = Parse([]byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x09})
	assert.Equal(t, core.EINVALID, core.Code(err))
	f := ottest.PlainSample()
	f.UnitsPerEm = 8
	_, err = Parse(f.Bytes())
	assert.Equal(t, core.EINVALID, core.Code(err), "expected invalid UPM to be rejected")
	bin := ottest.PlainSample().Bytes()
	bin = bin[:len(bin)-64]
	_, err = Parse(bin)
	assert.Equal(t, core.EINVALID, core.Code(err), "expected truncated font to be rejected")
}
