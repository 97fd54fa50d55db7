package ot

import (
	"testing"

	"github.com/npillmayer/cjkanchor/core/font/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostGlyphNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	otf, err := Parse(ottest.CJKSample(true, true).Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{".notdef", "A", "uni3001", "uni300C", "uni30FC"}, otf.GlyphNames())
	g, ok := otf.GlyphByName("uni300C")
	assert.True(t, ok)
	assert.Equal(t, GlyphIndex(ottest.GlyphBracket), g)
	assert.Equal(t, "", otf.GlyphName(99))
	_, ok = otf.GlyphByName("uni4E00")
	assert.False(t, ok)
}

func TestPostFormat1Names(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	f := ottest.PlainSample()
	f.PostFormat1 = true
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{".notdef", ".null", "nonmarkingreturn", "space", "exclam"}, otf.GlyphNames())
}

func TestGlyphNameFallbackAndDuplicates(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	f := ottest.PlainSample()
	f.Glyphs[1].Name = "uni3001"
	f.Glyphs[4].Name = ""
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{".notdef", "uni3001", "uni3001#1", "uni300C", ".notdef#1"}, otf.GlyphNames())
	//
	names := uniqueGlyphNames([]string{"", "a", "a#1", "a", "a"}, 6)
	assert.Equal(t, []string{".notdef", "a", "a#1", "a#2", "a#3", "glyph00005"}, names)
}

func TestCFFGlyphNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	f := ottest.PlainSample()
	f.Outlines = ottest.CFF
	f.Glyphs[1].SID = 34 // standard string "A"
	f.Glyphs[1].Name = "ignored"
	otf, err := Parse(f.Bytes())
	require.NoError(t, err)
	assert.True(t, otf.Header.IsCFF())
	assert.Equal(t, []string{".notdef", "A", "uni3001", "uni300C", "uni30FC"}, otf.GlyphNames())
}

func TestCIDGlyphNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	otf, err := Parse(ottest.CIDSample(true, true).Bytes())
	require.NoError(t, err)
	assert.Equal(t, []string{".notdef", "cid00034", "cid00634", "cid00651", "cid00660"}, otf.GlyphNames())
}

func TestCFFCharsetRanges(t *testing.T) {
	// format 1: glyphs 1..3 from SID 100, glyph 4 is SID 7
	charset := binarySegm{0, 0, 0, 1, 0, 100, 2, 0, 7, 0}
	ids, err := cffCharset(charset, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 100, 101, 102, 7}, ids)
	// format 2
	charset = binarySegm{0, 0, 0, 2, 0x03, 0xe8, 0, 3}
	ids, err = cffCharset(charset, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1000, 1001, 1002, 1003}, ids)
	_, err = cffCharset(charset, 1, 5)
	assert.ErrorIs(t, err, errNoCharset)
}

func TestCFFTopDict(t *testing.T) {
	dict := binarySegm{
		0x1c, 0x01, 0x87, 0x1c, 0x01, 0x88, 0x8b, 0x0c, 0x1e, // ROS 391 392 0
		0x1e, 0xe2, 0xa2, 0x5f, // real number -2.25
		0x0c, 0x05, // PaintType
		0xf8, 0x1b, 0x0f, // charset 391
		0x1d, 0x00, 0x01, 0x00, 0x00, 0x11, // CharStrings 65536
	}
	top, err := parseCFFTopDict(dict)
	require.NoError(t, err)
	assert.True(t, top.isCID)
	assert.Equal(t, 391, top.charset)
	assert.Equal(t, 65536, top.charStrings)
}

func TestNameTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	otf, err := Parse(ottest.CJKSample(true, true).Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Sample Mincho", otf.Name(NameIDFamily))
	assert.Equal(t, "Sample Mincho Regular", otf.Name(NameIDFullName))
	assert.Equal(t, "", otf.Name(NameIDTypographicFamily))
}
