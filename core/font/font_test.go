package font

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOpenTypeFile(t *testing.T) {
	for path, expected := range map[string]bool{
		"fonts/SourceHanSerif.otc":  true,
		"Noto Sans CJK JP.OTF":      true,
		"/tmp/a.ttc":                true,
		"x.TTF":                     true,
		"MyFont.glyphs":             false,
		"document.yaml":             false,
		"otf":                       false,
		"fonts/otf/SourceHan.woff2": false,
	} {
		assert.Equal(t, expected, IsOpenTypeFile(path), path)
	}
}

func TestNormalizeFontname(t *testing.T) {
	assert.Equal(t, "noto_sans_cjk_jp", NormalizeFontname(" Noto Sans CJK JP.otf "))
	assert.Equal(t, ".hidden", NormalizeFontname(".hidden"))
}

func TestLoadOpenTypeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Sample.ttf")
	require.NoError(t, os.WriteFile(path, ottest.CJKSample(true, true).Bytes(), 0644))
	f, err := LoadOpenTypeFont(path, 0)
	require.NoError(t, err)
	assert.Equal(t, path, f.Filepath)
	assert.NotEmpty(t, f.Fontname)
	otf, err := f.OpenType()
	require.NoError(t, err)
	assert.Equal(t, 1000, otf.UnitsPerEm())
	again, err := f.OpenType()
	require.NoError(t, err)
	assert.Same(t, otf, again, "expected font tables to be parsed once")
	//
	_, err = LoadOpenTypeFont(path, 1)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = LoadOpenTypeFont(filepath.Join(t.TempDir(), "missing.otf"), 0)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

func TestLoadCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	second := ottest.PlainSample()
	second.UnitsPerEm = 2048
	path := filepath.Join(t.TempDir(), "Sample.ttc")
	ttc := ottest.Collection(ottest.CJKSample(true, true), second)
	require.NoError(t, os.WriteFile(path, ttc, 0644))
	f, err := LoadOpenTypeFont(path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Index)
	otf, err := f.OpenType()
	require.NoError(t, err)
	assert.Equal(t, 2048, otf.UnitsPerEm())
}

func TestLocate(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Sample.otf")
	require.NoError(t, os.WriteFile(path, ottest.PlainSample().Bytes(), 0644))
	p, err := Locate(path)
	require.NoError(t, err)
	assert.Equal(t, path, p)
	_, err = Locate("No Such Font Family 4711.otf")
	assert.Equal(t, core.EMISSING, core.Code(err))
}
