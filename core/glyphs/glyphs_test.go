package glyphs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font/ottest"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayerAnchors(t *testing.T) {
	l := &Layer{Width: 1000}
	l.UpsertAnchor("LSB", Point{X: 100, Y: 380})
	l.UpsertAnchor("top", Point{X: 500, Y: 800})
	l.UpsertAnchor("LSB", Point{X: 120, Y: 380})
	require.Len(t, l.Anchors, 2)
	a, ok := l.Anchor("LSB")
	assert.True(t, ok)
	assert.Equal(t, Point{X: 120, Y: 380}, a.Position)
	assert.Equal(t, "LSB", l.Anchors[0].Name, "expected upsert to keep the anchor's position in the list")
	assert.True(t, l.RemoveAnchor("LSB"))
	assert.False(t, l.RemoveAnchor("LSB"))
	_, ok = l.Anchor("LSB")
	assert.False(t, ok)
	assert.Equal(t, []Anchor{{Name: "top", Position: Point{X: 500, Y: 800}}}, l.Anchors)
}

func TestUpdateNotifiesOnce(t *testing.T) {
	doc := &Font{}
	calls := 0
	doc.Observe(func(f *Font) {
		assert.False(t, f.IsUpdating())
		calls++
	})
	err := doc.Update(func(f *Font) error {
		assert.True(t, f.IsUpdating())
		return f.Update(func(*Font) error { return nil })
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	failure := errors.New("failure")
	err = doc.Update(func(*Font) error { return failure })
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 2, calls)
}

func TestFromOpenType(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.anchors")
	defer teardown()
	//
	path := writeFont(t, "Sample.ttf", ottest.CJKSample(true, true).Bytes())
	doc, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Filepath)
	assert.Equal(t, path, doc.SourceFont)
	assert.Equal(t, "Sample Mincho", doc.FamilyName)
	assert.Equal(t, 1000, doc.UPM)
	require.Len(t, doc.Masters, 1)
	assert.Equal(t, -120.0, doc.Masters[0].Descender)
	require.Len(t, doc.Glyphs, 5)
	g := doc.Glyph("A")
	require.NotNil(t, g)
	assert.Equal(t, 600.0, g.Layer(DefaultMasterID).Width)
	assert.Equal(t, 1000.0, g.Layer(DefaultMasterID).VertWidth)
	assert.Nil(t, doc.Glyph("uni4E00"))
	assert.NotNil(t, doc.Master(DefaultMasterID))
}

func TestOpenWithRenames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.anchors")
	defer teardown()
	//
	path := writeFont(t, "Sample.otf", ottest.CIDSample(true, true).Bytes())
	doc, err := Open(path, WithGlyphRenames(map[string]string{"cid00651": "uni300C"}))
	require.NoError(t, err)
	assert.NotNil(t, doc.Glyph("uni300C"))
	assert.NotNil(t, doc.Glyph("cid00634"))
	assert.Nil(t, doc.Glyph("cid00651"))
}

func TestOpenCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.anchors")
	defer teardown()
	//
	second := ottest.PlainSample()
	second.UnitsPerEm = 2048
	path := writeFont(t, "Sample.ttc", ottest.Collection(ottest.CJKSample(true, true), second))
	doc, err := Open(path, WithIndex(1))
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Index)
	assert.Equal(t, 2048, doc.UPM)
}

func TestOpenErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.anchors")
	defer teardown()
	//
	_, err := Open(filepath.Join(t.TempDir(), "missing.otf"))
	assert.Equal(t, core.EMISSING, core.Code(err))
	path := writeFont(t, "broken.otf", []byte("OTTO but not really a font"))
	_, err = Open(path)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = Decode(strings.NewReader("filepath: x.otf\nupm: 1000\n"))
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestSaveAndDecode(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.anchors")
	defer teardown()
	//
	path := writeFont(t, "Sample.ttf", ottest.CJKSample(true, true).Bytes())
	doc, err := Open(path)
	require.NoError(t, err)
	doc.Glyph("uni300C").Layer(DefaultMasterID).UpsertAnchor("LSB", Point{X: 450, Y: 380})
	var buf bytes.Buffer
	require.NoError(t, doc.Save(&buf))
	assert.Contains(t, buf.String(), "name: LSB")
	yamlPath := writeFont(t, "Sample.yaml", buf.Bytes())
	assert.NotContains(t, buf.String(), "filepath")
	reread, err := Open(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, yamlPath, reread.Filepath)
	assert.Equal(t, path, reread.SourceFont)
	ignore := cmp.Options{cmpopts.IgnoreUnexported(Font{}), cmpopts.IgnoreFields(Font{}, "Filepath")}
	if diff := cmp.Diff(doc, reread, ignore); diff != "" {
		t.Errorf("document differs after save and reopen (-saved +reopened):\n%s", diff)
	}
}

func TestHostRunsHooks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.anchors")
	defer teardown()
	//
	path := writeFont(t, "Sample.ttf", ottest.PlainSample().Bytes())
	host := &Host{}
	var opened []string
	host.OnDocumentOpened(func(f *Font) error {
		opened = append(opened, f.Filepath)
		return nil
	})
	failure := errors.New("hook failed")
	host.OnDocumentOpened(func(*Font) error { return failure })
	host.OnDocumentOpened(func(*Font) error {
		t.Error("hook after failing hook must not be called")
		return nil
	})
	doc, err := host.Open(path)
	assert.ErrorIs(t, err, failure)
	assert.NotNil(t, doc)
	assert.Equal(t, []string{path}, opened)
}

// --- Helpers ---------------------------------------------------------------

func writeFont(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}
