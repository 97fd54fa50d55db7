package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/cjkanchor/core/font/ottest"
	"github.com/npillmayer/cjkanchor/core/glyphs"
	"github.com/npillmayer/cjkanchor/engine/anchor"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	assert.Equal(t, Command{code: GLYPH, arg: "uni3001"}, parseCommand("glyph  uni3001"))
	assert.Equal(t, Command{code: FIND, arg: "uni30"}, parseCommand("f uni30"))
	assert.Equal(t, Command{code: QUIT}, parseCommand("quit"))
	assert.Equal(t, Command{code: HELP, arg: "me"}, parseCommand("what me"))
}

func TestSession(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.anchors")
	defer teardown()
	//
	dir := t.TempDir()
	path := filepath.Join(dir, "SampleCID.otf")
	require.NoError(t, os.WriteFile(path, ottest.CIDSample(true, true).Bytes(), 0644))
	mapfile := filepath.Join(dir, "map.txt")
	require.NoError(t, os.WriteFile(mapfile, []byte("651\tuni300C\n"), 0644))
	conf := testconfig.Conf{anchor.ConfCIDMap: mapfile, confFontIndex: "0"}
	s, err := open(path, conf)
	require.NoError(t, err)
	assert.Equal(t, 3, s.importer.LastStats().Glyphs)
	//
	intp := newIntp(s, nil)
	g, err := intp.glyph("uni300C")
	require.NoError(t, err)
	_, ok := g.Layer(glyphs.DefaultMasterID).Anchor(anchor.LSB)
	assert.True(t, ok)
	_, err = intp.glyph("uni4E00")
	assert.Error(t, err)
	assert.ElementsMatch(t, []string{"cid00634", "cid00660"}, intp.names.PrefixSearch("cid006"))
	quit, err := intp.execute(Command{code: INSETS, arg: "uni300C"})
	assert.NoError(t, err)
	assert.False(t, quit)
	quit, _ = intp.execute(Command{code: QUIT})
	assert.True(t, quit)
	//
	out := filepath.Join(dir, "doc.yaml")
	require.NoError(t, s.save(out))
	doc, err := glyphs.Open(out)
	require.NoError(t, err)
	assert.NotNil(t, doc.Glyph("uni300C"))
}
