package fontregistry

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

func TestRegistryLoadsOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Sample.ttc")
	coll := ottest.Collection(ottest.CJKSample(true, true), ottest.PlainSample())
	require.NoError(t, os.WriteFile(path, coll, 0644))
	fr := NewRegistry()
	f1, err := fr.Font(path, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, f1.Index)
	f2, err := fr.Font(filepath.Join(filepath.Dir(path), ".", "Sample.ttc"), 1)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
	_, err = fr.Font(path, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fr.Len())
	fr.LogFontList()
	fr.Forget(path, 0)
	assert.Equal(t, 1, fr.Len())
	//
	_, err = fr.Font(path, 2)
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Equal(t, 1, fr.Len())
	fr.StoreFont(nil)
	assert.NotNil(t, GlobalRegistry())
}

func TestRegistryReloadsChangedFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "cjkanchor.fonts")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "Sample.otf")
	require.NoError(t, os.WriteFile(path, ottest.CJKSample(true, true).Bytes(), 0644))
	fr := NewRegistry()
	f1, err := fr.Font(path, 0)
	require.NoError(t, err)
	f2, err := fr.Font(path, 0)
	require.NoError(t, err)
	assert.Same(t, f1, f2)
	//
	require.NoError(t, os.WriteFile(path, ottest.PlainSample().Bytes(), 0644))
	f3, err := fr.Font(path, 0)
	require.NoError(t, err)
	assert.NotSame(t, f1, f3, "expected changed font file to be loaded again")
	assert.Equal(t, 1, fr.Len())
	//
	require.NoError(t, os.Remove(path))
	_, err = fr.Font(path, 0)
	assert.Equal(t, core.EMISSING, core.Code(err))
	assert.Equal(t, 0, fr.Len())
}
