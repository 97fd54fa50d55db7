package fontregistry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/npillmayer/cjkanchor/core/font"
	"github.com/npillmayer/schuko/tracing"
)

// Registry is a type for holding loaded fonts.
type Registry struct {
	sync.Mutex
	fonts map[string]registered
}

// registered is a font together with the state of its file at loading time.
type registered struct {
	font    *font.ScalableFont
	size    int64
	modTime time.Time
}

// stale is a predicate: has the font file changed since the font was loaded?
func (r registered) stale() bool {
	fi, err := os.Stat(r.font.Filepath)
	if err != nil {
		return true
	}
	return fi.Size() != r.size || !fi.ModTime().Equal(r.modTime)
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold loaded fonts.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fonts: make(map[string]registered),
	}
}

// Key returns the registry key for font number index of font file fontpath.
func Key(fontpath string, index int) string {
	if abs, err := filepath.Abs(fontpath); err == nil {
		fontpath = abs
	}
	return fmt.Sprintf("%s#%d", filepath.Clean(fontpath), index)
}

// StoreFont pushes a font into the registry if it isn't contained yet.
// If the font's key is already associated with a font, that font will not be
// overridden.
func (fr *Registry) StoreFont(f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	key := Key(f.Filepath, f.Index)
	r := registered{font: f}
	if fi, err := os.Stat(f.Filepath); err == nil {
		r.size, r.modTime = fi.Size(), fi.ModTime()
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[key]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, key)
		fr.fonts[key] = r
	}
}

// Font returns font number index of font file fontpath. If the font has not
// been registered yet, it is loaded and stored. A font whose file has changed
// since loading is loaded again.
func (fr *Registry) Font(fontpath string, index int) (*font.ScalableFont, error) {
	key := Key(fontpath, index)
	fr.Lock()
	r, ok := fr.fonts[key]
	if ok && r.stale() {
		tracer().Infof("font file of %s has changed, reloading", key)
		delete(fr.fonts, key)
		ok = false
	}
	fr.Unlock()
	if ok {
		tracer().Debugf("registry found font %s", key)
		return r.font, nil
	}
	f, err := font.LoadOpenTypeFont(fontpath, index)
	if err != nil {
		return nil, err
	}
	fr.StoreFont(f)
	return f, nil
}

// Forget removes a font from the registry.
func (fr *Registry) Forget(fontpath string, index int) {
	fr.Lock()
	defer fr.Unlock()
	delete(fr.fonts, Key(fontpath, index))
}

// Len returns the number of registered fonts.
func (fr *Registry) Len() int {
	fr.Lock()
	defer fr.Unlock()
	return len(fr.fonts)
}

// LogFontList is a helper function to dump the list of known fonts in a
// registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	fr.Lock()
	defer fr.Unlock()
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	tracer().Infof("--- registered fonts ---")
	keys := make([]string, 0, len(fr.fonts))
	for k := range fr.fonts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tracer().Infof("font [%s] = %v", k, fr.fonts[k].font.Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}
