package resources

import (
	"context"

	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font"
	"github.com/npillmayer/cjkanchor/core/font/fontregistry"
	"github.com/npillmayer/schuko"
)

// NotFound returns an application error for a missing font.
func NotFound(name string) error {
	return core.Error(core.EMISSING, "font not found: %s", name)
}

type fontPlusErr struct {
	font *font.ScalableFont
	err  error
}

// FontPromise is returned by ResolveFont.
type FontPromise interface {
	Font() (*font.ScalableFont, error)
	Await(ctx context.Context) (*font.ScalableFont, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.ScalableFont, error)
}

func (loader fontLoader) Font() (*font.ScalableFont, error) {
	return loader.await(context.Background())
}

func (loader fontLoader) Await(ctx context.Context) (*font.ScalableFont, error) {
	return loader.await(ctx)
}

// ResolveFont resolves a font by file path or by name. name is tried as a
// file path first, then as the name of a system font. For both, index selects
// the font within a font collection. If neither succeeds and fontconfig is
// configured (configuration key 'fontconfig'), name is matched against the
// family names of the fonts known to fontconfig; the collection index is then
// taken from fontconfig.
//
// Loaded fonts are stored in the global font registry.
func ResolveFont(conf schuko.Configuration, name string, index int) FontPromise {
	ch := make(chan fontPlusErr, 1)
	go func(ch chan<- fontPlusErr) {
		defer close(ch)
		result := fontPlusErr{}
		path, err := font.Locate(name)
		if err != nil {
			tracer().Debugf("%s is neither a file nor a system font, trying fontconfig", name)
			desc, ok := findFontConfigFont(conf, name)
			if !ok {
				result.err = NotFound(name)
				ch <- result
				return
			}
			path, index = desc.Path, desc.Index
		}
		result.font, result.err = fontregistry.GlobalRegistry().Font(path, index)
		ch <- result
	}(ch)
	return fontLoader{
		await: func(ctx context.Context) (*font.ScalableFont, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case r := <-ch:
				return r.font, r.err
			}
		},
	}
}
