package resources

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/schuko"
)

// Configuration keys for fontconfig.
const (
	ConfFontConfig     = "fontconfig"      // absolute path of the 'fc-list' binary
	ConfFontConfigList = "fontconfig.list" // cached output of fc-list, optional
)

// fcFormat makes fc-list print one line per font face, including the index
// of the face within a collection.
const fcFormat = "%{file}\t%{index}\t%{family}\t%{style}\n"

// Descriptor describes a font face as listed by fontconfig.
type Descriptor struct {
	Path     string
	Index    int
	Families []string
	Styles   []string
}

// IsRegular is a predicate: is the face the regular style of its family?
func (d Descriptor) IsRegular() bool {
	for _, s := range d.Styles {
		switch strings.ToLower(s) {
		case "regular", "book", "normal", "w3":
			return true
		}
	}
	return len(d.Styles) == 0
}

func fontConfigListPath(conf schuko.Configuration) (string, bool) {
	if p := conf.GetString(ConfFontConfigList); p != "" {
		return p, true
	}
	uconfdir, err := os.UserConfigDir()
	if err != nil {
		tracer().Errorf("user config directory not set")
		return "", false
	}
	return filepath.Join(uconfdir, "cjkanchor", "fontlist.txt"), true
}

// cacheFontConfigList makes sure the output of fc-list is present in the
// user's config directory. If update is set, fc-list is run even if the list
// already exists.
func cacheFontConfigList(conf schuko.Configuration, update bool) (string, bool) {
	fcListFilename, ok := fontConfigListPath(conf)
	if !ok {
		return "", false
	}
	if _, err := os.Stat(fcListFilename); err == nil && !update {
		return fcListFilename, true
	}
	fcpath := conf.GetString(ConfFontConfig)
	if fcpath == "" {
		tracer().Infof("fontconfig not configured: key '%s' should point to the 'fc-list' binary",
			ConfFontConfig)
		return "", false
	}
	if !filepath.IsAbs(fcpath) {
		core.UserError(core.Error(core.EINVALID,
			"fontconfig binary fc-list must point to absolute path: %s", fcpath))
		return "", false
	}
	if fi, err := os.Stat(fcpath); err != nil || (fi.Mode().Perm()&0100) == 0 {
		core.UserError(core.WrapError(err, core.EINVALID,
			"fontconfig configuration points to an invalid binary: %s", fcpath))
		return "", false
	}
	if err := os.MkdirAll(filepath.Dir(fcListFilename), 0755); err != nil {
		core.UserError(core.WrapError(err, core.EINVALID,
			"user configuration path cannot be created: %s", filepath.Dir(fcListFilename)))
		return "", false
	}
	fontlistFile, err := os.Create(fcListFilename)
	if err == nil {
		fccmd := exec.Command(fcpath, "--format", fcFormat)
		fccmd.Stdout = fontlistFile
		err = fccmd.Run()
		fontlistFile.Close()
		if err != nil {
			// an incomplete list must not be taken for a cached one
			os.Remove(fcListFilename)
		}
	}
	if err != nil {
		core.UserError(core.WrapError(err, core.EINVALID,
			"fontconfig output file cannot be created: %s", fcListFilename))
		return "", false
	}
	return fcListFilename, true
}

func loadFontConfigList(conf schuko.Configuration) ([]Descriptor, bool) {
	fclist, ok := cacheFontConfigList(conf, false)
	if !ok {
		return nil, false
	}
	fc, err := os.Open(fclist)
	if err != nil {
		core.UserError(core.WrapError(err, core.EINVALID,
			"fontconfig font list cannot be opened: %s", fclist))
		return nil, false
	}
	defer fc.Close()
	descs, err := parseFontConfigList(fc)
	if err != nil {
		core.UserError(core.WrapError(err, core.EINVALID,
			"encountered a problem during reading of fontconfig font list: %s", fclist))
		return descs, false
	}
	return descs, true
}

// parseFontConfigList reads lines in fcFormat. Lines which do not have all
// fields are skipped.
func parseFontConfigList(r io.Reader) ([]Descriptor, error) {
	var descs []Descriptor
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(fields) < 3 {
			continue
		}
		index, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			continue
		}
		desc := Descriptor{
			Path:     strings.TrimSpace(fields[0]),
			Index:    index,
			Families: splitList(fields[2]),
		}
		if len(fields) > 3 {
			desc.Styles = splitList(fields[3])
		}
		descs = append(descs, desc)
	}
	return descs, scanner.Err()
}

func splitList(s string) []string {
	var list []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimPrefix(strings.TrimSpace(item), "."); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// matchFontName finds the face for a font name. A name matches a face if it
// equals one of the face's family names, or a family name followed by a style,
// ignoring case, blanks, hyphens and underscores. Regular faces are preferred
// for family names.
func matchFontName(descs []Descriptor, name string) (Descriptor, bool) {
	key := fontKey(name)
	var candidate *Descriptor
	for i, d := range descs {
		for _, fam := range d.Families {
			for _, style := range d.Styles {
				if fontKey(fam+style) == key {
					return d, true
				}
			}
			if fontKey(fam) == key {
				if d.IsRegular() {
					return d, true
				}
				if candidate == nil {
					candidate = &descs[i]
				}
			}
		}
	}
	if candidate != nil {
		return *candidate, true
	}
	return Descriptor{}, false
}

func fontKey(name string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "-", "", "_", "").Replace(name))
}

var loadFontConfigListTask sync.Once
var loadedFontConfigListOK bool
var fontConfigDescriptors []Descriptor

// findFontConfigFont searches for a locally installed font using fontconfig.
// fontconfig has to be configured by setting the absolute path of the
// 'fc-list' binary.
//
// The output of fc-list is copied to the user's config directory once.
// Subsequent calls will use the cached entries. If fontconfig is not
// configured, findFontConfigFont silently reports that no font was found.
func findFontConfigFont(conf schuko.Configuration, name string) (Descriptor, bool) {
	loadFontConfigListTask.Do(func() {
		fontConfigDescriptors, loadedFontConfigListOK = loadFontConfigList(conf)
		tracer().Infof("loaded fontconfig list with %d entries", len(fontConfigDescriptors))
	})
	if !loadedFontConfigListOK {
		return Descriptor{}, false
	}
	desc, ok := matchFontName(fontConfigDescriptors, name)
	if ok {
		tracer().Debugf("fontconfig match for %s: %s #%d", name, desc.Path, desc.Index)
	}
	return desc, ok
}
