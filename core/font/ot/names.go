package ot

import (
	"fmt"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// GlyphNames returns the names of all glyphs in the font, indexed by glyph ID.
//
// Names are taken from the charset of a CFF table, if present. Glyphs of
// CID-keyed fonts are named 'cidNNNNN'. Otherwise names are taken from the 'post'
// table (formats 1 and 2). If neither source is available, glyphs are named
// 'glyphNNNNN'. Names are unique: duplicates are disambiguated by appending
// '#1', '#2', etc.
func (otf *Font) GlyphNames() []string {
	if otf.glyphNames != nil {
		return otf.glyphNames
	}
	n := otf.NumGlyphs()
	var names []string
	var err error
	if cff := otf.Table(T("CFF ")); cff != nil {
		if names, err = cffGlyphNames(binarySegm(cff.Binary()), n); err != nil {
			tracer().Errorf("cannot read glyph names from CFF table: %v", err)
		}
	}
	if names == nil {
		if t := otf.Table(T("post")); t != nil {
			if names, err = postGlyphNames(t.Self().AsPost(), n); err != nil {
				tracer().Errorf("cannot read glyph names from post table: %v", err)
			}
		}
	}
	if names == nil {
		names = make([]string, n)
	}
	otf.glyphNames = uniqueGlyphNames(names, n)
	return otf.glyphNames
}

// GlyphName returns the name of glyph g, or "" if g is out of range.
func (otf *Font) GlyphName(g GlyphIndex) string {
	names := otf.GlyphNames()
	if int(g) >= len(names) {
		return ""
	}
	return names[g]
}

// GlyphByName returns the glyph index for a glyph name.
func (otf *Font) GlyphByName(name string) (GlyphIndex, bool) {
	for i, n := range otf.GlyphNames() {
		if n == name {
			return GlyphIndex(i), true
		}
	}
	return 0, false
}

func uniqueGlyphNames(names []string, n int) []string {
	if len(names) < n {
		names = append(names, make([]string, n-len(names))...)
	}
	names = names[:n]
	seen := make(map[string]int, n)
	for i, name := range names {
		if name == "" {
			if i == 0 {
				name = ".notdef"
			} else {
				name = fmt.Sprintf("glyph%05d", i)
			}
		}
		if cnt, ok := seen[name]; ok {
			seen[name] = cnt + 1
			unique := name + "#" + strconv.Itoa(cnt+1)
			for _, dup := seen[unique]; dup; _, dup = seen[unique] {
				cnt++
				unique = name + "#" + strconv.Itoa(cnt+1)
			}
			name = unique
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

// --- post table ------------------------------------------------------------

// Version 1.0: the font contains exactly the 258 standard Macintosh glyphs.
// Version 2.0:
//
//	uint16  numGlyphs
//	uint16  glyphNameIndex[numGlyphs]
//	uint8   stringData[variable]         (Pascal strings)
//
// Version 3.0: no glyph names.
func postGlyphNames(post *PostTable, n int) ([]string, error) {
	switch post.Version {
	case 0x00010000:
		names := make([]string, n)
		for i := 0; i < n && i < len(macGlyphNames); i++ {
			names[i] = macGlyphNames[i]
		}
		return names, nil
	case 0x00020000:
		return postFormat2Names(post.data, n)
	}
	tracer().Debugf("%s does not provide glyph names", post)
	return nil, nil
}

func postFormat2Names(b binarySegm, n int) ([]string, error) {
	indices, err := b.u16Array(32)
	if err != nil {
		return nil, errFontFormat("post table glyph name index")
	}
	if len(indices) != n {
		tracer().Errorf("post table names %d glyphs, font has %d", len(indices), n)
	}
	var custom []string
	at := 32 + 2 + 2*len(indices)
	for at < len(b) {
		l := int(b[at])
		s, err := b.view(at+1, l)
		if err != nil {
			return nil, errFontFormat("post table string data")
		}
		custom = append(custom, string(s))
		at += 1 + l
	}
	names := make([]string, n)
	for i, inx := range indices {
		if i >= n {
			break
		}
		switch {
		case int(inx) < len(macGlyphNames):
			names[i] = macGlyphNames[inx]
		case int(inx)-len(macGlyphNames) < len(custom):
			names[i] = custom[int(inx)-len(macGlyphNames)]
		default:
			tracer().Errorf("post table name index %d out of range", inx)
		}
	}
	return names, nil
}

// --- name table ------------------------------------------------------------

// Name IDs of the 'name' table we are interested in.
const (
	NameIDFamily            = 1
	NameIDFullName          = 4
	NameIDTypographicFamily = 16
)

// Name returns the string for a name ID from the 'name' table. Only Unicode
// entries (platform 0, or platform 3 with encodings 1 or 10) are considered.
// If the font does not contain a matching entry, "" is returned.
func (otf *Font) Name(id uint16) string {
	t := otf.Table(T("name"))
	if t == nil {
		return ""
	}
	b := binarySegm(t.Binary())
	count, strOffset := int(b.U16(2)), int(b.U16(4))
	for i := 0; i < count; i++ {
		rec, err := b.view(6+i*12, 12)
		if err != nil {
			break
		}
		pltf, enc, nameID := rec.U16(0), rec.U16(2), rec.U16(6)
		if nameID != id || !(pltf == 0 || (pltf == 3 && (enc == 1 || enc == 10))) {
			continue
		}
		length, offset := int(rec.U16(8)), int(rec.U16(10))
		str, err := b.view(strOffset+offset, length)
		if err != nil {
			continue
		}
		s, err := decodeUtf16(str)
		if err != nil {
			tracer().Errorf(err.Error())
			continue
		}
		return s
	}
	return ""
}

func decodeUtf16(str []byte) (string, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	decoder := enc.NewDecoder()
	s, err := decoder.Bytes(str)
	if err != nil {
		return "", fmt.Errorf("decoding UTF-16 error: %v", err)
	}
	return string(s), nil
}
