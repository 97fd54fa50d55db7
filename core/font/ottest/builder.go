/*
Package ottest synthesizes OpenType fonts in memory, for use in tests.

Fonts are described by a Font value and rendered to their binary form with
Bytes. Only the tables needed by this module are written: head, hhea, hmtx,
maxp, OS/2, post, name, optionally vhea/vmtx, CFF and GPOS. Glyph outlines are
never written.

	f := ottest.Font{
	    UnitsPerEm: 1000,
	    Glyphs:     []ottest.Glyph{{Name: ".notdef", Advance: 1000}, {Name: "A", Advance: 600}},
	}
	otf, err := ot.Parse(f.Bytes())
*/
package ottest

import (
	"encoding/binary"
	"sort"
	"unicode/utf16"
)

// Outlines selects the flavour of a synthesized font.
type Outlines int

// Outline flavours. TrueType fonts carry glyph names in their post table,
// CFF fonts in the charset of a name-keyed or CID-keyed CFF table.
const (
	TrueType Outlines = iota
	CFF
	CIDKeyedCFF
)

// Glyph describes the metrics and the naming of a single glyph.
type Glyph struct {
	Name     string
	Advance  uint16 // horizontal advance
	LSB      int16
	VAdvance uint16 // vertical advance, used if the font is vertical
	TSB      int16
	CID      uint16 // for CID-keyed CFF fonts
	SID      uint16 // for name-keyed CFF fonts: use a standard string instead of Name
}

// Value is a GPOS value record. Fields which are zero are omitted from the
// value format, unless a lookup specifies an explicit format.
type Value struct {
	XPlacement, YPlacement, XAdvance, YAdvance int16
}

// Lookup describes a GPOS lookup with a single subtable.
type Lookup struct {
	Type        uint16   // GPOS lookup type; 0 means 1 (single adjustment)
	Format      uint16   // single adjustment format, 1 or 2; 0 means 2
	ValueFormat uint16   // 0 means derive from values
	Coverage    uint16   // coverage format, 1 or 2; 0 means 1
	Glyphs      []uint16 // covered glyphs
	Values      []Value  // one per covered glyph, or exactly one for format 1
	Extension   bool     // wrap the subtable in an extension subtable
}

// Feature is a GPOS FeatureList entry.
type Feature struct {
	Tag     string
	Lookups []uint16
}

// Font describes a synthetic OpenType font.
type Font struct {
	Outlines      Outlines
	UnitsPerEm    uint16 // 0 means 1000
	Ascender      int16
	Descender     int16  // hhea descender
	TypoDescender *int16 // if non-nil, an OS/2 table is written
	Family        string // if non-empty, a name table is written
	Glyphs        []Glyph
	Vertical      bool // write vhea and vmtx
	CompactHMtx   bool // collapse trailing glyphs of equal advance into the side-bearing array
	PostFormat1   bool // write post format 1 (standard Macintosh names) for TrueType fonts
	Features      []Feature
	Lookups       []Lookup
	RawGPOS       []byte // if non-nil, used instead of Features and Lookups
	Tables        map[string][]byte
}

// HasGPOS is a predicate: will the font contain a GPOS table?
func (f Font) HasGPOS() bool {
	return f.RawGPOS != nil || len(f.Features) > 0 || len(f.Lookups) > 0
}

// Bytes renders the font to its binary form.
func (f Font) Bytes() []byte {
	return f.build(0)
}

// Collection renders fonts into a font collection (TTC/OTC).
func Collection(fonts ...Font) []byte {
	var b []byte
	b = appendU32(b, 0x74746366) // 'ttcf'
	b = appendU32(b, 0x00010000)
	b = appendU32(b, uint32(len(fonts)))
	offsetsAt := len(b)
	for range fonts {
		b = appendU32(b, 0)
	}
	for i, f := range fonts {
		b = pad4(b)
		binary.BigEndian.PutUint32(b[offsetsAt+4*i:], uint32(len(b)))
		b = append(b, f.build(uint32(len(b)))...)
	}
	return b
}

func (f Font) build(base uint32) []byte {
	tables := map[string][]byte{
		"head": f.head(),
		"hhea": f.header(f.Ascender, f.Descender, f.hMetricsCount()),
		"hmtx": f.hmtx(),
		"maxp": f.maxp(),
	}
	if f.TypoDescender != nil {
		tables["OS/2"] = f.os2()
	}
	if f.Family != "" {
		tables["name"] = f.name()
	}
	if f.Vertical {
		tables["vhea"] = f.header(int16(f.upm()/2), -int16(f.upm()/2), len(f.Glyphs))
		tables["vmtx"] = f.vmtx()
	}
	switch f.Outlines {
	case CFF, CIDKeyedCFF:
		tables["CFF "] = f.cff()
		tables["post"] = f.post(3)
	default:
		if f.PostFormat1 {
			tables["post"] = f.post(1)
		} else {
			tables["post"] = f.post(2)
		}
	}
	if f.RawGPOS != nil {
		tables["GPOS"] = f.RawGPOS
	} else if f.HasGPOS() {
		tables["GPOS"] = f.gpos()
	}
	for tag, t := range f.Tables {
		tables[tag] = t
	}
	return assemble(f.sfntVersion(), tables, base)
}

func (f Font) sfntVersion() uint32 {
	if f.Outlines == TrueType {
		return 0x00010000
	}
	return 0x4f54544f // OTTO
}

func (f Font) upm() uint16 {
	if f.UnitsPerEm == 0 {
		return 1000
	}
	return f.UnitsPerEm
}

// assemble writes the table directory and the tables, sorted by tag.
// Table offsets are relative to the start of the file, which is base bytes
// before the table directory.
func assemble(version uint32, tables map[string][]byte, base uint32) []byte {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	var b []byte
	b = appendU32(b, version)
	b = appendU16(b, uint16(len(tags)))
	b = appendU16(b, 0) // searchRange etc. are not checked by parsers we care about
	b = appendU16(b, 0)
	b = appendU16(b, 0)
	offset := uint32(len(b) + 16*len(tags))
	offset = (offset + 3) &^ 3
	var data []byte
	for _, tag := range tags {
		t := tables[tag]
		b = append(b, []byte(tag)...)
		b = appendU32(b, 0) // checksum
		b = appendU32(b, base+offset+uint32(len(data)))
		b = appendU32(b, uint32(len(t)))
		data = pad4(append(data, t...))
	}
	b = pad4(b)
	return append(b, data...)
}

// --- Tables ----------------------------------------------------------------

func (f Font) head() []byte {
	b := make([]byte, 54)
	binary.BigEndian.PutUint32(b[0:], 0x00010000)
	binary.BigEndian.PutUint32(b[12:], 0x5f0f3cf5) // magic number
	binary.BigEndian.PutUint16(b[16:], 0x0003)
	binary.BigEndian.PutUint16(b[18:], f.upm())
	return b
}

func (f Font) header(asc, desc int16, n int) []byte {
	b := make([]byte, 36)
	binary.BigEndian.PutUint32(b[0:], 0x00010000)
	binary.BigEndian.PutUint16(b[4:], uint16(asc))
	binary.BigEndian.PutUint16(b[6:], uint16(desc))
	binary.BigEndian.PutUint16(b[34:], uint16(n))
	return b
}

func (f Font) hMetricsCount() int {
	n := len(f.Glyphs)
	if f.CompactHMtx {
		for n > 1 && f.Glyphs[n-1].Advance == f.Glyphs[n-2].Advance {
			n--
		}
	}
	return n
}

func (f Font) hmtx() []byte {
	var b []byte
	n := f.hMetricsCount()
	for i, g := range f.Glyphs {
		if i < n {
			b = appendU16(b, g.Advance)
		}
		b = appendU16(b, uint16(g.LSB))
	}
	return b
}

func (f Font) vmtx() []byte {
	var b []byte
	for _, g := range f.Glyphs {
		b = appendU16(b, g.VAdvance)
		b = appendU16(b, uint16(g.TSB))
	}
	return b
}

func (f Font) maxp() []byte {
	var b []byte
	b = appendU32(b, 0x00005000)
	return appendU16(b, uint16(len(f.Glyphs)))
}

func (f Font) os2() []byte {
	b := make([]byte, 96)
	binary.BigEndian.PutUint16(b[0:], 4)
	binary.BigEndian.PutUint16(b[68:], uint16(f.Ascender))
	binary.BigEndian.PutUint16(b[70:], uint16(*f.TypoDescender))
	return b
}

func (f Font) post(format int) []byte {
	b := make([]byte, 32)
	binary.BigEndian.PutUint32(b[0:], uint32(format)<<16)
	if format != 2 {
		return b
	}
	b = appendU16(b, uint16(len(f.Glyphs)))
	var strs []byte
	k := 0
	for _, g := range f.Glyphs {
		if g.Name == ".notdef" || g.Name == "" {
			b = appendU16(b, 0)
			continue
		}
		b = appendU16(b, uint16(258+k))
		strs = append(strs, byte(len(g.Name)))
		strs = append(strs, []byte(g.Name)...)
		k++
	}
	return append(b, strs...)
}

func (f Font) name() []byte {
	strs := [][]byte{utf16BE(f.Family), utf16BE(f.Family + " Regular")}
	ids := []uint16{1, 4}
	var b []byte
	b = appendU16(b, 0)
	b = appendU16(b, uint16(len(ids)))
	b = appendU16(b, uint16(6+12*len(ids)))
	var data []byte
	for i, id := range ids {
		b = appendU16(b, 3)      // platform Windows
		b = appendU16(b, 1)      // encoding Unicode BMP
		b = appendU16(b, 0x0409) // language en-US
		b = appendU16(b, id)
		b = appendU16(b, uint16(len(strs[i])))
		b = appendU16(b, uint16(len(data)))
		data = append(data, strs[i]...)
	}
	return append(b, data...)
}

func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = appendU16(b, u)
	}
	return b
}

// --- CFF -------------------------------------------------------------------

// cff writes a CFF table down to the charset. CharStrings are not written.
func (f Font) cff() []byte {
	var strs [][]byte
	sids := make([]uint16, len(f.Glyphs))
	for i, g := range f.Glyphs {
		if i == 0 {
			continue
		}
		switch {
		case f.Outlines == CIDKeyedCFF:
			sids[i] = g.CID
		case g.SID != 0:
			sids[i] = g.SID
		default:
			sids[i] = uint16(391 + len(strs))
			strs = append(strs, []byte(g.Name))
		}
	}
	var rosOperands []byte
	if f.Outlines == CIDKeyedCFF {
		strs = append(strs, []byte("Adobe"), []byte("Japan1"))
		n := len(strs)
		rosOperands = append(rosOperands, cffInt(391+n-2)...)
		rosOperands = append(rosOperands, cffInt(391+n-1)...)
		rosOperands = append(rosOperands, cffInt(6)...)
		rosOperands = append(rosOperands, 12, 30)
	}
	header := []byte{1, 0, 4, 4}
	nameIndex := cffIndex([][]byte{[]byte("Synthetic")})
	stringIndex := cffIndex(strs)
	gsubrIndex := cffIndex(nil)
	// top DICT: [ROS] charset, with the charset offset as a fixed-size int32
	topDictLen := len(rosOperands) + 5 + 1
	topIndexLen := len(cffIndex([][]byte{make([]byte, topDictLen)}))
	charsetAt := len(header) + len(nameIndex) + topIndexLen + len(stringIndex) + len(gsubrIndex)
	topDict := append([]byte{}, rosOperands...)
	topDict = append(topDict, 29)
	topDict = appendU32(topDict, uint32(charsetAt))
	topDict = append(topDict, 15)
	var b []byte
	b = append(b, header...)
	b = append(b, nameIndex...)
	b = append(b, cffIndex([][]byte{topDict})...)
	b = append(b, stringIndex...)
	b = append(b, gsubrIndex...)
	b = append(b, 0) // charset format 0
	for _, sid := range sids[1:] {
		b = appendU16(b, sid)
	}
	return b
}

func cffIndex(entries [][]byte) []byte {
	var b []byte
	b = appendU16(b, uint16(len(entries)))
	if len(entries) == 0 {
		return b
	}
	b = append(b, 4) // offSize
	off := uint32(1)
	b = appendU32(b, off)
	for _, e := range entries {
		off += uint32(len(e))
		b = appendU32(b, off)
	}
	for _, e := range entries {
		b = append(b, e...)
	}
	return b
}

func cffInt(v int) []byte {
	b := []byte{28}
	return appendU16(b, uint16(int16(v)))
}

// --- GPOS ------------------------------------------------------------------

func (f Font) gpos() []byte {
	var b []byte
	b = appendU16(b, 1) // version 1.0
	b = appendU16(b, 0)
	b = appendU16(b, 10) // scriptListOffset
	b = appendU16(b, 0)  // featureListOffset, patched below
	b = appendU16(b, 0)  // lookupListOffset, patched below
	b = appendU16(b, 0)  // empty ScriptList
	binary.BigEndian.PutUint16(b[6:], uint16(len(b)))
	b = append(b, featureList(f.Features)...)
	b = pad2(b)
	binary.BigEndian.PutUint16(b[8:], uint16(len(b)))
	return append(b, lookupList(f.Lookups)...)
}

func featureList(features []Feature) []byte {
	var b []byte
	b = appendU16(b, uint16(len(features)))
	var tables []byte
	start := 2 + 6*len(features)
	for _, ft := range features {
		b = append(b, []byte((ft.Tag + "    ")[:4])...)
		b = appendU16(b, uint16(start+len(tables)))
		tables = appendU16(tables, 0) // featureParamsOffset
		tables = appendU16(tables, uint16(len(ft.Lookups)))
		for _, l := range ft.Lookups {
			tables = appendU16(tables, l)
		}
	}
	return append(b, tables...)
}

func lookupList(lookups []Lookup) []byte {
	var b []byte
	b = appendU16(b, uint16(len(lookups)))
	var tables []byte
	start := 2 + 2*len(lookups)
	for _, l := range lookups {
		b = appendU16(b, uint16(start+len(tables)))
		tables = append(tables, l.bytes()...)
	}
	return append(b, tables...)
}

func (l Lookup) bytes() []byte {
	ltype := l.Type
	if ltype == 0 {
		ltype = 1
	}
	var sub []byte
	if ltype == 1 {
		sub = l.singlePos()
	} else {
		sub = appendU16(nil, 1) // format only
		sub = appendU16(sub, 0)
	}
	var b []byte
	if l.Extension {
		b = appendU16(b, 9)
	} else {
		b = appendU16(b, ltype)
	}
	b = appendU16(b, 0) // lookupFlag
	b = appendU16(b, 1) // subTableCount
	b = appendU16(b, 8) // subtable offset
	if l.Extension {
		b = appendU16(b, 1) // extension format
		b = appendU16(b, ltype)
		b = appendU32(b, 8)
	}
	return append(b, sub...)
}

func (l Lookup) valueFormat() uint16 {
	if l.ValueFormat != 0 {
		return l.ValueFormat
	}
	var vf uint16
	for _, v := range l.Values {
		if v.XPlacement != 0 {
			vf |= 0x1
		}
		if v.YPlacement != 0 {
			vf |= 0x2
		}
		if v.XAdvance != 0 {
			vf |= 0x4
		}
		if v.YAdvance != 0 {
			vf |= 0x8
		}
	}
	return vf
}

func (l Lookup) singlePos() []byte {
	format := l.Format
	if format == 0 {
		format = 2
	}
	vf := l.valueFormat()
	var b []byte
	b = appendU16(b, format)
	b = appendU16(b, 0) // coverage offset, patched below
	b = appendU16(b, vf)
	if format == 1 {
		var v Value
		if len(l.Values) > 0 {
			v = l.Values[0]
		}
		b = appendValue(b, v, vf)
	} else {
		b = appendU16(b, uint16(len(l.Values)))
		for _, v := range l.Values {
			b = appendValue(b, v, vf)
		}
	}
	binary.BigEndian.PutUint16(b[2:], uint16(len(b)))
	return append(b, coverage(l.Glyphs, l.Coverage)...)
}

func appendValue(b []byte, v Value, vf uint16) []byte {
	if vf&0x1 != 0 {
		b = appendU16(b, uint16(v.XPlacement))
	}
	if vf&0x2 != 0 {
		b = appendU16(b, uint16(v.YPlacement))
	}
	if vf&0x4 != 0 {
		b = appendU16(b, uint16(v.XAdvance))
	}
	if vf&0x8 != 0 {
		b = appendU16(b, uint16(v.YAdvance))
	}
	for f := uint16(0x10); f <= 0x80; f <<= 1 {
		if vf&f != 0 {
			b = appendU16(b, 0) // NULL device offset
		}
	}
	return b
}

// coverage writes a coverage table. For format 2, glyphs are expected to be
// sorted; runs of consecutive glyph IDs become ranges.
func coverage(glyphs []uint16, format uint16) []byte {
	var b []byte
	if format != 2 {
		b = appendU16(b, 1)
		b = appendU16(b, uint16(len(glyphs)))
		for _, g := range glyphs {
			b = appendU16(b, g)
		}
		return b
	}
	type rng struct{ from, to, start uint16 }
	var ranges []rng
	for i, g := range glyphs {
		if n := len(ranges); n > 0 && ranges[n-1].to+1 == g {
			ranges[n-1].to = g
			continue
		}
		ranges = append(ranges, rng{g, g, uint16(i)})
	}
	b = appendU16(b, 2)
	b = appendU16(b, uint16(len(ranges)))
	for _, r := range ranges {
		b = appendU16(b, r.from)
		b = appendU16(b, r.to)
		b = appendU16(b, r.start)
	}
	return b
}

// --- Helpers ---------------------------------------------------------------

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func pad2(b []byte) []byte {
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	return b
}

func pad4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}
