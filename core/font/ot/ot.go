package ot

import (
	"fmt"
)

// Font represents the internal structure of an OpenType font.
// It is used to navigate properties of a font for deriving glyph anchors.
//
// Shortcuts to the tables we interpret are set up during parsing. Shortcuts for
// optional tables may be nil; the mandatory ones (head, maxp, hhea, hmtx) are
// guaranteed to be non-nil for a font returned by Parse.
type Font struct {
	Header *FontHeader
	tables map[Tag]Table
	Head   *HeadTable
	MaxP   *MaxPTable
	HHea   *HeaderTable   // horizontal header
	HMtx   *MetricsTable  // horizontal metrics
	VHea   *HeaderTable   // vertical header, optional
	VMtx   *MetricsTable  // vertical metrics, optional
	OS2    *OS2Table      // optional, though mandatory per spec
	Layout struct {       // OpenType layout tables
		GPos *GPosTable // OpenType layout GPOS, optional
	}
	glyphNames []string // lazily created
}

// FontHeader is a directory of the top-level tables in a font. If the font file
// contains only one font, the table directory will begin at byte 0 of the file.
// If the font file is an OpenType Font Collection file, the beginning
// point of the table directory for each font is indicated in the TTCHeader.
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2) should
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
type FontHeader struct {
	FontType   uint32
	TableCount uint16
	Offset     uint32 // offset of the table directory within the file
}

// IsCFF is a predicate: does the font contain CFF outlines?
func (h FontHeader) IsCFF() bool {
	return h.FontType == 0x4f54544f
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Table tag names are case-sensitive, following the names in the OpenType specification,
// e.g. "GPOS", "OS/2" or "CFF " (with a trailing space).
func (otf *Font) Table(tag Tag) Table {
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// HasTable is a predicate: does the font contain a table for tag?
func (otf *Font) HasTable(tag Tag) bool {
	_, ok := otf.tables[tag]
	return ok
}

// TableTags returns a list of tags, one for each table contained in the font.
// Tags are sorted in the order of the font's table directory.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sortTags(tags)
	return tags
}

// NumGlyphs returns the number of glyphs in the font, as stated by table maxp.
func (otf *Font) NumGlyphs() int {
	return otf.MaxP.NumGlyphs
}

// UnitsPerEm returns the size of the em square in font units.
func (otf *Font) UnitsPerEm() int {
	return int(otf.Head.UnitsPerEm)
}

// Descender returns the typographic descender of the font, in font units
// (usually negative). It is taken from OS/2.sTypoDescender, if present,
// otherwise from hhea.descender.
func (otf *Font) Descender() int {
	if otf.OS2 != nil && otf.OS2.HasTypoMetrics() {
		return int(otf.OS2.TypoDescender)
	}
	return int(otf.HHea.Descender)
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the spec as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
//
//	MakeTag([]byte("palt"))
//
// If b is shorter or longer, it will be silently extended or cut as appropriate.
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended with spaces or cut as appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

func sortTags(tags []Tag) {
	for i := 1; i < len(tags); i++ { // insertion sort, tables are few
		for j := i; j > 0 && tags[j] < tags[j-1]; j-- {
			tags[j], tags[j-1] = tags[j-1], tags[j]
		}
	}
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Tables we interpret will have a semantic Go type, reachable via Self(), e.g.
//
//	gpos := otf.Table(ot.T("GPOS")).Self().AsGPos()
//
// Tables not interpreted by this package are represented by a generic type,
// exposing only their binary data.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if tself.tableBase == nil {
		return nil
	}
	if h, ok := tself.tableBase.self.(*HeadTable); ok {
		return h
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if tself.tableBase == nil {
		return nil
	}
	if m, ok := tself.tableBase.self.(*MaxPTable); ok {
		return m
	}
	return nil
}

// AsHeader returns this table as a hhea or vhea table, or nil.
func (tself TableSelf) AsHeader() *HeaderTable {
	if tself.tableBase == nil {
		return nil
	}
	if h, ok := tself.tableBase.self.(*HeaderTable); ok {
		return h
	}
	return nil
}

// AsMetrics returns this table as a hmtx or vmtx table, or nil.
func (tself TableSelf) AsMetrics() *MetricsTable {
	if tself.tableBase == nil {
		return nil
	}
	if m, ok := tself.tableBase.self.(*MetricsTable); ok {
		return m
	}
	return nil
}

// AsOS2 returns this table as an OS/2 table, or nil.
func (tself TableSelf) AsOS2() *OS2Table {
	if tself.tableBase == nil {
		return nil
	}
	if o, ok := tself.tableBase.self.(*OS2Table); ok {
		return o
	}
	return nil
}

// AsGPos returns this table as a GPOS table, or nil.
func (tself TableSelf) AsGPos() *GPosTable {
	if tself.tableBase == nil {
		return nil
	}
	if g, ok := tself.tableBase.self.(*GPosTable); ok {
		return g
	}
	return nil
}

// AsPost returns this table as a post table, or nil.
func (tself TableSelf) AsPost() *PostTable {
	if tself.tableBase == nil {
		return nil
	}
	if p, ok := tself.tableBase.self.(*PostTable); ok {
		return p
	}
	return nil
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	},
	}
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   interface{}
}

// Extent returns offset and byte size of this table within the OpenType font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

// Self returns a reference to the concrete table.
func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

func makeBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
}

// --- Tables ----------------------------------------------------------------

// HeadTable gives global information about the font.
type HeadTable struct {
	tableBase
	Flags            uint16
	UnitsPerEm       uint16
	IndexToLocFormat uint16 // needed to interpret loca table
}

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

// HeaderTable contains information for horizontal or vertical layout,
// i.e. it represents either a 'hhea' or a 'vhea' table. Both share the same
// layout for the fields we are interested in.
type HeaderTable struct {
	tableBase
	Ascender        int16
	Descender       int16
	LineGap         int16
	NumberOfMetrics int // numberOfHMetrics or numOfLongVerMetrics
}

// MetricsTable contains metric information for horizontal ('hmtx') or
// vertical ('vmtx') layout of each glyph in the font. Each element in the
// contained metrics-array has two parts: the advance and a side bearing.
// The number of entries is taken from the corresponding header table.
// Optionally, an array of side bearings follows.
// The corresponding glyphs are assumed to have the same advance as that
// found in the last entry in the metrics array.
type MetricsTable struct {
	tableBase
	NumberOfMetrics int
	NumGlyphs       int
}

// Metrics returns the advance and the side bearing (left for 'hmtx', top for
// 'vmtx') of a glyph. If g is out of range, ok is false.
func (t *MetricsTable) Metrics(g GlyphIndex) (advance uint16, sb int16, ok bool) {
	if t == nil || t.NumberOfMetrics <= 0 || int(g) >= t.NumGlyphs {
		return 0, 0, false
	}
	var err error
	if int(g) < t.NumberOfMetrics {
		if advance, err = t.data.u16(int(g) * 4); err != nil {
			return 0, 0, false
		}
		if sb, err = t.data.i16(int(g)*4 + 2); err != nil {
			return 0, 0, false
		}
		return advance, sb, true
	}
	if advance, err = t.data.u16((t.NumberOfMetrics - 1) * 4); err != nil {
		return 0, 0, false
	}
	at := t.NumberOfMetrics*4 + (int(g)-t.NumberOfMetrics)*2
	if sb, err = t.data.i16(at); err != nil {
		return advance, 0, false
	}
	return advance, sb, true
}

// OS2Table holds OS/2 and Windows specific metrics. We are interested in
// the typographic metrics only.
type OS2Table struct {
	tableBase
	Version       uint16
	TypoAscender  int16
	TypoDescender int16
	TypoLineGap   int16
}

// HasTypoMetrics is a predicate: does the OS/2 table contain typographic metrics?
// Version 0 tables written by old Apple tools may be truncated before them.
func (t *OS2Table) HasTypoMetrics() bool {
	return t.length >= 74
}

// PostTable contains PostScript information, most notably the glyph names.
type PostTable struct {
	tableBase
	Version uint32
}

func (t *PostTable) String() string {
	return fmt.Sprintf("post(version %d.%d)", t.Version>>16, (t.Version&0xffff)>>12)
}
