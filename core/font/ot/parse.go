package ot

// Code comment often will cite passage from the
// OpenType specification version 1.8.4;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

const ttcTag = 0x74746366 // 'ttcf'

// Parse parses an OpenType font from a byte slice. If font is a font collection,
// the first font of the collection is parsed.
// An ot.Font needs ongoing access to the fonts byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
func Parse(font []byte) (*Font, error) {
	return ParseFont(font, 0)
}

// IsCollection is a predicate: does font contain a font collection (*.ttc, *.otc)?
func IsCollection(font []byte) bool {
	return len(font) >= 4 && u32(font) == ttcTag
}

// NumFonts returns the number of fonts contained in font data. For a single font
// this will be 1, for collections it is the number of fonts stated in the
// collection header.
func NumFonts(font []byte) (int, error) {
	if !IsCollection(font) {
		return 1, nil
	}
	n, err := binarySegm(font).u32(8)
	if err != nil {
		return 0, errFontFormat("font collection header")
	}
	return int(n), nil
}

// ParseFont parses the font at position index from a byte slice. For fonts which are
// not part of a collection, index has to be 0.
func ParseFont(font []byte, index int) (*Font, error) {
	src := binarySegm(font)
	offset, err := directoryOffset(src, index)
	if err != nil {
		return nil, err
	}
	// https://www.microsoft.com/typography/otspec/otff.htm: Offset Table is 12 bytes.
	h := FontHeader{Offset: offset}
	if h.FontType, err = src.u32(int(offset)); err != nil {
		return nil, errFontFormat("font header")
	}
	if h.TableCount, err = src.u16(int(offset) + 4); err != nil {
		return nil, errFontFormat("font header")
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if !(h.FontType == 0x4f54544f || // OTTO
		h.FontType == 0x00010000 || // TrueType
		h.FontType == 0x74727565) { // true
		return nil, errFontFormat("font type not supported: %x", h.FontType)
	}
	otf := &Font{Header: &h, tables: make(map[Tag]Table)}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	buf, err := src.view(int(offset)+12, 16*int(h.TableCount))
	if err != nil {
		return nil, errFontFormat("table record entries")
	}
	for b, prevTag := buf, Tag(0); len(b) > 0; b = b[16:] {
		tag := MakeTag(b)
		if tag < prevTag {
			return nil, errFontFormat("table order")
		}
		prevTag = tag
		off, size := u32(b[8:12]), u32(b[12:16])
		if off&3 != 0 { // ignore checksums, but "all tables must begin on four byte boundries".
			return nil, errFontFormat("invalid table offset for table %s", tag)
		}
		data, err := src.view(int(off), int(size))
		if err != nil {
			return nil, errFontFormat("table %s exceeds font data", tag)
		}
		t, err := parseTable(tag, data, off, size)
		if err != nil {
			return nil, err
		}
		if t != nil {
			otf.tables[tag] = t
		}
	}
	if err := extractFontInfo(otf); err != nil {
		return nil, err
	}
	return otf, nil
}

func directoryOffset(src binarySegm, index int) (uint32, error) {
	if !IsCollection(src) {
		if index != 0 {
			return 0, errFontFormat("font index %d requested, but font is not a collection", index)
		}
		return 0, nil
	}
	n, err := NumFonts(src)
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= n {
		return 0, errFontFormat("font index %d out of range, collection has %d fonts", index, n)
	}
	offset, err := src.u32(12 + 4*index)
	if err != nil {
		return 0, errFontFormat("font collection header")
	}
	tracer().Debugf("font %d of collection starts at offset %d", index, offset)
	return offset, nil
}

// According to the OpenType spec, the following tables are
// required for the font to function correctly. We require a subset only.
var RequiredTables = []string{
	"head", "hhea", "hmtx", "maxp",
}

// Consistency check and shortcuts to essential tables.
func extractFontInfo(otf *Font) error {
	for _, tag := range RequiredTables {
		if otf.tables[T(tag)] == nil {
			return errFontFormat("missing required table %s", tag)
		}
	}
	otf.Head = otf.tables[T("head")].Self().AsHead()
	otf.MaxP = otf.tables[T("maxp")].Self().AsMaxP()
	otf.HHea = otf.tables[T("hhea")].Self().AsHeader()
	otf.HMtx = otf.tables[T("hmtx")].Self().AsMetrics()
	otf.HMtx.NumberOfMetrics = otf.HHea.NumberOfMetrics
	otf.HMtx.NumGlyphs = otf.MaxP.NumGlyphs
	if otf.HHea.NumberOfMetrics == 0 || otf.HHea.NumberOfMetrics > otf.MaxP.NumGlyphs {
		return errFontFormat("hhea.numberOfHMetrics = %d, but font has %d glyphs",
			otf.HHea.NumberOfMetrics, otf.MaxP.NumGlyphs)
	}
	if vh, vm := otf.tables[T("vhea")], otf.tables[T("vmtx")]; vh != nil && vm != nil {
		otf.VHea = vh.Self().AsHeader()
		otf.VMtx = vm.Self().AsMetrics()
		otf.VMtx.NumberOfMetrics = otf.VHea.NumberOfMetrics
		otf.VMtx.NumGlyphs = otf.MaxP.NumGlyphs
	}
	if os2 := otf.tables[T("OS/2")]; os2 != nil {
		otf.OS2 = os2.Self().AsOS2()
	}
	if gpos := otf.tables[T("GPOS")]; gpos != nil {
		otf.Layout.GPos = gpos.Self().AsGPos()
	}
	return nil
}

func parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	switch t {
	case T("head"):
		return parseHead(t, b, offset, size)
	case T("maxp"):
		return parseMaxP(t, b, offset, size)
	case T("hhea"), T("vhea"):
		return parseHeader(t, b, offset, size)
	case T("hmtx"), T("vmtx"):
		return parseMetrics(t, b, offset, size)
	case T("OS/2"):
		return parseOS2(t, b, offset, size)
	case T("post"):
		return parsePost(t, b, offset, size)
	case T("GPOS"):
		return parseGPos(t, b, offset, size)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// --- Head table ------------------------------------------------------------

func parseHead(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 54 {
		return nil, errFontFormat("size of head table")
	}
	t := &HeadTable{tableBase: makeBase(tag, b, offset, size)}
	t.self = t
	t.Flags, _ = b.u16(16)
	t.UnitsPerEm, _ = b.u16(18)
	t.IndexToLocFormat, _ = b.u16(50)
	// "This value should be a power of 2 … valid range is from 16 to 16384."
	if t.UnitsPerEm < 16 || t.UnitsPerEm > 16384 {
		return nil, errFontFormat("head.unitsPerEm out of range: %d", t.UnitsPerEm)
	}
	return t, nil
}

// --- MaxP table ------------------------------------------------------------

// This table establishes the memory requirements for this font. Fonts with CFF data
// must use Version 0.5 of this table, specifying only the numGlyphs field. Fonts
// with TrueType outlines must use Version 1.0 of this table, where all data is required.
func parseMaxP(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 6 {
		return nil, errFontFormat("size of maxp table")
	}
	t := &MaxPTable{tableBase: makeBase(tag, b, offset, size)}
	t.self = t
	n, _ := b.u16(4)
	t.NumGlyphs = int(n)
	return t, nil
}

// --- HHea/VHea tables ------------------------------------------------------

// 'hhea' and 'vhea' share the layout of the fields we need:
// ascender at 4, descender at 6, lineGap at 8 and the number of long
// metrics at 34.
func parseHeader(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	tracer().Debugf("%s table has size %d", tag, size)
	if size < 36 {
		return nil, errFontFormat("%s table incomplete", tag)
	}
	t := &HeaderTable{tableBase: makeBase(tag, b, offset, size)}
	t.self = t
	t.Ascender, _ = b.i16(4)
	t.Descender, _ = b.i16(6)
	t.LineGap, _ = b.i16(8)
	n, _ := b.u16(34)
	t.NumberOfMetrics = int(n)
	return t, nil
}

// --- HMtx/VMtx tables ------------------------------------------------------

// Dependencies (taken from Apple Developer page about TrueType):
// The value of the numOfLongHorMetrics field is found in the 'hhea' (Horizontal Header)
// table. Fonts that lack an 'hhea' table must not have an 'hmtx' table.
// The same holds for 'vmtx' and 'vhea'. The counts are set during the
// consistency check after all tables have been read.
func parseMetrics(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size == 0 {
		return nil, nil
	}
	t := &MetricsTable{tableBase: makeBase(tag, b, offset, size)}
	t.self = t
	return t, nil
}

// --- OS/2 table ------------------------------------------------------------

func parseOS2(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 2 {
		return nil, errFontFormat("size of OS/2 table")
	}
	t := &OS2Table{tableBase: makeBase(tag, b, offset, size)}
	t.self = t
	t.Version, _ = b.u16(0)
	t.TypoAscender, _ = b.i16(68)
	t.TypoDescender, _ = b.i16(70)
	t.TypoLineGap, _ = b.i16(72)
	return t, nil
}

// --- Post table ------------------------------------------------------------

func parsePost(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	if size < 32 {
		return nil, errFontFormat("size of post table")
	}
	t := &PostTable{tableBase: makeBase(tag, b, offset, size)}
	t.self = t
	t.Version, _ = b.u32(0)
	return t, nil
}
