package ot

import (
	"fmt"
	"strconv"
)

// GPosTable is a type representing an OpenType GPOS table
// (see https://docs.microsoft.com/en-us/typography/opentype/spec/gpos).
type GPosTable struct {
	tableBase
	LayoutTable
}

var _ Table = &GPosTable{}

// LayoutTable represents the parts common to the OpenType layout tables GSUB and GPOS,
// with the feature list and the lookup list decoded. Script lists are not decoded,
// as we are interested in features regardless of script and language.
type LayoutTable struct {
	Major, Minor uint16
	FeatureList  []FeatureRecord
	LookupList   []Lookup
}

// FeatureRecord is an entry of a layout table's FeatureList. Feature tags may occur
// more than once in a FeatureList, usually once per script or language system.
type FeatureRecord struct {
	Tag           Tag
	LookupIndices []int // indices into the LookupList
}

// LayoutTableLookupType is the type of a lookup in GSUB or GPOS.
type LayoutTableLookupType uint16

// GPOS Lookup Type Enumeration
const (
	GPosLookupTypeSingle            LayoutTableLookupType = 1 // Adjust position of a single glyph
	GPosLookupTypePair              LayoutTableLookupType = 2 // Adjust position of a pair of glyphs
	GPosLookupTypeCursive           LayoutTableLookupType = 3 // Attach cursive glyphs
	GPosLookupTypeMarkToBase        LayoutTableLookupType = 4 // Attach a combining mark to a base glyph
	GPosLookupTypeMarkToLigature    LayoutTableLookupType = 5 // Attach a combining mark to a ligature
	GPosLookupTypeMarkToMark        LayoutTableLookupType = 6 // Attach a combining mark to another mark
	GPosLookupTypeContextPos        LayoutTableLookupType = 7 // Position one or more glyphs in context
	GPosLookupTypeChainedContextPos LayoutTableLookupType = 8 // Position one or more glyphs in chained context
	GPosLookupTypeExtensionPos      LayoutTableLookupType = 9 // Extension mechanism for other positionings
)

const gposLookupTypeNames = "Single|Pair|Cursive|MarkToBase|MarkToLigature|MarkToMark|ContextPos|Chained|Ext"

var gposLookupTypeInx = [...]int{0, 7, 12, 20, 31, 46, 57, 68, 76, 80}

// GPosString interprets a layout table lookup type as a GPOS table type.
func (lt LayoutTableLookupType) GPosString() string {
	if lt >= GPosLookupTypeSingle && lt <= GPosLookupTypeExtensionPos {
		i := lt - 1
		return gposLookupTypeNames[gposLookupTypeInx[i] : gposLookupTypeInx[i+1]-1]
	}
	return strconv.Itoa(int(lt))
}

// Lookup is a lookup table of the LookupList. For extension lookups, Type
// is the lookup type wrapped by the extension subtables and Extension is set.
type Lookup struct {
	Type      LayoutTableLookupType
	Flag      uint16
	Extension bool
	Subtables []LookupSubtable
}

// LookupSubtable is a subtable of a lookup. For GPOS single adjustment lookups
// coverage, value format and values are decoded; for all other lookup types
// only the format is recorded.
type LookupSubtable struct {
	Format      uint16
	Coverage    Coverage
	ValueFormat ValueFormat
	Values      []ValueRecord // one per covered glyph for format 2, exactly one for format 1
}

// ValueFor returns the value record for the glyph at position inx of the
// subtable's coverage.
func (sub LookupSubtable) ValueFor(inx int) (ValueRecord, bool) {
	switch sub.Format {
	case 1:
		if len(sub.Values) == 1 {
			return sub.Values[0], true
		}
	case 2:
		if inx >= 0 && inx < len(sub.Values) {
			return sub.Values[inx], true
		}
	}
	return ValueRecord{}, false
}

// ValueFormat is a bit-set, describing which fields are present in a value record.
type ValueFormat uint16

// Value format flags.
const (
	ValueXPlacement        ValueFormat = 0x0001 // horizontal adjustment for placement, in design units
	ValueYPlacement        ValueFormat = 0x0002 // vertical adjustment for placement, in design units
	ValueXAdvance          ValueFormat = 0x0004 // horizontal adjustment for advance, in design units
	ValueYAdvance          ValueFormat = 0x0008 // vertical adjustment for advance, in design units
	ValueXPlacementDevice  ValueFormat = 0x0010 // offset to device table or variation index
	ValueYPlacementDevice  ValueFormat = 0x0020
	ValueXAdvanceDevice    ValueFormat = 0x0040
	ValueYAdvanceDevice    ValueFormat = 0x0080
	valueFormatReservedMsk ValueFormat = 0xff00
)

// Size returns the byte size of a value record of this format.
func (vf ValueFormat) Size() int {
	n := 0
	for f := vf & 0xff; f != 0; f >>= 1 {
		n += int(f & 1)
	}
	return 2 * n
}

// Has is a predicate: is field f present in value records of this format?
func (vf ValueFormat) Has(f ValueFormat) bool {
	return vf&f != 0
}

func (vf ValueFormat) String() string {
	return fmt.Sprintf("ValueFormat(0x%04x)", uint16(vf))
}

// ValueRecord is a GPOS value record with device table offsets stripped.
// Fields not present in the record's value format are 0.
type ValueRecord struct {
	XPlacement int16
	YPlacement int16
	XAdvance   int16
	YAdvance   int16
}

// --- Parsing ---------------------------------------------------------------

// The Glyph Positioning table (GPOS) provides precise control over glyph placement for
// sophisticated text layout and rendering in each script and language system that a font
// supports.
func parseGPos(tag Tag, b binarySegm, offset, size uint32) (Table, error) {
	gpos := &GPosTable{tableBase: makeBase(tag, b, offset, size)}
	gpos.self = gpos
	var err error
	err = parseLayoutHeader(&gpos.LayoutTable, b, err)
	err = parseLookupList(&gpos.LayoutTable, b, err)
	err = parseFeatureList(&gpos.LayoutTable, b, err)
	if err != nil {
		tracer().Errorf("error parsing GPOS table: %v", err)
		return nil, errFontFormat("GPOS table: %v", err)
	}
	tracer().Debugf("GPOS table has version %d.%d", gpos.Major, gpos.Minor)
	tracer().Debugf("GPOS table has %d lookup list entries", len(gpos.LookupList))
	return gpos, nil
}

// parseLayoutHeader parses a layout table header, i.e. reads version information.
// Supports header versions 1.0 and 1.1
func parseLayoutHeader(lytt *LayoutTable, b binarySegm, err error) error {
	if err != nil {
		return err
	}
	if len(b) < 10 {
		return errBufferBounds
	}
	lytt.Major, lytt.Minor = b.U16(0), b.U16(2)
	if lytt.Major != 1 || (lytt.Minor != 0 && lytt.Minor != 1) {
		return fmt.Errorf("unsupported layout version (major: %d, minor: %d)",
			lytt.Major, lytt.Minor)
	}
	return nil
}

// The FeatureList table enumerates features in an array of records (FeatureRecord) and
// specifies the total number of features (FeatureCount). Every feature must have a
// FeatureRecord, which consists of a FeatureTag that identifies the feature and an offset
// to a Feature table. The FeatureRecord array is arranged alphabetically
// by FeatureTag names.
func parseFeatureList(lytt *LayoutTable, b binarySegm, err error) error {
	if err != nil {
		return err
	}
	features, err := b.jump16(6) // header field featureListOffset
	if err != nil {
		return err
	}
	if features == nil {
		return nil // no features
	}
	count, err := features.u16(0)
	if err != nil {
		return err
	}
	lytt.FeatureList = make([]FeatureRecord, 0, count)
	for i := 0; i < int(count); i++ {
		rec, err := features.view(2+i*6, 6)
		if err != nil {
			return fmt.Errorf("feature record %d: %w", i, err)
		}
		tag := MakeTag(rec[:4])
		// Feature table: featureParamsOffset, lookupIndexCount, lookupListIndices[]
		feature, err := features.jump16(2 + i*6 + 4)
		if err != nil || feature == nil {
			return fmt.Errorf("feature table for %s: %w", tag, errBufferBounds)
		}
		indices, err := feature.u16Array(2)
		if err != nil {
			return fmt.Errorf("lookup indices of feature %s: %w", tag, err)
		}
		rec16 := FeatureRecord{Tag: tag, LookupIndices: make([]int, 0, len(indices))}
		for _, inx := range indices {
			if int(inx) >= len(lytt.LookupList) {
				tracer().Errorf("feature %s references lookup %d, but LookupList has %d entries",
					tag, inx, len(lytt.LookupList))
				continue
			}
			rec16.LookupIndices = append(rec16.LookupIndices, int(inx))
		}
		lytt.FeatureList = append(lytt.FeatureList, rec16)
	}
	return nil
}

// parseLookupList parses the LookupList.
// See https://www.microsoft.com/typography/otspec/chapter2.htm#lulTbl
func parseLookupList(lytt *LayoutTable, b binarySegm, err error) error {
	if err != nil {
		return err
	}
	lookups, err := b.jump16(8) // header field lookupListOffset
	if err != nil {
		return err
	}
	if lookups == nil {
		return nil
	}
	offsets, err := lookups.u16Array(0)
	if err != nil {
		return err
	}
	lytt.LookupList = make([]Lookup, len(offsets))
	for i, off := range offsets {
		lb, err := lookups.from(int(off))
		if err != nil {
			return fmt.Errorf("lookup %d: %w", i, err)
		}
		if lytt.LookupList[i], err = parseLookup(lb); err != nil {
			return fmt.Errorf("lookup %d: %w", i, err)
		}
	}
	return nil
}

// Lookup table:
//
//	uint16    lookupType
//	uint16    lookupFlag
//	uint16    subTableCount
//	Offset16  subtableOffsets[subTableCount]
//	uint16    markFilteringSet (if lookupFlag & useMarkFilteringSet)
func parseLookup(b binarySegm) (Lookup, error) {
	lookup := Lookup{}
	if len(b) < 6 {
		return lookup, errBufferBounds
	}
	lookup.Type = LayoutTableLookupType(b.U16(0))
	lookup.Flag = b.U16(2)
	offsets, err := b.u16Array(4)
	if err != nil {
		return lookup, err
	}
	lookup.Subtables = make([]LookupSubtable, 0, len(offsets))
	for i, off := range offsets {
		sb, err := b.from(int(off))
		if err != nil {
			return lookup, fmt.Errorf("subtable %d: %w", i, err)
		}
		ltype := lookup.Type
		if ltype == GPosLookupTypeExtensionPos {
			if sb, ltype, err = resolveExtension(sb); err != nil {
				return lookup, fmt.Errorf("extension subtable %d: %w", i, err)
			}
			lookup.Extension = true
		}
		sub, err := parseGPosLookupSubtable(sb, ltype)
		if err != nil {
			return lookup, fmt.Errorf("subtable %d: %w", i, err)
		}
		lookup.Subtables = append(lookup.Subtables, sub)
		if lookup.Extension { // "all subtables in an extension lookup must have the same type"
			lookup.Type = ltype
		}
	}
	return lookup, nil
}

// Extension positioning subtable:
//
//	uint16    posFormat            (= 1)
//	uint16    extensionLookupType
//	Offset32  extensionOffset      (from beginning of this subtable)
func resolveExtension(b binarySegm) (binarySegm, LayoutTableLookupType, error) {
	if b.U16(0) != 1 {
		return nil, 0, fmt.Errorf("unknown extension format %d", b.U16(0))
	}
	ltype := LayoutTableLookupType(b.U16(2))
	if ltype == GPosLookupTypeExtensionPos {
		return nil, 0, fmt.Errorf("extension lookup wraps another extension")
	}
	sb, err := b.jump32(4)
	if err != nil || sb == nil {
		return nil, 0, errBufferBounds
	}
	return sb, ltype, nil
}

func parseGPosLookupSubtable(b binarySegm, lookupType LayoutTableLookupType) (LookupSubtable, error) {
	format, err := b.u16(0)
	if err != nil {
		return LookupSubtable{}, err
	}
	tracer().Debugf("parsing GPOS sub-table type %s, format %d", lookupType.GPosString(), format)
	sub := LookupSubtable{Format: format}
	if lookupType != GPosLookupTypeSingle {
		return sub, nil
	}
	return parseSinglePos(b, sub)
}

// Single adjustment positioning subtable, format 1:
//
//	uint16       posFormat
//	Offset16     coverageOffset
//	uint16       valueFormat
//	ValueRecord  valueRecord
//
// Format 2:
//
//	uint16       posFormat
//	Offset16     coverageOffset
//	uint16       valueFormat
//	uint16       valueCount
//	ValueRecord  valueRecords[valueCount]
func parseSinglePos(b binarySegm, sub LookupSubtable) (LookupSubtable, error) {
	cb, err := b.jump16(2)
	if err != nil || cb == nil {
		return sub, fmt.Errorf("coverage of single adjustment: %w", errBufferBounds)
	}
	if sub.Coverage, err = parseCoverage(cb); err != nil {
		return sub, err
	}
	sub.ValueFormat = ValueFormat(b.U16(4))
	if sub.ValueFormat&valueFormatReservedMsk != 0 {
		return sub, fmt.Errorf("reserved bits set in %s", sub.ValueFormat)
	}
	size := sub.ValueFormat.Size()
	switch sub.Format {
	case 1:
		rec, err := b.view(6, size)
		if err != nil {
			return sub, err
		}
		sub.Values = []ValueRecord{parseValueRecord(rec, sub.ValueFormat)}
	case 2:
		count, err := b.u16(6)
		if err != nil {
			return sub, err
		}
		if int(count) != sub.Coverage.Len() {
			tracer().Errorf("single adjustment has %d values for %d covered glyphs",
				count, sub.Coverage.Len())
		}
		sub.Values = make([]ValueRecord, count)
		for i := range sub.Values {
			rec, err := b.view(8+i*size, size)
			if err != nil {
				return sub, fmt.Errorf("value record %d: %w", i, err)
			}
			sub.Values[i] = parseValueRecord(rec, sub.ValueFormat)
		}
	default:
		return sub, fmt.Errorf("unknown single adjustment format %d", sub.Format)
	}
	return sub, nil
}

func parseValueRecord(b binarySegm, vf ValueFormat) ValueRecord {
	v := ValueRecord{}
	at := 0
	next := func() int16 {
		n := int16(b.U16(at))
		at += 2
		return n
	}
	if vf.Has(ValueXPlacement) {
		v.XPlacement = next()
	}
	if vf.Has(ValueYPlacement) {
		v.YPlacement = next()
	}
	if vf.Has(ValueXAdvance) {
		v.XAdvance = next()
	}
	if vf.Has(ValueYAdvance) {
		v.YAdvance = next()
	}
	// device table offsets follow, we ignore them
	return v
}
