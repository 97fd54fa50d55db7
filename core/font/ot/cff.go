package ot

import (
	"errors"
	"fmt"
)

// CFF glyph names are not stored with the glyphs, but in the font's charset,
// which maps glyph IDs to string IDs (SIDs) or, for CID-keyed fonts, to CIDs.
// We decode just enough of the CFF table to reach the charset: the header,
// the Name INDEX, the Top DICT INDEX and the String INDEX.
//
// See "The Compact Font Format Specification", Adobe Technical Note #5176.

const (
	cffOpCharset     = 15
	cffOpCharStrings = 17
	cffOpROS         = 1200 + 30 // escaped operator 12 30
	cffStdStrings    = 391       // number of standard strings
)

var errNoCharset = errors.New("CFF font uses a predefined expert charset")

// cffTopDict holds the Top DICT entries we care about.
type cffTopDict struct {
	charset     int
	charStrings int
	isCID       bool
}

// cffGlyphNames returns glyph names from a 'CFF ' table. For CID-keyed fonts
// names have the form 'cidNNNNN'.
func cffGlyphNames(b binarySegm, numGlyphs int) ([]string, error) {
	hdrSize, err := b.u8(2)
	if err != nil {
		return nil, err
	}
	_, at, err := cffIndex(b, int(hdrSize)) // Name INDEX
	if err != nil {
		return nil, fmt.Errorf("name index: %w", err)
	}
	topDicts, at, err := cffIndex(b, at)
	if err != nil {
		return nil, fmt.Errorf("top DICT index: %w", err)
	}
	if len(topDicts) == 0 {
		return nil, errors.New("CFF table without top DICT")
	}
	strings, _, err := cffIndex(b, at)
	if err != nil {
		return nil, fmt.Errorf("string index: %w", err)
	}
	top, err := parseCFFTopDict(topDicts[0])
	if err != nil {
		return nil, err
	}
	tracer().Debugf("CFF top DICT: charset at %d, charstrings at %d, CID-keyed = %v",
		top.charset, top.charStrings, top.isCID)
	ids, err := cffCharset(b, top.charset, numGlyphs)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ids))
	for gid, id := range ids {
		switch {
		case gid == 0:
			names[gid] = ".notdef"
		case top.isCID:
			names[gid] = fmt.Sprintf("cid%05d", id)
		case int(id) < cffStdStrings:
			names[gid] = cffStandardStrings[id]
		case int(id)-cffStdStrings < len(strings):
			names[gid] = string(strings[int(id)-cffStdStrings])
		default:
			tracer().Errorf("CFF charset references undefined string %d", id)
		}
	}
	return names, nil
}

// cffIndex decodes an INDEX structure starting at b[at:]. It returns the
// entries and the position following the INDEX.
//
//	Card16   count
//	OffSize  offSize
//	Offset   offset[count+1]   (1-based, relative to the byte preceding the data)
//	Card8    data[]
func cffIndex(b binarySegm, at int) ([]binarySegm, int, error) {
	count, err := b.u16(at)
	if err != nil {
		return nil, 0, err
	}
	if count == 0 {
		return nil, at + 2, nil
	}
	offSize, err := b.u8(at + 2)
	if err != nil {
		return nil, 0, err
	}
	if offSize < 1 || offSize > 4 {
		return nil, 0, fmt.Errorf("illegal INDEX offset size %d", offSize)
	}
	offsets := make([]int, count+1)
	for i := range offsets {
		off, err := b.uN(at+3+i*int(offSize), int(offSize))
		if err != nil {
			return nil, 0, err
		}
		offsets[i] = int(off)
	}
	base := at + 3 + len(offsets)*int(offSize) - 1
	entries := make([]binarySegm, count)
	for i := range entries {
		if offsets[i] < 1 || offsets[i+1] < offsets[i] {
			return nil, 0, fmt.Errorf("illegal INDEX offsets at entry %d", i)
		}
		if entries[i], err = b.view(base+offsets[i], offsets[i+1]-offsets[i]); err != nil {
			return nil, 0, err
		}
	}
	return entries, base + offsets[count], nil
}

func parseCFFTopDict(b binarySegm) (cffTopDict, error) {
	top := cffTopDict{}
	var operands []int
	for i := 0; i < len(b); {
		b0 := b[i]
		switch {
		case b0 <= 21: // operator
			op := int(b0)
			i++
			if b0 == 12 {
				if i >= len(b) {
					return top, errBufferBounds
				}
				op = 1200 + int(b[i])
				i++
			}
			switch op {
			case cffOpCharset:
				if len(operands) > 0 {
					top.charset = operands[len(operands)-1]
				}
			case cffOpCharStrings:
				if len(operands) > 0 {
					top.charStrings = operands[len(operands)-1]
				}
			case cffOpROS:
				top.isCID = true
			}
			operands = operands[:0]
		case b0 == 28:
			v, err := b.u16(i + 1)
			if err != nil {
				return top, err
			}
			operands = append(operands, int(int16(v)))
			i += 3
		case b0 == 29:
			v, err := b.u32(i + 1)
			if err != nil {
				return top, err
			}
			operands = append(operands, int(int32(v)))
			i += 5
		case b0 == 30: // real number, packed BCD; we skip it
			i++
			for i < len(b) && b[i]&0x0f != 0x0f && b[i]&0xf0 != 0xf0 {
				i++
			}
			i++
			operands = append(operands, 0)
		case b0 >= 32 && b0 <= 246:
			operands = append(operands, int(b0)-139)
			i++
		case b0 >= 247 && b0 <= 250:
			if i+1 >= len(b) {
				return top, errBufferBounds
			}
			operands = append(operands, (int(b0)-247)*256+int(b[i+1])+108)
			i += 2
		case b0 >= 251 && b0 <= 254:
			if i+1 >= len(b) {
				return top, errBufferBounds
			}
			operands = append(operands, -(int(b0)-251)*256-int(b[i+1])-108)
			i += 2
		default:
			return top, fmt.Errorf("illegal byte %d in top DICT", b0)
		}
	}
	return top, nil
}

// cffCharset decodes the charset at offset off, returning one SID (or CID) per glyph.
// Charset offsets 0, 1 and 2 denote predefined charsets.
func cffCharset(b binarySegm, off int, numGlyphs int) ([]uint16, error) {
	ids := make([]uint16, numGlyphs)
	switch off {
	case 0: // ISOAdobe: glyph i has SID i
		for i := range ids {
			ids[i] = uint16(i)
		}
		return ids, nil
	case 1, 2:
		return nil, errNoCharset
	}
	format, err := b.u8(off)
	if err != nil {
		return nil, err
	}
	at := off + 1
	switch format {
	case 0:
		for gid := 1; gid < numGlyphs; gid++ {
			if ids[gid], err = b.u16(at); err != nil {
				return nil, err
			}
			at += 2
		}
	case 1, 2:
		for gid := 1; gid < numGlyphs; {
			first, err := b.u16(at)
			if err != nil {
				return nil, err
			}
			var nLeft int
			if format == 1 {
				n, err := b.u8(at + 2)
				if err != nil {
					return nil, err
				}
				nLeft, at = int(n), at+3
			} else {
				n, err := b.u16(at + 2)
				if err != nil {
					return nil, err
				}
				nLeft, at = int(n), at+4
			}
			for k := 0; k <= nLeft && gid < numGlyphs; k++ {
				ids[gid] = first + uint16(k)
				gid++
			}
		}
	default:
		return nil, fmt.Errorf("unknown CFF charset format %d", format)
	}
	return ids, nil
}
