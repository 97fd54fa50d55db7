package anchor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/cjkanchor/core"
)

// CIDMap relates the CIDs of a CID-keyed font to friendly glyph names.
// Map files have one entry per line, the decimal CID and the glyph name
// separated by a tab:
//
//	1	space
//	34	A
//	634	uni3001
//
// Empty lines and lines starting with '#' are skipped.
type CIDMap struct {
	toCID  map[string]string // friendly name → 'cidNNNNN'
	toName map[string]string // 'cidNNNNN' → friendly name
}

// CIDName formats a CID the way glyphs of CID-keyed fonts are named.
func CIDName(cid int) string {
	return fmt.Sprintf("cid%05d", cid)
}

// LoadCIDMap reads a CID map file.
func LoadCIDMap(path string) (*CIDMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open CID map %s", path)
	}
	defer f.Close()
	return ParseCIDMap(f)
}

// ParseCIDMap reads CID map entries from r.
func ParseCIDMap(r io.Reader) (*CIDMap, error) {
	m := &CIDMap{
		toCID:  make(map[string]string),
		toName: make(map[string]string),
	}
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 || fields[1] == "" {
			return nil, core.Error(core.EINVALID, "CID map line %d: expected 'CID<tab>name'", lineno)
		}
		cid, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil || cid < 0 || cid > 0xffff {
			return nil, core.Error(core.EINVALID, "CID map line %d: invalid CID %q", lineno, fields[0])
		}
		name, cidname := strings.TrimSpace(fields[1]), CIDName(cid)
		m.toCID[name] = cidname
		m.toName[cidname] = name
	}
	if err := scanner.Err(); err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot read CID map")
	}
	tracer().Debugf("CID map with %d entries", len(m.toName))
	return m, nil
}

// Len is the number of entries.
func (m *CIDMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.toName)
}

// CID returns the CID glyph name for a friendly glyph name.
func (m *CIDMap) CID(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	cid, ok := m.toCID[name]
	return cid, ok
}

// Name returns the friendly glyph name for a CID glyph name.
func (m *CIDMap) Name(cid string) (string, bool) {
	if m == nil {
		return "", false
	}
	name, ok := m.toName[cid]
	return name, ok
}

// FriendlyNames returns a copy of the 'cidNNNNN' → name mapping, suitable for
// glyphs.WithGlyphRenames.
func (m *CIDMap) FriendlyNames() map[string]string {
	names := make(map[string]string, m.Len())
	if m != nil {
		for cid, name := range m.toName {
			names[cid] = name
		}
	}
	return names
}
