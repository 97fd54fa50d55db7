package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/chzyer/readline"
	"github.com/derekparker/trie"
	"github.com/npillmayer/cjkanchor/core/font/ot"
	"github.com/npillmayer/cjkanchor/core/font/otquery"
	"github.com/npillmayer/cjkanchor/core/glyphs"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object
type Intp struct {
	session *Session
	repl    *readline.Instance
	names   *trie.Trie // glyph names of the document
	otf     *ot.Font
	metrics *otquery.AlternateMetrics
}

func newIntp(s *Session, repl *readline.Instance) *Intp {
	intp := &Intp{session: s, repl: repl, names: trie.New()}
	for _, g := range s.doc.Glyphs {
		intp.names.Add(g.Name, g)
	}
	if s.sfont != nil {
		otf, err := s.sfont.OpenType()
		if err != nil {
			tracer().Errorf(err.Error())
		} else {
			intp.otf = otf
			intp.metrics = otquery.NewAlternateMetrics(otf)
		}
	}
	return intp
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		quit, err := intp.execute(parseCommand(line))
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op codes of the interpreter.
const (
	QUIT int = iota
	HELP
	GLYPH
	INSETS
	FIND
	FEATURES
)

// Command is a parsed input line.
type Command struct {
	code int
	arg  string
}

func parseCommand(line string) Command {
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	cmd := Command{arg: arg}
	switch strings.ToLower(verb) {
	case "quit", "exit":
		cmd.code = QUIT
	case "glyph", "g":
		cmd.code = GLYPH
	case "insets":
		cmd.code = INSETS
	case "find", "f":
		cmd.code = FIND
	case "features":
		cmd.code = FEATURES
	default:
		cmd.code = HELP
	}
	tracer().Debugf("command = %v", cmd)
	return cmd
}

func (intp *Intp) execute(cmd Command) (bool, error) {
	switch cmd.code {
	case QUIT:
		return true, nil
	case GLYPH:
		g, err := intp.glyph(cmd.arg)
		if err != nil {
			return false, err
		}
		intp.showGlyph(g)
	case INSETS:
		g, err := intp.glyph(cmd.arg)
		if err != nil {
			return false, err
		}
		return false, intp.showInsets(g)
	case FIND:
		names := intp.names.PrefixSearch(cmd.arg)
		sort.Strings(names)
		if len(names) == 0 {
			pterm.Printfln("no glyph names starting with %q", cmd.arg)
		} else {
			pterm.Printfln("%d glyph(s): %s", len(names), strings.Join(names, " "))
		}
	case FEATURES:
		return false, intp.showFeatures()
	default:
		help()
	}
	return false, nil
}

// glyph finds a glyph of the document, either by name or as the glyph for a
// single character.
func (intp *Intp) glyph(arg string) (*glyphs.Glyph, error) {
	if arg == "" {
		return nil, errors.New("glyph name or character expected")
	}
	doc := intp.session.doc
	if g := doc.Glyph(arg); g != nil {
		return g, nil
	}
	if utf8.RuneCountInString(arg) == 1 && intp.otf != nil {
		r, _ := utf8.DecodeRuneInString(arg)
		if gid, ok := intp.session.sfont.GlyphIndex(r); ok {
			name := intp.otf.GlyphName(gid)
			if friendly, ok := intp.session.cidmap.Name(name); ok {
				name = friendly
			}
			if g := doc.Glyph(name); g != nil {
				return g, nil
			}
		}
	}
	return nil, fmt.Errorf("no glyph %q in font", arg)
}

func (intp *Intp) showGlyph(g *glyphs.Glyph) {
	data := pterm.TableData{{"Master", "Width", "Anchor", "Position"}}
	for _, m := range intp.session.doc.Masters {
		layer, ok := g.Layers[m.ID]
		if !ok {
			continue
		}
		width := fmt.Sprintf("%g", layer.Width)
		if len(layer.Anchors) == 0 {
			data = append(data, []string{m.Name, width, "-", ""})
		}
		for _, a := range layer.Anchors {
			data = append(data, []string{m.Name, width, a.Name, a.Position.String()})
		}
	}
	pterm.Info.Printfln("Glyph %s", g.Name)
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

func (intp *Intp) showInsets(g *glyphs.Glyph) error {
	if intp.metrics == nil {
		return errors.New("document has no font with alternate metrics")
	}
	name := g.Name
	insets, ok := intp.metrics.EdgeInsets(name)
	if !ok {
		if cid, found := intp.session.cidmap.CID(name); found {
			name = cid
			insets, ok = intp.metrics.EdgeInsets(cid)
		}
	}
	if !ok {
		pterm.Printfln("glyph %s has no edge insets", g.Name)
		return nil
	}
	pterm.Printfln("glyph %s (%s): left=%d right=%d top=%d bottom=%d", g.Name, name,
		insets.Left, insets.Right, insets.Top, insets.Bottom)
	m, err := otquery.GlyphMetricsByName(intp.otf, name)
	if err != nil {
		return err
	}
	pterm.Printfln("  proportional box %d x %d of %d x %d",
		m.AdvanceWidth-insets.Left-insets.Right, m.AdvanceHeight-insets.Top-insets.Bottom,
		m.AdvanceWidth, m.AdvanceHeight)
	return nil
}

func (intp *Intp) showFeatures() error {
	if intp.metrics == nil {
		return errors.New("document has no font with alternate metrics")
	}
	for _, tag := range intp.metrics.Tags() {
		pterm.Printfln("%s  lookups %v", tag, intp.metrics.LookupsFromTag(tag))
	}
	for _, tag := range []ot.Tag{otquery.PALT, otquery.VPAL} {
		if intp.metrics.HasFeature(tag) {
			pterm.Printfln("%s: %d adjustments", tag, len(intp.metrics.AdjustmentsFromTag(tag)))
		}
	}
	return nil
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	glyph <name|char>   show the anchors of a glyph
	insets <name|char>  show the edge insets of a glyph from 'palt'/'vpal'
	find <prefix>       list glyph names starting with prefix
	features            list the GPOS features of the font
	help                show this text
	quit                leave
	`)
}
