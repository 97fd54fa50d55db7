/*
Command anchorcli places side-bearing anchors for a CJK font and reports on them.

	anchorcli [-trace level] [-index n] [-cidmap file] [-o doc.yaml] [-i] font

font is either a path to an OpenType font file (or collection) or the name of
an installed system font. If fontconfig is configured, font names are also
matched against the font families known to fontconfig. Configuration is read from a NestedText file
'config.nt' in the user's configuration folder for 'cjkanchor', e.g.

	cidmap: /usr/local/share/cmaps/MapFileAJ.txt
	fontconfig: /usr/bin/fc-list
	font:
	  index: 0

Flags override configuration values.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/chzyer/readline"
	"github.com/npillmayer/cjkanchor/core"
	"github.com/npillmayer/cjkanchor/core/font"
	"github.com/npillmayer/cjkanchor/core/glyphs"
	"github.com/npillmayer/cjkanchor/core/locate/resources"
	"github.com/npillmayer/cjkanchor/engine/anchor"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'cjkanchor.anchors'
func tracer() tracing.Trace {
	return tracing.Select("cjkanchor.anchors")
}

// Configuration keys besides anchor.ConfCIDMap.
const (
	confFontIndex = "font.index"
	confTrace     = "trace.cjkanchor"
)

func main() {
	initDisplay()

	// configuration from file, then flags
	conf := koanfadapter.New(nil, "cjkanchor", []string{".nt"})
	conf.InitDefaults()
	tlevel := flag.String("trace", "", "Trace level [Debug|Info|Error]")
	index := flag.Int("index", -1, "Index of font within a font collection")
	cidmap := flag.String("cidmap", "", "CID map file for CID-keyed fonts")
	outfile := flag.String("o", "", "Save the font document to this YAML file")
	interactive := flag.Bool("i", false, "Inspect glyphs interactively")
	flag.Parse()
	if *tlevel != "" {
		conf.Set(confTrace, *tlevel)
	}
	if *index >= 0 {
		conf.Set(confFontIndex, *index)
	}
	if *cidmap != "" {
		conf.Set(anchor.ConfCIDMap, *cidmap)
	}
	if conf.GetString(confTrace) == "" {
		conf.Set(confTrace, "Error")
	}
	if err := setupTracing(conf); err != nil {
		fmt.Printf("error configuring tracing: %v\n", err)
		os.Exit(1)
	}
	if flag.NArg() != 1 {
		pterm.Error.Println("Usage: anchorcli [flags] font")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// open the font document, deriving anchors on the way
	session, err := open(flag.Arg(0), conf)
	if err != nil {
		pterm.Error.Println(core.UserMessage(err))
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	session.summary()
	if *outfile != "" {
		if err := session.save(*outfile); err != nil {
			pterm.Error.Println(core.UserMessage(err))
			os.Exit(4)
		}
		pterm.Success.Printfln("Document saved to %s", *outfile)
	}
	if !*interactive {
		return
	}

	// start receiving commands
	repl, err := readline.New("cjk > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(5)
	}
	defer repl.Close()
	intp := newIntp(session, repl)
	pterm.Info.Println("Quit with <ctrl>D or 'quit', 'help' lists commands")
	intp.REPL()
}

func setupTracing(conf schuko.Configuration) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	level := tracing.TraceLevelFromString(conf.GetString(confTrace))
	tracer().SetTraceLevel(level)
	tracing.Select("cjkanchor.fonts").SetTraceLevel(level)
	tracer().Infof("Trace level is %s", level)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// Session holds an opened font document together with the font it has been
// created from.
type Session struct {
	doc      *glyphs.Font
	sfont    *font.ScalableFont
	importer *anchor.Importer
	cidmap   *anchor.CIDMap
}

func open(name string, conf schuko.Configuration) (*Session, error) {
	sf, err := resources.ResolveFont(conf, name, conf.GetInt(confFontIndex)).Font()
	if err != nil {
		return nil, err
	}
	s := &Session{sfont: sf, importer: anchor.NewImporter(conf)}
	opts := []glyphs.Option{glyphs.WithIndex(sf.Index)}
	if mapfile := conf.GetString(anchor.ConfCIDMap); mapfile != "" {
		if s.cidmap, err = anchor.LoadCIDMap(mapfile); err != nil {
			return nil, err
		}
		s.importer.WithCIDMap(s.cidmap)
		opts = append(opts, glyphs.WithGlyphRenames(s.cidmap.FriendlyNames()))
	}
	host := &glyphs.Host{}
	host.OnDocumentOpened(s.importer.DocumentOpened)
	if s.doc, err = host.Open(sf.Filepath, opts...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) summary() {
	stats := s.importer.LastStats()
	data := pterm.TableData{
		{"Property", "Value"},
		{"File", s.doc.Filepath},
		{"Family", s.doc.FamilyName},
		{"Units per em", strconv.Itoa(s.doc.UPM)},
		{"Glyphs", strconv.Itoa(len(s.doc.Glyphs))},
		{"palt", strconv.FormatBool(stats.Horizontal)},
		{"vpal", strconv.FormatBool(stats.Vertical)},
		{"Glyphs with insets", strconv.Itoa(stats.Glyphs)},
		{"Anchors placed", strconv.Itoa(stats.Placed)},
		{"Anchors removed", strconv.Itoa(stats.Removed)},
	}
	if s.cidmap != nil {
		data = append(data, []string{"CID map entries", strconv.Itoa(s.cidmap.Len())})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		tracer().Errorf(err.Error())
	}
}

func (s *Session) save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return core.WrapError(err, core.EINVALID, "cannot create %s", path)
	}
	if err = s.doc.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
