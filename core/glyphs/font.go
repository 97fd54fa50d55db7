package glyphs

import "fmt"

// Point is a position in font units.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Anchor is a named point attached to a glyph layer.
type Anchor struct {
	Name     string `yaml:"name"`
	Position Point  `yaml:"position"`
}

// Layer is the drawing of a glyph for one master.
type Layer struct {
	Width     float64  `yaml:"width"`
	VertWidth float64  `yaml:"vertWidth,omitempty"`
	Anchors   []Anchor `yaml:"anchors,omitempty"`
}

// Anchor returns the anchor with the given name.
func (l *Layer) Anchor(name string) (Anchor, bool) {
	for _, a := range l.Anchors {
		if a.Name == name {
			return a, true
		}
	}
	return Anchor{}, false
}

// UpsertAnchor moves an existing anchor to pos, or appends a new anchor if the
// layer has none with that name.
func (l *Layer) UpsertAnchor(name string, pos Point) {
	for i := range l.Anchors {
		if l.Anchors[i].Name == name {
			l.Anchors[i].Position = pos
			return
		}
	}
	l.Anchors = append(l.Anchors, Anchor{Name: name, Position: pos})
}

// RemoveAnchor removes an anchor and reports whether the layer had one.
func (l *Layer) RemoveAnchor(name string) bool {
	for i, a := range l.Anchors {
		if a.Name == name {
			l.Anchors = append(l.Anchors[:i], l.Anchors[i+1:]...)
			return true
		}
	}
	return false
}

// Glyph is a named glyph with one layer per master.
type Glyph struct {
	Name   string            `yaml:"name"`
	Layers map[string]*Layer `yaml:"layers"` // keyed by master ID
}

// Layer returns the layer for a master. If the glyph does not yet have a
// layer for the master, an empty one is created.
func (g *Glyph) Layer(masterID string) *Layer {
	if g.Layers == nil {
		g.Layers = make(map[string]*Layer)
	}
	l, ok := g.Layers[masterID]
	if !ok {
		l = &Layer{}
		g.Layers[masterID] = l
	}
	return l
}

// Master is a design master of a font.
type Master struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Descender float64 `yaml:"descender"`
}

// Font is a font document.
type Font struct {
	Filepath   string    `yaml:"-"`                // file the document has been opened from
	SourceFont string    `yaml:"source,omitempty"` // font file the document has been created from
	Index      int       `yaml:"index,omitempty"`  // index of the source font within a collection
	FamilyName string    `yaml:"family"`
	UPM        int       `yaml:"upm"`
	Masters    []*Master `yaml:"masters"`
	Glyphs     []*Glyph  `yaml:"glyphs"`
	observers  []func(*Font)
	updating   int
}

// Glyph returns the glyph with the given name, or nil.
func (f *Font) Glyph(name string) *Glyph {
	for _, g := range f.Glyphs {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// Master returns the master with the given ID, or nil.
func (f *Font) Master(id string) *Master {
	for _, m := range f.Masters {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// Observe registers a function to be called after each update of the document.
func (f *Font) Observe(fn func(*Font)) {
	f.observers = append(f.observers, fn)
}

// Update runs fn as a batch of mutations. Observers are notified once, when
// the outermost update completes, regardless of fn returning an error.
func (f *Font) Update(fn func(*Font) error) error {
	f.updating++
	defer func() {
		f.updating--
		if f.updating == 0 {
			for _, obs := range f.observers {
				obs(f)
			}
		}
	}()
	return fn(f)
}

// IsUpdating is a predicate: is an update batch in progress?
func (f *Font) IsUpdating() bool {
	return f.updating > 0
}
