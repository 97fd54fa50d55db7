package glyphs

// Hook is called by a Host for documents which have just been opened.
type Hook func(*Font) error

// Host opens font documents, the way a font editor does, and lets plugins
// take part in opening.
type Host struct {
	hooks []Hook
}

// OnDocumentOpened registers a hook to be called for each opened document,
// in order of registration.
func (h *Host) OnDocumentOpened(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// Open opens a document and runs the document-opened hooks on it. If a hook
// fails, the document is returned together with the hook's error and
// subsequent hooks are not called.
func (h *Host) Open(path string, opts ...Option) (*Font, error) {
	doc, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	for _, hook := range h.hooks {
		if err = hook(doc); err != nil {
			tracer().Errorf("document-opened hook failed for %s: %v", path, err)
			return doc, err
		}
	}
	return doc, nil
}
