package explode

// Cursor is the pointer hint the router wants shown.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
)

// Gate reports whether layers currently accept interaction.
type Gate interface {
	Exploded() bool
}

// Router turns pointer events on layer groups into a layer selection.
type Router struct {
	gate      Gate
	selected  Layer
	cursor    Cursor
	observers []func(Layer)
}

// NewRouter creates a router with nothing selected.
func NewRouter(gate Gate) *Router {
	return &Router{gate: gate}
}

// OnSelect registers fn to be called with the new selection, or LayerNone,
// whenever the selection changes.
func (r *Router) OnSelect(fn func(Layer)) {
	r.observers = append(r.observers, fn)
}

// PointerEnter shows the interactive cursor over l while exploded.
func (r *Router) PointerEnter(l Layer) {
	if l == LayerNone || !r.gate.Exploded() {
		return
	}
	r.cursor = CursorPointer
}

// PointerLeave clears the cursor hint.
func (r *Router) PointerLeave(Layer) {
	r.cursor = CursorDefault
}

// Click handles a click that hit layer l. Clicking the selected layer again
// deselects it. Clicks are ignored while layers overlap. The return value
// is always true for a real layer: the click is consumed and must not also
// be reported as a miss.
func (r *Router) Click(l Layer) bool {
	if l == LayerNone {
		return false
	}
	if !r.gate.Exploded() {
		return true
	}
	if r.selected == l {
		r.set(LayerNone)
	} else {
		r.set(l)
	}
	return true
}

// Miss handles a click that hit no layer.
func (r *Router) Miss() {
	r.set(LayerNone)
}

// Selected returns the current selection.
func (r *Router) Selected() Layer {
	return r.selected
}

// Cursor returns the current cursor hint.
func (r *Router) Cursor() Cursor {
	return r.cursor
}

func (r *Router) set(l Layer) {
	if r.selected == l {
		return
	}
	r.selected = l
	for _, fn := range r.observers {
		fn(l)
	}
}
