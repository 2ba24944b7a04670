// Package explode implements the exploded-view pipeline: it sorts a phone
// model's meshes into glass, display and body layers, repairs and re-materials
// them, and animates the layers apart from a single progress value.
package explode

import (
	"fmt"
	"strings"
)

// Layer identifies one of the three separable phone layers.
type Layer int

const (
	LayerNone Layer = iota
	LayerGlass
	LayerDisplay
	LayerBody
)

// Layers lists the selectable layers front to back.
var Layers = [3]Layer{LayerGlass, LayerDisplay, LayerBody}

// String returns the layer id used in messages and observers.
func (l Layer) String() string {
	switch l {
	case LayerNone:
		return "none"
	case LayerGlass:
		return "glass"
	case LayerDisplay:
		return "oled"
	case LayerBody:
		return "body"
	default:
		return fmt.Sprintf("Layer(%d)", int(l))
	}
}

// ParseLayer converts a layer id back to a Layer. "display" is accepted as
// an alias of "oled".
func ParseLayer(s string) (Layer, bool) {
	switch strings.ToLower(s) {
	case "glass":
		return LayerGlass, true
	case "oled", "display":
		return LayerDisplay, true
	case "body":
		return LayerBody, true
	case "none", "":
		return LayerNone, true
	}
	return LayerNone, false
}

// index maps a selectable layer to 0..2, or -1.
func (l Layer) index() int {
	switch l {
	case LayerGlass:
		return 0
	case LayerDisplay:
		return 1
	case LayerBody:
		return 2
	}
	return -1
}

// Kind is the classification of a single mesh. Glass splits into two kinds
// that share a layer but get different materials.
type Kind int

const (
	KindBody Kind = iota
	KindDisplay
	KindBezel
	KindFront
)

func (k Kind) String() string {
	switch k {
	case KindBody:
		return "body"
	case KindDisplay:
		return "display"
	case KindBezel:
		return "bezel"
	case KindFront:
		return "front"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Layer returns the layer a kind belongs to.
func (k Kind) Layer() Layer {
	switch k {
	case KindBezel, KindFront:
		return LayerGlass
	case KindDisplay:
		return LayerDisplay
	default:
		return LayerBody
	}
}
