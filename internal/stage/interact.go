package stage

import (
	"github.com/Faultbox/phone-teardown/internal/engine/picking"
	"github.com/Faultbox/phone-teardown/internal/explode"
	"github.com/Faultbox/phone-teardown/pkg/math"
)

// SetViewport records the pointer coordinate space.
func (s *Stage) SetViewport(width, height int) {
	s.viewportW = float32(max(width, 1))
	s.viewportH = float32(max(height, 1))
}

// Aspect returns the viewport aspect ratio.
func (s *Stage) Aspect() float32 {
	return s.viewportW / s.viewportH
}

// ViewProj returns the camera's combined view-projection matrix.
func (s *Stage) ViewProj() math.Mat4 {
	return s.camera.ProjectionMatrix(s.Aspect()).Mul(s.camera.ViewMatrix())
}

// GroupBounds returns the current world bounds of l, its rest bounds
// shifted by the group's offset.
func (s *Stage) GroupBounds(l explode.Layer) picking.AABB {
	for i, layer := range explode.Layers {
		if layer == l {
			return s.rest[i].Translate(s.groups[i].Position)
		}
	}
	return picking.Empty()
}

// Pick returns the layer under the pointer at (x, y), or LayerNone.
func (s *Stage) Pick(x, y float32) explode.Layer {
	ray := picking.ScreenToRay(x, y, s.viewportW, s.viewportH, s.ViewProj().Inverse())
	var boxes [3]picking.AABB
	for i, l := range explode.Layers {
		boxes[i] = s.GroupBounds(l)
	}
	i, _ := picking.Nearest(ray, boxes[:])
	if i < 0 {
		return explode.LayerNone
	}
	return explode.Layers[i]
}

// PointerMove updates hover state for a pointer at (x, y).
func (s *Stage) PointerMove(x, y float32) {
	l := s.Pick(x, y)
	if l != s.hover && s.hover != explode.LayerNone {
		s.router.PointerLeave(s.hover)
	}
	s.hover = l
	if l != explode.LayerNone {
		s.router.PointerEnter(l)
	}
}

// PointerExit clears hover state when the pointer leaves the viewport.
func (s *Stage) PointerExit() {
	if s.hover != explode.LayerNone {
		s.router.PointerLeave(s.hover)
		s.hover = explode.LayerNone
	}
}

// PointerClick routes a click at (x, y). A click on a layer is consumed by
// the router; anything else counts as a miss.
func (s *Stage) PointerClick(x, y float32) {
	if !s.router.Click(s.Pick(x, y)) {
		s.router.Miss()
	}
}

// Hovered returns the layer under the pointer as of the last move.
func (s *Stage) Hovered() explode.Layer {
	return s.hover
}
