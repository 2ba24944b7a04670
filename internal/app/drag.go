package app

// dragThreshold is how far, in pixels, the pointer must travel with the
// button held before a press becomes an orbit drag instead of a click.
const dragThreshold = 4

// drag separates clicks from orbit drags.
type drag struct {
	down    bool
	dragged bool
	startX  int
	startY  int
	lastX   int
	lastY   int
}

func (d *drag) press(x, y int) {
	*d = drag{down: true, startX: x, startY: y, lastX: x, lastY: y}
}

// move returns the delta since the last move once the press has turned
// into a drag.
func (d *drag) move(x, y int) (dx, dy int, ok bool) {
	if !d.down {
		return 0, 0, false
	}
	if !d.dragged {
		ox, oy := x-d.startX, y-d.startY
		if ox*ox+oy*oy < dragThreshold*dragThreshold {
			return 0, 0, false
		}
		d.dragged = true
	}
	dx, dy = x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	return dx, dy, true
}

// release ends the press and reports whether it was a click.
func (d *drag) release() bool {
	click := d.down && !d.dragged
	*d = drag{}
	return click
}
