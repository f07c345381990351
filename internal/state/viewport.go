package state

// Viewport describes where a surface sits on screen and how its displayed
// size relates to its backing resolution.
type Viewport struct {
	// Left and Top are the surface's on-screen offset.
	Left, Top float64
	// DisplayWidth and DisplayHeight are the size the surface is shown at.
	DisplayWidth, DisplayHeight float64
	// BackingWidth and BackingHeight are the surface's pixel dimensions.
	BackingWidth, BackingHeight float64
}

// Map converts a page position into surface coordinates. The scroll offset is
// removed first, then the on-screen offset, and the result is scaled from
// display size to backing size. A viewport without sizes does not scale.
func (v Viewport) Map(pageX, pageY, scrollX, scrollY float64) Point {
	x := pageX - scrollX - v.Left
	y := pageY - scrollY - v.Top
	if v.DisplayWidth > 0 && v.BackingWidth > 0 {
		x *= v.BackingWidth / v.DisplayWidth
	}
	if v.DisplayHeight > 0 && v.BackingHeight > 0 {
		y *= v.BackingHeight / v.DisplayHeight
	}
	return Point{X: x, Y: y}
}

