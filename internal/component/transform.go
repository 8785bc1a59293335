package component

// Transform holds position and bounding-box dimensions in field units.
// X,Y is the top-left corner, matching the collision sweep's AABB math.
type Transform struct {
	X, Y          float64
	Width, Height float64
}

// CenterX returns the horizontal center of the bounding box.
func (t *Transform) CenterX() float64 { return t.X + t.Width/2 }

// CenterY returns the vertical center of the bounding box.
func (t *Transform) CenterY() float64 { return t.Y + t.Height/2 }

// Motion holds velocity in field units per second.
type Motion struct {
	VX, VY float64
}
