package floorplan

// Table positions are percentages of the floor surface, kept away from the edges.
const (
	MinPercent = 5.0
	MaxPercent = 95.0
)

type Point struct {
	X, Y float64
}

// Rect is the on-screen box of the floor surface.
type Rect struct {
	Left, Top, Width, Height float64
}

func Clamp(v float64) float64 {
	if v != v { // NaN
		return MinPercent
	}
	if v < MinPercent {
		return MinPercent
	}
	if v > MaxPercent {
		return MaxPercent
	}
	return v
}

// PointerToPercent maps a pointer position to clamped surface percentages.
func PointerToPercent(p Point, container Rect) (float64, float64) {
	return Clamp(axisPercent(p.X, container.Left, container.Width)),
		Clamp(axisPercent(p.Y, container.Top, container.Height))
}

func axisPercent(pos, origin, size float64) float64 {
	if size <= 0 {
		return MinPercent
	}
	return (pos - origin) / size * 100
}
