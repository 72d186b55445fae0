package carousel

// Offset is a background-layer transform: a translation in pixels plus a
// uniform scale.
type Offset struct {
	X     float64
	Y     float64
	Scale float64
}

// Parallax offsets the background proportionally to the pointer's distance
// from the container centre.
func Parallax(x, y, width, height, speed, scale float64) Offset {
	return Offset{
		X:     (x - width/2) * speed,
		Y:     (y - height/2) * speed,
		Scale: scale,
	}
}

// Neutral is the resting transform applied when the pointer leaves.
func Neutral(scale float64) Offset {
	return Offset{Scale: scale}
}
