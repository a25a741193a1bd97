package domain

import "math"

// Transform is a screen transform for one rendered card. Rotate is in
// degrees, X and Y in pixels.
type Transform struct {
	Rotate float64 `json:"rotate"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Z      int     `json:"z"`
}

// FanTransform places the i-th of n unplaced cards in the deck fan. Cards
// nearer the front of the deck sit on top.
func FanTransform(i, n int, j Jitter) Transform {
	mid := float64(n) / 2
	d := float64(i) - mid
	return Transform{
		Rotate: d*2 + j.Angle,
		X:      d*5 + j.OffsetX,
		Y:      math.Abs(d)*-2 + j.OffsetY,
		Z:      n - i,
	}
}

// StackTransform offsets the i-th card stacked on one position.
func StackTransform(i int, j Jitter) Transform {
	return Transform{
		Rotate: j.Angle,
		X:      float64(i) * 2,
		Y:      float64(-i) * 2,
		Z:      i + 1,
	}
}
