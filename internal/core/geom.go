// Package core provides the primitive types shared by the simulation
// packages. It has no external dependencies so the puzzle logic stays pure
// and testable.
package core

import (
	"fmt"
	"math"
)

// Vec is a continuous world-space position.
type Vec struct {
	X, Y float64
}

// V is a convenience constructor for Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns the component-wise sum.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by f.
func (v Vec) Scale(f float64) Vec {
	return Vec{X: v.X * f, Y: v.Y * f}
}

// Len returns the euclidean length.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// MoveTowards steps from v toward target by at most maxStep.
// The target is returned exactly once it is within reach, so callers can
// compare positions with == to detect arrival.
func (v Vec) MoveTowards(target Vec, maxStep float64) Vec {
	d := target.Sub(v)
	l := d.Len()
	if l <= maxStep || l == 0 {
		return target
	}
	return v.Add(d.Scale(maxStep / l))
}

func (v Vec) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", v.X, v.Y)
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
