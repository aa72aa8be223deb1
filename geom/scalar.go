package geom

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Radians converts degrees to radians.
func Radians[T constraints.Float](deg T) T {
	return deg * math.Pi / 180
}

// WrapAbove returns v modulo period once v exceeds period, otherwise v unchanged.
func WrapAbove[T constraints.Float](v, period T) T {
	if v > period {
		return T(math.Mod(float64(v), float64(period)))
	}
	return v
}

// Or returns v unless it is the zero value, in which case def is returned.
func Or[T constraints.Integer | constraints.Float](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}
