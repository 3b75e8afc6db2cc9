package FD2D

import "fmt"

// Direction is the grid axis an operator differentiates along. The y axis
// points up, so row 0 of a field is its top edge.
type Direction uint8

const (
	X Direction = iota
	Y
)

func (d Direction) String() string {
	switch d {
	case X:
		return "x"
	case Y:
		return "y"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func ParseDirection(s string) (d Direction, err error) {
	switch s {
	case "x", "X":
		d = X
	case "y", "Y":
		d = Y
	default:
		err = fmt.Errorf("%w: unknown direction %q", ErrConfiguration, s)
	}
	return
}

// Side names one face of the domain. Right and Top are the outward (positive)
// ghost layers of their axis, Left and Bottom the inward ones.
type Side uint8

const (
	Left Side = iota
	Right
	Top
	Bottom
)

func (s Side) String() string {
	return [...]string{"left", "right", "top", "bottom"}[s]
}

func (s Side) Direction() Direction {
	if s == Left || s == Right {
		return X
	}
	return Y
}

func (s Side) Outward() bool { return s == Right || s == Top }

func (s Side) Opposite() Side {
	return [...]Side{Right, Left, Bottom, Top}[s]
}

// sides returns the inward and outward faces of an axis
func sides(dir Direction) (inward, outward Side) {
	if dir == X {
		return Left, Right
	}
	return Bottom, Top
}
