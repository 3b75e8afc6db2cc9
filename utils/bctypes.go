package utils

import (
	"fmt"
	"strings"
)

// BCType represents the boundary condition kinds a domain face or an
// immersed obstacle can carry.
type BCType uint8

const (
	// BCUnconstrained extrapolates the ghost value from the interior
	BCUnconstrained BCType = iota
	BCDirichlet             // Fixed value
	BCNeumann               // Fixed gradient
	BCPeriodic              // Wraps to the opposite face
)

// String returns the string representation of a BCType
func (bc BCType) String() string {
	switch bc {
	case BCUnconstrained:
		return "Unconstrained"
	case BCDirichlet:
		return "Dirichlet"
	case BCNeumann:
		return "Neumann"
	case BCPeriodic:
		return "Periodic"
	}
	return "Unknown"
}

// BCNameMap provides a mapping from common boundary condition names to BCType
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCType{
	"unconstrained": BCUnconstrained,
	"extrapolate":   BCUnconstrained,
	"extrapolated":  BCUnconstrained,
	"outflow":       BCUnconstrained,
	"free":          BCUnconstrained,

	"dirichlet": BCDirichlet,
	"fixed":     BCDirichlet,
	"value":     BCDirichlet,
	"wall":      BCDirichlet,
	"no_slip":   BCDirichlet,
	"noslip":    BCDirichlet,
	"inflow":    BCDirichlet,

	"neumann":   BCNeumann,
	"neuman":    BCNeumann,
	"gradient":  BCNeumann,
	"slip":      BCNeumann,
	"symmetry":  BCNeumann,
	"adiabatic": BCNeumann,

	"periodic": BCPeriodic,
	"cyclic":   BCPeriodic,
}

// ParseBCName converts a boundary condition name string to BCType
// The matching is case-insensitive and trims whitespace
func ParseBCName(name string) (bc BCType, err error) {
	var (
		ok bool
	)
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if bc, ok = BCNameMap[lowerName]; !ok {
		err = fmt.Errorf("unknown boundary condition name: %q", name)
	}
	return
}
