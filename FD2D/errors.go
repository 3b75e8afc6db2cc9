/*
Package FD2D evaluates finite-difference derivatives of fields sampled on a
uniform 2D grid. Stencils are applied as convolutions over a padded copy of
the field whose ghost cells are filled according to the boundary condition
on each face of the domain and around each immersed obstacle.
*/
package FD2D

import (
	"errors"

	"github.com/notargets/convdo/utils"
)

var (
	// ErrConfiguration reports a malformed domain, obstacle, stencil or
	// operator, or values that cannot be combined.
	ErrConfiguration = errors.New("FD2D: invalid configuration")

	// ErrUnsupportedOperator reports a high-order stencil applied where its
	// preconditions (periodic pair, obstacle policy) do not hold.
	ErrUnsupportedOperator = errors.New("FD2D: unsupported operator use")

	// ErrShapeMismatch is raised by the array layer on incompatible shapes.
	ErrShapeMismatch = utils.ErrShapeMismatch
)
