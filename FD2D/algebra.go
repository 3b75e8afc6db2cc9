package FD2D

import "github.com/notargets/convdo/utils"

/*
algebraic is satisfied by every value that takes part in field arithmetic:
domains, obstacles and the field types. Each implements the two primitive
combinations; subtraction and the right-hand scalar forms are derived once
here.
*/
type algebraic[T any] interface {
	Combine(op utils.ArithOp, o T) (T, error)
	CombineScalar(op utils.ArithOp, s float64) (T, error)
}

func negate[T algebraic[T]](a T) (T, error) {
	return a.CombineScalar(utils.OpMul, -1)
}

// subtract computes a - b as a + (-b)
func subtract[T algebraic[T]](a, b T) (R T, err error) {
	var nb T
	if nb, err = negate(b); err != nil {
		return
	}
	return a.Combine(utils.OpAdd, nb)
}

// scalarSubtract computes s - a as (-a) + s
func scalarSubtract[T algebraic[T]](s float64, a T) (R T, err error) {
	var na T
	if na, err = negate(a); err != nil {
		return
	}
	return na.CombineScalar(utils.OpAdd, s)
}
