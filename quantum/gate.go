package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"

	"qrisk/meta"
)

// Gate is one of the game's gate symbols.
type Gate string

const (
	X   Gate = "X"
	Y   Gate = "Y"
	Z   Gate = "Z"
	XY  Gate = "XY"
	YZ  Gate = "YZ"
	XZ  Gate = "XZ"
	H   Gate = "H"
	CX  Gate = "CX"
	CY  Gate = "CY"
	CZ  Gate = "CZ"
	CXY Gate = "CXY"
	CYZ Gate = "CYZ"
	CXZ Gate = "CXZ"
)

var singleGates = []Gate{X, Y, Z, XY, YZ, XZ, H}
var doubleGates = []Gate{CX, CY, CZ, CXY, CYZ, CXZ}

// ParseGate converts a gate symbol, ignoring case and surrounding spaces.
func ParseGate(symbol string) (Gate, error) {
	g := Gate(strings.ToUpper(strings.TrimSpace(symbol)))
	for _, known := range singleGates {
		if g == known {
			return g, nil
		}
	}
	for _, known := range doubleGates {
		if g == known {
			return g, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGate, symbol)
}

// IsDouble reports whether the gate acts on a control and a target qubit.
func (g Gate) IsDouble() bool {
	for _, d := range doubleGates {
		if g == d {
			return true
		}
	}
	return false
}

func (g Gate) String() string {
	return string(g)
}

// Basis is a measurement axis.
type Basis string

const (
	BasisX Basis = "X"
	BasisY Basis = "Y"
	BasisZ Basis = "Z"
)

// Bases lists the measurement axes in display order.
var Bases = []Basis{BasisX, BasisY, BasisZ}

func ParseBasis(symbol string) (Basis, error) {
	b := Basis(strings.ToUpper(strings.TrimSpace(symbol)))
	switch b {
	case BasisX, BasisY, BasisZ:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBasis, symbol)
}

func (b Basis) String() string {
	return string(b)
}

// change rotates the basis eigenstates onto |0⟩ and |1⟩.
func (b Basis) change() []matrix {
	switch b {
	case BasisX:
		return []matrix{hadamard}
	case BasisY:
		return []matrix{sDagger, hadamard}
	}
	return nil
}

// restore is the inverse of change.
func (b Basis) restore() []matrix {
	switch b {
	case BasisX:
		return []matrix{hadamard}
	case BasisY:
		return []matrix{hadamard, sGate}
	}
	return nil
}

// matrix is a single-qubit operator in row-major order.
type matrix [2][2]complex128

var (
	hadamard = matrix{
		{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
		{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
	}
	pauliX  = matrix{{0, 1}, {1, 0}}
	pauliY  = matrix{{0, -1i}, {1i, 0}}
	pauliZ  = matrix{{1, 0}, {0, -1}}
	sGate   = matrix{{1, 0}, {0, 1i}}
	sDagger = matrix{{1, 0}, {0, -1i}}
)

func rx(theta float64) matrix {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return matrix{
		{complex(c, 0), complex(0, -s)},
		{complex(0, -s), complex(c, 0)},
	}
}

func ry(theta float64) matrix {
	c, s := math.Cos(theta/2), math.Sin(theta/2)
	return matrix{
		{complex(c, 0), complex(-s, 0)},
		{complex(s, 0), complex(c, 0)},
	}
}

func rz(theta float64) matrix {
	return matrix{
		{cmplx.Exp(complex(0, -theta/2)), 0},
		{0, cmplx.Exp(complex(0, theta/2))},
	}
}

// steps returns the operators of a gate in circuit order. For double gates
// they are the operators applied to the target when the control is set.
func (g Gate) steps() []matrix {
	switch g {
	case X:
		return []matrix{rx(meta.PI_OVER_8)}
	case Y:
		return []matrix{ry(meta.PI_OVER_8)}
	case Z:
		return []matrix{rz(meta.PI_OVER_8)}
	case XY, CXY:
		return []matrix{rz(meta.PI_OVER_4), rx(meta.PI_OVER_8), rz(-meta.PI_OVER_4)}
	case YZ, CYZ:
		return []matrix{rx(meta.PI_OVER_4), ry(meta.PI_OVER_8), rx(-meta.PI_OVER_4)}
	case XZ, CXZ:
		return []matrix{ry(meta.PI_OVER_4), rz(meta.PI_OVER_8), ry(-meta.PI_OVER_4)}
	case H:
		return []matrix{hadamard}
	case CX:
		return []matrix{pauliX}
	case CY:
		return []matrix{pauliY}
	case CZ:
		return []matrix{pauliZ}
	}
	return nil
}
