package quantum

import (
	"fmt"
	"math/cmplx"

	"qrisk/meta"
)

// Amplitudes materialises the full state vector. Bit q of an index is the
// value of qubit q.
func (r *Register) Amplitudes() ([]complex128, error) {
	if r.size > meta.MAX_DENSE_QUBITS {
		return nil, fmt.Errorf("%w: %d qubits, limit %d", ErrTooManyQubits, r.size, meta.MAX_DENSE_QUBITS)
	}
	var groups []*group
	seen := make(map[*group]bool)
	for _, g := range r.groups {
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}

	amps := make([]complex128, 1<<r.size)
	for k := range amps {
		amp := complex(1, 0)
		for _, g := range groups {
			local := 0
			for bit, q := range g.qubits {
				local |= ((k >> q) & 1) << bit
			}
			amp *= g.amps[local]
			if amp == 0 {
				break
			}
		}
		amps[k] = amp
	}
	return amps, nil
}

// BlochVector returns the Bloch coordinates of qubit's reduced state. Qubits
// entangled with others have vectors shorter than 1.
func (r *Register) BlochVector(qubit int) (x, y, z float64, err error) {
	if err := r.checkQubit(qubit); err != nil {
		return 0, 0, 0, err
	}
	g := r.groups[qubit]
	mask := 1 << g.bitOf(qubit)
	var rho00, rho11 float64
	var rho01 complex128
	for i, a := range g.amps {
		if i&mask != 0 {
			rho11 += probability(a)
			continue
		}
		rho00 += probability(a)
		rho01 += a * cmplx.Conj(g.amps[i|mask])
	}
	return 2 * real(rho01), -2 * imag(rho01), rho00 - rho11, nil
}

// ProbabilityPlus is the probability that a Z measurement of qubit yields +1.
func (r *Register) ProbabilityPlus(qubit int) (float64, error) {
	_, _, z, err := r.BlochVector(qubit)
	if err != nil {
		return 0, err
	}
	return (1 + z) / 2, nil
}
