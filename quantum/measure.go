package quantum

import (
	"fmt"
	"math/cmplx"
)

// MeasureInBasis measures qubit along basis and returns +1 or -1. Every qubit
// entangled with it is measured in the same basis and collapses too.
func (r *Register) MeasureInBasis(qubit int, basis Basis) (int, error) {
	outcomes, err := r.MeasureGroupInBasis(qubit, basis)
	if err != nil {
		return 0, err
	}
	return outcomes[qubit], nil
}

// MeasureGroupInBasis performs one joint projective measurement of the whole
// entangled group of qubit and returns the observable of each member. After
// the call every member is an unentangled eigenstate of basis.
func (r *Register) MeasureGroupInBasis(qubit int, basis Basis) (map[int]int, error) {
	if err := r.checkQubit(qubit); err != nil {
		return nil, err
	}
	basis, err := ParseBasis(string(basis))
	if err != nil {
		return nil, err
	}

	members := r.EntangledQubits(qubit)
	g := r.groups[qubit]
	if len(members) != len(g.qubits) {
		panic(fmt.Sprintf("entangled group of qubit %d out of sync with its state", qubit))
	}
	r.disentangle(members)

	for _, q := range g.qubits {
		bit := g.bitOf(q)
		for _, m := range basis.change() {
			g.apply(bit, m)
		}
	}

	index := r.sample(g.amps)
	outcomes := make(map[int]int, len(g.qubits))
	for bit, q := range g.qubits {
		value := (index >> bit) & 1
		outcomes[q] = 1 - 2*value
		r.groups[q] = eigenstate(q, value, basis)
	}
	return outcomes, nil
}

// eigenstate prepares |value⟩ and rotates it back into basis.
func eigenstate(qubit, value int, basis Basis) *group {
	g := newGroup(qubit)
	if value == 1 {
		g.apply(0, pauliX)
	}
	for _, m := range basis.restore() {
		g.apply(0, m)
	}
	return g
}

// sample draws one basis index following the Born rule.
func (r *Register) sample(amps []complex128) int {
	total := 0.0
	for _, a := range amps {
		total += probability(a)
	}
	threshold := r.rng.Float64() * total
	cumulative := 0.0
	last := 0
	for i, a := range amps {
		p := probability(a)
		if p == 0 {
			continue
		}
		cumulative += p
		last = i
		if threshold < cumulative {
			return i
		}
	}
	return last
}

func probability(a complex128) float64 {
	m := cmplx.Abs(a)
	return m * m
}
