// Package quantum simulates the small qubit register behind the game's troops.
//
// The register keeps one exact state vector per entangled group. Groups are
// the connected components of the entanglement graph: a two-qubit gate joins
// the groups of its qubits (tensor product), and a basis measurement splits a
// group back into single-qubit product states.
package quantum

import (
	"errors"
	"fmt"
	"time"

	"qrisk/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

var (
	ErrQubitOutOfRange = errors.New("qubit index out of range")
	ErrUnknownGate     = errors.New("unknown gate")
	ErrUnknownBasis    = errors.New("basis must be X, Y or Z")
	ErrSameQubit       = errors.New("control and target must differ")
	ErrTooManyQubits   = errors.New("register too large to materialise")
	ErrGroupTooLarge   = errors.New("entangled group would grow too large")
)

// group is the joint state of one entangled group.
type group struct {
	qubits []int // qubits[i] is the register qubit stored at bit i of an amplitude index
	amps   []complex128
}

func newGroup(qubit int) *group {
	return &group{qubits: []int{qubit}, amps: []complex128{1, 0}}
}

func (g *group) bitOf(qubit int) int {
	for i, q := range g.qubits {
		if q == qubit {
			return i
		}
	}
	panic(fmt.Sprintf("qubit %d not in its group", qubit))
}

func (g *group) apply(bit int, m matrix) {
	mask := 1 << bit
	for i := range g.amps {
		if i&mask != 0 {
			continue
		}
		j := i | mask
		a0, a1 := g.amps[i], g.amps[j]
		g.amps[i] = m[0][0]*a0 + m[0][1]*a1
		g.amps[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

func (g *group) applyControlled(controlBit, targetBit int, m matrix) {
	cmask, tmask := 1<<controlBit, 1<<targetBit
	for i := range g.amps {
		if i&cmask == 0 || i&tmask != 0 {
			continue
		}
		j := i | tmask
		a0, a1 := g.amps[i], g.amps[j]
		g.amps[i] = m[0][0]*a0 + m[0][1]*a1
		g.amps[j] = m[1][0]*a0 + m[1][1]*a1
	}
}

type Option func(r *Register)

// WithSeed makes measurement outcomes reproducible.
func WithSeed(seed uint64) Option {
	return func(r *Register) {
		r.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) Option {
	return func(r *Register) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// Register is the game's shared qubit register. It is not safe for
// concurrent use; the turn engine owns it.
type Register struct {
	size   int
	groups []*group // group of each qubit
	edges  map[int]map[int]struct{}
	rng    *rand.Rand
}

// NewRegister returns a register of size qubits, all in |0⟩ and unentangled.
func NewRegister(size int, options ...Option) *Register {
	r := &Register{
		size:   size,
		groups: make([]*group, size),
		edges:  make(map[int]map[int]struct{}),
	}
	for q := range r.groups {
		r.groups[q] = newGroup(q)
	}
	for _, option := range options {
		option(r)
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return r
}

func (r *Register) Size() int {
	return r.size
}

func (r *Register) checkQubit(qubit int) error {
	if qubit < 0 || qubit >= r.size {
		log.Warn().Msgf("qubit index %d out of range [0, %d]", qubit, r.size-1)
		return fmt.Errorf("%w: %d not in [0, %d)", ErrQubitOutOfRange, qubit, r.size)
	}
	return nil
}

// ApplySingleGate applies one of X, Y, Z, XY, YZ, XZ or H to qubit.
// Invalid arguments leave the register untouched.
func (r *Register) ApplySingleGate(gate Gate, qubit int) error {
	if err := r.checkQubit(qubit); err != nil {
		return err
	}
	if gate.IsDouble() || gate.steps() == nil {
		log.Warn().Msgf("invalid single gate %q", gate)
		return fmt.Errorf("%w: %q is not a single-qubit gate", ErrUnknownGate, gate)
	}
	g := r.groups[qubit]
	bit := g.bitOf(qubit)
	for _, m := range gate.steps() {
		g.apply(bit, m)
	}
	return nil
}

// ApplyDoubleGate applies a controlled gate and records that control and
// target may now be entangled.
func (r *Register) ApplyDoubleGate(gate Gate, control, target int) error {
	if err := r.checkQubit(control); err != nil {
		return err
	}
	if err := r.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("%w: %d", ErrSameQubit, control)
	}
	if !gate.IsDouble() {
		log.Warn().Msgf("invalid double gate %q", gate)
		return fmt.Errorf("%w: %q is not a controlled gate", ErrUnknownGate, gate)
	}
	if gc, gt := r.groups[control], r.groups[target]; gc != gt && len(gc.qubits)+len(gt.qubits) > meta.MAX_GROUP_QUBITS {
		return fmt.Errorf("%w: %d qubits, limit %d", ErrGroupTooLarge, len(gc.qubits)+len(gt.qubits), meta.MAX_GROUP_QUBITS)
	}
	r.entangle(control, target)
	g := r.groups[control]
	controlBit, targetBit := g.bitOf(control), g.bitOf(target)
	for _, m := range gate.steps() {
		g.applyControlled(controlBit, targetBit, m)
	}
	return nil
}

// ApplySwap exchanges the states of two qubits. Entanglement moves with the
// state, so a's partners become b's and the other way round.
func (r *Register) ApplySwap(a, b int) error {
	if err := r.checkQubit(a); err != nil {
		return err
	}
	if err := r.checkQubit(b); err != nil {
		return err
	}
	if a == b {
		return nil
	}
	ga, gb := r.groups[a], r.groups[b]
	bitA, bitB := ga.bitOf(a), gb.bitOf(b)
	ga.qubits[bitA] = b
	gb.qubits[bitB] = a
	r.groups[a], r.groups[b] = gb, ga
	r.relabel(a, b)
	return nil
}

// merge joins the groups of a and b into their tensor product.
func (r *Register) merge(a, b int) {
	ga, gb := r.groups[a], r.groups[b]
	if ga == gb {
		return
	}
	na := len(ga.qubits)
	merged := &group{
		qubits: append(append([]int{}, ga.qubits...), gb.qubits...),
		amps:   make([]complex128, len(ga.amps)*len(gb.amps)),
	}
	for ib, ampB := range gb.amps {
		if ampB == 0 {
			continue
		}
		for ia, ampA := range ga.amps {
			merged.amps[ia|ib<<na] = ampA * ampB
		}
	}
	for _, q := range merged.qubits {
		r.groups[q] = merged
	}
}
