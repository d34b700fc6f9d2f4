package game

import (
	"errors"
	"fmt"

	"qrisk/quantum"
)

var ErrInvalidDefinition = errors.New("invalid world definition")

type Territory struct {
	Name       string  // Unique name, also the territory's identity
	Continent  string  // Name of the continent it belongs to
	Qubits     []int   // Register qubits held by the territory, its troop capacity
	Owner      int     // 0 neutral, otherwise player 1 or 2
	LostBattle bool    // Set once the territory attacked this round
	X, Y       float64 // Position for views, in [0, 1]
}

// Continent groups territories and grants its gate to their owners.
type Continent struct {
	Name        string
	Territories []string // Member names in declaration order
	Gate        quantum.Gate
}

// TerritoryDef declares one territory of a world.
type TerritoryDef struct {
	Name      string  `yaml:"name"`
	Troops    int     `yaml:"troops"`
	Continent string  `yaml:"continent"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
}

// Definition is the declarative description a World is built from.
type Definition struct {
	Territories []TerritoryDef    `yaml:"territories"`
	Edges       [][]string        `yaml:"edges"`
	Continents  map[string]string `yaml:"continents"` // continent name -> gate symbol
}

// World holds the territories, continents and borders of a session. Borders
// never change once built; ownership and battle flags do.
type World struct {
	territories map[string]*Territory
	order       []string // territory names in declaration order
	continents  map[string]*Continent
	continentOf []string // continent names in first-seen order
	adjacent    map[string][]string
	qubits      int
}

// NewWorld builds a World from def. Qubits are handed out contiguously in
// declaration order: the first territory gets [0, n1), the next [n1, n1+n2)...
func NewWorld(def Definition) (*World, error) {
	w := &World{
		territories: make(map[string]*Territory),
		continents:  make(map[string]*Continent),
		adjacent:    make(map[string][]string),
	}

	for _, td := range def.Territories {
		if td.Name == "" {
			return nil, fmt.Errorf("%w: territory without a name", ErrInvalidDefinition)
		}
		if _, ok := w.territories[td.Name]; ok {
			return nil, fmt.Errorf("%w: duplicate territory %q", ErrInvalidDefinition, td.Name)
		}
		if td.Troops < 1 {
			return nil, fmt.Errorf("%w: territory %q needs at least one troop, got %d", ErrInvalidDefinition, td.Name, td.Troops)
		}
		t := &Territory{
			Name:      td.Name,
			Continent: td.Continent,
			Qubits:    make([]int, td.Troops),
			X:         td.X,
			Y:         td.Y,
		}
		for i := range t.Qubits {
			t.Qubits[i] = w.qubits
			w.qubits++
		}
		w.territories[t.Name] = t
		w.order = append(w.order, t.Name)

		c, ok := w.continents[td.Continent]
		if !ok {
			c = &Continent{Name: td.Continent, Gate: quantum.X}
			w.continents[td.Continent] = c
			w.continentOf = append(w.continentOf, td.Continent)
		}
		c.Territories = append(c.Territories, t.Name)
	}

	for name, symbol := range def.Continents {
		c, ok := w.continents[name]
		if !ok {
			return nil, fmt.Errorf("%w: gate for unknown continent %q", ErrInvalidDefinition, name)
		}
		gate, err := quantum.ParseGate(symbol)
		if err != nil {
			return nil, fmt.Errorf("%w: continent %q: %w", ErrInvalidDefinition, name, err)
		}
		c.Gate = gate
	}

	for _, edge := range def.Edges {
		if len(edge) != 2 {
			return nil, fmt.Errorf("%w: edge %v must name two territories", ErrInvalidDefinition, edge)
		}
		if err := w.AddBorder(edge[0], edge[1]); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// AddBorder adds a bidirectional border between two territories.
func (w *World) AddBorder(a, b string) error {
	if _, ok := w.territories[a]; !ok {
		return fmt.Errorf("%w: border with unknown territory %q", ErrInvalidDefinition, a)
	}
	if _, ok := w.territories[b]; !ok {
		return fmt.Errorf("%w: border with unknown territory %q", ErrInvalidDefinition, b)
	}
	if a == b {
		return fmt.Errorf("%w: territory %q cannot border itself", ErrInvalidDefinition, a)
	}
	if !contains(w.adjacent[a], b) {
		w.adjacent[a] = append(w.adjacent[a], b)
	}
	if !contains(w.adjacent[b], a) {
		w.adjacent[b] = append(w.adjacent[b], a)
	}
	return nil
}

// contains checks if a slice contains a specific item. (avoid duplicate borders)
func contains(slice []string, item string) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

func (w *World) Territory(name string) (*Territory, bool) {
	t, ok := w.territories[name]
	return t, ok
}

// Territories returns every territory in declaration order.
func (w *World) Territories() []*Territory {
	out := make([]*Territory, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.territories[name])
	}
	return out
}

// Continents returns every continent in order of first appearance.
func (w *World) Continents() []*Continent {
	out := make([]*Continent, 0, len(w.continentOf))
	for _, name := range w.continentOf {
		out = append(out, w.continents[name])
	}
	return out
}

func (w *World) Continent(name string) (*Continent, bool) {
	c, ok := w.continents[name]
	return c, ok
}

// Neighbors returns the territories bordering name.
func (w *World) Neighbors(name string) []string {
	return append([]string{}, w.adjacent[name]...)
}

// QubitCount is the size of the register the world needs.
func (w *World) QubitCount() int {
	return w.qubits
}

// Owner returns the owner of name, or -1 for an unknown territory.
func (w *World) Owner(name string) int {
	t, ok := w.territories[name]
	if !ok {
		return -1
	}
	return t.Owner
}

func (w *World) SetOwner(name string, player int) {
	if t, ok := w.territories[name]; ok {
		t.Owner = player
	}
}
