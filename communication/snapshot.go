package communication

// Snapshot is everything a view needs to draw the game after an event.
type Snapshot struct {
	Player      int             `json:"player"`
	Phase       string          `json:"phase"`
	Moves       []MoveView      `json:"moves"`
	Active      int             `json:"active"` // index into Moves, -1 when none
	Armed       bool            `json:"armed"`
	Territories []TerritoryView `json:"territories"`
	LastCombat  *CombatView     `json:"lastCombat,omitempty"`
}

type MoveView struct {
	ID       string   `json:"id"`
	Kind     string   `json:"kind"`
	Label    string   `json:"label"`
	Selected []string `json:"selected,omitempty"`
}

type TerritoryView struct {
	Name       string   `json:"name"`
	Owner      int      `json:"owner"`
	Continent  string   `json:"continent"`
	Qubits     []int    `json:"qubits"`
	LostBattle bool     `json:"lostBattle"`
	Neighbors  []string `json:"neighbors"`
	Bloch      []Vector `json:"bloch"` // one per qubit, reduced state
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
}

type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type CombatView struct {
	Attacker      string `json:"attacker"`
	Defender      string `json:"defender"`
	AttackerBasis string `json:"attackerBasis"`
	DefenderBasis string `json:"defenderBasis"`
	AttackerValue uint64 `json:"attackerValue"`
	DefenderValue uint64 `json:"defenderValue"`
	AttackerWon   bool   `json:"attackerWon"`
}

// ActiveMove returns the move being filled in, if any.
func (s Snapshot) ActiveMove() (MoveView, bool) {
	if s.Active < 0 || s.Active >= len(s.Moves) {
		return MoveView{}, false
	}
	return s.Moves[s.Active], true
}

// Territory looks a territory up by name.
func (s Snapshot) Territory(name string) (TerritoryView, bool) {
	for _, t := range s.Territories {
		if t.Name == name {
			return t, true
		}
	}
	return TerritoryView{}, false
}
