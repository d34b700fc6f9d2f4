package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// CombatRecord is one resolved attack.
type CombatRecord struct {
	Turn          int
	Player        int // attacking player
	Attacker      string
	Defender      string
	AttackerBasis string
	DefenderBasis string
	AttackerValue uint64
	DefenderValue uint64
	AttackerWon   bool
	Time          time.Time
}

type SessionMetric struct {
	StartTime    time.Time
	Duration     time.Duration
	Turns        int
	Gates        int
	Swaps        int
	Measurements int
	Combats      int
	Conquests    int
}

type Collector interface {
	Start()
	AddTurn()
	AddGate()
	AddSwap()
	AddMeasurement()
	AddCombat(record CombatRecord)
	Combats() []CombatRecord
	Complete() SessionMetric
}

type collector struct {
	startTime    time.Time
	turns        atomic.Int32
	gates        atomic.Int32
	swaps        atomic.Int32
	measurements atomic.Int32
	conquests    atomic.Int32

	mu      sync.Mutex
	combats []CombatRecord
}

func NewCollector() Collector {
	return &collector{startTime: time.Now()}
}

func (m *collector) Start() {
	m.startTime = time.Now()
}

func (m *collector) AddTurn() {
	m.turns.Add(1)
}

func (m *collector) AddGate() {
	m.gates.Add(1)
}

func (m *collector) AddSwap() {
	m.swaps.Add(1)
}

func (m *collector) AddMeasurement() {
	m.measurements.Add(1)
}

func (m *collector) AddCombat(record CombatRecord) {
	if record.AttackerWon {
		m.conquests.Add(1)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.combats = append(m.combats, record)
}

// Combats returns a copy of the combat log.
func (m *collector) Combats() []CombatRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CombatRecord{}, m.combats...)
}

func (m *collector) Complete() SessionMetric {
	m.mu.Lock()
	combats := len(m.combats)
	m.mu.Unlock()
	return SessionMetric{
		StartTime:    m.startTime,
		Duration:     time.Since(m.startTime),
		Turns:        int(m.turns.Load()),
		Gates:        int(m.gates.Load()),
		Swaps:        int(m.swaps.Load()),
		Measurements: int(m.measurements.Load()),
		Combats:      combats,
		Conquests:    int(m.conquests.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()                  {}
func (m *dummyCollector) AddTurn()                {}
func (m *dummyCollector) AddGate()                {}
func (m *dummyCollector) AddSwap()                {}
func (m *dummyCollector) AddMeasurement()         {}
func (m *dummyCollector) AddCombat(CombatRecord)  {}
func (m *dummyCollector) Combats() []CombatRecord { return nil }
func (m *dummyCollector) Complete() SessionMetric { return SessionMetric{} }

// GameRecord is one finished self-play game.
type GameRecord struct {
	ID     int
	Seed   uint64
	Winner int // 0 when the game hit the turn limit
	SessionMetric
}
