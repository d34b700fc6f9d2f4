// meta/meta.go
package meta

import (
	"math"
	"time"
)

// PI_OVER_8 is the rotation angle of every game gate.
const PI_OVER_8 = math.Pi / 8

// PI_OVER_4 is the frame rotation used by the bisecting-axis gates.
const PI_OVER_4 = math.Pi / 4

// POLL_INTERVAL is the default delay between two engine iterations.
const POLL_INTERVAL = 50 * time.Millisecond

// MAX_OWNERSHIP_ATTEMPTS bounds the random ownership reshuffles at setup.
const MAX_OWNERSHIP_ATTEMPTS = 1000

// MAX_DENSE_QUBITS caps the size of a materialised state vector.
const MAX_DENSE_QUBITS = 16

// MAX_GROUP_QUBITS caps the size of one entangled group.
const MAX_GROUP_QUBITS = 20

// BONUS_PREFIX marks continental bonus gates.
const BONUS_PREFIX = "+"

// PLAYERS is the number of players of a session.
const PLAYERS = 2
