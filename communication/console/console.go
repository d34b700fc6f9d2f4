// Package console plays the game in a terminal: a text View and a reader
// turning typed commands into events.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"qrisk/communication"

	"github.com/rs/zerolog/log"
)

type View struct {
	mu  sync.Mutex
	out io.Writer
}

func NewView(out io.Writer) *View {
	return &View{out: out}
}

func (v *View) printf(format string, args ...any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

func (v *View) Render(s communication.Snapshot) {
	var b strings.Builder
	fmt.Fprintf(&b, "\n== player %d, %s ==\n", s.Player, s.Phase)
	for _, t := range s.Territories {
		lost := ""
		if t.LostBattle {
			lost = " (fought)"
		}
		fmt.Fprintf(&b, "  %-16s p%d %-12s", t.Name, t.Owner, t.Continent)
		for _, vec := range t.Bloch {
			fmt.Fprintf(&b, " [%+.2f %+.2f %+.2f]", vec.X, vec.Y, vec.Z)
		}
		fmt.Fprintf(&b, "%s\n", lost)
	}
	if c := s.LastCombat; c != nil {
		fmt.Fprintf(&b, "  last combat: %s %d (%s) vs %s %d (%s), attacker won=%t\n",
			c.Attacker, c.AttackerValue, c.AttackerBasis, c.Defender, c.DefenderValue, c.DefenderBasis, c.AttackerWon)
	}
	for i, m := range s.Moves {
		marker := " "
		if i == s.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, " %s%d) %s\n", marker, i, m.Label)
	}
	if s.Armed {
		b.WriteString("  type `confirm` to apply\n")
	}
	v.printf("%s", b.String())
}

func (v *View) RequestConfirmation() {
	v.printf("move complete, type `confirm`\n")
}

func (v *View) AllowSelection(enabled bool, player int, opponent bool) {
	if !enabled {
		return
	}
	side := "your"
	if opponent {
		side = "an enemy"
	}
	v.printf("player %d: `select` %s territory\n", player, side)
}

func (v *View) Notify(message string) {
	v.printf("! %s\n", message)
}

// ReadEvents parses one command per line of r and sends the events to out
// until r is exhausted or ctx is done. Unparseable lines are reported through
// notify, if set, and skipped.
func ReadEvents(ctx context.Context, r io.Reader, out chan<- communication.Event, notify func(string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		ev, err := communication.ParseCommand(line)
		if err != nil {
			log.Debug().Err(err).Msgf("ignoring %q", line)
			if notify != nil {
				notify(err.Error())
			}
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}
