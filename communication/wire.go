package communication

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"qrisk/quantum"
)

var ErrUnknownCommand = errors.New("unknown command")

// Command names shared by the console and the websocket messages.
const (
	CommandMove    = "move"
	CommandSelect  = "select"
	CommandBasis   = "basis"
	CommandConfirm = "confirm"
	CommandNext    = "next"
)

// Message is the JSON form of an Event sent by remote players.
type Message struct {
	Type  string `json:"type"`
	Index int    `json:"index,omitempty"`
	Name  string `json:"name,omitempty"`
	Basis string `json:"basis,omitempty"`
}

func (m Message) Event() (Event, error) {
	switch m.Type {
	case CommandMove:
		return MoveSelected{Index: m.Index}, nil
	case CommandSelect:
		if m.Name == "" {
			return nil, fmt.Errorf("%w: select needs a territory name", ErrUnknownCommand)
		}
		return TerritorySelected{Name: m.Name}, nil
	case CommandBasis:
		b, err := quantum.ParseBasis(m.Basis)
		if err != nil {
			return nil, err
		}
		return BasisSelected{Basis: b}, nil
	case CommandConfirm:
		return ConfirmPressed{}, nil
	case CommandNext:
		return AdvancePhase{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, m.Type)
	}
}

// NewMessage converts ev to its JSON form.
func NewMessage(ev Event) Message {
	switch ev := ev.(type) {
	case MoveSelected:
		return Message{Type: CommandMove, Index: ev.Index}
	case TerritorySelected:
		return Message{Type: CommandSelect, Name: ev.Name}
	case BasisSelected:
		return Message{Type: CommandBasis, Basis: string(ev.Basis)}
	case ConfirmPressed:
		return Message{Type: CommandConfirm}
	default:
		return Message{Type: CommandNext}
	}
}

// ParseCommand reads one text command: "move N", "select NAME",
// "basis B", "confirm" or "next".
func ParseCommand(line string) (Event, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	m := Message{Type: strings.ToLower(fields[0])}
	arg := strings.Join(fields[1:], " ")
	switch m.Type {
	case CommandMove:
		index, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: move needs a number, got %q", ErrUnknownCommand, arg)
		}
		m.Index = index
	case CommandSelect:
		m.Name = arg
	case CommandBasis:
		m.Basis = arg
	case CommandConfirm, CommandNext:
		if arg != "" {
			return nil, fmt.Errorf("%w: %s takes no argument", ErrUnknownCommand, m.Type)
		}
	}
	return m.Event()
}

// Update types pushed to remote views.
const (
	UpdateSnapshot     = "snapshot"
	UpdateConfirmation = "confirmation"
	UpdateSelection    = "selection"
	UpdateNotice       = "notice"
)

// Update is the JSON form of a View call.
type Update struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Message  string    `json:"message,omitempty"`
	Enabled  bool      `json:"enabled,omitempty"`
	Player   int       `json:"player,omitempty"`
	Opponent bool      `json:"opponent,omitempty"`
}

// Apply replays u on a local view.
func (u Update) Apply(v View) {
	switch u.Type {
	case UpdateSnapshot:
		if u.Snapshot != nil {
			v.Render(*u.Snapshot)
		}
	case UpdateConfirmation:
		v.RequestConfirmation()
	case UpdateSelection:
		v.AllowSelection(u.Enabled, u.Player, u.Opponent)
	case UpdateNotice:
		v.Notify(u.Message)
	}
}
