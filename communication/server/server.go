package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"qrisk/communication"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// client is one websocket connection. gorilla connections allow a single
// concurrent writer.
type client struct {
	conn  *websocket.Conn
	write sync.Mutex
}

func (c *client) send(u communication.Update) error {
	c.write.Lock()
	defer c.write.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteJSON(u)
}

// ServerCommunicator is a View that broadcasts every update to websocket
// clients and turns their messages into engine events.
type ServerCommunicator struct {
	events   chan communication.Event
	upgrader websocket.Upgrader

	mutex    sync.RWMutex
	clients  map[*client]struct{}
	snapshot *communication.Snapshot // last rendered, sent to newcomers
}

// NewServerCommunicator initializes and returns a new ServerCommunicator.
func NewServerCommunicator(buffer int) *ServerCommunicator {
	return &ServerCommunicator{
		events:  make(chan communication.Event, buffer),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Events delivers the events sent by clients.
func (sc *ServerCommunicator) Events() <-chan communication.Event {
	return sc.events
}

func (sc *ServerCommunicator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", sc.handleWS)
	mux.HandleFunc("/state", sc.handleGetState)
	return mux
}

// Start serves on addr until ctx is done.
func (sc *ServerCommunicator) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: sc.Handler()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()
	log.Info().Msgf("websocket view listening on %s", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (sc *ServerCommunicator) handleGetState(w http.ResponseWriter, r *http.Request) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	if sc.snapshot == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sc.snapshot)
}

func (sc *ServerCommunicator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := sc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{conn: conn}

	sc.mutex.Lock()
	sc.clients[c] = struct{}{}
	snapshot := sc.snapshot
	sc.mutex.Unlock()
	log.Info().Msgf("client %s connected", conn.RemoteAddr())

	if snapshot != nil {
		if err := c.send(communication.Update{Type: communication.UpdateSnapshot, Snapshot: snapshot}); err != nil {
			log.Warn().Err(err).Msg("initial snapshot not delivered")
		}
	}
	sc.readLoop(c)
}

func (sc *ServerCommunicator) readLoop(c *client) {
	defer func() {
		sc.mutex.Lock()
		delete(sc.clients, c)
		sc.mutex.Unlock()
		c.conn.Close()
		log.Info().Msgf("client %s disconnected", c.conn.RemoteAddr())
	}()
	for {
		var msg communication.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Msg("read failed")
			}
			return
		}
		ev, err := msg.Event()
		if err != nil {
			c.send(communication.Update{Type: communication.UpdateNotice, Message: err.Error()})
			continue
		}
		select {
		case sc.events <- ev:
		default:
			log.Warn().Msgf("event queue full, dropping %T", ev)
		}
	}
}

func (sc *ServerCommunicator) broadcast(u communication.Update) {
	sc.mutex.RLock()
	clients := make([]*client, 0, len(sc.clients))
	for c := range sc.clients {
		clients = append(clients, c)
	}
	sc.mutex.RUnlock()

	for _, c := range clients {
		if err := c.send(u); err != nil {
			log.Debug().Err(err).Msgf("update not delivered to %s", c.conn.RemoteAddr())
		}
	}
}

func (sc *ServerCommunicator) Render(s communication.Snapshot) {
	sc.mutex.Lock()
	sc.snapshot = &s
	sc.mutex.Unlock()
	sc.broadcast(communication.Update{Type: communication.UpdateSnapshot, Snapshot: &s})
}

func (sc *ServerCommunicator) RequestConfirmation() {
	sc.broadcast(communication.Update{Type: communication.UpdateConfirmation})
}

func (sc *ServerCommunicator) AllowSelection(enabled bool, player int, opponent bool) {
	sc.broadcast(communication.Update{Type: communication.UpdateSelection, Enabled: enabled, Player: player, Opponent: opponent})
}

func (sc *ServerCommunicator) Notify(message string) {
	sc.broadcast(communication.Update{Type: communication.UpdateNotice, Message: message})
}

// Close disconnects every client.
func (sc *ServerCommunicator) Close() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	for c := range sc.clients {
		c.conn.Close()
	}
}
