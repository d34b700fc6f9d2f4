package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"qrisk/communication"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ClientCommunicator plays against a remote engine: it sends events over a
// websocket and receives the view updates.
type ClientCommunicator struct {
	serverURL string
	conn      *websocket.Conn
	write     sync.Mutex
	updates   chan communication.Update
}

// Dial connects to the /ws endpoint of serverURL (http or ws scheme).
func Dial(ctx context.Context, serverURL string) (*ClientCommunicator, error) {
	base := strings.TrimSuffix(serverURL, "/")
	wsURL := "ws" + strings.TrimPrefix(strings.TrimPrefix(base, "ws"), "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}
	cc := &ClientCommunicator{
		serverURL: "http" + strings.TrimPrefix(strings.TrimPrefix(base, "http"), "ws"),
		conn:      conn,
		updates:   make(chan communication.Update, 64),
	}
	go cc.readLoop()
	return cc, nil
}

func (cc *ClientCommunicator) readLoop() {
	defer close(cc.updates)
	for {
		var u communication.Update
		if err := cc.conn.ReadJSON(&u); err != nil {
			log.Debug().Err(err).Msg("client read loop ended")
			return
		}
		cc.updates <- u
	}
}

// Updates is closed when the connection ends.
func (cc *ClientCommunicator) Updates() <-chan communication.Update {
	return cc.updates
}

func (cc *ClientCommunicator) Send(ev communication.Event) error {
	cc.write.Lock()
	defer cc.write.Unlock()
	return cc.conn.WriteJSON(communication.NewMessage(ev))
}

// GetState fetches the last rendered snapshot, nil if nothing was rendered yet.
func (cc *ClientCommunicator) GetState(ctx context.Context) (*communication.Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cc.serverURL+"/state", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get state: %s", resp.Status)
	}
	var s communication.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &s, nil
}

func (cc *ClientCommunicator) Close() error {
	cc.write.Lock()
	defer cc.write.Unlock()
	cc.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return cc.conn.Close()
}
