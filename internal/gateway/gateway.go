// Package gateway is a reference table.Transport implementation over
// gorilla/websocket: an Upgrader, a per-connection read/write pump pair,
// and a connection registry keyed by player id. It demonstrates the
// transport contract; nothing in tablecore's core packages imports it.
package gateway

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"tablecore/holdem"
	"tablecore/table"
)

// Gateway is a reference table.Transport implementer.
var _ table.Transport = (*Gateway)(nil)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ClientMessage is the JSON envelope a connected client sends: which table
// it's acting on and a holdem action.
type ClientMessage struct {
	TableID string        `json:"tableId"`
	Action  holdem.Action `json:"action"`
}

// Dispatcher is called for every inbound client message; cmd/tableserver
// wires this to a table.Mediator registry.
type Dispatcher func(tableID, playerID string, action holdem.Action) error

// ServerMessage is the JSON envelope sent back to a client: exactly one of
// Public, Player or Error is set.
type ServerMessage struct {
	TableID string              `json:"tableId"`
	Public  *holdem.PublicView  `json:"public,omitempty"`
	Player  *holdem.PlayerView  `json:"player,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// Connection is one upgraded WebSocket client, identified by playerID.
type Connection struct {
	playerID string
	conn     *websocket.Conn
	send     chan ServerMessage
	gateway  *Gateway
}

// Gateway tracks live connections and implements table.Transport by
// fanning PublishPublic out to every connection subscribed to that tableID
// and sending PublishPlayer to that player's own connection.
type Gateway struct {
	logger     *log.Logger
	dispatch   Dispatcher
	mu         sync.RWMutex
	byPlayer   map[string]*Connection
	tableSubs  map[string]map[string]bool // tableID -> set of playerIDs
}

// New creates a Gateway. dispatch handles every decoded client action.
func New(dispatch Dispatcher, logger *log.Logger) *Gateway {
	return &Gateway{
		logger:    logger,
		dispatch:  dispatch,
		byPlayer:  make(map[string]*Connection),
		tableSubs: make(map[string]map[string]bool),
	}
}

// HandleWebSocket upgrades the request and starts the connection's pumps.
// playerID identifies the caller; a production deployment would derive it
// from auth instead of trusting a query parameter.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	playerID := r.URL.Query().Get("playerId")
	if playerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	c := &Connection{playerID: playerID, conn: conn, send: make(chan ServerMessage, 64), gateway: g}
	g.mu.Lock()
	g.byPlayer[playerID] = c
	g.mu.Unlock()
	g.logger.Info("client connected", "player", playerID)

	go c.writePump()
	go c.readPump()
}

func (c *Connection) readPump() {
	defer c.gateway.removeConnection(c)
	c.conn.SetReadLimit(65536)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.gateway.logger.Warn("websocket read error", "player", c.playerID, "err", err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.send <- ServerMessage{Error: "invalid message: " + err.Error()}
			continue
		}
		c.gateway.subscribe(msg.TableID, c.playerID)
		if err := c.gateway.dispatch(msg.TableID, c.playerID, msg.Action); err != nil {
			c.send <- ServerMessage{TableID: msg.TableID, Error: err.Error()}
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (g *Gateway) subscribe(tableID, playerID string) {
	if tableID == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	subs, ok := g.tableSubs[tableID]
	if !ok {
		subs = make(map[string]bool)
		g.tableSubs[tableID] = subs
	}
	subs[playerID] = true
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.byPlayer, c.playerID)
	for _, subs := range g.tableSubs {
		delete(subs, c.playerID)
	}
	g.logger.Info("client disconnected", "player", c.playerID)
}

// PublishPublic implements table.Transport: every connection subscribed to
// tableID receives the new public view.
func (g *Gateway) PublishPublic(tableID string, view holdem.PublicView) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for playerID := range g.tableSubs[tableID] {
		if c, ok := g.byPlayer[playerID]; ok {
			g.deliver(c, ServerMessage{TableID: tableID, Public: &view})
		}
	}
}

// PublishPlayer implements table.Transport: only playerID's own connection
// receives its PlayerView.
func (g *Gateway) PublishPlayer(tableID string, playerID string, view holdem.PlayerView) {
	g.mu.RLock()
	c, ok := g.byPlayer[playerID]
	g.mu.RUnlock()
	if !ok {
		return
	}
	g.deliver(c, ServerMessage{TableID: tableID, Player: &view})
}

func (g *Gateway) deliver(c *Connection, msg ServerMessage) {
	select {
	case c.send <- msg:
	default:
		g.logger.Warn("dropping message, send buffer full", "player", c.playerID)
	}
}
