package main

import (
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"cutsnake-server/game"
)

// Conn manages a single WebSocket player session
type Conn struct {
	ID       string // session id
	PlayerID uint64
	Encoding Encoding

	ws     *websocket.Conn
	mu     sync.Mutex // protects input, joined and ws writes
	input  game.Input
	joined bool
	closed bool
}

// NewConn creates a new connection wrapper bound to a player id
func NewConn(ws *websocket.Conn, playerID uint64, enc Encoding) *Conn {
	return &Conn{
		ID:       uuid.New().String(),
		PlayerID: playerID,
		Encoding: enc,
		ws:       ws,
	}
}

// Send encodes msg with the connection's encoding and writes one frame
func (c *Conn) Send(msg any) error {
	frameType, data, err := c.Encoding.Marshal(msg)
	if err != nil {
		return err
	}
	return c.SendFrame(frameType, data)
}

// SendFrame writes an already encoded frame
func (c *Conn) SendFrame(frameType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(WriteWait))
	return c.ws.WriteMessage(frameType, data)
}

// GetInput returns the latest input and whether the player has joined
func (c *Conn) GetInput() (game.Input, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input, c.joined
}

func (c *Conn) setInput(in game.Input) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = in
}

func (c *Conn) markJoined() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	first := !c.joined
	c.joined = true
	return first
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.ws.Close()
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of all current connections
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}

// ReadLoop handles incoming messages for a connection until it disconnects.
// onJoin runs on the first join message only; onDisconnect runs once when the
// connection closes.
func (c *Conn) ReadLoop(onJoin func(conn *Conn, name string), onDisconnect func(conn *Conn)) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	c.ws.SetReadLimit(ReadLimitBytes)
	for {
		frameType, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.ID, err)
			}
			return
		}

		msg, err := DecodeClientMessage(frameType, raw)
		if err != nil {
			log.Printf("bad message from %s: %v", c.ID, err)
			continue
		}

		switch msg.Type {
		case MsgJoin:
			if c.markJoined() {
				onJoin(c, sanitizeName(msg.Name))
			}
		case MsgInput:
			c.setInput(msg.Input())
		}
	}
}

// sanitizeName trims the requested name and falls back to "Player"
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	if name == "" {
		return "Player"
	}
	return name
}
