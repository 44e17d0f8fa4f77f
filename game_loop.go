package main

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"cutsnake-server/game"
)

// GameLoop drives the game at a fixed tick rate
type GameLoop struct {
	mu        sync.Mutex // guards state, bots, pending and tickCount
	state     *game.GameState
	bots      *BotManager
	conns     *ConnManager
	pending   []game.SoundEffect // sounds not yet broadcast
	tickCount int

	broadcastEvery int
	nextPlayerID   atomic.Uint64
}

// NewGameLoop creates a game loop bound to state and the connection manager,
// pre-populated with cfg.Bots bots.
func NewGameLoop(state *game.GameState, conns *ConnManager, bots *BotManager, cfg Config) (*GameLoop, error) {
	gl := &GameLoop{
		state:          state,
		bots:           bots,
		conns:          conns,
		broadcastEvery: max(cfg.BroadcastEvery, 1),
	}
	for i := 0; i < cfg.Bots; i++ {
		if _, err := bots.SpawnBot(state); err != nil {
			return nil, err
		}
	}
	return gl, nil
}

// NextPlayerID hands out a fresh id for a human player
func (gl *GameLoop) NextPlayerID() uint64 {
	return gl.nextPlayerID.Add(1)
}

// AddPlayer puts a joined player into the game
func (gl *GameLoop) AddPlayer(id uint64, name string) error {
	gl.mu.Lock()
	defer gl.mu.Unlock()
	if _, err := gl.state.AddPlayer(id, name); err != nil {
		return fmt.Errorf("join %q: %w", name, err)
	}
	return nil
}

// RemovePlayer takes a player out of the game
func (gl *GameLoop) RemovePlayer(id uint64) bool {
	gl.mu.Lock()
	defer gl.mu.Unlock()
	return gl.state.RemovePlayer(id)
}

// Run ticks every game.DeltaTime until ctx is cancelled
func (gl *GameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(game.DeltaTime * float64(time.Second)))
	defer ticker.Stop()
	log.Printf("game loop started at %.0f ticks/sec", 1/game.DeltaTime)

	for {
		select {
		case <-ctx.Done():
			gl.mu.Lock()
			log.Printf("game loop stopped after %d ticks", gl.tickCount)
			gl.mu.Unlock()
			return
		case <-ticker.C:
			if msg, ok := gl.tick(); ok {
				gl.broadcast(msg)
			}
		}
	}
}

// tick executes a single game update. It returns a snapshot when one is due.
func (gl *GameLoop) tick() (StateMsg, bool) {
	gl.mu.Lock()
	defer gl.mu.Unlock()
	gl.tickCount++

	// 1. Latest client inputs
	for _, c := range gl.conns.Snapshot() {
		if in, joined := c.GetInput(); joined {
			gl.state.SetInput(c.PlayerID, in)
		}
	}

	// 2. Bot inputs
	gl.bots.Update(gl.state)

	// 3. Simulate
	before := gl.state.Stage
	sounds := gl.state.Update(game.DeltaTime)
	gl.pending = append(gl.pending, sounds...)
	if after := gl.state.Stage; after != before {
		log.Printf("stage %s -> %s", before, after)
	}
	for _, e := range sounds {
		if e == game.SoundCut {
			log.Printf("cut at tick %d", gl.tickCount)
		}
	}

	// 4. Snapshot
	if gl.tickCount%gl.broadcastEvery != 0 {
		return StateMsg{}, false
	}
	msg := NewStateMsg(gl.state, gl.pending)
	gl.pending = gl.pending[:0]
	return msg, true
}

// Snapshot returns the current state as a protocol message
func (gl *GameLoop) Snapshot() StateMsg {
	gl.mu.Lock()
	defer gl.mu.Unlock()
	return NewStateMsg(gl.state, nil)
}

// broadcast sends msg to every joined connection. Each encoding is
// marshalled once.
func (gl *GameLoop) broadcast(msg StateMsg) {
	type frame struct {
		kind int
		data []byte
		err  error
	}
	frames := make(map[Encoding]frame)

	for _, c := range gl.conns.Snapshot() {
		if _, joined := c.GetInput(); !joined {
			continue
		}
		f, ok := frames[c.Encoding]
		if !ok {
			f.kind, f.data, f.err = c.Encoding.Marshal(msg)
			frames[c.Encoding] = f
		}
		if f.err != nil {
			log.Printf("encode state as %s: %v", c.Encoding, f.err)
			continue
		}
		if err := c.SendFrame(f.kind, f.data); err != nil {
			log.Printf("send error to %s: %v", c.ID, err)
		}
	}
}
