// Package game is the authoritative simulation of the snake arena: body
// locomotion on a toroidal plane, drifting food, cutting, and the round
// lifecycle. It performs no I/O; the host feeds inputs, calls Update once per
// fixed tick and reads the state back.
package game

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
)

// ErrDuplicatePlayer is returned when adding a player whose id is taken
var ErrDuplicatePlayer = errors.New("duplicate player id")

// GameState is the root aggregate of one game session. The host owns the
// single instance and must not call into it from more than one goroutine at
// a time.
type GameState struct {
	Players     []*Player
	Food        []Food
	Stage       Stage
	Timer       float64 // seconds left in the round
	Leaderboard []uint64

	rng Rand
}

// NewGameState creates an empty lobby drawing randomness from rng
func NewGameState(rng Rand) *GameState {
	return &GameState{
		Stage: StageLobby,
		Timer: GameDuration,
		rng:   rng,
	}
}

// SetRand replaces the random source
func (s *GameState) SetRand(rng Rand) {
	s.rng = rng
}

// AddPlayer spawns a new player at a random position
func (s *GameState) AddPlayer(id uint64, name string) (*Player, error) {
	if _, ok := s.Player(id); ok {
		return nil, fmt.Errorf("add player %d: %w", id, ErrDuplicatePlayer)
	}
	p := NewPlayer(id, name, randomPosition(s.rng), s.randomAngle())
	s.Players = append(s.Players, p)
	return p, nil
}

// RemovePlayer drops the player with id. It reports whether one was found.
func (s *GameState) RemovePlayer(id uint64) bool {
	i := s.playerIndex(id)
	if i < 0 {
		return false
	}
	s.Players = slices.Delete(s.Players, i, i+1)
	s.Leaderboard = slices.DeleteFunc(s.Leaderboard, func(v uint64) bool { return v == id })
	return true
}

// Player looks a player up by id
func (s *GameState) Player(id uint64) (*Player, bool) {
	i := s.playerIndex(id)
	if i < 0 {
		return nil, false
	}
	return s.Players[i], true
}

// SetInput forwards in to the player with id
func (s *GameState) SetInput(id uint64, in Input) bool {
	p, ok := s.Player(id)
	if !ok {
		return false
	}
	p.SetInput(in)
	return true
}

func (s *GameState) playerIndex(id uint64) int {
	return slices.IndexFunc(s.Players, func(p *Player) bool { return p.ID == id })
}

// Update advances the session by one tick and returns the sound effects it
// produced.
func (s *GameState) Update(dt float64) []SoundEffect {
	var sounds []SoundEffect

	switch s.Stage {
	case StageLobby:
		if s.startRequested() {
			s.Stage = StageRunning
			sounds = append(sounds, SoundStart)
		}

	case StageRunning:
		// 1. Locomotion
		for _, p := range s.Players {
			p.Update(dt)
		}

		// 2. Food population and drift
		s.updateFood(dt)

		// 3. Consumption
		sounds = s.handlePlayerFood(sounds)

		// 4. Cuts
		sounds = s.handlePlayerCollisions(sounds)

		// 5. Round timer
		s.Timer -= dt
		if s.Timer <= 0 {
			s.Timer = 0
			s.Stage = StageEnded
			sounds = append(sounds, SoundEnd)
		}

		// 6. Ranking
		s.updateLeaderboard()

	case StageEnded:
		if s.startRequested() {
			s.reset()
		}

	default:
		panic(fmt.Sprintf("game: unhandled stage %d", s.Stage))
	}

	return sounds
}

func (s *GameState) startRequested() bool {
	return slices.ContainsFunc(s.Players, func(p *Player) bool { return p.Input.RequestStart })
}

// reset starts a fresh round in the lobby, keeping players' identities
func (s *GameState) reset() {
	s.Food = nil
	s.Stage = StageLobby
	s.Timer = GameDuration
	s.Leaderboard = nil
	for _, p := range s.Players {
		p.Reset(randomPosition(s.rng), s.randomAngle())
	}
}

func (s *GameState) updateFood(dt float64) {
	for i := 0; i < FoodSpawnPerTick && len(s.Food) < MinFood; i++ {
		s.Food = append(s.Food, SpawnFood(randomPosition(s.rng), s.rng))
	}

	snakes := make([]*Snake, len(s.Players))
	for i, p := range s.Players {
		snakes[i] = &p.Snake
	}
	for i := range s.Food {
		s.Food[i].Update(dt, snakes)
	}
}

// handlePlayerFood lets every player eat what its head touches. Several
// players may eat the same item; it is removed once.
func (s *GameState) handlePlayerFood(sounds []SoundEffect) []SoundEffect {
	eaten := make([]int, 0)
	for _, p := range s.Players {
		head := p.HeadPosition()
		for i := range s.Food {
			if !s.Food[i].CollidesWith(head) {
				continue
			}
			if p.TryEat(s.Food[i]) {
				eaten = append(eaten, i)
				sounds = append(sounds, SoundEat)
			}
		}
	}
	s.Food = removeIndices(s.Food, eaten)
	return sounds
}

type pendingCut struct {
	cutter int
	victim int
	index  int
}

// handlePlayerCollisions checks every ordered pair of players, including a
// player against itself, then applies the cuts in detection order.
func (s *GameState) handlePlayerCollisions(sounds []SoundEffect) []SoundEffect {
	var cuts []pendingCut
	for i, cutter := range s.Players {
		for j, victim := range s.Players {
			if index, ok := cutter.CollidesWith(&victim.Snake); ok {
				cuts = append(cuts, pendingCut{cutter: i, victim: j, index: index})
			}
		}
	}

	for _, c := range cuts {
		cutterID := s.Players[c.cutter].ID
		removed, ok := s.Players[c.victim].TryCut(c.index, cutterID)
		if !ok {
			continue
		}
		for k := 0; k < len(removed); k += FoodCutStride {
			if len(s.Food) >= MaxFood {
				break
			}
			s.Food = append(s.Food, SpawnFood(removed[k], s.rng))
		}
		sounds = append(sounds, SoundCut)
	}
	return sounds
}

// updateLeaderboard ranks player ids by body length, longest first. Ties keep
// player list order.
func (s *GameState) updateLeaderboard() {
	ranked := slices.Clone(s.Players)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Snake.Len() > ranked[b].Snake.Len()
	})
	s.Leaderboard = s.Leaderboard[:0]
	for _, p := range ranked {
		s.Leaderboard = append(s.Leaderboard, p.ID)
	}
}

func (s *GameState) randomAngle() float64 {
	return uniform(s.rng, -math.Pi, math.Pi)
}

// Clone returns a deep copy sharing the random source
func (s *GameState) Clone() *GameState {
	c := &GameState{
		Players:     make([]*Player, len(s.Players)),
		Food:        slices.Clone(s.Food),
		Stage:       s.Stage,
		Timer:       s.Timer,
		Leaderboard: slices.Clone(s.Leaderboard),
		rng:         s.rng,
	}
	for i, p := range s.Players {
		c.Players[i] = p.Clone()
	}
	return c
}

// Restore rebuilds a session from previously captured parts, for instance a
// decoded snapshot. Player ids must be unique.
func Restore(players []*Player, food []Food, stage Stage, timer float64, leaderboard []uint64, rng Rand) (*GameState, error) {
	seen := make(map[uint64]struct{}, len(players))
	for _, p := range players {
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("restore player %d: %w", p.ID, ErrDuplicatePlayer)
		}
		if p.Snake.Len() == 0 {
			return nil, fmt.Errorf("restore player %d: empty snake", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if stage > StageEnded {
		return nil, fmt.Errorf("restore: unknown stage %d", stage)
	}
	return &GameState{
		Players:     players,
		Food:        food,
		Stage:       stage,
		Timer:       timer,
		Leaderboard: leaderboard,
		rng:         rng,
	}, nil
}

// removeIndices deletes the given positions from items. Indices are
// deduplicated and removed from the highest down so earlier ones stay valid.
func removeIndices[T any](items []T, indices []int) []T {
	if len(indices) == 0 {
		return items
	}
	idx := slices.Clone(indices)
	slices.Sort(idx)
	idx = slices.Compact(idx)
	for i := len(idx) - 1; i >= 0; i-- {
		items = slices.Delete(items, idx[i], idx[i]+1)
	}
	return items
}
