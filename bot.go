package main

import (
	"fmt"
	"math"

	"cutsnake-server/game"
)

// Bot tracks per-bot AI state
type Bot struct {
	PlayerID    uint64
	wanderTicks int     // ticks remaining before picking a new wander direction
	wanderAngle float64 // heading the bot drifts towards when no food is near
}

// BotManager drives computer players through the same input contract as
// human players. Bots never request a round start.
type BotManager struct {
	bots []*Bot
	grid *SpatialGrid
	rng  game.Rand
	next uint64
}

// NewBotManager creates an empty bot manager drawing wander headings from rng
func NewBotManager(rng game.Rand) *BotManager {
	return &BotManager{
		grid: NewSpatialGrid(GridCellSize),
		rng:  rng,
		next: BotIDBase,
	}
}

// SpawnBot adds one bot player to state
func (bm *BotManager) SpawnBot(state *game.GameState) (*Bot, error) {
	id := bm.next
	bm.next++
	name := fmt.Sprintf("%s%d", BotNamePrefix, id-BotIDBase+1)
	if _, err := state.AddPlayer(id, name); err != nil {
		return nil, fmt.Errorf("spawn bot: %w", err)
	}
	bot := &Bot{PlayerID: id}
	bm.bots = append(bm.bots, bot)
	return bot, nil
}

// Count returns the number of bots
func (bm *BotManager) Count() int {
	return len(bm.bots)
}

// Update decides and applies every bot's input for the coming tick
func (bm *BotManager) Update(state *game.GameState) {
	if len(bm.bots) == 0 {
		return
	}
	bm.grid.Clear()
	bm.grid.InsertFood(state.Food)

	for _, bot := range bm.bots {
		p, ok := state.Player(bot.PlayerID)
		if !ok {
			continue
		}
		state.SetInput(bot.PlayerID, bm.decide(bot, p, state.Food))
	}
}

// decide steers the bot towards the nearest food, or a wander heading when
// there is none in range.
func (bm *BotManager) decide(bot *Bot, p *game.Player, food []game.Food) game.Input {
	head := p.Snake.Head()

	target := bot.wanderAngle
	if i, ok := bm.grid.NearestFood(head.Position, BotSeekRadius); ok {
		target = game.WrapDelta(head.Position, food[i].Position, game.WorldSize).Angle()
	} else {
		bot.wanderTicks--
		if bot.wanderTicks <= 0 {
			bot.wanderAngle = (bm.rng.Float64()*2 - 1) * math.Pi
			bot.wanderTicks = BotWanderTicks
			target = bot.wanderAngle
		}
	}

	steer := clamp(game.AngleDiff(head.Angle, target)*BotSteerGain, -1, 1)
	return game.Input{Steer: steer}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
