package game

import "fmt"

// Input is the per-tick control state of a player
type Input struct {
	Steer              float64 // [-1, 1], positive turns counter-clockwise
	Throttle           float64 // [-1, 1]
	RequestStart       bool
	RequestColorChange bool
}

// Player is one participant and the snake it controls. ID, Name and Color
// survive round resets; Snake, Speed and EatGrace do not.
type Player struct {
	ID       uint64
	Name     string
	Color    int
	Input    Input
	Snake    Snake
	Speed    float64
	EatGrace int // ticks left during which the player cannot eat
}

// NewPlayer creates a player with a fresh snake at spawn facing angle
func NewPlayer(id uint64, name string, spawn Vec2, angle float64) *Player {
	p := &Player{
		ID:    id,
		Name:  name,
		Color: int(id % NumColors),
	}
	p.Reset(spawn, angle)
	return p
}

// Reset puts the round-scoped state back to its initial values
func (p *Player) Reset(spawn Vec2, angle float64) {
	p.Snake = NewSnake(spawn, angle)
	p.Speed = InitialSpeed
	p.EatGrace = 0
}

// SetInput stores the latest input. A rising edge on RequestColorChange
// cycles the color.
func (p *Player) SetInput(in Input) {
	if in.RequestColorChange && !p.Input.RequestColorChange {
		p.Color = (p.Color + 1) % NumColors
	}
	p.Input = in
}

// HeadPosition returns where the player's snake head is
func (p *Player) HeadPosition() Vec2 {
	return p.Snake.Head().Position
}

// Update integrates the input for one tick and moves the snake
func (p *Player) Update(dt float64) {
	if p.EatGrace > 0 {
		p.EatGrace--
	}
	steer := p.Input.Steer * TurnRate
	p.Speed = clamp(p.Speed+p.Input.Throttle*Acceleration*dt, MinSpeed, MaxSpeed)
	p.Snake.Update(steer, dt, p.Speed)
}

// TryEat consumes f unless the player is still in its eat grace window
func (p *Player) TryEat(f Food) bool {
	if p.EatGrace > 0 {
		return false
	}
	switch t := f.Type.(type) {
	case Normal:
		p.Snake.Grow(int(t.Energy))
	case Armor:
		p.Snake.ApplyArmor(int(t.Segments))
	default:
		panic(fmt.Sprintf("game: unhandled food type %T", f.Type))
	}
	return true
}

// CollidesWith returns the first segment of other, past its neck, that lies
// within CutHitRadius of this player's head. other may be the player's own
// snake, in which case segments still stacked on their predecessor by Grow
// are skipped.
func (p *Player) CollidesWith(other *Snake) (int, bool) {
	head := p.HeadPosition()
	self := other == &p.Snake
	for i := NonCollidablePrefix; i < len(other.Segments); i++ {
		seg := other.Segments[i].Position
		if self && seg == other.Segments[i-1].Position {
			continue
		}
		if TorusDistance(head, seg, WorldSize) < CutHitRadius {
			return i, true
		}
	}
	return 0, false
}

// TryCut severs the snake at index on behalf of cutter and returns the
// positions of the removed segments. Armor only stops other players. The
// head is never severed: index 0 is treated as 1.
func (p *Player) TryCut(index int, cutter uint64) ([]Vec2, bool) {
	if index == 0 {
		index = 1
	}
	if index < 0 || index >= p.Snake.Len() {
		return nil, false
	}
	if !p.Snake.Segments[index].Cuttable && cutter != p.ID {
		return nil, false
	}
	removed := p.Snake.Truncate(index)
	p.EatGrace = EatGraceTicks
	return removed, true
}

// Clone returns a deep copy
func (p *Player) Clone() *Player {
	c := *p
	c.Snake = p.Snake.Clone()
	return &c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
