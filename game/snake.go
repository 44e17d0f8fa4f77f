package game

import "slices"

// Segment is one link of a body chain
type Segment struct {
	Position Vec2
	Angle    float64 // heading, radians
	Cuttable bool    // false while armored
}

// Snake is an ordered body chain; index 0 is the head.
//
// Armored segments always form a prefix of the chain: armor is granted from
// FirstCuttableIndex onwards and released from the back of the armored block
// towards the head, one segment every ArmorDecayDelay ticks.
type Snake struct {
	Segments   []Segment
	ArmorDecay int // ticks until the next armored segment is released
}

// NewSnake creates a one-segment snake at position facing angle
func NewSnake(position Vec2, angle float64) Snake {
	return Snake{
		Segments: []Segment{{
			Position: Wrap(position, WorldSize),
			Angle:    NormalizeAngle(angle),
			Cuttable: true,
		}},
		ArmorDecay: ArmorDecayDelay,
	}
}

// Len returns the number of segments
func (s *Snake) Len() int {
	return len(s.Segments)
}

// Head returns the head segment
func (s *Snake) Head() Segment {
	return s.Segments[0]
}

// Update advances the chain one tick. steerRate is in radians/s; it changes
// the heading used from the next tick on, the current step travels along the
// pre-steer heading. Every body segment takes the pre-update state of its
// predecessor.
func (s *Snake) Update(steerRate, dt, speed float64) {
	s.decayArmor()

	prev := slices.Clone(s.Segments)
	head := &s.Segments[0]
	head.Position = WrapAdd(prev[0].Position, FromPolar(prev[0].Angle, speed*dt), WorldSize)
	head.Angle = NormalizeAngle(prev[0].Angle + steerRate*dt)

	for i := 1; i < len(s.Segments); i++ {
		s.Segments[i].Position = prev[i-1].Position
		s.Segments[i].Angle = prev[i-1].Angle
	}
}

func (s *Snake) decayArmor() {
	armored, ok := s.FirstCuttableIndex()
	if !ok {
		armored = len(s.Segments)
	}
	if armored == 0 {
		s.ArmorDecay = ArmorDecayDelay
		return
	}
	if s.ArmorDecay > 0 {
		s.ArmorDecay--
		return
	}
	s.Segments[armored-1].Cuttable = true
	s.ArmorDecay = ArmorDecayDelay
}

// FirstCuttableIndex returns the lowest index of a cuttable segment
func (s *Snake) FirstCuttableIndex() (int, bool) {
	for i, seg := range s.Segments {
		if seg.Cuttable {
			return i, true
		}
	}
	return 0, false
}

// CollisionReflection returns velocity reflected about the body's normal at
// the first segment within BounceRadius of point. Pairs whose segments sit
// on top of each other have no tangent and are skipped.
func (s *Snake) CollisionReflection(point, velocity Vec2) (Vec2, bool) {
	for i := 0; i < len(s.Segments)-1; i++ {
		cur := s.Segments[i].Position
		if TorusDistance(cur, point, WorldSize) >= BounceRadius {
			continue
		}
		tangent := WrapDelta(cur, s.Segments[i+1].Position, WorldSize)
		if tangent.Norm() == 0 {
			continue
		}
		return velocity.Reflect(tangent.Normalize().Normal()), true
	}
	return Vec2{}, false
}

// Grow appends n cuttable segments stacked on the current tail
func (s *Snake) Grow(n int) {
	tail := s.Segments[len(s.Segments)-1]
	tail.Cuttable = true
	for i := 0; i < n; i++ {
		s.Segments = append(s.Segments, tail)
	}
}

// ApplyArmor marks up to n segments uncuttable starting at the first
// cuttable one and restarts the decay countdown.
func (s *Snake) ApplyArmor(n int) {
	start, ok := s.FirstCuttableIndex()
	if !ok {
		return
	}
	end := min(start+n, len(s.Segments))
	for i := start; i < end; i++ {
		s.Segments[i].Cuttable = false
	}
	s.ArmorDecay = ArmorDecayDelay
}

// Truncate removes every segment from index on and returns their positions.
// Callers keep index >= 1.
func (s *Snake) Truncate(index int) []Vec2 {
	removed := make([]Vec2, 0, len(s.Segments)-index)
	for _, seg := range s.Segments[index:] {
		removed = append(removed, seg.Position)
	}
	s.Segments = s.Segments[:index:index]
	return removed
}

// Clone returns a deep copy
func (s *Snake) Clone() Snake {
	return Snake{Segments: slices.Clone(s.Segments), ArmorDecay: s.ArmorDecay}
}
