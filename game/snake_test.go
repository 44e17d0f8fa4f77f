package game

import (
	"math"
	"testing"
)

// lineSnake builds n cuttable segments starting at start, each step further
// along, all facing angle 0.
func lineSnake(n int, start, step Vec2) Snake {
	s := Snake{ArmorDecay: ArmorDecayDelay}
	for i := 0; i < n; i++ {
		s.Segments = append(s.Segments, Segment{
			Position: start.Add(step.Scale(float64(i))),
			Cuttable: true,
		})
	}
	return s
}

func TestSnakeHeadUsesPreSteerHeading(t *testing.T) {
	s := NewSnake(V(100, 100), 0)

	s.Update(TurnRate, DeltaTime, 100)

	head := s.Head()
	if !approxVec(head.Position, V(101, 100)) {
		t.Fatalf("head moved to %v, want (101, 100)", head.Position)
	}
	if !approx(head.Angle, TurnRate*DeltaTime) {
		t.Fatalf("head angle %v, want %v", head.Angle, TurnRate*DeltaTime)
	}

	s.Update(0, DeltaTime, 100)
	want := V(101, 100).Add(FromPolar(TurnRate*DeltaTime, 1))
	if !approxVec(s.Head().Position, want) {
		t.Fatalf("second step to %v, want %v", s.Head().Position, want)
	}
}

func TestSnakeBodyFollowsPreviousTick(t *testing.T) {
	s := Snake{Segments: []Segment{
		{Position: V(30, 0), Angle: 0, Cuttable: true},
		{Position: V(20, 0), Angle: 0.1, Cuttable: true},
		{Position: V(10, 0), Angle: 0.2, Cuttable: true},
	}}
	before := s.Clone()

	s.Update(1, DeltaTime, 100)

	for i := 1; i < s.Len(); i++ {
		if s.Segments[i].Position != before.Segments[i-1].Position {
			t.Fatalf("segment %d at %v, want %v", i, s.Segments[i].Position, before.Segments[i-1].Position)
		}
		if s.Segments[i].Angle != before.Segments[i-1].Angle {
			t.Fatalf("segment %d angle %v, want %v", i, s.Segments[i].Angle, before.Segments[i-1].Angle)
		}
	}
}

func TestSnakeWrapsAtWorldEdge(t *testing.T) {
	s := NewSnake(V(799.5, 10), 0)
	s.Update(0, DeltaTime, 100)
	if got := s.Head().Position; !approxVec(got, V(0.5, 10)) {
		t.Fatalf("head at %v, want (0.5, 10)", got)
	}

	s = NewSnake(V(10, 0.5), -math.Pi/2)
	s.Update(0, DeltaTime, 100)
	if got := s.Head().Position; math.Abs(got.Y-799.5) > 1e-9 {
		t.Fatalf("head at %v, want y=799.5", got)
	}
}

func TestSnakeHeadingStaysNormalized(t *testing.T) {
	s := NewSnake(V(400, 400), 0)
	for i := 0; i < 1000; i++ {
		s.Update(TurnRate, DeltaTime, 100)
		a := s.Head().Angle
		if a <= -math.Pi || a > math.Pi {
			t.Fatalf("tick %d: angle %v out of (-π, π]", i, a)
		}
	}
}

func TestCollisionReflection(t *testing.T) {
	s := lineSnake(3, V(100, 100), V(10, 0))

	v, ok := s.CollisionReflection(V(101, 100), V(20, -50))
	if !ok {
		t.Fatalf("expected a reflection near the head")
	}
	if !approxVec(v, V(20, 50)) {
		t.Fatalf("reflected to %v, want (20, 50)", v)
	}

	if _, ok := s.CollisionReflection(V(300, 300), V(1, 1)); ok {
		t.Fatalf("expected no reflection far from the body")
	}
}

func TestCollisionReflectionSkipsLastSegment(t *testing.T) {
	s := lineSnake(3, V(100, 100), V(10, 0))
	if _, ok := s.CollisionReflection(V(120, 100), V(0, 1)); ok {
		t.Fatalf("tail has no successor and must not reflect")
	}
}

func TestCollisionReflectionSkipsStackedSegments(t *testing.T) {
	s := Snake{Segments: []Segment{
		{Position: V(100, 100), Cuttable: true},
		{Position: V(100, 100), Cuttable: true},
		{Position: V(100, 110), Cuttable: true},
	}}
	v, ok := s.CollisionReflection(V(100, 100), V(30, 0))
	if !ok {
		t.Fatalf("expected the second pair to reflect")
	}
	if math.IsNaN(v.X) || math.IsNaN(v.Y) {
		t.Fatalf("reflection produced NaN: %v", v)
	}
	if !approxVec(v, V(-30, 0)) {
		t.Fatalf("reflected to %v, want (-30, 0)", v)
	}
}

func TestCollisionReflectionAcrossEdge(t *testing.T) {
	s := lineSnake(2, V(799, 50), V(2, 0))
	s.Segments[1].Position = V(1, 50)
	v, ok := s.CollisionReflection(V(799, 51), V(0, -10))
	if !ok {
		t.Fatalf("expected reflection")
	}
	if !approxVec(v, V(0, 10)) {
		t.Fatalf("reflected to %v, want (0, 10)", v)
	}
}

func TestGrowStacksCuttableSegmentsOnTail(t *testing.T) {
	s := lineSnake(3, V(0, 0), V(1, 0))
	s.Segments[2].Cuttable = false
	tail := s.Segments[2]

	s.Grow(10)

	if s.Len() != 13 {
		t.Fatalf("len = %d, want 13", s.Len())
	}
	for i := 3; i < 13; i++ {
		seg := s.Segments[i]
		if !seg.Cuttable || seg.Position != tail.Position || seg.Angle != tail.Angle {
			t.Fatalf("segment %d = %+v, want cuttable clone of tail %+v", i, seg, tail)
		}
	}
}

func TestApplyArmorStartsAtFirstCuttable(t *testing.T) {
	s := lineSnake(8, V(0, 0), V(1, 0))
	s.Segments[0].Cuttable = false
	s.Segments[1].Cuttable = false

	s.ApplyArmor(3)

	i, ok := s.FirstCuttableIndex()
	if !ok || i != 5 {
		t.Fatalf("first cuttable = %d,%v, want 5", i, ok)
	}
	if s.Len() != 8 {
		t.Fatalf("armor changed length to %d", s.Len())
	}
}

func TestApplyArmorClampsToLength(t *testing.T) {
	s := lineSnake(3, V(0, 0), V(1, 0))
	s.ApplyArmor(10)
	if _, ok := s.FirstCuttableIndex(); ok {
		t.Fatalf("expected every segment armored")
	}
	s.ApplyArmor(10)
	if s.Len() != 3 {
		t.Fatalf("len = %d, want 3", s.Len())
	}
}

func TestArmorDecaysFromBackOfArmoredBlock(t *testing.T) {
	s := lineSnake(5, V(0, 0), V(1, 0))
	s.ApplyArmor(3)

	for i := 0; i < ArmorDecayDelay; i++ {
		s.Update(0, DeltaTime, 100)
	}
	if i, _ := s.FirstCuttableIndex(); i != 3 {
		t.Fatalf("armor released early: first cuttable %d", i)
	}

	s.Update(0, DeltaTime, 100)
	if i, _ := s.FirstCuttableIndex(); i != 2 {
		t.Fatalf("first cuttable %d, want 2", i)
	}

	for i := 0; i < 2*(ArmorDecayDelay+1); i++ {
		s.Update(0, DeltaTime, 100)
	}
	if i, _ := s.FirstCuttableIndex(); i != 0 {
		t.Fatalf("first cuttable %d, want 0 after full decay", i)
	}
	if s.ArmorDecay != ArmorDecayDelay {
		t.Fatalf("countdown %d, want primed at %d without armor", s.ArmorDecay, ArmorDecayDelay)
	}
}

func TestArmorDecayReleasesTailWhenFullyArmored(t *testing.T) {
	s := lineSnake(3, V(0, 0), V(1, 0))
	s.ApplyArmor(3)
	s.ArmorDecay = 0

	s.Update(0, DeltaTime, 100)

	i, ok := s.FirstCuttableIndex()
	if !ok || i != 2 {
		t.Fatalf("first cuttable = %d,%v, want tail index 2", i, ok)
	}
}

func TestTruncateReturnsRemovedPositions(t *testing.T) {
	s := lineSnake(10, V(0, 0), V(3, 0))
	removed := s.Truncate(4)
	if s.Len() != 4 {
		t.Fatalf("len = %d, want 4", s.Len())
	}
	if len(removed) != 6 {
		t.Fatalf("removed %d positions, want 6", len(removed))
	}
	for k, p := range removed {
		if p != V(float64(3*(4+k)), 0) {
			t.Fatalf("removed[%d] = %v", k, p)
		}
	}
}
