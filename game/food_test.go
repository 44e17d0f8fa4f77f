package game

import "testing"

// seqRand replays a fixed sequence of values
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

func TestSpawnFoodDrawsVelocityAndType(t *testing.T) {
	f := SpawnFood(V(10, 20), &seqRand{vals: []float64{0.75, 0.25, 0.1}})
	if !approxVec(f.Velocity, V(50, -50)) {
		t.Fatalf("velocity = %v, want (50, -50)", f.Velocity)
	}
	if a, ok := f.Type.(Armor); !ok || a.Segments != ArmorSegments {
		t.Fatalf("type = %#v, want Armor{%d}", f.Type, ArmorSegments)
	}

	f = SpawnFood(V(10, 20), &seqRand{vals: []float64{0.5, 0.5, 0.9}})
	if n, ok := f.Type.(Normal); !ok || n.Energy != FoodEnergy {
		t.Fatalf("type = %#v, want Normal{%d}", f.Type, FoodEnergy)
	}
	if f.Position != V(10, 20) {
		t.Fatalf("position = %v", f.Position)
	}
}

func TestFoodVelocityWithinBounds(t *testing.T) {
	r := &seqRand{vals: []float64{0, 0.999, 0.3, 0.6, 0.42}}
	for i := 0; i < 50; i++ {
		f := SpawnFood(V(0, 0), r)
		if f.Velocity.X < -FoodSpeed || f.Velocity.X >= FoodSpeed ||
			f.Velocity.Y < -FoodSpeed || f.Velocity.Y >= FoodSpeed {
			t.Fatalf("velocity %v out of bounds", f.Velocity)
		}
	}
}

func TestFoodDriftsAndWraps(t *testing.T) {
	f := Food{Position: V(799.95, 5), Velocity: V(10, -1000), Type: Normal{Energy: 1}}
	f.Update(DeltaTime, nil)
	if !approxVec(f.Position, V(0.05, 795)) {
		t.Fatalf("position = %v, want (0.05, 795)", f.Position)
	}
}

func TestFoodBouncesOffBody(t *testing.T) {
	s := lineSnake(3, V(100, 100), V(10, 0))
	f := Food{Position: V(100, 102), Velocity: V(0, -100), Type: Normal{Energy: 1}}

	f.Update(DeltaTime, []*Snake{&s})

	if !approxVec(f.Velocity, V(0, 100)) {
		t.Fatalf("velocity = %v, want (0, 100)", f.Velocity)
	}
	if !approxVec(f.Position, V(100, 103)) {
		t.Fatalf("position = %v, want (100, 103)", f.Position)
	}
}

func TestFoodBounceLastSnakeApplies(t *testing.T) {
	horizontal := lineSnake(2, V(100, 100), V(10, 0))
	vertical := lineSnake(2, V(101, 101), V(0, 10))
	f := Food{Position: V(100.5, 100.5), Velocity: V(30, -40), Type: Normal{Energy: 1}}

	f.Update(0, []*Snake{&horizontal, &vertical})

	// horizontal flips y, then vertical flips x of the updated velocity
	if !approxVec(f.Velocity, V(-30, 40)) {
		t.Fatalf("velocity = %v, want (-30, 40)", f.Velocity)
	}
}

func TestFoodCollidesWith(t *testing.T) {
	f := Food{Position: V(400, 400)}
	if !f.CollidesWith(V(405, 405)) {
		t.Fatalf("expected pickup within radius")
	}
	if f.CollidesWith(V(400, 400+FoodPickupRadius)) {
		t.Fatalf("pickup radius is exclusive")
	}

	edge := Food{Position: V(799, 400)}
	if !edge.CollidesWith(V(2, 400)) {
		t.Fatalf("expected pickup across the world edge")
	}
}

func TestFoodKindRoundTrip(t *testing.T) {
	for _, ft := range []FoodType{Normal{Energy: 7}, Armor{Segments: 3}} {
		f := Food{Type: ft}
		kind, amount := f.Kind()
		back, err := ParseFoodType(kind, amount)
		if err != nil {
			t.Fatalf("ParseFoodType(%q): %v", kind, err)
		}
		if back != ft {
			t.Fatalf("round trip %#v -> %#v", ft, back)
		}
	}
	if _, err := ParseFoodType("poison", 1); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
