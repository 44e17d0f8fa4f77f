package game

import "fmt"

// FoodType is either Normal or Armor. Consumers switch on the concrete type
// and panic on anything else, so adding a variant breaks every call site.
type FoodType interface {
	isFoodType()
}

// Normal food grows the eater by Energy segments
type Normal struct {
	Energy uint
}

// Armor food makes Segments segments of the eater uncuttable for a while
type Armor struct {
	Segments uint
}

func (Normal) isFoodType() {}
func (Armor) isFoodType()  {}

// Food is a drifting pickup. It bounces off snake bodies and wraps at the
// world edges.
type Food struct {
	Position Vec2
	Velocity Vec2
	Type     FoodType
}

// SpawnFood creates food at position with a random drift velocity and a
// random type drawn from r.
func SpawnFood(position Vec2, r Rand) Food {
	velocity := Vec2{
		X: uniform(r, -1, 1) * FoodSpeed,
		Y: uniform(r, -1, 1) * FoodSpeed,
	}
	var t FoodType = Normal{Energy: FoodEnergy}
	if r.Float64() < ArmorProbability {
		t = Armor{Segments: ArmorSegments}
	}
	return Food{Position: Wrap(position, WorldSize), Velocity: velocity, Type: t}
}

// Update bounces the food off any snake it touches (the last snake in the
// list wins) and then drifts it one tick.
func (f *Food) Update(dt float64, snakes []*Snake) {
	for _, s := range snakes {
		if v, ok := s.CollisionReflection(f.Position, f.Velocity); ok {
			f.Velocity = v
		}
	}
	f.Position = WrapAdd(f.Position, f.Velocity.Scale(dt), WorldSize)
}

// CollidesWith reports whether point is within pickup range
func (f *Food) CollidesWith(point Vec2) bool {
	return TorusDistance(f.Position, point, WorldSize) < FoodPickupRadius
}

// Kind returns a short tag and the payload of the food type
func (f *Food) Kind() (string, uint) {
	switch t := f.Type.(type) {
	case Normal:
		return "normal", t.Energy
	case Armor:
		return "armor", t.Segments
	default:
		panic(fmt.Sprintf("game: unhandled food type %T", f.Type))
	}
}

// ParseFoodType is the inverse of Food.Kind
func ParseFoodType(kind string, amount uint) (FoodType, error) {
	switch kind {
	case "normal":
		return Normal{Energy: amount}, nil
	case "armor":
		return Armor{Segments: amount}, nil
	}
	return nil, fmt.Errorf("unknown food kind %q", kind)
}
