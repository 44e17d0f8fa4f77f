package game

// World
const (
	WorldSize    = 800.0 // side of the square toroidal world
	DeltaTime    = 0.01  // seconds per fixed tick
	GameDuration = 10.0  // seconds per round
)

// Food
const (
	FoodSpeed        = 100.0 // max drift per axis, units/s
	FoodPickupRadius = 10.0
	FoodEnergy       = 10 // segments granted by Normal food
	ArmorSegments    = 10 // segments armored by Armor food
	ArmorProbability = 0.5

	MinFood          = 10
	MaxFood          = 1000
	FoodSpawnPerTick = 1
	FoodCutStride    = 4 // one food per N severed segments
)

// Snake
const (
	BounceRadius    = 5.0 // food reflects off a segment within this distance
	ArmorDecayDelay = 20  // ticks between releasing two armored segments
)

// Player
const (
	TurnRate     = 5.0   // radians/s at full steer
	MinSpeed     = 60.0  // units/s
	MaxSpeed     = 200.0 // units/s
	InitialSpeed = 100.0
	Acceleration = 200.0 // units/s² at full throttle

	EatGraceTicks = 50
	CutHitRadius  = 5.0
	// Leading segments of a body that a head never collides with. At MinSpeed
	// a spread-out chain spans more than CutHitRadius over this many segments.
	NonCollidablePrefix = 20

	NumColors = 13
)
