package main

import (
	"math"

	"cutsnake-server/game"
)

// cellKey uniquely identifies a grid cell
type cellKey struct {
	cx, cy int
}

// gridEntry is one indexed food item
type gridEntry struct {
	index int // position in GameState.Food at build time
	pos   game.Vec2
}

// SpatialGrid is a hash grid over the toroidal world for food proximity
// queries. Cells wrap at the world edges.
type SpatialGrid struct {
	cells    map[cellKey][]gridEntry
	cellSize float64
	cols     int
}

// NewSpatialGrid creates an empty spatial grid. cellSize should divide
// game.WorldSize.
func NewSpatialGrid(cellSize float64) *SpatialGrid {
	return &SpatialGrid{
		cells:    make(map[cellKey][]gridEntry),
		cellSize: cellSize,
		cols:     int(math.Ceil(game.WorldSize / cellSize)),
	}
}

// Clear resets all cells
func (g *SpatialGrid) Clear() {
	clear(g.cells)
}

func (g *SpatialGrid) keyFor(p game.Vec2) cellKey {
	return cellKey{
		cx: g.wrapCell(int(math.Floor(p.X / g.cellSize))),
		cy: g.wrapCell(int(math.Floor(p.Y / g.cellSize))),
	}
}

func (g *SpatialGrid) wrapCell(c int) int {
	return ((c % g.cols) + g.cols) % g.cols
}

// InsertFood indexes every food item by its slice position
func (g *SpatialGrid) InsertFood(food []game.Food) {
	for i := range food {
		k := g.keyFor(food[i].Position)
		g.cells[k] = append(g.cells[k], gridEntry{index: i, pos: food[i].Position})
	}
}

// NearestFood returns the index of the closest food within radius of p,
// measured on the torus.
func (g *SpatialGrid) NearestFood(p game.Vec2, radius float64) (int, bool) {
	span := int(math.Ceil(radius / g.cellSize))
	if 2*span+1 > g.cols {
		span = g.cols / 2
	}
	center := g.keyFor(p)

	best, bestDist := -1, radius
	seen := make(map[cellKey]bool)
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			k := cellKey{g.wrapCell(center.cx + dx), g.wrapCell(center.cy + dy)}
			if seen[k] {
				continue
			}
			seen[k] = true
			for _, e := range g.cells[k] {
				d := game.TorusDistance(p, e.pos, game.WorldSize)
				if d < bestDist || (d == bestDist && best >= 0 && e.index < best) {
					best, bestDist = e.index, d
				}
			}
		}
	}
	return best, best >= 0
}
