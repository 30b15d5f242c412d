package foliage

import (
	"math"
	"math/rand/v2"

	tmath "github.com/Faultbox/terrastream/pkg/math"
)

// PoissonDisc returns points in [0,width)×[0,height) no closer than radius to
// each other, using Bridson's algorithm. k is the number of candidates tried
// around an active point before it is retired.
func PoissonDisc(width, height, radius float32, k int, rng *rand.Rand) []tmath.Vec2 {
	if width <= 0 || height <= 0 || radius <= 0 || k < 1 {
		return nil
	}

	cell := radius / float32(math.Sqrt2)
	gw := int(math.Ceil(float64(width / cell)))
	gh := int(math.Ceil(float64(height / cell)))
	grid := make([][]int, gw*gh)
	index := func(p tmath.Vec2) int {
		return min(int(p.Y/cell), gh-1)*gw + min(int(p.X/cell), gw-1)
	}

	first := tmath.Vec2{X: rng.Float32() * width, Y: rng.Float32() * height}
	points := []tmath.Vec2{first}
	active := []tmath.Vec2{first}
	grid[index(first)] = append(grid[index(first)], 0)

	for len(active) > 0 {
		i := rng.IntN(len(active))
		center := active[i]

		found := false
		for range k {
			angle := rng.Float64() * 2 * math.Pi
			r := radius * (1 + rng.Float32())
			c := center.Add(tmath.FromAngle(angle).Scale(r))
			if c.X < 0 || c.X >= width || c.Y < 0 || c.Y >= height {
				continue
			}
			if !farEnough(c, points, grid, gw, gh, cell, radius) {
				continue
			}
			points = append(points, c)
			active = append(active, c)
			grid[index(c)] = append(grid[index(c)], len(points)-1)
			found = true
			break
		}
		if !found {
			active[i] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}
	return points
}

func farEnough(c tmath.Vec2, points []tmath.Vec2, grid [][]int, gw, gh int, cell, radius float32) bool {
	cx, cz := int(c.X/cell), int(c.Y/cell)
	for gz := max(0, cz-2); gz <= min(gh-1, cz+2); gz++ {
		for gx := max(0, cx-2); gx <= min(gw-1, cx+2); gx++ {
			for _, pi := range grid[gz*gw+gx] {
				if c.Distance(points[pi]) < radius {
					return false
				}
			}
		}
	}
	return true
}

// RandomFloat hashes a position quantised to millimetres into [0,1].
func RandomFloat(pos tmath.Vec2, seed uint32) float32 {
	x := uint32(int64(math.Round(float64(pos.X) * 1000)))
	y := uint32(int64(math.Round(float64(pos.Y) * 1000)))

	h := seed
	h ^= x + 0x9e3779b9 + (h << 6) + (h >> 2)
	h ^= y + 0x9e3779b9 + (h << 6) + (h >> 2)

	// Wang hash
	h = (h ^ 61) ^ (h >> 16)
	h *= 9
	h ^= h >> 4
	h *= 0x27d4eb2d
	h ^= h >> 15

	return float32(h) / float32(math.MaxUint32)
}
