package rtree

import (
	"math"
	"sort"

	"github.com/joshuapare/rtreekit/internal/format"
)

// sweptBox returns the union of the rectangle and its translation along the
// normalized (dirX, dirY) by distance. ok is false for a zero-magnitude
// direction or negative distance.
func sweptBox(minX, minY, maxX, maxY, dirX, dirY, distance float64) (swept Box, normX, normY float64, ok bool) {
	if distance < 0 {
		return Box{}, 0, 0, false
	}
	dirLenSq := dirX*dirX + dirY*dirY
	if dirLenSq <= 0 {
		return Box{}, 0, 0, false
	}
	dirLen := math.Sqrt(dirLenSq)
	normX = dirX / dirLen
	normY = dirY / dirLen
	dx := normX * distance
	dy := normY * distance
	swept = Box{
		MinX: min(minX, minX+dx),
		MinY: min(minY, minY+dy),
		MaxX: max(maxX, maxX+dx),
		MaxY: max(maxY, maxY+dy),
	}
	return swept, normX, normY, true
}

// QueryInDirection finds all boxes intersecting the path swept by the
// rectangle moving along (dirX, dirY) for the given distance. The direction
// is normalized internally; a zero direction or negative distance yields an
// empty result. Results are unordered.
func (t *RTree) QueryInDirection(minX, minY, maxX, maxY, dirX, dirY, distance float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}
	swept, _, _, ok := sweptBox(minX, minY, maxX, maxY, dirX, dirY, distance)
	if !ok {
		return
	}
	t.QueryIntersecting(swept.MinX, swept.MinY, swept.MaxX, swept.MaxY, results)
}

// QueryInDirectionK finds the k boxes nearest along the movement path:
// candidates intersecting the swept area, ordered by the projection of their
// centers onto the movement direction, measured from the rectangle's min
// corner. Ties are broken arbitrarily.
func (t *RTree) QueryInDirectionK(minX, minY, maxX, maxY, dirX, dirY float64, k int, distance float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 || k == 0 {
		return
	}
	swept, normX, normY, ok := sweptBox(minX, minY, maxX, maxY, dirX, dirY, distance)
	if !ok {
		return
	}

	type candidate struct {
		along float64
		id    int
	}
	var candidates []candidate

	// Traversal order is irrelevant here, every surviving leaf is sorted
	// below, so a plain LIFO stack serves as the work list.
	stack := make([]int, 0, 32)
	stack = append(stack, t.totalNodes-1)
	for len(stack) > 0 {
		nodeIndex := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if swept.MaxX < b.MinX || swept.MaxY < b.MinY || swept.MinX > b.MaxX || swept.MinY > b.MaxY {
				continue
			}
			if pos >= t.numItems {
				stack = append(stack, int(t.getIndex(pos)>>format.IndexTagShift))
				continue
			}
			cx := (b.MinX + b.MaxX) / 2
			cy := (b.MinY + b.MaxY) / 2
			along := (cx-minX)*normX + (cy-minY)*normY
			candidates = append(candidates, candidate{along: along, id: int(t.getIndex(pos))})
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].along < candidates[j].along })
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	for _, c := range candidates {
		*results = append(*results, c.id)
	}
}
