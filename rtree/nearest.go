package rtree

import (
	"container/heap"
	"math"
	"sort"

	"github.com/joshuapare/rtreekit/internal/format"
)

// nodeEntry is a tree node awaiting expansion, keyed by the squared distance
// from the query point to its MBR.
type nodeEntry struct {
	distSq float64
	pos    int
	isLeaf bool
}

// nodeQueue is a min-heap of nodeEntry: closest node on top.
type nodeQueue []nodeEntry

func (q nodeQueue) Len() int           { return len(q) }
func (q nodeQueue) Less(i, j int) bool { return q[i].distSq < q[j].distSq }
func (q nodeQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)        { *q = append(*q, x.(nodeEntry)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

// resultEntry is a collected leaf keyed for the max-heap of current best
// results: farthest of the k best on top, ready to be displaced.
type resultEntry struct {
	distSq float64
	id     uint32
}

type resultHeap []resultEntry

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[i].distSq > h[j].distSq }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)        { *h = append(*h, x.(resultEntry)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// QueryNearestK finds the k items closest to (x, y) by Euclidean distance to
// the nearest point of each box. Results are item IDs in non-decreasing
// distance order. k larger than Len returns all items ordered by distance.
func (t *RTree) QueryNearestK(x, y float64, k int, results *[]int) {
	t.nearestK(x, y, k, results, false)
}

// QueryNearestKPoints is QueryNearestK specialized for indexes built purely
// from AddPoint: leaf distances skip the axis clamp and subtract coordinates
// directly. With mixed data the results are still correct, since the direct
// formula coincides with the clamped one on degenerate boxes.
func (t *RTree) QueryNearestKPoints(x, y float64, k int, results *[]int) {
	t.nearestK(x, y, k, results, true)
}

// QueryNearest returns the single closest item to (x, y), or false when the
// index is empty.
func (t *RTree) QueryNearest(x, y float64) (int, bool) {
	var scratch []int
	t.nearestK(x, y, 1, &scratch, false)
	if len(scratch) == 0 {
		return 0, false
	}
	return scratch[0], true
}

// nearestK is a best-first search over the tree with two heaps: a min-heap
// of nodes to expand and a max-heap of the k best leaves seen. Once k leaves
// are held, the farthest of them bounds every further expansion, and the
// search halts as soon as the closest unexpanded node is beyond that bound.
func (t *RTree) nearestK(x, y float64, k int, results *[]int, pointLeaves bool) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 || k == 0 {
		return
	}

	pq := make(nodeQueue, 0, 4*t.nodeSize)
	best := make(resultHeap, 0, k)

	rootStart := t.levelBounds[len(t.levelBounds)-2]
	rootEnd := t.levelBounds[len(t.levelBounds)-1]
	for pos := rootStart; pos < rootEnd; pos++ {
		pq = append(pq, nodeEntry{distSq: t.getBox(pos).distSqToPoint(x, y), pos: pos})
	}
	heap.Init(&pq)

	maxDistSq := math.Inf(1)
	for pq.Len() > 0 {
		e := heap.Pop(&pq).(nodeEntry)
		if e.distSq > maxDistSq {
			// Everything still queued is at least this far away.
			if len(best) == k {
				break
			}
			continue
		}

		if e.isLeaf {
			heap.Push(&best, resultEntry{distSq: e.distSq, id: t.getIndex(e.pos)})
			if len(best) > k {
				heap.Pop(&best)
			}
			if len(best) == k {
				maxDistSq = best[0].distSq
			}
			continue
		}

		level := sort.SearchInts(t.levelBounds, e.pos+1)
		childEnd := t.levelBounds[level-1]
		childIsLeaf := level == 1
		first := int(t.getIndex(e.pos) >> format.IndexTagShift)
		for c := 0; c < t.nodeSize; c++ {
			childPos := first + c
			if childPos >= childEnd {
				break
			}
			b := t.getBox(childPos)
			var distSq float64
			if childIsLeaf && pointLeaves {
				dx := b.MinX - x
				dy := b.MinY - y
				distSq = dx*dx + dy*dy
			} else {
				distSq = b.distSqToPoint(x, y)
			}
			if distSq <= maxDistSq || len(best) < k {
				heap.Push(&pq, nodeEntry{distSq: distSq, pos: childPos, isLeaf: childIsLeaf})
			}
		}
	}

	// Popping the max-heap yields farthest-first; filling the output from
	// the back leaves it sorted ascending.
	out := make([]int, len(best))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = int(heap.Pop(&best).(resultEntry).id)
	}
	*results = append(*results, out...)
}
