package rtree

import (
	"fmt"

	"github.com/joshuapare/rtreekit/internal/format"
)

// fullScanThreshold is the query-area to bounds-area ratio above which a
// flat leaf scan beats hierarchical traversal. Chosen empirically: a window
// covering most of the space visits nearly every node anyway, and the scan
// has perfect prefetch behavior.
const fullScanThreshold = 0.5

// QueryIntersecting finds all boxes that intersect the query window,
// touching edges included. Results are item IDs in no particular order.
func (t *RTree) QueryIntersecting(minX, minY, maxX, maxY float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	queryArea := (maxX - minX) * (maxY - minY)
	boundsArea := (t.bounds.MaxX - t.bounds.MinX) * (t.bounds.MaxY - t.bounds.MinY)
	if queryArea > boundsArea*fullScanThreshold {
		for pos := 0; pos < t.numItems; pos++ {
			b := t.getBox(pos)
			if maxX >= b.MinX && maxY >= b.MinY && minX <= b.MaxX && minY <= b.MaxY {
				*results = append(*results, int(t.getIndex(pos)))
			}
		}
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)

		// Test four consecutive boxes per load while the run is long enough.
		pos := nodeIndex
		for pos+4 <= endPos {
			boxes := t.getBoxesBatch(pos)
			for i, b := range boxes {
				if maxX < b.MinX || maxY < b.MinY || minX > b.MaxX || minY > b.MaxY {
					continue
				}
				cur := pos + i
				idx := t.getIndex(cur)
				if cur < t.numItems {
					*results = append(*results, int(idx))
				} else {
					queue = append(queue, int(idx>>format.IndexTagShift))
				}
			}
			pos += 4
		}
		for ; pos < endPos; pos++ {
			b := t.getBox(pos)
			if maxX < b.MinX || maxY < b.MinY || minX > b.MaxX || minY > b.MaxY {
				continue
			}
			idx := t.getIndex(pos)
			if pos < t.numItems {
				*results = append(*results, int(idx))
			} else {
				queue = append(queue, int(idx>>format.IndexTagShift))
			}
		}

		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}
}

// QueryIntersectingK is QueryIntersecting with an early exit once k results
// have been collected. Results appear in traversal order.
func (t *RTree) QueryIntersectingK(minX, minY, maxX, maxY float64, k int, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 || k == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		if len(*results) >= k {
			break
		}
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			if len(*results) >= k {
				break
			}
			b := t.getBox(pos)
			if maxX < b.MinX || maxY < b.MinY || minX > b.MaxX || minY > b.MaxY {
				continue
			}
			idx := t.getIndex(pos)
			if pos < t.numItems {
				*results = append(*results, int(idx))
			} else {
				queue = append(queue, int(idx>>format.IndexTagShift))
			}
		}
		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}
}

// QueryIntersectingID finds all boxes intersecting the box of an existing
// item, excluding the item itself. Returns an error when itemID is not a
// valid insertion ID.
func (t *RTree) QueryIntersectingID(itemID int, results *[]int) error {
	*results = (*results)[:0]
	if itemID < 0 || itemID >= t.numItems {
		return fmt.Errorf("rtree: query id %d of %d items: %w", itemID, t.numItems, format.ErrItemOutOfRange)
	}
	b, ok := t.Get(itemID)
	if !ok {
		return nil
	}
	t.QueryIntersecting(b.MinX, b.MinY, b.MaxX, b.MaxY, results)
	for i, id := range *results {
		if id == itemID {
			*results = append((*results)[:i], (*results)[i+1:]...)
			break
		}
	}
	return nil
}

// QueryPoint finds all boxes that contain the point (x, y), edges inclusive.
func (t *RTree) QueryPoint(x, y float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if x < b.MinX || x > b.MaxX || y < b.MinY || y > b.MaxY {
				continue
			}
			idx := t.getIndex(pos)
			if pos < t.numItems {
				*results = append(*results, int(idx))
			} else {
				queue = append(queue, int(idx>>format.IndexTagShift))
			}
		}
		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}
}

// QueryContain finds all boxes that fully contain the query window. An
// internal node descends whenever its MBR contains the window; a leaf whose
// MBR contains the window is itself a result.
func (t *RTree) QueryContain(minX, minY, maxX, maxY float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if b.MinX > minX || b.MaxX < maxX || b.MinY > minY || b.MaxY < maxY {
				continue
			}
			idx := t.getIndex(pos)
			if pos < t.numItems {
				*results = append(*results, int(idx))
			} else {
				queue = append(queue, int(idx>>format.IndexTagShift))
			}
		}
		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}
}

// QueryContainedWithin finds all boxes that lie fully inside the query
// window. Internal nodes descend on mere overlap: children can fit inside
// the window even when their parent MBR does not.
func (t *RTree) QueryContainedWithin(minX, minY, maxX, maxY float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if pos >= t.numItems {
				if b.MaxX >= minX && b.MaxY >= minY && b.MinX <= maxX && b.MinY <= maxY {
					queue = append(queue, int(t.getIndex(pos)>>format.IndexTagShift))
				}
				continue
			}
			if b.MinX >= minX && b.MaxX <= maxX && b.MinY >= minY && b.MaxY <= maxY {
				*results = append(*results, int(t.getIndex(pos)))
			}
		}
		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}
}
