package ranking

import (
	"container/heap"
	"sort"
)

// selectTop returns the n best items in ranking order. before(a, b) reports
// whether a ranks ahead of b and must be a strict total order. Large inputs
// keep only n items on a heap instead of sorting everything.
func selectTop[T any](items []T, n int, before func(a, b T) bool) []T {
	if n <= 0 {
		return nil
	}
	if n > len(items) {
		n = len(items)
	}
	if n*4 >= len(items) {
		out := make([]T, len(items))
		copy(out, items)
		sort.Slice(out, func(i, j int) bool { return before(out[i], out[j]) })
		return out[:n]
	}
	h := &boundedHeap[T]{before: before}
	for _, it := range items {
		if h.Len() < n {
			heap.Push(h, it)
			continue
		}
		// root holds the worst item kept so far
		if before(it, h.items[0]) {
			h.items[0] = it
			heap.Fix(h, 0)
		}
	}
	out := h.items
	sort.Slice(out, func(i, j int) bool { return before(out[i], out[j]) })
	return out
}

// boundedHeap keeps the worst-ranked item at the root.
type boundedHeap[T any] struct {
	items  []T
	before func(a, b T) bool
}

func (h *boundedHeap[T]) Len() int           { return len(h.items) }
func (h *boundedHeap[T]) Less(i, j int) bool { return h.before(h.items[j], h.items[i]) }
func (h *boundedHeap[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *boundedHeap[T]) Push(x any)         { h.items = append(h.items, x.(T)) }
func (h *boundedHeap[T]) Pop() any {
	old := h.items
	it := old[len(old)-1]
	h.items = old[:len(old)-1]
	return it
}
