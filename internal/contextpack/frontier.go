package contextpack

import "container/heap"

// frontier is the best-first (max-score) traversal queue used by the graph
// walk.
type frontier struct {
	h frontierHeap
}

func newFrontier() frontier {
	return frontier{}
}

func (f *frontier) push(n walkNode) {
	heap.Push(&f.h, n)
}

func (f *frontier) pop() walkNode {
	return heap.Pop(&f.h).(walkNode)
}

func (f *frontier) len() int {
	return len(f.h)
}

type frontierHeap []walkNode

func (h frontierHeap) Len() int { return len(h) }
func (h frontierHeap) Less(i, j int) bool { return h[i].score > h[j].score }
func (h frontierHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontierHeap) Push(x any) {
	*h = append(*h, x.(walkNode))
}

func (h *frontierHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
