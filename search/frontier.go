package search

// frontierNode is one open-set entry. Entries are never removed eagerly;
// stale duplicates are discarded at pop time.
type frontierNode struct {
	key   float64 // h for greedy, g+h for A*
	seq   uint64  // insertion order, breaks equal keys deterministically
	cell  int     // flat cell index
	index int     // heap index
}

// frontierHeap implements heap.Interface ordered by (key, seq).
type frontierHeap []*frontierNode

func (h frontierHeap) Len() int { return len(h) }
func (h frontierHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].seq < h[j].seq
}
func (h frontierHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *frontierHeap) Push(x any) {
	n := x.(*frontierNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *frontierHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}
