// Package queue implements a small binary heap used to keep the top-k most
// similar vocabulary entries during a brute-force search.
package queue

// Item is one scored vocabulary entry.
// Value-based storage keeps the heap allocation-free during search.
type Item struct {
	Index      uint32  // vocabulary index of the entry
	Similarity float32 // similarity score (higher is better)
}

// TopK keeps the k best items seen so far. Internally it is a min-heap on
// similarity, so the root is always the current worst of the kept items.
// Ties are resolved toward the earlier vocabulary index: a new item must be
// strictly better than the root to displace it.
type TopK struct {
	k     int
	items []Item
}

// NewTopK initializes a collector for the k highest-similarity items.
func NewTopK(k int) *TopK {
	return &TopK{
		k:     k,
		items: make([]Item, 0, k),
	}
}

// Len returns the number of items currently held.
func (q *TopK) Len() int { return len(q.items) }

// Worst returns the lowest-similarity item currently held.
func (q *TopK) Worst() (Item, bool) {
	if len(q.items) == 0 {
		return Item{}, false
	}
	return q.items[0], true
}

// Offer considers an item for inclusion. Once k items are held, an item is
// accepted only if it is strictly better than the current worst.
func (q *TopK) Offer(it Item) {
	if len(q.items) < q.k {
		q.items = append(q.items, it)
		q.siftUp(len(q.items) - 1)
		return
	}
	if q.k == 0 || it.Similarity <= q.items[0].Similarity {
		return
	}
	q.items[0] = it
	q.siftDown(0)
}

// Drain removes and returns all held items ordered by similarity descending,
// ties broken by ascending vocabulary index. The collector is empty afterward.
func (q *TopK) Drain() []Item {
	out := make([]Item, len(q.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = q.pop()
	}
	return out
}

func (q *TopK) pop() Item {
	n := len(q.items)
	root := q.items[0]
	last := q.items[n-1]
	q.items = q.items[:n-1]
	if n-1 > 0 {
		q.items[0] = last
		q.siftDown(0)
	}
	return root
}

func (q *TopK) less(i, j int) bool {
	if q.items[i].Similarity != q.items[j].Similarity {
		return q.items[i].Similarity < q.items[j].Similarity
	}
	// Equal similarity: the later index is "worse" so it is evicted first.
	return q.items[i].Index > q.items[j].Index
}

func (q *TopK) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !q.less(i, p) {
			return
		}
		q.items[i], q.items[p] = q.items[p], q.items[i]
		i = p
	}
}

func (q *TopK) siftDown(i int) {
	n := len(q.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && q.less(r, l) {
			best = r
		}
		if !q.less(best, i) {
			return
		}
		q.items[i], q.items[best] = q.items[best], q.items[i]
		i = best
	}
}
