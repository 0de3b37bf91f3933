package reactor

import (
	"container/heap"
	"time"
)

// Timer is a pending deadline registered with the reactor. Timers fire at
// most once; StopTimer before expiry prevents the callback entirely.
type Timer struct {
	deadline time.Time
	seq      uint64 // registration order, breaks deadline ties
	fire     func()
	index    int // heap position, -1 once popped or stopped
}

// Deadline returns when the timer is due.
func (t *Timer) Deadline() time.Time {
	return t.deadline
}

// timerHeap orders timers by deadline, ties broken by registration order.
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

var _ heap.Interface = (*timerHeap)(nil)
