package antspool

import (
	"sync/atomic"
)

type node[T any] struct {
	next atomic.Pointer[node[T]]
	val  T
}

// mpsc is an intrusive lock-free queue: any number of goroutines may push, exactly
// one may pop. head is the most recently pushed node; tail is a consumed stub.
type mpsc[T any] struct {
	head atomic.Pointer[node[T]]
	tail *node[T]
}

func newMPSC[T any]() *mpsc[T] {
	q := &mpsc[T]{}
	stub := &node[T]{}

	q.head.Store(stub)
	q.tail = stub

	return q
}

func (q *mpsc[T]) push(v T) {
	n := &node[T]{val: v}
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

// pop returns false when the queue is empty or a concurrent push has not yet linked
// its node; callers retry after the pusher's wakeup.
func (q *mpsc[T]) pop() (T, bool) {
	var zero T

	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}

	q.tail = next
	v := next.val
	next.val = zero

	return v, true
}
