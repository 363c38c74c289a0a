package internal

// Queue is a FIFO of values. The zero value is an empty queue.
// It is not safe for concurrent use.
type Queue[T any] struct {
	items []T
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// Empty is true when nothing is queued.
func (q *Queue[T]) Empty() bool {
	return len(q.items) == 0
}

// Push appends a value to the tail of the queue.
func (q *Queue[T]) Push(value T) {
	q.items = append(q.items, value)
}

// Pop removes and returns the value at the head of the queue.
func (q *Queue[T]) Pop() (value T, ok bool) {
	if len(q.items) == 0 {
		return
	}

	value = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	ok = true

	return
}

// Peek returns the value at the head of the queue without removing it.
func (q *Queue[T]) Peek() (value T, ok bool) {
	if len(q.items) == 0 {
		return
	}

	return q.items[0], true
}

// Take empties the queue, returning everything that was queued in order.
// Values pushed after Take are not part of the returned snapshot.
func (q *Queue[T]) Take() (items []T) {
	items = q.items
	q.items = nil
	return
}

// Reset discards all queued values.
func (q *Queue[T]) Reset() {
	q.items = nil
}
