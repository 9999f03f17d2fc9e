package queue

// Queue is an append-only FIFO sequence. It is not safe for concurrent use;
// callers serialise access.
type Queue[T any] struct {
	items []T
}

// New creates and returns a new Queue instance.
func New[T any]() *Queue[T] {
	return &Queue[T]{items: []T{}}
}

// Enqueue adds an element to the end of the queue.
func (q *Queue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Drain removes and returns every element in insertion order, leaving the
// queue empty.
func (q *Queue[T]) Drain() []T {
	items := q.items
	q.items = []T{}
	return items
}

// Len returns the number of elements in the queue.
func (q *Queue[T]) Len() int {
	return len(q.items)
}
