package utils

import (
	"iter"

	"github.com/fujix-tas/fujix/assert"
	"github.com/fujix-tas/fujix/oerror"
)

// CircularQueue is a bounded FIFO ring. Appending to a full queue evicts the oldest item.
type CircularQueue[T any] struct {
	items []T
	head  int
	count int
}

func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	assert.IsTrue(capacity > 0, "circularQueue: capacity must be positive, got %d", capacity)
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Get returns the element at logical position index (0 = oldest).
func (q *CircularQueue[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= q.count {
		return zero, oerror.Newf(oerror.KindInvalidState, "circularQueue: get %d out of range [0, %d)", index, q.count)
	}
	return q.items[q.slot(index)], nil
}

// Set replaces the element at logical position index (0 = oldest).
func (q *CircularQueue[T]) Set(index int, item T) error {
	if index < 0 || index >= q.count {
		return oerror.Newf(oerror.KindInvalidState, "circularQueue: set %d out of range [0, %d)", index, q.count)
	}
	q.items[q.slot(index)] = item
	return nil
}

// Front returns the oldest element.
func (q *CircularQueue[T]) Front() (item T, ok bool) {
	if q.count == 0 {
		return item, false
	}
	return q.items[q.head], true
}

// Back returns the newest element.
func (q *CircularQueue[T]) Back() (item T, ok bool) {
	if q.count == 0 {
		return item, false
	}
	return q.items[q.slot(q.count-1)], true
}

func (q *CircularQueue[T]) Iter() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for index := range q.count {
			if !yield(index, q.items[q.slot(index)]) {
				return
			}
		}
	}
}

// Backward iterates from the newest element to the oldest.
func (q *CircularQueue[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for index := q.count - 1; index >= 0; index-- {
			if !yield(index, q.items[q.slot(index)]) {
				return
			}
		}
	}
}

// Len returns the number of items held.
func (q *CircularQueue[T]) Len() int {
	return q.count
}

// Cap returns the maximum number of items the queue can hold.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Pop removes and returns the oldest element.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.count == 0 {
		return item, false
	}
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.count--
	return item, true
}

// Append adds an item as the newest element, returning true if the oldest element was evicted.
func (q *CircularQueue[T]) Append(item T) (evicted bool) {
	if q.count == len(q.items) {
		q.items[q.head] = item
		q.head = (q.head + 1) % len(q.items)
		return true
	}
	q.items[q.slot(q.count)] = item
	q.count++
	return false
}

// Truncate keeps the n oldest elements and drops the rest.
func (q *CircularQueue[T]) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	var zero T
	for q.count > n {
		q.count--
		q.items[q.slot(q.count)] = zero
	}
}

func (q *CircularQueue[T]) Clear() {
	q.Truncate(0)
	q.head = 0
}

func (q *CircularQueue[T]) slot(index int) int {
	return (q.head + index) % len(q.items)
}
