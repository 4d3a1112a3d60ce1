package utils

import (
	"sync"
)

// Queue is a goroutine safe FIFO where items added with the same key collapse
// into the latest one.
type Queue[T any] struct {
	lhm *LinkedHashMap[T]
	m   sync.RWMutex
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		lhm: NewLinkedHashMap[T](),
	}
}

func (q *Queue[T]) Add(item T) {
	defer q.m.Unlock()
	q.m.Lock()
	q.lhm.PushBack(item)
}

// AddWithKey returns true when item replaced a previous one with that key.
func (q *Queue[T]) AddWithKey(key string, item T) bool {
	defer q.m.Unlock()
	q.m.Lock()
	if key == "" {
		q.lhm.PushBack(item)
		return false
	}
	return q.lhm.PushBackWithCollapseKey(key, item)
}

func (q *Queue[T]) RemoveKey(key string) (T, bool) {
	defer q.m.Unlock()
	q.m.Lock()
	return q.lhm.RemoveWithCollapseKey(key)
}

func (q *Queue[T]) Remove() (T, bool) {
	defer q.m.Unlock()
	q.m.Lock()
	return q.lhm.PopFront()
}

func (q *Queue[T]) Items() []T {
	defer q.m.RUnlock()
	q.m.RLock()
	return q.lhm.Values()
}

func (q *Queue[T]) Len() int {
	defer q.m.RUnlock()
	q.m.RLock()
	return q.lhm.Len()
}
