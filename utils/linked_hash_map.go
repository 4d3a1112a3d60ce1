package utils

import "container/list"

// LinkedHashMap keeps insertion order while letting a key collapse older
// entries pushed under the same key.
type LinkedHashMap[T any] struct {
	list         list.List
	mapKeyToItem map[string]*list.Element
	mapItemToKey map[*list.Element]string
}

func NewLinkedHashMap[T any]() *LinkedHashMap[T] {
	return &LinkedHashMap[T]{
		mapKeyToItem: make(map[string]*list.Element),
		mapItemToKey: make(map[*list.Element]string),
	}
}

func (l *LinkedHashMap[T]) Len() int {
	return l.list.Len()
}

func (l *LinkedHashMap[T]) PushBack(value T) {
	l.list.PushBack(value)
}

// PushBackWithCollapseKey replaces the value stored under key, if any, and
// moves it to the back. Returns true if an entry was replaced.
func (l *LinkedHashMap[T]) PushBackWithCollapseKey(key string, value T) bool {

	listItem, exist := l.mapKeyToItem[key]

	if exist {
		listItem.Value = value
		l.list.MoveToBack(listItem)
	} else {
		listItem = l.list.PushBack(value)
		l.mapKeyToItem[key] = listItem
		l.mapItemToKey[listItem] = key
	}

	return exist
}

func (l *LinkedHashMap[T]) RemoveWithCollapseKey(key string) (T, bool) {
	var zero T
	if listItem, exist := l.mapKeyToItem[key]; exist {
		return l.remove(listItem), true
	}
	return zero, false
}

func (l *LinkedHashMap[T]) PopFront() (T, bool) {
	var zero T
	item := l.list.Front()
	if item == nil {
		return zero, false
	}
	return l.remove(item), true
}

func (l *LinkedHashMap[T]) Values() []T {
	values := make([]T, 0, l.list.Len())
	for e := l.list.Front(); e != nil; e = e.Next() {
		values = append(values, e.Value.(T))
	}
	return values
}

func (l *LinkedHashMap[T]) remove(e *list.Element) T {

	if key, exist := l.mapItemToKey[e]; exist {
		delete(l.mapKeyToItem, key)
		delete(l.mapItemToKey, e)
	}

	return l.list.Remove(e).(T)
}
