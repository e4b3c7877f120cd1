package util

// Stack is a LIFO. With a positive Limit, pushing onto a full stack drops
// the oldest item. The zero value is an empty unbounded stack.
type Stack[T any] struct {
	Limit int
	items []T
}

func (s *Stack[T]) Push(item T) {
	if s.Limit > 0 && len(s.items) >= s.Limit {
		s.items = append(s.items[:0], s.items[1:]...)
	}
	s.items = append(s.items, item)
}

// Pop removes the top item. ok is false on an empty stack.
func (s *Stack[T]) Pop() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	idx := len(s.items) - 1
	item = s.items[idx]
	s.items = s.items[:idx]
	return item, true
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}
