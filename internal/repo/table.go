package repo

import "slices"

// table is an in-memory collection keyed by an auto-assigned integer id.
// Rows keep insertion order and ids are never reused. Callers synchronize access.
type table[T any] struct {
	rows   []T
	pos    map[int]int
	nextID int
	id     func(*T) *int
}

func newTable[T any](id func(*T) *int) *table[T] {
	return &table[T]{pos: map[int]int{}, nextID: 1, id: id}
}

func (t *table[T]) get(id int) (T, bool) {
	i, ok := t.pos[id]
	if !ok {
		var zero T
		return zero, false
	}
	return t.rows[i], true
}

func (t *table[T]) insert(row T) T {
	*t.id(&row) = t.nextID
	t.nextID++
	t.pos[*t.id(&row)] = len(t.rows)
	t.rows = append(t.rows, row)
	return row
}

func (t *table[T]) update(row T) bool {
	i, ok := t.pos[*t.id(&row)]
	if !ok {
		return false
	}
	t.rows[i] = row
	return true
}

// remove is only used to undo an insert of a failed transaction.
func (t *table[T]) remove(id int) {
	i, ok := t.pos[id]
	if !ok {
		return
	}
	t.rows = slices.Delete(t.rows, i, i+1)
	delete(t.pos, id)
	for j := i; j < len(t.rows); j++ {
		t.pos[*t.id(&t.rows[j])] = j
	}
}

func (t *table[T]) all() []T {
	out := make([]T, len(t.rows))
	copy(out, t.rows)
	return out
}

func (t *table[T]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, row := range t.rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

func (t *table[T]) len() int { return len(t.rows) }
