package iteratable

// Set is an insertion-ordered set of comparable values.
//
// Sets support a simple cursor-style iteration, which tolerates elements being
// added during the iteration (they will be visited, too):
//
//     S.IterateOnce()
//     for S.Next() {
//         x := S.Item()
//         …                // may call S.Add(…)
//     }
//
type Set struct {
	items  []interface{}
	index  map[interface{}]int
	cursor int
}

// NewSet creates an empty set. The capacity is a hint only.
func NewSet(capacity int) *Set {
	if capacity < 0 {
		capacity = 0
	}
	return &Set{
		items:  make([]interface{}, 0, capacity),
		index:  make(map[interface{}]int, capacity),
		cursor: -1,
	}
}

func (s *Set) init() {
	if s.index == nil {
		s.index = make(map[interface{}]int)
		s.cursor = -1
	}
}

// Size returns the number of elements in s.
func (s *Set) Size() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Empty is true if s has no elements.
func (s *Set) Empty() bool {
	return s.Size() == 0
}

// Contains checks if x is an element of s.
func (s *Set) Contains(x interface{}) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[x]
	return ok
}

// Add adds elements to s. Returns s.
func (s *Set) Add(xs ...interface{}) *Set {
	s.init()
	for _, x := range xs {
		if _, ok := s.index[x]; ok {
			continue
		}
		s.index[x] = len(s.items)
		s.items = append(s.items, x)
	}
	return s
}

// Remove removes an element from s. Removing elements during an iteration
// is not supported.
func (s *Set) Remove(x interface{}) *Set {
	if !s.Contains(x) {
		return s
	}
	at := s.index[x]
	delete(s.index, x)
	copy(s.items[at:], s.items[at+1:])
	s.items = s.items[:len(s.items)-1]
	for i := at; i < len(s.items); i++ {
		s.index[s.items[i]] = i
	}
	return s
}

// Values returns the elements of s in insertion order. The slice is a copy.
func (s *Set) Values() []interface{} {
	if s == nil {
		return nil
	}
	v := make([]interface{}, len(s.items))
	copy(v, s.items)
	return v
}

// First returns the first element in insertion order, or nil.
func (s *Set) First() interface{} {
	if s.Size() == 0 {
		return nil
	}
	return s.items[0]
}

// Copy creates a shallow copy of s.
func (s *Set) Copy() *Set {
	c := NewSet(s.Size())
	if s != nil {
		c.Add(s.items...)
	}
	return c
}

// Union adds all elements of other to s. Destructive for s. Returns s.
func (s *Set) Union(other *Set) *Set {
	s.init()
	if other != nil {
		s.Add(other.items...)
	}
	return s
}

// Difference removes all elements of other from s. Destructive for s.
// Returns s.
func (s *Set) Difference(other *Set) *Set {
	s.init()
	if other.Empty() {
		return s
	}
	j := 0
	for _, x := range s.items {
		if !other.Contains(x) {
			s.items[j] = x
			s.index[x] = j
			j++
		} else {
			delete(s.index, x)
		}
	}
	s.items = s.items[:j]
	return s
}

// Intersection removes all elements from s which are not in other.
// Destructive for s. Returns s.
func (s *Set) Intersection(other *Set) *Set {
	s.init()
	j := 0
	for _, x := range s.items {
		if other.Contains(x) {
			s.items[j] = x
			s.index[x] = j
			j++
		} else {
			delete(s.index, x)
		}
	}
	s.items = s.items[:j]
	return s
}

// Equals checks if s and other contain the same elements, irrespective of order.
func (s *Set) Equals(other *Set) bool {
	if s.Size() != other.Size() {
		return false
	}
	for _, x := range s.Values() {
		if !other.Contains(x) {
			return false
		}
	}
	return true
}

// Subset returns a new set with all elements of s for which predicate is true.
func (s *Set) Subset(predicate func(interface{}) bool) *Set {
	sub := NewSet(0)
	if s == nil {
		return sub
	}
	for _, x := range s.items {
		if predicate(x) {
			sub.Add(x)
		}
	}
	return sub
}

// Each calls f for every element in insertion order.
func (s *Set) Each(f func(interface{})) {
	if s == nil {
		return
	}
	for _, x := range s.items {
		f(x)
	}
}

// --- Iteration -------------------------------------------------------------

// IterateOnce resets the iteration cursor of s.
func (s *Set) IterateOnce() {
	s.init()
	s.cursor = -1
}

// Next moves the cursor to the next element. It returns false if the
// iteration is exhausted.
func (s *Set) Next() bool {
	if s == nil {
		return false
	}
	s.cursor++
	return s.cursor < len(s.items)
}

// Item returns the element under the cursor.
func (s *Set) Item() interface{} {
	if s == nil || s.cursor < 0 || s.cursor >= len(s.items) {
		return nil
	}
	return s.items[s.cursor]
}
