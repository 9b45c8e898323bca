package set

import (
	"golang.org/x/exp/constraints"

	"github.com/maxpoletaev/hbgossip/internal/generic"
)

type Set[T constraints.Ordered] map[T]struct{}

func (s Set[T]) Add(val T) {
	s[val] = struct{}{}
}

func (s Set[T]) Has(val T) bool {
	if _, ok := s[val]; ok {
		return true
	}

	return false
}

func (s Set[T]) Len() int {
	return len(s)
}

// Values returns the set members in ascending order.
func (s Set[T]) Values() []T {
	return generic.SortedKeys(s)
}

func New[T constraints.Ordered](sl ...T) Set[T] {
	set := make(Set[T], len(sl))
	for _, val := range sl {
		set.Add(val)
	}

	return set
}
