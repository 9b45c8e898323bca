package set

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New[uint32]()
	s.Add(3)
	s.Add(1)
	s.Add(3)

	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Has(1))
	assert.False(t, s.Has(2))
	assert.Equal(t, []uint32{1, 3}, s.Values())
}

func TestNew(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, New(3, 1, 2, 1).Values())
	assert.Equal(t, 0, New[int]().Len())
}
