package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManual(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewManual(start)

	assert.Equal(t, start, c.Now())
	assert.Equal(t, start.Add(time.Second), c.Advance(time.Second))
	assert.Equal(t, start.Add(time.Second), c.Now())

	c.Set(start)
	assert.Equal(t, start, c.Now())
}

func TestSystem(t *testing.T) {
	before := time.Now()
	now := System{}.Now()

	assert.False(t, now.Before(before))
}
