package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	type test struct {
		prepareFunc func(q *Queue)
		assertFunc  func(t *testing.T, q *Queue)
	}

	tests := map[string]test{
		"DrainEmptyQueue": {
			prepareFunc: func(q *Queue) {},
			assertFunc: func(t *testing.T, q *Queue) {
				n := q.Drain(func([]byte) { t.Fatal("unexpected message") })
				assert.Equal(t, 0, n)
			},
		},
		"DrainPreservesOrder": {
			prepareFunc: func(q *Queue) {
				q.Push([]byte("1"))
				q.Push([]byte("2"))
				q.Push([]byte("3"))
			},
			assertFunc: func(t *testing.T, q *Queue) {
				var got []string
				n := q.Drain(func(b []byte) { got = append(got, string(b)) })

				require.Equal(t, 3, n)
				assert.Equal(t, []string{"1", "2", "3"}, got)
				assert.Equal(t, 0, q.Len())
			},
		},
		"OverflowDropsOldest": {
			prepareFunc: func(q *Queue) {
				for _, s := range []string{"1", "2", "3", "4", "5"} {
					q.Push([]byte(s))
				}
			},
			assertFunc: func(t *testing.T, q *Queue) {
				var got []string
				q.Drain(func(b []byte) { got = append(got, string(b)) })

				assert.Equal(t, []string{"3", "4", "5"}, got)
				assert.Equal(t, uint64(2), q.Dropped())
			},
		},
		"PushDuringDrainIsDeferred": {
			prepareFunc: func(q *Queue) {
				q.Push([]byte("1"))
			},
			assertFunc: func(t *testing.T, q *Queue) {
				n := q.Drain(func([]byte) { q.Push([]byte("2")) })

				assert.Equal(t, 1, n)
				assert.Equal(t, 1, q.Len())
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			q := New(3)

			tt.prepareFunc(q)

			tt.assertFunc(t, q)
		})
	}
}
