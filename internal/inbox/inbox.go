// Package inbox implements the per-node buffer of received raw messages. The
// network side pushes into it whenever a datagram arrives, and the node drains
// it once per tick.
package inbox

import (
	"container/list"
	"sync"
)

// Queue is a bounded FIFO of raw messages. When the queue is full, the oldest
// message is dropped to make room for the new one. It is safe for concurrent use.
type Queue struct {
	mut     sync.Mutex
	maxSize int
	list    *list.List // []byte
	dropped uint64
}

// New creates a queue holding at most maxSize messages. Zero or negative
// maxSize means the queue is unbounded.
func New(maxSize int) *Queue {
	return &Queue{
		maxSize: maxSize,
		list:    list.New(),
	}
}

// Push appends a message to the queue. The payload is not copied, so the
// caller must not reuse the slice.
func (q *Queue) Push(payload []byte) {
	q.mut.Lock()
	defer q.mut.Unlock()

	q.list.PushBack(payload)

	if q.maxSize > 0 && q.list.Len() > q.maxSize {
		q.list.Remove(q.list.Front())
		q.dropped++
	}
}

// Drain removes every message currently in the queue and passes them to fn in
// arrival order. Messages pushed while fn is running are left for the next call,
// which keeps a single drain bounded by the queue depth at the time of the call.
func (q *Queue) Drain(fn func([]byte)) int {
	q.mut.Lock()
	pending := q.list
	q.list = list.New()
	q.mut.Unlock()

	n := 0

	for el := pending.Front(); el != nil; el = el.Next() {
		fn(el.Value.([]byte))
		n++
	}

	return n
}

// Len returns the number of buffered messages.
func (q *Queue) Len() int {
	q.mut.Lock()
	defer q.mut.Unlock()

	return q.list.Len()
}

// Dropped returns the number of messages discarded due to overflow.
func (q *Queue) Dropped() uint64 {
	q.mut.Lock()
	defer q.mut.Unlock()

	return q.dropped
}
