package membership

// TickStats describes what happened during a single tick.
type TickStats struct {
	Received   int
	Malformed  int
	Dropped    int
	Evicted    int
	Sent       int
	SendFailed int
	Members    int
	Heartbeat  int64
}

// Stats accumulates TickStats over the lifetime of a node.
type Stats struct {
	Ticks      uint64
	Received   uint64
	Malformed  uint64
	Dropped    uint64
	Evicted    uint64
	Sent       uint64
	SendFailed uint64
}

func (s *Stats) add(ts TickStats) {
	s.Ticks++
	s.Received += uint64(ts.Received)
	s.Malformed += uint64(ts.Malformed)
	s.Dropped += uint64(ts.Dropped)
	s.Evicted += uint64(ts.Evicted)
	s.Sent += uint64(ts.Sent)
	s.SendFailed += uint64(ts.SendFailed)
}
