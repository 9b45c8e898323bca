package eventlog

import "github.com/maxpoletaev/hbgossip/membership"

type tee []membership.EventLog

// Tee returns an event log that passes every event to all of the given logs,
// in order. Nil logs are skipped.
func Tee(logs ...membership.EventLog) membership.EventLog {
	t := make(tee, 0, len(logs))

	for _, l := range logs {
		if l != nil {
			t = append(t, l)
		}
	}

	return t
}

func (t tee) MemberAdded(self, added membership.Address) {
	for _, l := range t {
		l.MemberAdded(self, added)
	}
}

func (t tee) MemberRemoved(self, removed membership.Address) {
	for _, l := range t {
		l.MemberRemoved(self, removed)
	}
}
