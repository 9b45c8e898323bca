package membership

type Status uint8

const (
	// StatusIdle is the status of a node that has not joined the group yet.
	StatusIdle Status = iota + 1

	// StatusJoined is the status of a node that takes part in the protocol.
	StatusJoined

	// StatusFailed is the status of a crashed node. It neither sends nor receives.
	StatusFailed

	// StatusStopped is the status of a node that has been shut down.
	StatusStopped
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusJoined:
		return "joined"
	case StatusFailed:
		return "failed"
	case StatusStopped:
		return "stopped"
	default:
		return ""
	}
}
