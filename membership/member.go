package membership

import "time"

// Member is an entry of the local membership table.
type Member struct {
	Address

	// Heartbeat is the highest heartbeat counter seen for this member. It never
	// decreases for the lifetime of the entry.
	Heartbeat int64

	// UpdatedAt is the local time at which Heartbeat last advanced.
	UpdatedAt time.Time
}
