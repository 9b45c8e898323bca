package membership

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// NodeID is a unique cluster node identifier.
type NodeID uint32

func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// Address identifies a participant. The (ID, Port) pair must be unique among
// live nodes.
type Address struct {
	ID   NodeID
	Port uint16
}

// IntroducerAddress is the well-known address every joining node contacts.
var IntroducerAddress = Address{ID: 1, Port: 0}

func (a Address) String() string {
	return fmt.Sprintf("%d:%d", a.ID, a.Port)
}

// Bytes returns the fixed-width 6-byte form of the address.
func (a Address) Bytes() []byte {
	b := make([]byte, 6)
	binary.BigEndian.PutUint32(b[:4], uint32(a.ID))
	binary.BigEndian.PutUint16(b[4:], a.Port)

	return b
}

// ParseAddress parses the "id:port" form produced by Address.String.
func ParseAddress(s string) (Address, error) {
	idStr, portStr, ok := strings.Cut(s, ":")
	if !ok {
		return Address{}, fmt.Errorf("invalid address %q: missing port", s)
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}

	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}

	return Address{ID: NodeID(id), Port: uint16(port)}, nil
}
