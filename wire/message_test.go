package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	b := Encode(Message{
		Type:      TypeHeartbeat,
		ID:        0x01020304,
		Port:      0x0506,
		Heartbeat: 0x0708,
	})

	require.Len(t, b, Size)
	assert.Equal(t, []byte{
		Version, byte(TypeHeartbeat),
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06,
		0, 0, 0, 0, 0, 0, 0x07, 0x08,
	}, b)
}

func TestDecode(t *testing.T) {
	msg := Message{Type: TypeJoinRequest, ID: 7, Port: 9000, Heartbeat: -1}

	got, err := Decode(Encode(msg))
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestDecode_Errors(t *testing.T) {
	valid := Encode(Message{Type: TypeHeartbeat, ID: 1})

	tests := map[string]struct {
		input   []byte
		wantErr error
	}{
		"Empty": {
			input:   nil,
			wantErr: ErrShortMessage,
		},
		"Truncated": {
			input:   valid[:Size-1],
			wantErr: ErrShortMessage,
		},
		"WrongVersion": {
			input:   append([]byte{Version + 1}, valid[1:]...),
			wantErr: ErrUnsupportedVersion,
		},
		"UnknownType": {
			input:   append([]byte{Version, 0xff}, valid[2:]...),
			wantErr: ErrUnknownType,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(tt.input)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "heartbeat", TypeHeartbeat.String())
	assert.Equal(t, "join_request", TypeJoinRequest.String())
	assert.Equal(t, "unknown(9)", Type(9).String())
}
