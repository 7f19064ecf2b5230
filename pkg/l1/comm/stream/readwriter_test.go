package stream

import (
	"bytes"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

func TestPacketFraming(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte{1, 2, 3}))
	require.NoError(t, rw.WritePacket(nil))
	assert.Equal(t, []byte{3, 0, 0, 0, 1, 2, 3, 0, 0, 0, 0}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	assert.Empty(t, pkt)
	_, err = rw.ReadPacket()
	assert.Error(t, err)
}

func TestOversizedPacket(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0xff, 0xff, 0xff, 0x7f})
	_, err := New(buf).ReadPacket()
	assert.Error(t, err)
	assert.Error(t, New(buf).WritePacket(make([]byte, MaxPacketSize+1)))
}

func TestTypedOverPipe(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	typed, err := msgs.TypedFrom(&msgs.TrainSetSpeed{Train: 24, Speed: 10})
	require.NoError(t, err)
	typed.Sequence = 9
	data, err := typed.Encode()
	require.NoError(t, err)

	go New(a).WritePacket(data)
	pkt, err := New(b).ReadPacket()
	require.NoError(t, err)
	decoded, err := msgs.DecodeTyped(pkt)
	require.NoError(t, err)
	msg, err := decoded.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint32(9), decoded.Sequence)
	assert.Equal(t, &msgs.TrainSetSpeed{Train: 24, Speed: 10}, msg)
}
