package link

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketSeq(t *testing.T) {
	seq := NewPacketSeq()
	require.True(t, seq.IsValid())

	require.Equal(t, PacketSeq(2), PacketSeq(1).Next())
	// wraps before the reserved range.
	require.Equal(t, PacketSeq(1), PacketSeq(0xef).Next())
	require.Equal(t, PacketSeq(1), PacketSeq(0xff).Next())
	require.Equal(t, PacketSeq(1), PacketSeq(0).Next())

	require.False(t, PacketSeq(0).IsValid())
	require.False(t, PacketSeq(0xf0).IsValid())
	require.True(t, PacketSeq(0xef).IsValid())
}

func TestPacketBytes(t *testing.T) {
	pkt := &Packet{Seq: 3, Code: 0x04, Data: []byte{1, 2}}
	require.Equal(t, []byte{3, 0x04, 2, 1, 2}, pkt.Bytes())
	require.False(t, pkt.IsEvent())

	evt := &Packet{Seq: 5, Code: CodeFlagEvent | 0x02}
	require.Equal(t, []byte{5, 0x82, 0}, evt.Bytes())
	require.True(t, evt.IsEvent())
}
