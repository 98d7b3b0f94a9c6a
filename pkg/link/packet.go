package link

import (
	"io"
	"time"
)

// PacketSeq defines the type of packet sequence number.
type PacketSeq byte

// NewPacketSeq creates a random packet sequence number.
func NewPacketSeq() PacketSeq {
	return PacketSeq(byte(time.Now().UnixNano())).Next()
}

// Next calculates the next sequence number.
func (s PacketSeq) Next() PacketSeq {
	n := byte(s) + 1
	if n == 0 || n >= 0xf0 {
		n = 1
	}
	return PacketSeq(n)
}

// IsValid checks if it's a valid sequence number.
func (s PacketSeq) IsValid() bool {
	n := byte(s)
	return n > 0 && n < 0xf0
}

// Code flag bits.
const (
	// CodeFlagEvent marks an unsolicited packet from the firmware.
	CodeFlagEvent byte = 0x80
	// CodeFlagErr marks a reply reporting an error code.
	CodeFlagErr byte = 0x01
)

// MaxDataLen is the maximum payload length of one packet.
const MaxDataLen = 0x7f

// Packet contains the information of one framed packet.
type Packet struct {
	Seq  PacketSeq
	Code byte
	Data []byte
}

// IsEvent determines if the packet is an unsolicited event.
func (p *Packet) IsEvent() bool {
	return p.Code&CodeFlagEvent != 0
}

// Bytes returns encoded bytes for sending.
func (p *Packet) Bytes() []byte {
	b := make([]byte, len(p.Data)+3)
	b[0], b[1], b[2] = byte(p.Seq), p.Code, byte(len(p.Data))
	copy(b[3:], p.Data)
	return b
}

// WriteTo writes encoded bytes.
func (p *Packet) WriteTo(w io.Writer) (int, error) {
	return w.Write(p.Bytes())
}
