package link

import (
	"bufio"
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
)

// PacketHandler is called when a packet is received.
type PacketHandler interface {
	HandlePacket(context.Context, *Packet)
}

// HandlePacketFunc is func type of PacketHandler.
type HandlePacketFunc func(context.Context, *Packet)

// HandlePacket implements PacketHandler.
func (f HandlePacketFunc) HandlePacket(ctx context.Context, pkt *Packet) {
	f(ctx, pkt)
}

// Link frames packets over a byte stream. Send assigns outgoing sequence
// numbers; Run reads and dispatches incoming packets, skipping bytes
// until a plausible header is found after a framing error.
type Link struct {
	ReadWriter io.ReadWriter
	Handler    PacketHandler

	seq  PacketSeq
	lock sync.Mutex
}

// NewLink creates a Link.
func NewLink(rw io.ReadWriter) *Link {
	return &Link{ReadWriter: rw, seq: NewPacketSeq()}
}

// Send sends a packet, assigning the next sequence number. It returns the
// assigned sequence in pkt.Seq.
func (l *Link) Send(pkt *Packet) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	pkt.Seq = l.seq
	if _, err := pkt.WriteTo(l.ReadWriter); err != nil {
		return err
	}
	l.seq = l.seq.Next()
	return nil
}

// Run reads packets until the stream errors out. Cancellation is left to
// the owner of the stream: closing it unblocks the read.
func (l *Link) Run(ctx context.Context) error {
	r := bufio.NewReader(l.ReadWriter)
	for {
		header, err := l.readHeader(r)
		if err != nil {
			return err
		}
		pkt := &Packet{Seq: PacketSeq(header[0]), Code: header[1]}
		if n := header[2]; n > 0 {
			pkt.Data = make([]byte, n)
			if _, err := io.ReadFull(r, pkt.Data); err != nil {
				return err
			}
		}
		if h := l.Handler; h != nil {
			h.HandlePacket(ctx, pkt)
		}
	}
}

// readHeader scans for the next plausible 3-byte header.
func (l *Link) readHeader(r *bufio.Reader) ([3]byte, error) {
	var header [3]byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return header, err
		}
		if !PacketSeq(b).IsValid() {
			glog.V(3).Infof("skip byte %#x while framing", b)
			continue
		}
		header[0] = b
		if _, err := io.ReadFull(r, header[1:]); err != nil {
			return header, err
		}
		if header[2] > MaxDataLen {
			glog.V(3).Infof("implausible length %d, resyncing", header[2])
			continue
		}
		return header, nil
	}
}
