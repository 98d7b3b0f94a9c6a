package link

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNoReply indicates no reply received from peer.
	// This happens when a reply is received for a latter command, and all
	// previous commands fail with this error.
	ErrNoReply = errors.New("no reply")
)

// CommandError wraps error codes from reply.
type CommandError struct {
	Code byte
}

// Error implements error.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command error %d", e.Code)
}

// Result is the result of a command.
type Result struct {
	Err  error
	Code byte
	Data []byte
}

// Command represents a pending command waiting for reply.
type Command struct {
	requestSeq PacketSeq
	resultCh   chan Result
}

// RequestSeq returns the request packet seq.
func (c *Command) RequestSeq() PacketSeq {
	return c.requestSeq
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

// Client provides command/reply and event dispatch over a Link. Replies
// carry the request sequence in the first data byte; replies arriving
// out of order fail all earlier pending commands with ErrNoReply.
type Client struct {
	link    *Link
	eventCh chan *Packet

	pending []*Command
	lock    sync.Mutex
}

// NewClient creates a Client and wraps the link.
func NewClient(l *Link) *Client {
	c := &Client{
		link:    l,
		eventCh: make(chan *Packet, 1),
	}
	l.Handler = HandlePacketFunc(c.handlePacket)
	return c
}

// Link gets the wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// EventChan retrieves the event reporting chan.
func (c *Client) EventChan() <-chan *Packet {
	return c.eventCh
}

// Do sends a command and returns a Command for result.
func (c *Client) Do(pkt *Packet) *Command {
	cmd := &Command{resultCh: make(chan Result, 1)}
	c.lock.Lock()
	defer c.lock.Unlock()
	if err := c.link.Send(pkt); err != nil {
		cmd.resultCh <- Result{Err: err}
		return cmd
	}
	cmd.requestSeq = pkt.Seq
	c.pending = append(c.pending, cmd)
	return cmd
}

// Run wraps Link.Run to implement Runnable.
func (c *Client) Run(ctx context.Context) error {
	return c.link.Run(ctx)
}

func (c *Client) handlePacket(ctx context.Context, pkt *Packet) {
	if pkt.IsEvent() {
		c.eventCh <- pkt
		return
	}
	if len(pkt.Data) == 0 {
		// invalid reply packet.
		return
	}
	seq := PacketSeq(pkt.Data[0])
	if !seq.IsValid() {
		return
	}
	var cmd *Command
	var skipped []*Command
	c.lock.Lock()
	for i, pend := range c.pending {
		if pend.requestSeq == seq {
			skipped = c.pending[:i]
			cmd = pend
			c.pending = c.pending[i+1:]
			break
		}
	}
	c.lock.Unlock()
	if cmd == nil {
		return
	}
	for _, pend := range skipped {
		pend.resultCh <- Result{Err: ErrNoReply}
	}
	if pkt.Code&CodeFlagErr != 0 {
		cmd.resultCh <- Result{Err: &CommandError{Code: pkt.Code &^ CodeFlagErr}}
	} else {
		cmd.resultCh <- Result{Code: pkt.Code, Data: pkt.Data[1:]}
	}
}
