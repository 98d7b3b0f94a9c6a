package comm

import (
	"context"
	"sync"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

// ClientConn implements Conn over a packet transport. Replies are
// matched to pending commands by sequence number; commands without a
// reply expire with context.DeadlineExceeded.
type ClientConn struct {
	Expiration time.Duration

	pipe    Pipe
	events  chan fx.Message
	seq     uint32
	pending []*commandFuture
	seqMap  map[uint32]*commandFuture
	lock    sync.Mutex
}

// DefaultCommandExpiration is the default expiration expecting a result.
const DefaultCommandExpiration = 1 * time.Second

// Init initializes ClientConn with defaults.
func (c *ClientConn) Init(rw PacketReadWriter) {
	c.Expiration = DefaultCommandExpiration
	c.pipe.ReadWriter = rw
	c.pipe.Handler = msgs.HandleTypedMsgFunc(c.handleTypedMsg)
	c.events = make(chan fx.Message, 16)
	c.seqMap = make(map[uint32]*commandFuture)
}

// DoCommand implements Conn.
func (c *ClientConn) DoCommand(msg fx.Message) CommandFuture {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.seq++
	if c.seq == 0 {
		c.seq++
	}
	f := &commandFuture{
		seq:      c.seq,
		expireAt: time.Now().Add(c.Expiration),
		result:   make(chan Result, 1),
	}
	if err := c.pipe.SendCommandMsg(msg, f.seq); err != nil {
		f.result <- Result{Err: err}
		return f
	}
	c.pending = append(c.pending, f)
	c.seqMap[f.seq] = f
	return f
}

// Events implements Conn.
func (c *ClientConn) Events() <-chan fx.Message {
	return c.events
}

// Name implements Named.
func (c *ClientConn) Name() string {
	return "conn"
}

// Run implements Runnable.
func (c *ClientConn) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx)
	runner.Go(fx.NamedRun("conn-pipe", fx.RunFunc(c.pipe.run)))
	runner.Go(fx.NamedRun("conn-purge", fx.RunFunc(c.runPurge)))
	return runner.Wait()
}

// Close implements Closer.
func (c *ClientConn) Close() error {
	return c.pipe.Close()
}

func (c *ClientConn) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	if typed.IsEvent() {
		select {
		case c.events <- msg:
		default:
			glog.V(2).Infof("event dropped, slow consumer")
		}
		return nil
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	f := c.seqMap[typed.Sequence]
	if f == nil {
		return nil
	}
	c.remove(f)
	result := Result{Msg: msg}
	if cmdErr, ok := msg.(*msgs.CommandErr); ok {
		result.Err = cmdErr
	}
	f.result <- result
	close(f.result)
	return nil
}

func (c *ClientConn) runPurge(ctx context.Context) error {
	ticker := time.NewTicker(c.Expiration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			c.purgeExpired(now)
		}
	}
}

func (c *ClientConn) purgeExpired(now time.Time) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for len(c.pending) > 0 {
		f := c.pending[0]
		if f.expireAt.After(now) {
			break
		}
		c.remove(f)
		f.result <- Result{Err: context.DeadlineExceeded}
		close(f.result)
	}
}

// remove must be called with lock held.
func (c *ClientConn) remove(f *commandFuture) {
	delete(c.seqMap, f.seq)
	for i, pend := range c.pending {
		if pend == f {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			break
		}
	}
}

type commandFuture struct {
	seq      uint32
	expireAt time.Time
	result   chan Result
}

func (c *commandFuture) ResultChan() <-chan Result {
	return c.result
}
