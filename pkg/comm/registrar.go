package comm

import (
	"context"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

// Registrar serves one packet transport as a command/event endpoint.
// Every received command is dispatched to the handler on its own
// goroutine, so a command waiting for bus access never blocks the
// transport read loop or other commands.
type Registrar struct {
	Handler CommandHandler

	pipe  Pipe
	group sync.WaitGroup
}

// Init initializes the Registrar with defaults.
func (r *Registrar) Init(rw PacketReadWriter) {
	r.pipe.ReadWriter = rw
	r.pipe.Handler = msgs.HandleTypedMsgFunc(r.handleTypedMsg)
}

// SendEvent implements EventSender.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.pipe.SendEventMsg(msg)
}

// Name implements Named.
func (r *Registrar) Name() string {
	return "registrar"
}

// Run implements Runnable. It returns after the transport stops and all
// in-flight commands complete.
func (r *Registrar) Run(ctx context.Context) error {
	err := r.pipe.run(ctx)
	r.group.Wait()
	return err
}

func (r *Registrar) handleTypedMsg(ctx context.Context, msg fx.Message, typed *msgs.Typed) error {
	switch typed.Kind() {
	case msgs.TypeIDKindCommand:
		cmd := &command{seq: typed.Sequence, msg: msg, pipe: &r.pipe}
		h := r.Handler
		if h == nil {
			return cmd.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
		}
		r.group.Add(1)
		go func() {
			defer r.group.Done()
			h.HandleCommand(ctx, cmd)
		}()
	case msgs.TypeIDKindEvent:
		// a daemon does not take events.
		glog.V(2).Infof("ignore event %#x", typed.TypeId)
	}
	return nil
}

type command struct {
	seq  uint32
	msg  fx.Message
	pipe *Pipe
}

func (c *command) Msg() fx.Message {
	return c.msg
}

func (c *command) Done(msg fx.Message) error {
	return c.pipe.SendCommandMsg(msg, c.seq)
}

// EventSenderMux fans events out to multiple senders.
type EventSenderMux struct {
	Senders []EventSender

	lock sync.RWMutex
}

// SendEvent implements EventSender.
func (m *EventSenderMux) SendEvent(ctx context.Context, msg fx.Message) error {
	m.lock.RLock()
	senders := make([]EventSender, len(m.Senders))
	copy(senders, m.Senders)
	m.lock.RUnlock()
	var errs fx.AggregatedError
	for _, sender := range senders {
		errs.Add(sender.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// Add adds more senders.
func (m *EventSenderMux) Add(senders ...EventSender) {
	m.lock.Lock()
	m.Senders = append(m.Senders, senders...)
	m.lock.Unlock()
}

// Remove removes a sender.
func (m *EventSenderMux) Remove(sender EventSender) {
	m.lock.Lock()
	for i, s := range m.Senders {
		if s == sender {
			m.Senders = append(m.Senders[:i], m.Senders[i+1:]...)
			break
		}
	}
	m.lock.Unlock()
}
