package comm

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/periph.go/pkg/comm/stream"
	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

type connTestEnv struct {
	t         *testing.T
	registrar *Registrar
	conn      *ClientConn
	cancel    func()
}

func newConnTestEnv(t *testing.T, handler CommandHandler) *connTestEnv {
	serverSide, clientSide := net.Pipe()
	env := &connTestEnv{t: t}
	env.registrar = &Registrar{Handler: handler}
	env.registrar.Init(stream.New(serverSide))
	env.conn = &ClientConn{}
	env.conn.Init(stream.New(clientSide))
	env.conn.Expiration = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	go env.registrar.Run(ctx)
	go env.conn.Run(ctx)
	return env
}

func (e *connTestEnv) result(f CommandFuture) Result {
	select {
	case r := <-f.ResultChan():
		return r
	case <-time.After(time.Second):
		e.t.Fatal("timeout waiting for result")
		return Result{}
	}
}

func TestConnCommandReply(t *testing.T) {
	env := newConnTestEnv(t, HandleCommandFunc(func(ctx context.Context, cmd Command) {
		switch m := cmd.Msg().(type) {
		case *msgs.GetDigitalIO:
			cmd.Done(&msgs.DigitalIOPinState{Pin: m.Pin, Mode: "output"})
		default:
			cmd.Done(msgs.NewCommandOK())
		}
	}))
	defer env.cancel()

	r := env.result(env.conn.DoCommand(&msgs.GetDigitalIO{Pin: "led-power"}))
	require.NoError(t, r.Err)
	state, ok := r.Msg.(*msgs.DigitalIOPinState)
	require.True(t, ok)
	require.Equal(t, "led-power", state.Pin)

	r = env.result(env.conn.DoCommand(&msgs.SetDigitalIO{Pin: "led-power", High: true}))
	require.NoError(t, r.Err)
	require.IsType(t, &msgs.CommandOK{}, r.Msg)
}

func TestConnCommandErr(t *testing.T) {
	env := newConnTestEnv(t, HandleCommandFunc(func(ctx context.Context, cmd Command) {
		cmd.Done(msgs.NewCommandErr(msgs.ErrUnsupportedCommand))
	}))
	defer env.cancel()

	r := env.result(env.conn.DoCommand(&msgs.GetDigitalIO{Pin: "x"}))
	cmdErr, ok := r.Err.(*msgs.CommandErr)
	require.True(t, ok)
	require.Equal(t, msgs.ErrUnsupportedCommand.Error(), cmdErr.Message)
}

func TestConnNoHandler(t *testing.T) {
	env := newConnTestEnv(t, nil)
	defer env.cancel()

	r := env.result(env.conn.DoCommand(&msgs.GetDigitalIO{Pin: "x"}))
	require.IsType(t, &msgs.CommandErr{}, r.Err)
}

func TestConnExpiration(t *testing.T) {
	env := newConnTestEnv(t, HandleCommandFunc(func(ctx context.Context, cmd Command) {
		// never reply.
	}))
	defer env.cancel()

	r := env.result(env.conn.DoCommand(&msgs.GetDigitalIO{Pin: "x"}))
	require.Equal(t, context.DeadlineExceeded, r.Err)
}

func TestConnEvents(t *testing.T) {
	env := newConnTestEnv(t, nil)
	defer env.cancel()

	evt := &msgs.LogStatus{Severity: "error", Message: "pin write failed"}
	require.NoError(t, env.registrar.SendEvent(context.Background(), evt))

	select {
	case msg := <-env.conn.Events():
		require.Equal(t, evt, msg)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

type recordingSender struct {
	got []fx.Message
}

func (s *recordingSender) SendEvent(ctx context.Context, msg fx.Message) error {
	s.got = append(s.got, msg)
	return nil
}

func TestEventSenderMux(t *testing.T) {
	var mux EventSenderMux
	first, second := &recordingSender{}, &recordingSender{}
	mux.Add(first, second)
	require.NoError(t, mux.SendEvent(context.Background(), &msgs.CommandOK{}))
	require.Len(t, first.got, 1)
	require.Len(t, second.got, 1)

	mux.Remove(first)
	require.NoError(t, mux.SendEvent(context.Background(), &msgs.CommandOK{}))
	require.Len(t, first.got, 1)
	require.Len(t, second.got, 2)
}
