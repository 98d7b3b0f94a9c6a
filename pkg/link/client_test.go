package link

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type chanReadWriter struct {
	readCh  <-chan byte
	writeCh chan byte
}

func (c *chanReadWriter) Read(p []byte) (int, error) {
	p[0] = <-c.readCh
	return 1, nil
}

func (c *chanReadWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		c.writeCh <- b
	}
	return len(p), nil
}

type clientTestEnv struct {
	t       *testing.T
	readCh  chan byte
	writeCh chan byte
	client  *Client
	cancel  func()
}

func newClientTestEnv(t *testing.T) *clientTestEnv {
	env := &clientTestEnv{
		t:       t,
		readCh:  make(chan byte, 16),
		writeCh: make(chan byte, 16),
	}
	l := NewLink(&chanReadWriter{readCh: env.readCh, writeCh: env.writeCh})
	l.seq = PacketSeq(1)
	env.client = NewClient(l)
	ctx, cancel := context.WithCancel(context.Background())
	env.cancel = cancel
	go env.client.Run(ctx)
	return env
}

func (e *clientTestEnv) expect(bs ...byte) {
	for i, b := range bs {
		select {
		case got := <-e.writeCh:
			require.Equalf(e.t, b, got, "byte[%d] mismatch", i)
		case <-time.After(500 * time.Millisecond):
			e.t.Fatalf("timeout expecting byte[%d]", i)
		}
	}
}

func (e *clientTestEnv) inject(bs ...byte) {
	for _, b := range bs {
		e.readCh <- b
	}
}

func (e *clientTestEnv) result(cmd *Command) Result {
	select {
	case r := <-cmd.ResultChan():
		return r
	case <-time.After(500 * time.Millisecond):
		e.t.Fatal("timeout waiting for result")
		return Result{}
	}
}

func TestClientCommandReply(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	cmd := env.client.Do(&Packet{Code: 0x02, Data: []byte{7}})
	env.expect(1, 0x02, 1, 7)

	// reply carries the request seq in the first data byte.
	env.inject(0x20, 0x02, 2, 1, 0xab)
	r := env.result(cmd)
	require.NoError(t, r.Err)
	require.Equal(t, byte(0x02), r.Code)
	require.Equal(t, []byte{0xab}, r.Data)
}

func TestClientNoReply(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	first := env.client.Do(&Packet{Code: 0x02})
	env.expect(1, 0x02, 0)
	second := env.client.Do(&Packet{Code: 0x04})
	env.expect(2, 0x04, 0)

	// replying to the second fails the first with ErrNoReply.
	env.inject(0x20, 0x04, 1, 2)
	r := env.result(first)
	require.Equal(t, ErrNoReply, r.Err)
	r = env.result(second)
	require.NoError(t, r.Err)
	require.Equal(t, byte(0x04), r.Code)
}

func TestClientErrorReply(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	cmd := env.client.Do(&Packet{Code: 0x02})
	env.expect(1, 0x02, 0)

	env.inject(0x20, 0x03, 1, 1)
	r := env.result(cmd)
	require.Equal(t, &CommandError{Code: 0x02}, r.Err)
}

func TestClientEvent(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	env.inject(0x20, 0x82, 2, 5, 1)
	select {
	case pkt := <-env.client.EventChan():
		require.Equal(t, byte(0x82), pkt.Code)
		require.Equal(t, []byte{5, 1}, pkt.Data)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestClientResync(t *testing.T) {
	env := newClientTestEnv(t)
	defer env.cancel()

	cmd := env.client.Do(&Packet{Code: 0x02})
	env.expect(1, 0x02, 0)

	// garbage before the header is skipped.
	env.inject(0x00, 0xf5)
	env.inject(0x20, 0x02, 1, 1)
	r := env.result(cmd)
	require.NoError(t, r.Err)
}
