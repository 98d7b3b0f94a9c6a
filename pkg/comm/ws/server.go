package ws

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/periph.go/pkg/comm"
	fx "github.com/robotalks/periph.go/pkg/framework"
)

// Server accepts websocket connections and serves each one as a
// Registrar bound to the shared command handler. Events are fanned out
// to every live connection.
type Server struct {
	Addr    string
	Handler comm.CommandHandler

	ctx  context.Context
	lock sync.Mutex
	regs map[*comm.Registrar]struct{}
}

// NewServer creates a Server listening on addr.
func NewServer(addr string, handler comm.CommandHandler) *Server {
	return &Server{
		Addr:    addr,
		Handler: handler,
		regs:    make(map[*comm.Registrar]struct{}),
	}
}

// SendEvent implements EventSender.
func (s *Server) SendEvent(ctx context.Context, msg fx.Message) error {
	s.lock.Lock()
	regs := make([]*comm.Registrar, 0, len(s.regs))
	for reg := range s.regs {
		regs = append(regs, reg)
	}
	s.lock.Unlock()
	var errs fx.AggregatedError
	for _, reg := range regs {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// Name implements Named.
func (s *Server) Name() string {
	return "ws-server"
}

// Run implements Runnable.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("websocket listening on %s", ln.Addr())
	s.ctx = ctx
	srv := &http.Server{Handler: websocket.Handler(s.serveConn)}
	err = fx.RunWithContextCancel(ctx, func() { srv.Close() }, func() error {
		return srv.Serve(ln)
	})
	if err == http.ErrServerClosed {
		err = nil
	}
	return err
}

func (s *Server) serveConn(conn *websocket.Conn) {
	reg := &comm.Registrar{Handler: s.Handler}
	reg.Init(New(conn))
	s.lock.Lock()
	s.regs[reg] = struct{}{}
	s.lock.Unlock()
	defer func() {
		s.lock.Lock()
		delete(s.regs, reg)
		s.lock.Unlock()
	}()
	if err := reg.Run(s.ctx); err != nil && err != context.Canceled {
		glog.V(1).Infof("websocket conn closed: %v", err)
	}
}
