package websocket

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l1"
	"github.com/robotalks/trainctl/pkg/l1/comm"
)

// Default paths served by Registrar.
const (
	DefaultPath = "/l1"
	MetaPath    = "/meta"
)

// Meta is the document served on MetaPath.
type Meta struct {
	Type string            `json:"type"`
	ID   string            `json:"id"`
	Meta l1.ControllerMeta `json:"meta"`
	Path string            `json:"path"`
}

// Registrar implements l1.Registrar by accepting websocket connections.
// Events are broadcast to every connected peer.
type Registrar struct {
	Info   l1.ControllerInfo
	Listen string
	Path   string

	conns map[*comm.Registrar]struct{}
	lock  sync.RWMutex
}

// NewRegistrar creates a Registrar listening on addr.
func NewRegistrar(addr string, info l1.ControllerInfo) *Registrar {
	return &Registrar{
		Info:   info,
		Listen: addr,
		Path:   DefaultPath,
		conns:  make(map[*comm.Registrar]struct{}),
	}
}

// Handler creates the http.Handler. Connections are served with ctx
// which must carry the loop control.
func (r *Registrar) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(r.Path, websocket.Handler(func(conn *websocket.Conn) {
		r.serveConn(ctx, conn)
	}))
	mux.HandleFunc(MetaPath, r.serveMeta)
	return mux
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	var errs fx.AggregatedError
	r.lock.RLock()
	defer r.lock.RUnlock()
	for reg := range r.conns {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// Connections returns the number of connected peers.
func (r *Registrar) Connections() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.conns)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

// Run implements Runnable. The registrar is optional to the console:
// when the address can't be bound it stays disabled until ctx is done.
func (r *Registrar) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.Listen)
	if err != nil {
		glog.Errorf("websocket registrar disabled: %v", err)
		<-ctx.Done()
		return ctx.Err()
	}
	srv := &http.Server{Handler: r.Handler(ctx)}
	glog.Infof("websocket registrar listening on %s%s", ln.Addr(), r.Path)
	err = fx.RunWithContextCloser(ctx, srv, func() error {
		return srv.Serve(ln)
	})
	if err == http.ErrServerClosed {
		return ctx.Err()
	}
	return err
}

func (r *Registrar) serveConn(ctx context.Context, conn *websocket.Conn) {
	reg := &comm.Registrar{}
	reg.Init(New(conn))
	r.lock.Lock()
	r.conns[reg] = struct{}{}
	r.lock.Unlock()
	defer func() {
		r.lock.Lock()
		delete(r.conns, reg)
		r.lock.Unlock()
	}()
	glog.V(2).Infof("websocket peer %s connected", conn.Request().RemoteAddr)
	err := fx.RunWithContextCloser(ctx, conn, func() error {
		return reg.Serve(ctx)
	})
	if err != nil && err != io.EOF && err != context.Canceled {
		glog.Warningf("websocket peer %s: %v", conn.Request().RemoteAddr, err)
	}
}

func (r *Registrar) serveMeta(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Meta{
		Type: r.Info.Ref.Type,
		ID:   r.Info.Ref.ID,
		Meta: r.Info.Meta,
		Path: r.Path,
	})
}
