package websocket

import (
	"context"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l1"
	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

type testServer struct {
	reg   *Registrar
	urlCh chan string
}

func (s *testServer) Run(ctx context.Context) error {
	srv := httptest.NewServer(s.reg.Handler(ctx))
	s.urlCh <- srv.URL
	<-ctx.Done()
	srv.Close()
	return nil
}

func TestRegistrarRoundTrip(t *testing.T) {
	info := l1.ControllerInfo{
		Ref:  l1.ControllerRef{Type: "trainctl", ID: "t1"},
		Meta: l1.ControllerMeta{Description: "layout"},
	}
	reg := NewRegistrar("", info)
	srv := &testServer{reg: reg, urlCh: make(chan string, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loop := &fx.Loop{Interval: 10 * time.Millisecond}
	loop.AddRunnable(srv)
	loop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			if cmd, ok := mctx.CurrentMessage().(*l1.CommandMsg); ok {
				mctx.MessageTaken()
				if rv, ok := cmd.Command.Msg().(*msgs.TrainReverse); ok && rv.Train == 24 {
					cmd.Command.Done(msgs.NewCommandOK())
					reg.SendEvent(cc.Context(), &msgs.SensorTriggered{Hit: &msgs.SensorHit{Group: "A", Sensor: 1}})
					return
				}
				cmd.Command.Done(msgs.NewCommandErrFromMsg("unknown train"))
			}
		}))
		return nil
	}))
	go loop.Run(ctx)

	var serverURL string
	select {
	case serverURL = <-srv.urlCh:
	case <-time.After(time.Second):
		t.Fatal("server not started")
	}

	connector, err := NewConnector("ws://" + strings.TrimPrefix(serverURL, "http://"))
	require.NoError(t, err)
	infos, err := connector.Discover(ctx)
	require.NoError(t, err)
	require.Equal(t, []l1.ControllerInfo{info}, infos)

	_, err = connector.Connect(ctx, l1.ControllerRef{Type: "trainctl", ID: "other"})
	require.Error(t, err)

	conn, err := connector.Connect(ctx, info.Ref)
	require.NoError(t, err)
	events := make(chan fx.Message, 4)
	client := &fx.Loop{Interval: 10 * time.Millisecond}
	client.Add(conn.(fx.LoopAdder))
	client.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
			mctx.MessageTaken()
			events <- mctx.CurrentMessage()
		}))
		return nil
	}))
	go client.Run(ctx)

	result := func(msg fx.Message) l1.Result {
		select {
		case res := <-conn.DoCommand(msg).ResultChan():
			return res
		case <-time.After(2 * time.Second):
			t.Fatal("command timeout")
		}
		return l1.Result{}
	}

	res := result(&msgs.TrainReverse{Train: 24})
	require.NoError(t, res.Err)
	require.IsType(t, &msgs.CommandOK{}, res.Msg)

	select {
	case ev := <-events:
		require.Equal(t, &msgs.SensorTriggered{Hit: &msgs.SensorHit{Group: "A", Sensor: 1}}, ev)
	case <-time.After(2 * time.Second):
		t.Fatal("event not received")
	}
	require.Equal(t, 1, reg.Connections())

	res = result(&msgs.TrainReverse{Train: 3})
	require.EqualError(t, res.Err, "unknown train")
}

func TestNewConnectorRejectsURL(t *testing.T) {
	_, err := NewConnector("mqtt://localhost:1883")
	require.Error(t, err)
	_, err = NewConnector("ws://")
	require.Error(t, err)
}

func TestRegistrarAddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	reg := NewRegistrar(ln.Addr().String(), l1.ControllerInfo{Ref: l1.ControllerRef{Type: "trainctl", ID: "t1"}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("registrar stopped early: %v", err)
	case <-time.After(50 * time.Millisecond):
	}
	cancel()
	select {
	case err := <-done:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("registrar not stopped")
	}
}
