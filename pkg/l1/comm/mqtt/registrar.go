package mqtt

import (
	"context"
	"encoding/json"

	"github.com/golang/glog"

	fx "github.com/robotalks/trainctl/pkg/framework"
	"github.com/robotalks/trainctl/pkg/l1"
	"github.com/robotalks/trainctl/pkg/l1/comm"
	"github.com/robotalks/trainctl/pkg/l1/msgs"
)

// Topic suffixes under the controller name.
const (
	MetaTopic   = "meta"
	StatusTopic = "status"
)

// Registrar implements l1.Registrar using MQTT.
// Besides the message stream, the latest ConsoleStatus is retained
// as JSON on the status topic for dashboards.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	metaJSON  []byte
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info l1.ControllerInfo) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	qos, err := QoSFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+topicOf(info.Ref, MetaTopic), nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("trainctl:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: meta,
	}
	r.Queue.QoS = qos
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForController(info.Ref))
	return r, nil
}

func topicOf(ref l1.ControllerRef, suffix string) string {
	return ref.Name() + "/" + suffix
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	if status, ok := msg.(*msgs.ConsoleStatus); ok {
		r.publishStatus(status)
	}
	return r.registrar.SendEvent(ctx, msg)
}

func (r *Registrar) publishStatus(status *msgs.ConsoleStatus) {
	payload, err := json.Marshal(status)
	if err != nil {
		glog.Warningf("encode status error: %v", err)
		return
	}
	// not waiting on the token keeps the caller off the network.
	r.Queue.PubWith(topicOf(r.Info.Ref, StatusTopic), payload, r.Queue.QoS, true)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	<-ctx.Done()
	r.Queue.PubWith(topicOf(r.Info.Ref, MetaTopic), nil, 1, true).Wait()
	r.Queue.PubWith(topicOf(r.Info.Ref, StatusTopic), nil, 1, true).Wait()
	r.Queue.Close()
	return nil
}

func (r *Registrar) onConnected() {
	r.Queue.PubWith(topicOf(r.Info.Ref, MetaTopic), r.metaJSON, 1, true)
}
