package mqtt

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/robotalks/periph.go/pkg/comm"
	fx "github.com/robotalks/periph.go/pkg/framework"
)

// Registrar registers a daemon over MQTT. The metadata is published
// retained on TYPE/ID/meta with a fresh session ID, and cleared by the
// broker will when the connection drops.
type Registrar struct {
	Queue *Queue
	Info  comm.DeviceInfo

	metaJSON  string
	registrar comm.Registrar
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info comm.DeviceInfo, handler comm.CommandHandler) (*Registrar, error) {
	info.Meta.SessionID = uuid.New().String()
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		panic(err)
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.Ref.Name()+"/meta", nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("periph:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: string(meta),
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.registrar.Handler = handler
	r.registrar.Init(NewPacketReadWriter(r.Queue).ForDaemon(info.Ref))
	return r, nil
}

// SendEvent implements EventSender.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// Name implements Named.
func (r *Registrar) Name() string {
	return "mqtt-registrar"
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Queue.Connect()
	err := r.registrar.Run(ctx)
	r.Queue.PubWith(r.Info.Ref.Name()+"/meta", nil, 1, true)
	r.Queue.Close()
	return err
}

func (r *Registrar) onConnected() {
	r.Queue.PubWith(r.Info.Ref.Name()+"/meta", []byte(r.metaJSON), 1, true)
}
