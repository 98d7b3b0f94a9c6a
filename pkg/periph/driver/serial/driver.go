// Package serial implements the peripheral driver over the firmware
// link on a serial port.
package serial

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/golang/glog"
	tarm "github.com/tarm/serial"

	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/link"
	"github.com/robotalks/periph.go/pkg/periph"
)

// Firmware command and event codes. Bit 0 of a reply is the error flag,
// so command codes are even.
const (
	cmdPinWrite    byte = 0x02
	cmdMotorConfig byte = 0x04
	cmdLedPattern  byte = 0x06

	evPinChange byte = 0x82
)

// Config selects the serial port.
type Config struct {
	Port string
	Baud int
}

// DefaultBaud is used when Config.Baud is unset.
const DefaultBaud = 115200

// DefaultReplyTimeout bounds the wait for a firmware reply.
const DefaultReplyTimeout = time.Second

// Driver implements periph.Driver over the firmware link.
type Driver struct {
	ReplyTimeout time.Duration

	client *link.Client
	closer io.Closer
	events chan periph.PinEvent
}

// Open opens the serial port and creates the Driver.
func Open(cfg Config) (*Driver, error) {
	baud := cfg.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	port, err := tarm.OpenPort(&tarm.Config{Name: cfg.Port, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", cfg.Port, err)
	}
	return NewDriver(port, port), nil
}

// NewDriver creates a Driver over an arbitrary byte stream. closer is
// used to unblock the read loop on shutdown.
func NewDriver(rw io.ReadWriter, closer io.Closer) *Driver {
	return &Driver{
		ReplyTimeout: DefaultReplyTimeout,
		client:       link.NewClient(link.NewLink(rw)),
		closer:       closer,
		events:       make(chan periph.PinEvent, 16),
	}
}

// ApplyPinWrite implements Driver.
func (d *Driver) ApplyPinWrite(ctx context.Context, addr uint8, level periph.Level) error {
	return d.do(ctx, cmdPinWrite, []byte{addr, byte(level)})
}

// ApplyMotorConfig implements Driver.
func (d *Driver) ApplyMotorConfig(ctx context.Context, addr uint8, regs map[uint8]float64) error {
	order := make([]int, 0, len(regs))
	for reg := range regs {
		order = append(order, int(reg))
	}
	sort.Ints(order)
	data := make([]byte, 2, 2+5*len(order))
	data[0], data[1] = addr, byte(len(order))
	for _, reg := range order {
		data = append(data, byte(reg), 0, 0, 0, 0)
		binary.LittleEndian.PutUint32(data[len(data)-4:],
			math.Float32bits(float32(regs[uint8(reg)])))
	}
	return d.do(ctx, cmdMotorConfig, data)
}

// ApplyLedPattern implements Driver.
func (d *Driver) ApplyLedPattern(ctx context.Context, addr uint8, kind periph.PatternKind, period time.Duration) error {
	data := make([]byte, 6)
	data[0], data[1] = addr, byte(kind)
	binary.LittleEndian.PutUint32(data[2:], uint32(period/time.Millisecond))
	return d.do(ctx, cmdLedPattern, data)
}

// Events implements EventSource.
func (d *Driver) Events() <-chan periph.PinEvent {
	return d.events
}

// Name implements Named.
func (d *Driver) Name() string {
	return "serial-driver"
}

// Run reads the firmware link, translating pin change events. It returns
// when ctx is done or the port fails. The events channel is closed only
// after the translator stopped, so a pin event in flight during shutdown
// never races the close.
func (d *Driver) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.translateEvents(ctx)
	}()
	err := fx.RunWithContextCloser(ctx, d.closer, func() error {
		return d.client.Run(ctx)
	})
	cancel()
	<-done
	close(d.events)
	return err
}

func (d *Driver) translateEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case pkt := <-d.client.EventChan():
			if pkt.Code != evPinChange || len(pkt.Data) < 2 {
				glog.V(2).Infof("ignore firmware event %#x", pkt.Code)
				continue
			}
			ev := periph.PinEvent{Addr: pkt.Data[0], Level: periph.Level(pkt.Data[1])}
			select {
			case d.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (d *Driver) do(ctx context.Context, code byte, data []byte) error {
	cmd := d.client.Do(&link.Packet{Code: code, Data: data})
	timeout := d.ReplyTimeout
	if timeout <= 0 {
		timeout = DefaultReplyTimeout
	}
	select {
	case res := <-cmd.ResultChan():
		return res.Err
	case <-time.After(timeout):
		return fmt.Errorf("firmware reply timeout for command %#x", code)
	case <-ctx.Done():
		return ctx.Err()
	}
}
