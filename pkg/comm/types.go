// Package comm provides message transport between a peripheral daemon
// and its clients. A daemon registers on a transport and serves
// commands; clients discover daemons, connect and send commands.
package comm

import (
	"context"

	fx "github.com/robotalks/periph.go/pkg/framework"
)

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// DeviceRef identifies a peripheral daemon on a shared transport.
type DeviceRef struct {
	// Type is the device type.
	Type string
	// ID is unique ID of the device.
	ID string
}

// Name retrieves the name from ref.
func (r DeviceRef) Name() string {
	return r.Type + "/" + r.ID
}

// IsValid indicates DeviceRef is valid.
func (r DeviceRef) IsValid() bool {
	return r.Type != "" && r.ID != ""
}

// DeviceMeta is the metadata a daemon announces for discovery.
// SessionID changes on every daemon start, so clients can tell a
// restart from a reconnect.
type DeviceMeta struct {
	Description string            `json:"description,omitempty"`
	SessionID   string            `json:"session_id,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// DeviceInfo provides information of a registered daemon.
type DeviceInfo struct {
	Ref  DeviceRef
	Meta DeviceMeta
}

// EventSender sends events to connected clients.
type EventSender interface {
	SendEvent(context.Context, fx.Message) error
}

// Command represents a received command to be processed.
type Command interface {
	Msg() fx.Message
	Done(fx.Message) error
}

// CommandHandler processes commands received by a Registrar. Each
// command is dispatched on its own goroutine.
type CommandHandler interface {
	HandleCommand(context.Context, Command)
}

// HandleCommandFunc is the func form of CommandHandler.
type HandleCommandFunc func(context.Context, Command)

// HandleCommand implements CommandHandler.
func (f HandleCommandFunc) HandleCommand(ctx context.Context, cmd Command) {
	f(ctx, cmd)
}

// Connector is used by clients to reach a peripheral daemon.
type Connector interface {
	// Discover enumerates registered daemons.
	Discover(context.Context) ([]DeviceInfo, error)
	// Connect connects to the specified daemon.
	Connect(context.Context, DeviceRef) (Conn, error)
}

// Conn is a client connection to a daemon.
type Conn interface {
	// DoCommand executes a command.
	DoCommand(fx.Message) CommandFuture
	// Events delivers events received from the daemon.
	Events() <-chan fx.Message
}

// Result represents result of a command.
type Result struct {
	Msg fx.Message
	Err error
}

// CommandFuture is the future of a sent command.
type CommandFuture interface {
	ResultChan() <-chan Result
}
