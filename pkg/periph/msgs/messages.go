package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph"
)

// TypeID Groups
const (
	GroupCommand   uint32 = 0x00000000
	GroupDigitalIO uint32 = 0x00030000
	GroupMotor     uint32 = 0x00040000
	GroupLed       uint32 = 0x00050000
	GroupStatus    uint32 = 0x00060000
	GroupCustom    uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	CommandOKTypeID         uint32 = GroupCommand | TypeIDMaskReply | 0x0000
	CommandErrTypeID        uint32 = GroupCommand | TypeIDMaskReply | 0x0001
	GetDigitalIOTypeID      uint32 = GroupDigitalIO | 0x0000
	DigitalIOPinStateTypeID uint32 = GetDigitalIOTypeID | TypeIDMaskReply
	SetDigitalIOTypeID      uint32 = GroupDigitalIO | 0x0001
	ChangeMotorConfigTypeID uint32 = GroupMotor | 0x0000
	LedBlinkerTypeID        uint32 = GroupLed | 0x0000
	DigitalIOStateTypeID    uint32 = TypeIDKindEvent | GroupDigitalIO | 0x0000
	LogStatusTypeID         uint32 = TypeIDKindEvent | GroupStatus | 0x0000
)

// CommandOK is the generic reply indicating success for commands.
type CommandOK struct {
}

// NewCommandOK creates a CommandOK.
func NewCommandOK() *CommandOK {
	return &CommandOK{}
}

// Reset implements proto.Message.
func (m *CommandOK) Reset() { *m = CommandOK{} }

// String implements proto.Message.
func (m *CommandOK) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*CommandOK) ProtoMessage() {}

// NewMessage implements Message.
func (m *CommandOK) NewMessage() fx.Message { return &CommandOK{} }

// TypeID implements SerializableMessage.
func (m *CommandOK) TypeID() uint32 { return CommandOKTypeID }

// Serializable implements SerializableMessage.
func (m *CommandOK) Serializable() proto.Message { return m }

// CommandErr is the generic message representing a command error. Code
// carries the stable outcome identifier so callers receive an explicit
// discriminated result.
type CommandErr struct {
	Code    string `protobuf:"bytes,1,opt,name=code,proto3" json:"code,omitempty"`
	Message string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
}

// NewCommandErr creates a CommandErr from an error.
func NewCommandErr(err error) *CommandErr {
	return &CommandErr{
		Code:    string(periph.CodeOf(err)),
		Message: err.Error(),
	}
}

// Reset implements proto.Message.
func (m *CommandErr) Reset() { *m = CommandErr{} }

// String implements proto.Message.
func (m *CommandErr) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*CommandErr) ProtoMessage() {}

// NewMessage implements Message.
func (m *CommandErr) NewMessage() fx.Message { return &CommandErr{} }

// TypeID implements SerializableMessage.
func (m *CommandErr) TypeID() uint32 { return CommandErrTypeID }

// Serializable implements SerializableMessage.
func (m *CommandErr) Serializable() proto.Message { return m }

// Error implements error.
func (m *CommandErr) Error() string { return m.Message }

// OutcomeCode extracts the outcome Code.
func (m *CommandErr) OutcomeCode() periph.Code { return periph.Code(m.Code) }

// GetDigitalIO command requests the snapshot of one pin.
type GetDigitalIO struct {
	Pin string `protobuf:"bytes,1,opt,name=pin,proto3" json:"pin,omitempty"`
}

// Reset implements proto.Message.
func (m *GetDigitalIO) Reset() { *m = GetDigitalIO{} }

// String implements proto.Message.
func (m *GetDigitalIO) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*GetDigitalIO) ProtoMessage() {}

// NewMessage implements Message.
func (m *GetDigitalIO) NewMessage() fx.Message { return &GetDigitalIO{} }

// TypeID implements SerializableMessage.
func (m *GetDigitalIO) TypeID() uint32 { return GetDigitalIOTypeID }

// Serializable implements SerializableMessage.
func (m *GetDigitalIO) Serializable() proto.Message { return m }

// DigitalIOPinState is the reply to GetDigitalIO.
type DigitalIOPinState struct {
	Pin        string `protobuf:"bytes,1,opt,name=pin,proto3" json:"pin,omitempty"`
	Mode       string `protobuf:"bytes,2,opt,name=mode,proto3" json:"mode,omitempty"`
	High       bool   `protobuf:"varint,3,opt,name=high,proto3" json:"high,omitempty"`
	ModifiedMs int64  `protobuf:"varint,4,opt,name=modified_ms,json=modifiedMs,proto3" json:"modified_ms,omitempty"`
}

// NewDigitalIOPinState creates the reply from a registry snapshot.
func NewDigitalIOPinState(state periph.PinState) *DigitalIOPinState {
	return &DigitalIOPinState{
		Pin:        state.ID,
		Mode:       state.Mode.String(),
		High:       state.Level == periph.High,
		ModifiedMs: state.ModifiedAt.UnixNano() / int64(time.Millisecond),
	}
}

// Reset implements proto.Message.
func (m *DigitalIOPinState) Reset() { *m = DigitalIOPinState{} }

// String implements proto.Message.
func (m *DigitalIOPinState) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*DigitalIOPinState) ProtoMessage() {}

// NewMessage implements Message.
func (m *DigitalIOPinState) NewMessage() fx.Message { return &DigitalIOPinState{} }

// TypeID implements SerializableMessage.
func (m *DigitalIOPinState) TypeID() uint32 { return DigitalIOPinStateTypeID }

// Serializable implements SerializableMessage.
func (m *DigitalIOPinState) Serializable() proto.Message { return m }

// SetDigitalIO command drives an output pin to a level.
type SetDigitalIO struct {
	Pin  string `protobuf:"bytes,1,opt,name=pin,proto3" json:"pin,omitempty"`
	High bool   `protobuf:"varint,2,opt,name=high,proto3" json:"high,omitempty"`
}

// Level converts the wire form to a Level.
func (m *SetDigitalIO) Level() periph.Level {
	if m.High {
		return periph.High
	}
	return periph.Low
}

// Reset implements proto.Message.
func (m *SetDigitalIO) Reset() { *m = SetDigitalIO{} }

// String implements proto.Message.
func (m *SetDigitalIO) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*SetDigitalIO) ProtoMessage() {}

// NewMessage implements Message.
func (m *SetDigitalIO) NewMessage() fx.Message { return &SetDigitalIO{} }

// TypeID implements SerializableMessage.
func (m *SetDigitalIO) TypeID() uint32 { return SetDigitalIOTypeID }

// Serializable implements SerializableMessage.
func (m *SetDigitalIO) Serializable() proto.Message { return m }

// ChangeMotorConfig command writes configuration parameter values.
type ChangeMotorConfig struct {
	Motor  string             `protobuf:"bytes,1,opt,name=motor,proto3" json:"motor,omitempty"`
	Params map[string]float64 `protobuf:"bytes,2,rep,name=params,proto3" json:"params,omitempty" protobuf_key:"bytes,1,opt,name=key,proto3" protobuf_val:"fixed64,2,opt,name=value,proto3"`
}

// Reset implements proto.Message.
func (m *ChangeMotorConfig) Reset() { *m = ChangeMotorConfig{} }

// String implements proto.Message.
func (m *ChangeMotorConfig) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*ChangeMotorConfig) ProtoMessage() {}

// NewMessage implements Message.
func (m *ChangeMotorConfig) NewMessage() fx.Message { return &ChangeMotorConfig{} }

// TypeID implements SerializableMessage.
func (m *ChangeMotorConfig) TypeID() uint32 { return ChangeMotorConfigTypeID }

// Serializable implements SerializableMessage.
func (m *ChangeMotorConfig) Serializable() proto.Message { return m }

// LedBlinker command replaces the pattern running on an LED.
type LedBlinker struct {
	Led      string `protobuf:"bytes,1,opt,name=led,proto3" json:"led,omitempty"`
	Kind     string `protobuf:"bytes,2,opt,name=kind,proto3" json:"kind,omitempty"`
	PeriodMs int64  `protobuf:"varint,3,opt,name=period_ms,json=periodMs,proto3" json:"period_ms,omitempty"`
}

// Period converts the wire form to a Duration.
func (m *LedBlinker) Period() time.Duration {
	return time.Duration(m.PeriodMs) * time.Millisecond
}

// Reset implements proto.Message.
func (m *LedBlinker) Reset() { *m = LedBlinker{} }

// String implements proto.Message.
func (m *LedBlinker) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*LedBlinker) ProtoMessage() {}

// NewMessage implements Message.
func (m *LedBlinker) NewMessage() fx.Message { return &LedBlinker{} }

// TypeID implements SerializableMessage.
func (m *LedBlinker) TypeID() uint32 { return LedBlinkerTypeID }

// Serializable implements SerializableMessage.
func (m *LedBlinker) Serializable() proto.Message { return m }

// DigitalIOState event carries the snapshot of all pins.
type DigitalIOState struct {
	Pins []*DigitalIOPinState `protobuf:"bytes,1,rep,name=pins,proto3" json:"pins,omitempty"`
}

// NewDigitalIOState creates the event from registry snapshots.
func NewDigitalIOState(states []periph.PinState) *DigitalIOState {
	msg := &DigitalIOState{Pins: make([]*DigitalIOPinState, len(states))}
	for i, state := range states {
		msg.Pins[i] = NewDigitalIOPinState(state)
	}
	return msg
}

// Reset implements proto.Message.
func (m *DigitalIOState) Reset() { *m = DigitalIOState{} }

// String implements proto.Message.
func (m *DigitalIOState) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*DigitalIOState) ProtoMessage() {}

// NewMessage implements Message.
func (m *DigitalIOState) NewMessage() fx.Message { return &DigitalIOState{} }

// TypeID implements SerializableMessage.
func (m *DigitalIOState) TypeID() uint32 { return DigitalIOStateTypeID }

// Serializable implements SerializableMessage.
func (m *DigitalIOState) Serializable() proto.Message { return m }

// LogStatus event is an immutable status record.
type LogStatus struct {
	Severity string `protobuf:"bytes,1,opt,name=severity,proto3" json:"severity,omitempty"`
	Message  string `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	TimeMs   int64  `protobuf:"varint,3,opt,name=time_ms,json=timeMs,proto3" json:"time_ms,omitempty"`
}

// NewLogStatus creates the event from a status record.
func NewLogStatus(status periph.LogStatus) *LogStatus {
	return &LogStatus{
		Severity: status.Severity.String(),
		Message:  status.Message,
		TimeMs:   status.Time.UnixNano() / int64(time.Millisecond),
	}
}

// Reset implements proto.Message.
func (m *LogStatus) Reset() { *m = LogStatus{} }

// String implements proto.Message.
func (m *LogStatus) String() string { return proto.CompactTextString(m) }

// ProtoMessage implements proto.Message.
func (*LogStatus) ProtoMessage() {}

// NewMessage implements Message.
func (m *LogStatus) NewMessage() fx.Message { return &LogStatus{} }

// TypeID implements SerializableMessage.
func (m *LogStatus) TypeID() uint32 { return LogStatusTypeID }

// Serializable implements SerializableMessage.
func (m *LogStatus) Serializable() proto.Message { return m }

func init() {
	Register(
		(*CommandOK)(nil),
		(*CommandErr)(nil),
		(*GetDigitalIO)(nil),
		(*DigitalIOPinState)(nil),
		(*SetDigitalIO)(nil),
		(*ChangeMotorConfig)(nil),
		(*LedBlinker)(nil),
		(*DigitalIOState)(nil),
		(*LogStatus)(nil),
	)
}
