// Package msgs defines custom messages consumed by UI tooling.
package msgs

import (
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/periph.go/pkg/framework"
	"github.com/robotalks/periph.go/pkg/periph/msgs"
)

// MoveResult is an event reporting the outcome of a UI-initiated move.
type MoveResult struct {
	Command string `protobuf:"bytes,1,opt,name=command,proto3" json:"command,omitempty"`
	Ok      bool   `protobuf:"varint,2,opt,name=ok,proto3" json:"ok,omitempty"`
	Detail  string `protobuf:"bytes,3,opt,name=detail,proto3" json:"detail,omitempty"`
}

// NewMessage implements Message.
func (m *MoveResult) NewMessage() fx.Message { return &MoveResult{} }

// TypeID implements SerializableMessage.
func (m *MoveResult) TypeID() uint32 { return MoveResultTypeID }

// Serializable implements SerializableMessage.
func (m *MoveResult) Serializable() proto.Message { return m }

// ProtoMessage implements proto.Message.
func (m *MoveResult) ProtoMessage() {}

// Reset implements proto.Message.
func (m *MoveResult) Reset() { *m = MoveResult{} }

// String implements proto.Message.
func (m *MoveResult) String() string { return proto.CompactTextString(m) }

// GroupUI defines the custom group.
const GroupUI = msgs.GroupCustom

// TypeIDs
const (
	MoveResultTypeID uint32 = GroupUI | msgs.TypeIDKindEvent | 0x0000
)

func init() {
	msgs.Register((*MoveResult)(nil))
}
