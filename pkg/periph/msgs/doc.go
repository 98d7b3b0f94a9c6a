// Package msgs provides the peripheral control protocol and all message
// schemas.
package msgs

// The peripheral protocol is communicated between the peripheral
// controller and upstream callers (motion planner, diagnostics, user
// tooling), and uses hardware-agnostic primitives.
//
// Messages are hand-maintained protobuf structs: the wire format is
// plain proto3 encoding, wrapped in a Typed envelope carrying the type
// ID and a command sequence number.
//
// Producer: peripheral controller
// Consumer: upstream callers
