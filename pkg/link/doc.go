// Package link provides the firmware link protocol support.
package link

// The link protocol is communicated between peripheral firmware and the
// controller over a peer-to-peer byte stream (e.g. serial port). Packets
// are framed as [seq, code, len, data...] with explicit length. Sequence
// numbers give limited transfer error detection and let replies be
// matched to requests; there is no bit verification (CRC/checksum) for
// simplicity. If needed, parity bits can be enabled on the serial port.
//
// Producer: peripheral firmware
// Consumer: peripheral controller
