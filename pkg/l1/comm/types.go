package comm

import "fmt"

// MaxPacketSize bounds an encoded message on every transport. A full
// ConsoleStatus with 99 trains is a few kilobytes.
const MaxPacketSize = 64 * 1024

// PacketSizeError rejects a packet larger than MaxPacketSize.
type PacketSizeError struct {
	Size int
}

// Error implements error.
func (e *PacketSizeError) Error() string {
	return fmt.Sprintf("packet size %d exceeds %d", e.Size, MaxPacketSize)
}

// CheckPacketSize returns a PacketSizeError for oversized packets.
func CheckPacketSize(pkt []byte) error {
	if len(pkt) > MaxPacketSize {
		return &PacketSizeError{Size: len(pkt)}
	}
	return nil
}

// PacketReader reads encoded msgs.Typed packets.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes encoded msgs.Typed packets. It may be called
// from the loop and from reply paths concurrently, Pipe serializes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter is the transport under a Pipe.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}
