package wire

import "encoding/binary"

// HeaderSize is the size of both the length header and the result message.
const HeaderSize = 4

// EncodeU32 returns the big-endian representation of v.
func EncodeU32(v uint32) [HeaderSize]byte {
	var b [HeaderSize]byte
	binary.BigEndian.PutUint32(b[:], v)
	return b
}

// DecodeU32 reads a big-endian uint32.
func DecodeU32(b [HeaderSize]byte) uint32 {
	return binary.BigEndian.Uint32(b[:])
}
