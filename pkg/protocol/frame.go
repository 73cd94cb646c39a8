package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// FrameHeaderSize is the size, in bytes, of the length-prefix header.
const FrameHeaderSize = 4

// ReadFrame reads one length-framed payload from r: a 4-byte big-endian
// length followed by that many bytes of UTF-8 JSON. maxSize bounds the
// length field to reject oversized frames before allocating a buffer for
// them (callers pass MaxInboundBytes or MaxOutboundBytes depending on
// which side of the bridge they're reading).
func ReadFrame(r io.Reader, maxSize int) ([]byte, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	length := int(binary.BigEndian.Uint32(header))
	if length > maxSize {
		return nil, fmt.Errorf("%w: framed payload is %d bytes, cap is %d", ErrFrameTooLarge, length, maxSize)
	}
	payload := make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// WriteFrame writes payload to w as a 4-byte big-endian length prefix
// followed by the payload bytes.
func WriteFrame(w io.Writer, payload []byte) error {
	header := make([]byte, FrameHeaderSize)
	binary.BigEndian.PutUint32(header, uint32(len(payload)))
	if _, err := w.Write(header); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}
