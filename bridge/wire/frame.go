// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
)

// frameHeaderLength is the fixed size of a frame header: 1 byte
// compression tag + 4 bytes compressed length + 4 bytes uncompressed
// length + 8 bytes truncated checksum.
const frameHeaderLength = 17

// maxPayloadLength is the maximum allowed payload size, before or
// after compression. 64 MB is generous for a serialized subtree; a
// larger length field almost certainly means a corrupt or hostile
// stream.
const maxPayloadLength = 64 * 1024 * 1024

// checksumLength is the number of BLAKE3-256 bytes carried per frame.
// 8 bytes is corruption detection, not authentication.
const checksumLength = 8

// frame is one decoded wire frame.
type frame struct {
	tag              CompressionTag
	uncompressedSize int
	payload          []byte // on-wire (possibly compressed) bytes
}

// payloadChecksum returns the truncated BLAKE3 checksum of the
// on-wire payload bytes.
func payloadChecksum(payload []byte) [checksumLength]byte {
	sum := blake3.Sum256(payload)
	var truncated [checksumLength]byte
	copy(truncated[:], sum[:checksumLength])
	return truncated
}

// writeFrame writes one framed payload to w. The payload must already
// be compressed according to tag.
func writeFrame(w io.Writer, f frame) error {
	if len(f.payload) > maxPayloadLength || f.uncompressedSize > maxPayloadLength {
		return fmt.Errorf("wire: payload length %d exceeds maximum %d", len(f.payload), maxPayloadLength)
	}

	var header [frameHeaderLength]byte
	header[0] = byte(f.tag)
	binary.BigEndian.PutUint32(header[1:5], uint32(len(f.payload)))
	binary.BigEndian.PutUint32(header[5:9], uint32(f.uncompressedSize))
	checksum := payloadChecksum(f.payload)
	copy(header[9:17], checksum[:])

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("wire: write frame header: %w", err)
	}
	if len(f.payload) > 0 {
		if _, err := w.Write(f.payload); err != nil {
			return fmt.Errorf("wire: write frame payload: %w", err)
		}
	}
	return nil
}

// readFrame reads one frame from r and verifies its checksum. The
// returned payload is still compressed; the caller decompresses using
// the frame's tag and uncompressed size.
func readFrame(r io.Reader) (frame, error) {
	var header [frameHeaderLength]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return frame{}, err
	}

	tag := CompressionTag(header[0])
	payloadLength := binary.BigEndian.Uint32(header[1:5])
	uncompressedSize := binary.BigEndian.Uint32(header[5:9])
	if payloadLength > maxPayloadLength || uncompressedSize > maxPayloadLength {
		return frame{}, fmt.Errorf("wire: payload length %d exceeds maximum %d", payloadLength, maxPayloadLength)
	}

	payload := make([]byte, payloadLength)
	if payloadLength > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return frame{}, fmt.Errorf("wire: read frame payload: %w", err)
		}
	}

	want := payloadChecksum(payload)
	var got [checksumLength]byte
	copy(got[:], header[9:17])
	if got != want {
		return frame{}, fmt.Errorf("wire: frame checksum mismatch: got %x, want %x", got, want)
	}

	return frame{
		tag:              tag,
		uncompressedSize: int(uncompressedSize),
		payload:          payload,
	}, nil
}
