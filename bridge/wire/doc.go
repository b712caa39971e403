// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire implements the bridge over a byte stream, for
// inspecting an application in another process or on another machine.
//
// Each message is one frame:
//
//	[1 byte compression tag]
//	[4 bytes compressed payload length, big-endian]
//	[4 bytes uncompressed payload length, big-endian]
//	[8 bytes BLAKE3-256 checksum of the on-wire payload, truncated]
//	[payload]
//
// The payload is a CBOR envelope {channel, payload}. Tree updates for
// wide subtrees dominate bridge traffic and compress well (repeated
// attribute keys), so payloads at or above the compression threshold
// are zstd-compressed; lz4 is available as the fast tag for
// latency-sensitive hosts. The checksum catches corruption from
// misbehaving relays before a bad frame reaches the CBOR decoder.
//
// A frame that fails checksum or length validation poisons the
// stream — there is no resynchronization — so the connection is
// closed and the panel falls back to its reconnect flow.
package wire
