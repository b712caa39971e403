// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package bridge defines the asynchronous message bridge between the
// inspector panel and the inspected application's agent.
//
// The bridge is a named-channel, fire-and-forget messaging surface:
// Send transmits a payload on a channel and returns immediately;
// Handle registers a callback invoked for each inbound payload on a
// channel. Delivery is at-least-once and ordered per channel. There
// is no request/response correlation beyond the target identifiers
// carried inside payloads — the inspector layer guards against stale
// responses by re-checking identifiers at delivery time.
//
// Two implementations ship with Glasspane:
//
//   - [NewPair] links two in-process endpoints through per-endpoint
//     dispatch goroutines. Used by tests and by the --demo mode of
//     the glasspane binary.
//   - bridge/wire frames CBOR envelopes over any net.Conn with
//     compression and checksumming, for inspecting a remote process.
//
// Live streams (the selected node's detail data, a subtree's tree
// data) are managed with [Subscribe], which sends a control message
// and returns a cancel function that sends the matching unsubscribe.
package bridge
