// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"fmt"

	"github.com/glasspane/glasspane/lib/codec"
)

// Channel names for the inspector protocol. Channels are directional:
// requests flow panel→agent, updates and data flow agent→panel.
const (
	// ChannelTreeRequest carries TreeRequest payloads (panel→agent).
	ChannelTreeRequest = "component-tree.request"

	// ChannelTreeUpdate carries tree update payloads (agent→panel).
	ChannelTreeUpdate = "component-tree.update"

	// ChannelDetailRequest carries a bare component identifier
	// (panel→agent).
	ChannelDetailRequest = "component-detail.request"

	// ChannelDetailData carries detail data payloads (agent→panel).
	ChannelDetailData = "component-detail.data"

	// ChannelTargetChanged announces that the inspected application's
	// active target changed (agent→panel).
	ChannelTargetChanged = "inspector.target-changed"

	// ChannelReset signals that the agent-side tree was invalidated
	// wholesale and the panel must rebuild its mirror (agent→panel).
	ChannelReset = "inspector.reset"

	// ChannelSubscribe and ChannelUnsubscribe carry SubscribeRequest
	// control payloads (panel→agent).
	ChannelSubscribe   = "inspector.subscribe"
	ChannelUnsubscribe = "inspector.unsubscribe"
)

// Handler receives the raw CBOR payload of one inbound message.
// Handlers run on the bridge's single dispatch goroutine: they must
// not block for long, and they see messages in send order.
type Handler func(payload codec.RawMessage)

// Bridge is the transport surface the inspector layer depends on.
// Implementations guarantee ordered, at-least-once delivery per
// channel. Send never blocks on the remote side.
type Bridge interface {
	// Send encodes payload as CBOR and transmits it on the named
	// channel. Returns an error if encoding fails or the bridge is
	// closed; delivery itself is fire-and-forget.
	Send(channel string, payload any) error

	// Handle registers a handler for inbound messages on the named
	// channel. Multiple handlers per channel are invoked in
	// registration order. The returned function removes the
	// registration.
	Handle(channel string, handler Handler) (remove func())
}

// StreamKind identifies one logical live-update stream.
type StreamKind string

const (
	// StreamDetail is the live detail-data stream for the selected
	// node. Updates arrive on ChannelDetailData.
	StreamDetail StreamKind = "component-detail"

	// StreamSubtree is the live tree-data stream for a given node's
	// subtree. Updates arrive on ChannelTreeUpdate.
	StreamSubtree StreamKind = "component-tree"
)

// SubscribeRequest is the control payload for ChannelSubscribe and
// ChannelUnsubscribe.
type SubscribeRequest struct {
	Kind     StreamKind `json:"kind"`
	TargetID string     `json:"targetId"`
}

// Subscribe establishes a live-update stream for the given target and
// returns a cancel function that tears it down. There is no
// subscription identifier on the wire: a stream is keyed by
// (kind, targetId), and the agent keeps at most one per kind.
func Subscribe(b Bridge, kind StreamKind, targetID string) (cancel func(), err error) {
	request := SubscribeRequest{Kind: kind, TargetID: targetID}
	if err := b.Send(ChannelSubscribe, request); err != nil {
		return nil, fmt.Errorf("bridge: subscribe %s %q: %w", kind, targetID, err)
	}
	return func() {
		// Teardown is best-effort: a closed bridge means the agent
		// is gone and the subscription died with it.
		_ = b.Send(ChannelUnsubscribe, request)
	}, nil
}
