// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package bridge

import (
	"errors"
	"sync"
	"time"

	"github.com/glasspane/glasspane/lib/codec"
)

// ErrClosed is returned by Send after the endpoint (or its peer) has
// been closed.
var ErrClosed = errors.New("bridge: endpoint closed")

// memoryQueueCapacity bounds the per-endpoint delivery queue. A full
// queue blocks the sender briefly rather than dropping messages —
// ordered at-least-once delivery is part of the bridge contract.
const memoryQueueCapacity = 256

// Compile-time interface check.
var _ Bridge = (*MemoryEndpoint)(nil)

// Pair is a pair of in-process endpoints connected back to back:
// whatever one side sends, the other side's handlers receive. Panel
// and Agent are symmetric; the names only document intended use.
type Pair struct {
	Panel *MemoryEndpoint
	Agent *MemoryEndpoint

	pending        int
	mu             sync.Mutex
	pendingDrained *sync.Cond
}

// NewPair creates a connected endpoint pair. Each endpoint dispatches
// inbound messages on its own goroutine, in send order, so a handler
// that sends a reply never re-enters the sender's call stack.
func NewPair() *Pair {
	pair := &Pair{}
	pair.pendingDrained = sync.NewCond(&pair.mu)
	pair.Panel = newMemoryEndpoint(pair)
	pair.Agent = newMemoryEndpoint(pair)
	pair.Panel.peer = pair.Agent
	pair.Agent.peer = pair.Panel
	return pair
}

// Settle blocks until every sent message has been dispatched and its
// handlers have returned, including messages those handlers sent in
// turn. Returns false if the timeout elapses first. Tests call Settle
// after a stimulus to observe the fully propagated state.
func (p *Pair) Settle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)

	// Wake the waiter periodically so the timeout is honored even
	// when no message traffic triggers a broadcast.
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-ticker.C:
				p.mu.Lock()
				p.pendingDrained.Broadcast()
				p.mu.Unlock()
			case <-done:
				return
			}
		}
	}()

	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending > 0 {
		if time.Now().After(deadline) {
			return false
		}
		p.pendingDrained.Wait()
	}
	return true
}

// Close shuts down both endpoints. Messages not yet dispatched are
// discarded; Send on either side returns ErrClosed afterwards.
func (p *Pair) Close() {
	p.Panel.close()
	p.Agent.close()
}

func (p *Pair) messageQueued() {
	p.mu.Lock()
	p.pending++
	p.mu.Unlock()
}

func (p *Pair) messageHandled() {
	p.mu.Lock()
	p.pending--
	if p.pending == 0 {
		p.pendingDrained.Broadcast()
	}
	p.mu.Unlock()
}

// delivery is one queued inbound message.
type delivery struct {
	channel string
	payload codec.RawMessage
}

// MemoryEndpoint is one side of an in-process bridge pair.
type MemoryEndpoint struct {
	pair *Pair
	peer *MemoryEndpoint
	mux  *Mux

	closeOnce sync.Once
	queue     chan delivery
	stop      chan struct{}
	done      chan struct{}
}

func newMemoryEndpoint(pair *Pair) *MemoryEndpoint {
	endpoint := &MemoryEndpoint{
		pair:  pair,
		mux:   NewMux(nil),
		queue: make(chan delivery, memoryQueueCapacity),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go endpoint.dispatchLoop()
	return endpoint
}

// Send encodes payload and queues it for the peer's dispatch loop.
func (e *MemoryEndpoint) Send(channel string, payload any) error {
	data, err := codec.Marshal(payload)
	if err != nil {
		return err
	}

	peer := e.peer
	e.pair.messageQueued()
	select {
	case peer.queue <- delivery{channel: channel, payload: data}:
		return nil
	case <-peer.stop:
		e.pair.messageHandled()
		return ErrClosed
	}
}

// Handle registers a handler for the named channel.
func (e *MemoryEndpoint) Handle(channel string, handler Handler) (remove func()) {
	return e.mux.Handle(channel, handler)
}

// dispatchLoop delivers queued messages to handlers, one at a time,
// preserving send order, until the endpoint is closed.
func (e *MemoryEndpoint) dispatchLoop() {
	defer close(e.done)
	for {
		select {
		case <-e.stop:
			// Discard anything still queued so the Settle counter
			// balances; closed endpoints deliver nothing.
			for {
				select {
				case <-e.queue:
					e.pair.messageHandled()
				default:
					return
				}
			}
		case item := <-e.queue:
			e.mux.Dispatch(item.channel, item.payload)
			e.pair.messageHandled()
		}
	}
}

// close stops the dispatch loop. Messages not yet dispatched are
// discarded; Send to this endpoint returns ErrClosed afterwards.
func (e *MemoryEndpoint) close() {
	e.closeOnce.Do(func() { close(e.stop) })
	<-e.done
}
