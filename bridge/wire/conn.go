// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/glasspane/glasspane/bridge"
	"github.com/glasspane/glasspane/lib/codec"
)

// envelope is the CBOR message wrapper carried by every frame. The
// payload stays raw so the dispatcher routes without decoding bodies.
type envelope struct {
	Channel string           `json:"channel"`
	Payload codec.RawMessage `json:"payload"`
}

// DefaultCompressionThreshold is the payload size at which frames are
// compressed. Below it, compression overhead exceeds the savings for
// typical CBOR request payloads.
const DefaultCompressionThreshold = 1024

// Compile-time interface check.
var _ bridge.Bridge = (*Conn)(nil)

// Conn implements the bridge over a single byte-stream connection
// (TCP, Unix socket, or anything else that satisfies net.Conn).
//
// Sends are serialized by an internal mutex and safe for concurrent
// use. Inbound frames are dispatched from one reader goroutine, in
// arrival order, satisfying the bridge's ordering contract.
type Conn struct {
	conn      net.Conn
	mux       *bridge.Mux
	logger    *slog.Logger
	tag       CompressionTag
	threshold int

	writeMu   sync.Mutex
	closeOnce sync.Once
	closing   atomic.Bool
	done      chan struct{}

	errMu   sync.Mutex
	readErr error
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the logger for connection lifecycle and per-frame
// debug events. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) { c.logger = logger }
}

// WithCompression selects the compression tag applied to payloads at
// or above the threshold. The default is CompressionZstd at
// DefaultCompressionThreshold. CompressionNone disables compression
// regardless of size.
func WithCompression(tag CompressionTag, threshold int) Option {
	return func(c *Conn) {
		c.tag = tag
		c.threshold = threshold
	}
}

// New wraps conn in a bridge. The reader goroutine starts
// immediately; register handlers before the remote side is expected
// to talk, or early messages are dropped by the mux.
func New(conn net.Conn, options ...Option) *Conn {
	c := &Conn{
		conn:      conn,
		logger:    slog.Default(),
		tag:       CompressionZstd,
		threshold: DefaultCompressionThreshold,
		done:      make(chan struct{}),
	}
	for _, option := range options {
		option(c)
	}
	c.mux = bridge.NewMux(c.logger)
	go c.readLoop()
	return c
}

// Send implements bridge.Bridge.
func (c *Conn) Send(channel string, payload any) error {
	body, err := codec.Marshal(payload)
	if err != nil {
		return fmt.Errorf("wire: encode payload for %s: %w", channel, err)
	}
	data, err := codec.Marshal(envelope{Channel: channel, Payload: body})
	if err != nil {
		return fmt.Errorf("wire: encode envelope for %s: %w", channel, err)
	}

	tag := CompressionNone
	if c.tag != CompressionNone && len(data) >= c.threshold {
		tag = c.tag
	}
	onWire, actualTag, err := compress(data, tag)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	select {
	case <-c.done:
		return bridge.ErrClosed
	default:
	}
	return writeFrame(c.conn, frame{
		tag:              actualTag,
		uncompressedSize: len(data),
		payload:          onWire,
	})
}

// Handle implements bridge.Bridge.
func (c *Conn) Handle(channel string, handler bridge.Handler) (remove func()) {
	return c.mux.Handle(channel, handler)
}

// Done returns a channel closed when the reader loop has exited —
// either because Close was called or because the stream failed.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that terminated the reader loop, if any.
// Returns nil before termination and after a clean Close.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.readErr
}

// Close shuts down the connection. Safe to call multiple times.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		err = c.conn.Close()
	})
	<-c.done
	return err
}

// readLoop reads frames until the stream ends or a frame fails
// validation. A bad frame has no resynchronization point, so any
// error is terminal.
func (c *Conn) readLoop() {
	defer close(c.done)
	for {
		f, err := readFrame(c.conn)
		if err != nil {
			if !c.closing.Load() && !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				c.errMu.Lock()
				c.readErr = err
				c.errMu.Unlock()
				c.logger.Error("wire: read loop terminated", "error", err)
				c.closeOnce.Do(func() { c.conn.Close() })
			}
			return
		}

		data, err := decompress(f.payload, f.tag, f.uncompressedSize)
		if err != nil {
			c.errMu.Lock()
			c.readErr = err
			c.errMu.Unlock()
			c.logger.Error("wire: bad frame payload", "error", err)
			c.closeOnce.Do(func() { c.conn.Close() })
			return
		}

		var message envelope
		if err := codec.Unmarshal(data, &message); err != nil {
			c.logger.Warn("wire: undecodable envelope dropped", "error", err)
			continue
		}
		c.logger.Debug("wire: frame received",
			"channel", message.Channel,
			"compression", f.tag.String(),
			"bytes", len(f.payload),
		)
		c.mux.Dispatch(message.Channel, message.Payload)
	}
}
