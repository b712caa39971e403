// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides Glasspane's standard CBOR encoding
// configuration.
//
// Every payload that crosses the inspector bridge — tree requests,
// tree updates, detail data, subscription control — is encoded with
// the modes defined here, so both halves of the bridge serialize
// identically without duplicating configuration. The encoder uses
// Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items.
//
// Payload types carry `json` struct tags only. fxamacker/cbor reads
// `json` tags as fallback when `cbor` tags are absent, so a single
// tag controls field naming and omitempty for the bridge (CBOR) and
// for the CLI's --dump JSON output alike.
//
// For buffer-oriented use:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented use (the wire transport):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
package codec
