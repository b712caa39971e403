// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent is the application-side half of the inspector
// protocol. It answers the panel's tree and detail requests from a
// Source, applies depth limits and name filtering during
// serialization, and pushes updates to whichever live streams the
// panel has subscribed.
//
// A host application embeds an Agent next to its component tree and
// calls NotifyTreeChanged / NotifyDetailChanged when state it exposes
// has moved. The glasspane binary's demo mode uses StaticSource, an
// in-memory Source driven the same way.
package agent
