// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import "errors"

// ErrUnsupportedTarget is returned by TreeStore.Apply when the agent
// declines the root target: the inspected application exposes nothing
// this panel can mirror.
var ErrUnsupportedTarget = errors.New("inspector: target does not support component inspection")
