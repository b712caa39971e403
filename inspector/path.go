// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

// ResolvePath returns the identifiers of the node's ancestors, root
// first, excluding the node itself. For a root (or an identifier the
// mirror has not seen) the path is empty. The UI expands exactly these
// nodes to make a deep-linked selection visible.
//
// The walk keeps a visited set: a corrupt parent index must produce a
// truncated path, never an unterminated loop.
func (s *TreeStore) ResolvePath(id string) []string {
	if _, known := s.nodes[id]; !known {
		return nil
	}

	visited := map[string]bool{id: true}
	var path []string
	current := id
	for {
		parent, ok := s.parents[current]
		if !ok || visited[parent] {
			break
		}
		visited[parent] = true
		path = append(path, parent)
		current = parent
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
