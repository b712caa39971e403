// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package inspector

import "sort"

// GroupedState shapes a component's inspected state for display:
// entries that pass the match predicate, grouped by section, with each
// section's entries ordered by key. A nil match keeps every entry; nil
// data yields nil.
func GroupedState(data *DetailData, match func(StateEntry) bool) map[string][]StateEntry {
	if data == nil {
		return nil
	}
	grouped := make(map[string][]StateEntry)
	for _, entry := range data.State {
		if match != nil && !match(entry) {
			continue
		}
		grouped[entry.Section] = append(grouped[entry.Section], entry)
	}
	for _, entries := range grouped {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Key < entries[j].Key
		})
	}
	return grouped
}

// Sections lists a grouped view's section names in display order.
func Sections(grouped map[string][]StateEntry) []string {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
