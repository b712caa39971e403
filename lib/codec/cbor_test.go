// Copyright 2026 The Glasspane Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

func TestMarshalDeterministic(t *testing.T) {
	t.Parallel()

	value := map[string]any{
		"zebra":  1,
		"apple":  "two",
		"middle": []int{3, 4},
	}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("deterministic encoding produced different bytes:\n%x\n%x", first, second)
	}
}

func TestUnmarshalAnyProducesStringKeyedMaps(t *testing.T) {
	t.Parallel()

	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type: got %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Errorf("nested map type: got %T, want map[string]any", outer["outer"])
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	t.Parallel()

	type wide struct {
		ID    string `json:"id"`
		Extra string `json:"extra"`
	}
	type narrow struct {
		ID string `json:"id"`
	}

	data, err := Marshal(wide{ID: "n1", Extra: "from a newer agent"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got narrow
	if err := Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal with unknown field: %v", err)
	}
	if got.ID != "n1" {
		t.Errorf("ID: got %q, want %q", got.ID, "n1")
	}
}

func TestEncoderDecoderStream(t *testing.T) {
	t.Parallel()

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)

	for _, id := range []string{"1", "1-0", "1-1"} {
		if err := encoder.Encode(map[string]string{"id": id}); err != nil {
			t.Fatalf("Encode %q: %v", id, err)
		}
	}

	decoder := NewDecoder(&buffer)
	for _, want := range []string{"1", "1-0", "1-1"} {
		var item map[string]string
		if err := decoder.Decode(&item); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if item["id"] != want {
			t.Errorf("decoded id: got %q, want %q", item["id"], want)
		}
	}
}
