package hashchain

import (
	"math"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	t.Run("key_order_is_stable", func(t *testing.T) {
		a, err := Canonicalize(map[string]any{"b": 2, "a": 1, "c": 3})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := Canonicalize(map[string]any{"c": 3, "a": 1, "b": 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(a) != string(b) {
			t.Errorf("expected identical output, got %s vs %s", a, b)
		}
		if string(a) != `{"a":1,"b":2,"c":3}` {
			t.Errorf("unexpected canonical form: %s", a)
		}
	})

	t.Run("struct_and_map_forms_match", func(t *testing.T) {
		type payload struct {
			MemberID string `json:"member_id"`
			Year     int    `json:"year"`
		}
		fromStruct, err := Canonicalize(payload{MemberID: "m1", Year: 2024})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fromMap, err := Canonicalize(map[string]any{"year": 2024, "member_id": "m1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(fromStruct) != string(fromMap) {
			t.Errorf("expected %s, got %s", fromMap, fromStruct)
		}
	})

	t.Run("numbers_survive_round_trip", func(t *testing.T) {
		out, err := Canonicalize(map[string]any{"big": int64(9007199254740993), "amt": 12.50})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(out) != `{"amt":12.5,"big":9007199254740993}` {
			t.Errorf("unexpected canonical form: %s", out)
		}
	})

	t.Run("rejects_unencodable_payload", func(t *testing.T) {
		if _, err := Canonicalize(map[string]any{"ch": make(chan int)}); err == nil {
			t.Error("expected error for channel value")
		}
		if _, err := Canonicalize(map[string]any{"nan": math.NaN()}); err == nil {
			t.Error("expected error for NaN value")
		}
	})
}

func TestDigest(t *testing.T) {
	payload := []byte(`{"member_id":"m1"}`)

	t.Run("deterministic", func(t *testing.T) {
		d1 := Digest(GenesisDigest, "2024-04-01T10:00:00Z", "member.create", payload)
		d2 := Digest(GenesisDigest, "2024-04-01T10:00:00Z", "member.create", payload)
		if d1 != d2 {
			t.Errorf("expected identical digests, got %s vs %s", d1, d2)
		}
		if len(d1) != 64 {
			t.Errorf("expected 64 hex chars, got %d", len(d1))
		}
	})

	t.Run("sensitive_to_each_input", func(t *testing.T) {
		base := Digest("prev", "2024-04-01T10:00:00Z", "member.create", payload)
		variants := []string{
			Digest("other", "2024-04-01T10:00:00Z", "member.create", payload),
			Digest("prev", "2024-04-01T10:00:01Z", "member.create", payload),
			Digest("prev", "2024-04-01T10:00:00Z", "member.delete", payload),
			Digest("prev", "2024-04-01T10:00:00Z", "member.create", []byte(`{"member_id":"m2"}`)),
		}
		for i, v := range variants {
			if v == base {
				t.Errorf("variant %d should differ from base digest", i)
			}
		}
	})
}
