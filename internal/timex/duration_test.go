package timex

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"2s"`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != 2*time.Second {
		t.Fatalf("expected 2s, got %v", d.Duration)
	}
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`1500000000`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Duration != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", d.Duration)
	}
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	if err := json.Unmarshal([]byte(`"not-a-duration"`), &d); err == nil {
		t.Fatalf("expected error for invalid duration string")
	}
	if err := json.Unmarshal([]byte(`true`), &d); err == nil {
		t.Fatalf("expected error for non string/number value")
	}
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	d := Duration{Duration: 2 * time.Second}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var back Duration
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Duration != d.Duration {
		t.Fatalf("round trip mismatch: %v != %v", back.Duration, d.Duration)
	}
}
