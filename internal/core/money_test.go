package core

import (
	"encoding/json"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.34", 1234, false},
		{"12,34", 1234, false},
		{"12", 1200, false},
		{"0.01", 1, false},
		{"12.345", 1234, false},
		{"12.346", 1235, false},
		{"", 0, true},
		{"0", 0, true},
		{"-5", 0, true},
		{"+5", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	out, err := json.Marshal(Money{Cents: 2500})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "25" {
		t.Fatalf("marshal = %s, want 25", out)
	}

	out, _ = json.Marshal(Money{Cents: 2550})
	if string(out) != "25.5" {
		t.Fatalf("marshal = %s, want 25.5", out)
	}

	var m Money
	if err := json.Unmarshal([]byte("85.25"), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Cents != 8525 {
		t.Fatalf("cents = %d, want 8525", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"12.34"`), &m); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if m.Cents != 1234 {
		t.Fatalf("cents = %d, want 1234", m.Cents)
	}

	if err := json.Unmarshal([]byte("not-a-number"), &m); err == nil {
		t.Fatalf("expected error for garbage input")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, 8, 29)
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2025-08-29"` {
		t.Fatalf("marshal = %s", out)
	}

	var parsed Date
	if err := json.Unmarshal([]byte(`"2025-08-29"`), &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !parsed.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", parsed, d)
	}

	if err := json.Unmarshal([]byte(`"2025-08-29T10:30:00Z"`), &parsed); err != nil {
		t.Fatalf("unmarshal RFC3339: %v", err)
	}
	if parsed.IsZero() {
		t.Fatalf("RFC3339 input must parse")
	}

	if err := json.Unmarshal([]byte(`""`), &parsed); err != nil {
		t.Fatalf("empty date: %v", err)
	}
	if !parsed.IsZero() {
		t.Fatalf("empty input must leave date zero")
	}

	if err := json.Unmarshal([]byte(`"29/08/2025"`), &parsed); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}
