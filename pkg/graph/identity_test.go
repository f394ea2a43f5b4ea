package graph

import "testing"

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "+15551234567", "+15551234567"},
		{"leading space", "  +15551234567", "+15551234567"},
		{"trailing space", "+15551234567  ", "+15551234567"},
		{"only whitespace", "   ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeID(tt.in); got != tt.want {
				t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEdgeKey_OrderIndependent(t *testing.T) {
	if EdgeKey("222", "111") != EdgeKey("111", "222") {
		t.Error("EdgeKey must not depend on argument order")
	}
	if EdgeKey("111", "222") != "111->222" {
		t.Errorf("Unexpected key format: %s", EdgeKey("111", "222"))
	}
}

func TestEdgeKey_NormalizesEndpoints(t *testing.T) {
	if EdgeKey(" 111 ", "222") != "111->222" {
		t.Errorf("EdgeKey did not normalize: %s", EdgeKey(" 111 ", "222"))
	}
}

func TestEdge_TouchesAndOther(t *testing.T) {
	e := Edge{Source: "111", Target: "222"}

	if !e.Touches("111") || !e.Touches(" 222 ") {
		t.Error("Touches failed for endpoints")
	}
	if e.Touches("333") {
		t.Error("Touches matched a non-endpoint")
	}
	if e.Other("111") != "222" || e.Other("222") != "111" {
		t.Error("Other returned the wrong endpoint")
	}
	if e.Other("333") != "" {
		t.Error("Other on a non-endpoint must be empty")
	}
}
