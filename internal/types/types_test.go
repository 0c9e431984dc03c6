package types_test

import (
	"encoding/json"
	"testing"

	"github.com/lithofield/geodescribe/internal/types"
)

// TestFlexListSingleOrArray tests both accepted input shapes
func TestFlexListSingleOrArray(t *testing.T) {
	var single types.FlexList[string]
	if err := json.Unmarshal([]byte(`"Quartz"`), &single); err != nil {
		t.Fatalf("Unmarshal single failed: %v", err)
	}
	if got := single.Slice(); len(got) != 1 || got[0] != "Quartz" {
		t.Errorf("Expected [Quartz], got %v", got)
	}

	var many types.FlexList[string]
	if err := json.Unmarshal([]byte(`["Quartz","Calcite"]`), &many); err != nil {
		t.Fatalf("Unmarshal array failed: %v", err)
	}
	if got := many.Slice(); len(got) != 2 || got[1] != "Calcite" {
		t.Errorf("Expected [Quartz Calcite], got %v", got)
	}
}

// TestStringSetOrderAndDedup tests insertion order with duplicate adds
func TestStringSetOrderAndDedup(t *testing.T) {
	s := types.NewStringSet("Pyrite", "Galena", "Pyrite")
	s.Add("Sphalerite")
	s.Add("Galena")

	got := s.Values()
	want := []string{"Pyrite", "Galena", "Sphalerite"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected %v, got %v", want, got)
		}
	}

	s.Remove("Galena")
	if s.Contains("Galena") || s.Len() != 2 {
		t.Errorf("Remove failed: %v", s.Values())
	}
}

// TestStringSetJSON tests array marshalling and string-or-array unmarshalling
func TestStringSetJSON(t *testing.T) {
	s := types.NewStringSet("Pyrite", "Galena")
	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != `["Pyrite","Galena"]` {
		t.Errorf("Unexpected JSON: %s", out)
	}

	var back types.StringSet
	if err := json.Unmarshal([]byte(`"Bornite"`), &back); err != nil {
		t.Fatalf("Unmarshal single failed: %v", err)
	}
	if !back.Contains("Bornite") {
		t.Errorf("Single-value unmarshal lost the value: %v", back.Values())
	}
}
