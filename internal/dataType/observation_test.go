package dataType

import (
	"fmt"
	"testing"
)

func TestObservationLogThreshold(t *testing.T) {
	ol := NewObservationLog(5)

	for i := 0; i < 4; i++ {
		if ol.Append(fmt.Sprintf("n%d", i), "m") {
			t.Fatalf("threshold reported after %d entries", i+1)
		}
	}
	if !ol.Append("n4", "m") {
		t.Fatal("threshold not reported at capacity")
	}
	if ol.Len() != 5 {
		t.Errorf("len = %d, want 5", ol.Len())
	}
}

func TestObservationLogDrain(t *testing.T) {
	ol := NewObservationLog(3)
	ol.Append("A", "1")
	ol.Append("B", "2")
	ol.Append("C", "3")

	got := ol.Drain()
	want := []Observation{{"A", "1"}, {"B", "2"}, {"C", "3"}}
	if len(got) != len(want) {
		t.Fatalf("drained %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if ol.Len() != 0 {
		t.Errorf("len after drain = %d, want 0", ol.Len())
	}
	// The next qualifying delivery starts a fresh count from 1.
	if ol.Append("D", "4") {
		t.Error("threshold reported immediately after drain")
	}
	if ol.Len() != 1 {
		t.Errorf("len = %d, want 1", ol.Len())
	}
}
