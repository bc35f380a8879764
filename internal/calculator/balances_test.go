package calculator

import (
	"math"
	"testing"
)

func TestCalculateBalances(t *testing.T) {
	tests := []struct {
		name      string
		people    []string
		finalCost map[string]float64
		payments  []Payment
		want      []Balance
	}{
		{
			name:      "balanced payments",
			people:    []string{"p1", "p2"},
			finalCost: map[string]float64{"p1": 50, "p2": 50},
			payments:  []Payment{{PersonID: "p1", Amount: 50}, {PersonID: "p2", Amount: 50}},
			want:      nil,
		},
		{
			name:      "one person pays all",
			people:    []string{"p1", "p2"},
			finalCost: map[string]float64{"p1": 60, "p2": 40},
			payments:  []Payment{{PersonID: "p1", Amount: 100}},
			want:      []Balance{{ID: "p1", Amount: 40}, {ID: "p2", Amount: -40}},
		},
		{
			name:      "rounding noise is filtered",
			people:    []string{"p1", "p2"},
			finalCost: map[string]float64{"p1": 50.005, "p2": 49.995},
			payments:  []Payment{{PersonID: "p1", Amount: 50}, {PersonID: "p2", Amount: 50}},
			want:      nil,
		},
		{
			name:      "negative payment counts as zero",
			people:    []string{"p1", "p2"},
			finalCost: map[string]float64{"p1": 50, "p2": 50},
			payments:  []Payment{{PersonID: "p1", Amount: 100}, {PersonID: "p2", Amount: -20}},
			want:      []Balance{{ID: "p1", Amount: 50}, {ID: "p2", Amount: -50}},
		},
		{
			name:      "unknown payer is ignored",
			people:    []string{"p1", "p2"},
			finalCost: map[string]float64{"p1": 50, "p2": 50},
			payments:  []Payment{{PersonID: "p1", Amount: 100}, {PersonID: "ghost", Amount: 30}},
			want:      []Balance{{ID: "p1", Amount: 50}, {ID: "p2", Amount: -50}},
		},
		{
			name:      "multiple payments are summed",
			people:    []string{"p1", "p2"},
			finalCost: map[string]float64{"p1": 50, "p2": 50},
			payments:  []Payment{{PersonID: "p1", Amount: 30}, {PersonID: "p1", Amount: 70}},
			want:      []Balance{{ID: "p1", Amount: 50}, {ID: "p2", Amount: -50}},
		},
		{
			name:      "three people",
			people:    []string{"p1", "p2", "p3"},
			finalCost: map[string]float64{"p1": 30, "p2": 40, "p3": 30},
			payments:  []Payment{{PersonID: "p1", Amount: 50}, {PersonID: "p2", Amount: 50}},
			want:      []Balance{{ID: "p1", Amount: 20}, {ID: "p2", Amount: 10}, {ID: "p3", Amount: -30}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBalances(tt.people, tt.finalCost, tt.payments, Epsilon)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d balances (%v), want %d", len(got), got, len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].ID != want.ID {
					t.Errorf("balance %d id = %s, want %s", i, got[i].ID, want.ID)
				}
				if math.Abs(got[i].Amount-want.Amount) > 0.01 {
					t.Errorf("balance %d amount = %v, want %v", i, got[i].Amount, want.Amount)
				}
			}
		})
	}
}

func TestCalculateBalances_NothingAtOrBelowThreshold(t *testing.T) {
	people := []string{"a", "b", "c", "d"}
	finalCost := map[string]float64{"a": 10.004, "b": 9.996, "c": 25, "d": 0.02}
	payments := []Payment{{PersonID: "a", Amount: 10}, {PersonID: "b", Amount: 10}, {PersonID: "c", Amount: 25.5}}

	for _, threshold := range []float64{0.01, 0.05, 0.5} {
		for _, b := range CalculateBalances(people, finalCost, payments, threshold) {
			if math.Abs(b.Amount) <= threshold {
				t.Errorf("threshold %v: balance %s = %v should have been filtered", threshold, b.ID, b.Amount)
			}
		}
	}
}
