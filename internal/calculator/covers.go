package calculator

import (
	"cmp"
	"slices"
)

// Cover is a voluntary pre-payment toward the bill by one person.
type Cover struct {
	PersonID string
	Amount   float64
}

// coverMap sums the covers of each known person. Unknown people are ignored
// and negative amounts count as zero.
func coverMap(people []string, covers []Cover) map[string]float64 {
	m := make(map[string]float64, len(people))
	for _, id := range people {
		m[id] = 0
	}
	for _, c := range covers {
		if _, ok := m[c.PersonID]; !ok || c.Amount <= 0 {
			continue
		}
		m[c.PersonID] += c.Amount
	}
	return m
}

// DistributeCovers turns raw consumption into each person's final cost.
//
// Covers are pooled and shared equally, except that a person whose
// consumption is smaller than their share only uses up what they consumed:
// people are resolved in ascending order of consumption, and the unused part
// of a share stays in the pool for those still unresolved. Each person's own
// cover is then added back to their cost.
//
// When total covers reach the bill, non-coverers pay nothing and coverers pay
// exactly what they covered, even if that exceeds the bill.
func DistributeCovers(people []string, consumption map[string]float64, total float64, covers []Cover) map[string]float64 {
	finalCost := make(map[string]float64, len(people))
	n := len(people)
	if n == 0 {
		return finalCost
	}

	if total <= 0 {
		for _, id := range people {
			finalCost[id] = 0
		}
		return finalCost
	}

	covered := coverMap(people, covers)
	totalCovered := 0.0
	for _, id := range people {
		totalCovered += covered[id]
	}

	if totalCovered >= total {
		for _, id := range people {
			finalCost[id] = covered[id]
		}
		return finalCost
	}

	coverPerPerson := totalCovered / float64(n)

	// Keys are fixed for the whole pass, so a stable sort yields the same
	// extraction order as a min-priority queue.
	order := slices.Clone(people)
	slices.SortStableFunc(order, func(a, b string) int {
		return cmp.Compare(consumption[a]-coverPerPerson, consumption[b]-coverPerPerson)
	})

	pool := totalCovered
	remaining := n
	for _, id := range order {
		share := pool / float64(remaining)
		costAfter := consumption[id] - share
		if costAfter <= 0 {
			finalCost[id] = 0
			pool -= consumption[id]
		} else {
			finalCost[id] = costAfter
			pool -= share
		}
		remaining--
	}

	for _, id := range people {
		finalCost[id] += covered[id]
	}

	return finalCost
}
