// Package calculator splits a shared bill and plans the transfers that settle it.
//
// The calculation is a strict four-stage pipeline:
//
//  1. AllocateConsumption: dish prices are divided among eaters by ratio units.
//  2. DistributeCovers: voluntary cover payments are pooled and cascaded from
//     low to high consumers, then re-attributed to the people who paid them.
//  3. CalculateBalances: final costs are netted against actual payments.
//  4. PlanSettlements: signed balances are matched greedily into transfers.
//
// Every function is pure. Inputs are never mutated, nothing is cached between
// calls and degenerate inputs normalize to zero-valued results instead of errors.
package calculator

// Epsilon is the smallest currency amount treated as non-zero.
const Epsilon = 0.01

// MaxSettlementIterations bounds the settlement loop.
const MaxSettlementIterations = 100

// Person is a participant in the bill. Only ID takes part in the math;
// Name labels settlements.
type Person struct {
	ID   string
	Name string
}

// Bill is everything the pipeline needs for one calculation.
type Bill struct {
	People   []Person
	Dishes   []Dish
	Ratios   RatioMatrix
	Payments []Payment
	Covers   []Cover
}

// PersonSummary is one person's path through the pipeline.
type PersonSummary struct {
	PersonID    string
	Name        string
	Consumption float64 // Raw share of dish prices
	Covered     float64 // Voluntary cover this person paid
	FinalCost   float64 // Cost after cover redistribution, including own cover
	Paid        float64 // Sum of non-negative payments
	Balance     float64 // Paid - FinalCost; positive = owed money
}

// Result is the output of Calculate.
type Result struct {
	Total       float64
	People      []PersonSummary
	Balances    []Balance
	Settlements []Settlement
}

// Calculate runs the whole pipeline over a bill.
func Calculate(bill Bill) Result {
	ids := make([]string, len(bill.People))
	names := make(map[string]string, len(bill.People))
	for i, p := range bill.People {
		ids[i] = p.ID
		names[p.ID] = p.Name
	}

	consumption, total := AllocateConsumption(ids, bill.Dishes, bill.Ratios)
	finalCost := DistributeCovers(ids, consumption, total, bill.Covers)
	balances := CalculateBalances(ids, finalCost, bill.Payments, Epsilon)
	settlements := PlanSettlements(balances, names)

	covered := coverMap(ids, bill.Covers)
	paid := paymentMap(ids, bill.Payments)
	people := make([]PersonSummary, len(bill.People))
	for i, p := range bill.People {
		people[i] = PersonSummary{
			PersonID:    p.ID,
			Name:        p.Name,
			Consumption: consumption[p.ID],
			Covered:     covered[p.ID],
			FinalCost:   finalCost[p.ID],
			Paid:        paid[p.ID],
			Balance:     paid[p.ID] - finalCost[p.ID],
		}
	}

	return Result{
		Total:       total,
		People:      people,
		Balances:    balances,
		Settlements: settlements,
	}
}
