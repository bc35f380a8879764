package calculator

import "math"

// Payment is money a person actually put into the shared pool.
type Payment struct {
	PersonID string
	Amount   float64
}

// Balance is a person's net position. Positive = owed money, negative = owes money.
type Balance struct {
	ID     string
	Amount float64
}

// paymentMap sums payments per known person, clamping negative amounts to zero.
func paymentMap(people []string, payments []Payment) map[string]float64 {
	paid := make(map[string]float64, len(people))
	for _, id := range people {
		paid[id] = 0
	}
	for _, p := range payments {
		if _, ok := paid[p.PersonID]; !ok {
			continue
		}
		paid[p.PersonID] += math.Max(p.Amount, 0)
	}
	return paid
}

// CalculateBalances nets what each person paid against their final cost.
// Balances with an absolute value at or below threshold are dropped so that
// rounding noise never turns into a settlement. Output follows people order.
func CalculateBalances(people []string, finalCost map[string]float64, payments []Payment, threshold float64) []Balance {
	paid := paymentMap(people, payments)

	var balances []Balance
	for _, id := range people {
		net := paid[id] - finalCost[id]
		if math.Abs(net) > threshold {
			balances = append(balances, Balance{ID: id, Amount: net})
		}
	}
	return balances
}
