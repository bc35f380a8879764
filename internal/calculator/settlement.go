package calculator

import (
	"cmp"
	"math"
	"slices"

	"github.com/shopspring/decimal"
)

// Settlement is a single transfer from a debtor to a creditor.
type Settlement struct {
	DebtorID     string
	DebtorName   string
	CreditorID   string
	CreditorName string
	Amount       float64 // Always positive, rounded to cents
}

// PlanSettlements matches debtors with creditors until every balance is
// cleared. Each round the deepest debtor pays the highest creditor
// min(debt, credit), so no creditor is ever overpaid.
//
// The input slice is not modified. Names fall back to IDs when missing.
// Fewer than two balances, or a set with no debtor/creditor pair, yields no
// settlements.
func PlanSettlements(balances []Balance, names map[string]string) []Settlement {
	if len(balances) < 2 {
		return nil
	}

	working := slices.Clone(balances)
	var settlements []Settlement

	for i := 0; len(working) > 1 && i < MaxSettlementIterations; i++ {
		slices.SortStableFunc(working, func(a, b Balance) int {
			return cmp.Compare(a.Amount, b.Amount)
		})

		debtor := &working[0]
		creditor := &working[len(working)-1]
		if debtor.Amount >= -Epsilon || creditor.Amount <= Epsilon {
			break
		}

		transfer := math.Min(-debtor.Amount, creditor.Amount)
		settlements = append(settlements, Settlement{
			DebtorID:     debtor.ID,
			DebtorName:   nameOf(names, debtor.ID),
			CreditorID:   creditor.ID,
			CreditorName: nameOf(names, creditor.ID),
			Amount:       RoundCents(transfer),
		})

		creditor.Amount -= transfer
		debtor.Amount += transfer

		working = slices.DeleteFunc(working, func(b Balance) bool {
			return math.Abs(b.Amount) <= Epsilon
		})
	}

	return settlements
}

// RoundCents rounds an amount to two decimal places, half away from zero.
func RoundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

func nameOf(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
