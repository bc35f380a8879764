package service

import (
	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/pkg/api"
)

// ToBill converts a wire request into calculator input.
func ToBill(req *api.CalculateRequest) calculator.Bill {
	bill := calculator.Bill{
		People:   make([]calculator.Person, len(req.People)),
		Dishes:   make([]calculator.Dish, len(req.Dishes)),
		Ratios:   calculator.RatioMatrix(req.Ratios),
		Payments: make([]calculator.Payment, len(req.Payments)),
		Covers:   make([]calculator.Cover, len(req.Covers)),
	}
	for i, p := range req.People {
		bill.People[i] = calculator.Person{ID: p.ID, Name: p.Name}
	}
	for i, d := range req.Dishes {
		bill.Dishes[i] = calculator.Dish{ID: d.ID, Price: d.Price}
	}
	for i, p := range req.Payments {
		bill.Payments[i] = calculator.Payment{PersonID: p.PersonID, Amount: p.Amount}
	}
	for i, c := range req.Covers {
		bill.Covers[i] = calculator.Cover{PersonID: c.PersonID, Amount: c.Amount}
	}
	return bill
}

// FromResult converts a calculator result into the wire response.
// Settlements is never nil so it encodes as an empty list.
func FromResult(result calculator.Result) *api.CalculateResponse {
	resp := &api.CalculateResponse{
		Total:       result.Total,
		People:      make([]api.PersonSummary, len(result.People)),
		Settlements: make([]api.Settlement, len(result.Settlements)),
	}
	for i, p := range result.People {
		resp.People[i] = api.PersonSummary{
			PersonID:    p.PersonID,
			Name:        p.Name,
			Consumption: p.Consumption,
			Covered:     p.Covered,
			FinalCost:   p.FinalCost,
			Paid:        p.Paid,
			Balance:     p.Balance,
		}
	}
	for i, st := range result.Settlements {
		resp.Settlements[i] = api.Settlement{
			DebtorID:     st.DebtorID,
			DebtorName:   st.DebtorName,
			CreditorID:   st.CreditorID,
			CreditorName: st.CreditorName,
			Amount:       st.Amount,
		}
	}
	return resp
}

// Validate checks the structural rules declared on a request's tags.
func Validate(req any) error {
	return validate.Struct(req)
}
