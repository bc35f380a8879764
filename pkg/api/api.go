// Package api defines the wire types of the billsplit.v1.BillService API.
//
// The same types are accepted as JSON by the RPC endpoints and as JSON or YAML
// by the calculate command. Validation tags only check structure; numeric
// oddities such as negative prices are normalized by the calculator.
package api

import "encoding/json"

// Person is a participant in the bill.
type Person struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name"`
}

// Dish is a priced item on the bill.
type Dish struct {
	ID    string  `json:"id" yaml:"id" validate:"required"`
	Name  string  `json:"name,omitempty" yaml:"name,omitempty"`
	Price float64 `json:"price" yaml:"price"`
}

// Payment is money a person put into the pool.
type Payment struct {
	PersonID string  `json:"person_id" yaml:"person_id" validate:"required"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// Cover is a voluntary pre-payment toward the bill.
type Cover struct {
	PersonID string  `json:"person_id" yaml:"person_id" validate:"required"`
	Amount   float64 `json:"amount" yaml:"amount"`
}

// Settlement is one transfer from a debtor to a creditor.
type Settlement struct {
	DebtorID     string  `json:"debtor_id"`
	DebtorName   string  `json:"debtor_name"`
	CreditorID   string  `json:"creditor_id"`
	CreditorName string  `json:"creditor_name"`
	Amount       float64 `json:"amount"`
}

// PersonSummary breaks down one person's numbers.
type PersonSummary struct {
	PersonID    string  `json:"person_id"`
	Name        string  `json:"name"`
	Consumption float64 `json:"consumption"`
	Covered     float64 `json:"covered"`
	FinalCost   float64 `json:"final_cost"`
	Paid        float64 `json:"paid"`
	Balance     float64 `json:"balance"`
}

// CalculateRequest is a complete bill.
type CalculateRequest struct {
	People   []Person                  `json:"people" yaml:"people" validate:"dive"`
	Dishes   []Dish                    `json:"dishes" yaml:"dishes" validate:"dive"`
	Ratios   map[string]map[string]int `json:"ratios" yaml:"ratios"`
	Payments []Payment                 `json:"payments" yaml:"payments" validate:"dive"`
	Covers   []Cover                   `json:"covers" yaml:"covers" validate:"dive"`
}

// CalculateResponse carries the settlements plus a per-person breakdown.
type CalculateResponse struct {
	Total       float64         `json:"total"`
	People      []PersonSummary `json:"people"`
	Settlements []Settlement    `json:"settlements"`
}

// CreateSessionRequest saves an opaque session document.
type CreateSessionRequest struct {
	Title string          `json:"title,omitempty" validate:"max=200"`
	Data  json.RawMessage `json:"data" validate:"required"`
}

// CreateSessionResponse returns the new session ID and the token needed to
// modify it later.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Title     string `json:"title"`
	EditToken string `json:"edit_token"`
	CreatedAt int64  `json:"created_at"`
}

type GetSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type GetSessionResponse struct {
	SessionID string          `json:"session_id"`
	Title     string          `json:"title"`
	Data      json.RawMessage `json:"data"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
}

type UpdateSessionRequest struct {
	SessionID string          `json:"session_id" validate:"required"`
	Title     string          `json:"title,omitempty" validate:"max=200"`
	Data      json.RawMessage `json:"data" validate:"required"`
}

type UpdateSessionResponse struct {
	SessionID string `json:"session_id"`
	UpdatedAt int64  `json:"updated_at"`
}

type DeleteSessionRequest struct {
	SessionID string `json:"session_id" validate:"required"`
}

type DeleteSessionResponse struct{}
