// File: models/payment.go
package models

// ---------------------- payment model ----------------------

// Payment is a fee obligation tied to a schedule. UserName and Reason are
// snapshots taken when the payment was created.
type Payment struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	Amount     int64  `json:"amount"`
	Reason     string `json:"reason"`
	Paid       bool   `json:"paid"`
	ScheduleID string `json:"scheduleId"`
	IsGuest    *bool  `json:"isGuest,omitempty"`
}

// Guest reports whether the payment belongs to a guest.
func (p Payment) Guest() bool {
	return p.IsGuest != nil && *p.IsGuest
}

// -------------------- transaction model --------------------

// TransactionType is the direction of a ledger entry.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID              string          `json:"id"`
	Type            TransactionType `json:"type"`
	Amount          int64           `json:"amount"`
	Description     string          `json:"description"`
	PerformedBy     string          `json:"performedBy"`
	PerformedByName string          `json:"performedByName"`
	Date            Date            `json:"date"`
	Category        *string         `json:"category,omitempty"`
}
