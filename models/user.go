// Package models defines the club's domain records.
// File: models/user.go
package models

// ----------------------- user model -----------------------

// Role is the permission tier of a club user.
type Role string

const (
	// RoleAdmin may manage schedules, members, fees and the ledger.
	RoleAdmin Role = "admin"
	// RoleMember is a regular club member. The wire value is "user".
	RoleMember Role = "user"
)

// User represents a registered club member or administrator.
type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone"` // login key, unique across users
	Role             Role   `json:"role"`
	MonthlyFeePaid   bool   `json:"monthlyFeePaid"`
	MonthlyFeeAmount *int64 `json:"monthlyFeeAmount,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Amount returns a pointer to v, for optional amount fields.
func Amount(v int64) *int64 {
	return &v
}
