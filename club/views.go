// File: club/views.go
package club

import "badminton-club/models"

// Derived views are recomputed from a state on demand and never stored.

// ScheduleStatus selects schedules in FilterSchedules.
type ScheduleStatus string

const (
	StatusAll       ScheduleStatus = "all"
	StatusUpcoming  ScheduleStatus = "upcoming"
	StatusCompleted ScheduleStatus = "completed"
	StatusUnpaid    ScheduleStatus = "unpaid"
)

// ParseScheduleStatus maps a query value to a status; unknown values mean all.
func ParseScheduleStatus(s string) ScheduleStatus {
	switch ScheduleStatus(s) {
	case StatusUpcoming, StatusCompleted, StatusUnpaid:
		return ScheduleStatus(s)
	default:
		return StatusAll
	}
}

// UnpaidTotal sums unpaid payments, scoped to userID when it is not empty.
func UnpaidTotal(payments []models.Payment, userID string) int64 {
	return sumPayments(payments, userID, false)
}

// PaidTotal sums paid payments, scoped to userID when it is not empty.
func PaidTotal(payments []models.Payment, userID string) int64 {
	return sumPayments(payments, userID, true)
}

func sumPayments(payments []models.Payment, userID string, paid bool) int64 {
	var total int64
	for _, p := range payments {
		if p.Paid != paid || (userID != "" && p.UserID != userID) {
			continue
		}
		total += p.Amount
	}
	return total
}

// AttendingCount counts the attending votes of a schedule.
func AttendingCount(s models.Schedule) int {
	n := 0
	for _, v := range s.Votes {
		if v.Attending {
			n++
		}
	}
	return n
}

// HasUnpaidForSchedule reports whether an attending per-session member still
// has an unpaid payment for the schedule. Guests are ignored.
func HasUnpaidForSchedule(s models.Schedule, users []models.User, payments []models.Payment) bool {
	for _, v := range s.Votes {
		if !v.Attending || v.Attendee.IsGuest() {
			continue
		}
		u, ok := findUser(users, v.UserID())
		if !ok || u.MonthlyFeePaid {
			continue
		}
		if p, ok := PaymentFor(payments, s.ID, v.UserID()); ok && !p.Paid {
			return true
		}
	}
	return false
}

// FilterSchedules keeps the schedules matching status and, when date is not
// empty, played on exactly that date.
func FilterSchedules(schedules []models.Schedule, users []models.User, payments []models.Payment, status ScheduleStatus, date models.Date) []models.Schedule {
	out := make([]models.Schedule, 0, len(schedules))
	for _, s := range schedules {
		switch status {
		case StatusUpcoming:
			if s.Completed {
				continue
			}
		case StatusCompleted:
			if !s.Completed {
				continue
			}
		case StatusUnpaid:
			if !HasUnpaidForSchedule(s, users, payments) {
				continue
			}
		}
		if date != "" && s.PlayDate != date {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MemberPartition splits non-admin users by how they pay.
type MemberPartition struct {
	MonthlyFee []models.User `json:"monthlyFee"`
	PerSession []models.User `json:"perSession"`
}

// PartitionMembers splits non-admin users into monthly-fee and per-session payers.
func PartitionMembers(users []models.User) MemberPartition {
	p := MemberPartition{MonthlyFee: []models.User{}, PerSession: []models.User{}}
	for _, u := range users {
		if u.IsAdmin() {
			continue
		}
		if u.MonthlyFeePaid {
			p.MonthlyFee = append(p.MonthlyFee, u)
		} else {
			p.PerSession = append(p.PerSession, u)
		}
	}
	return p
}

// UserVote returns the vote of userID on a schedule.
func UserVote(s models.Schedule, userID string) (models.Vote, bool) {
	if i := s.VoteIndex(userID); i >= 0 {
		return s.Votes[i], true
	}
	return models.Vote{}, false
}

// PaymentFor returns the payment of userID for scheduleID.
func PaymentFor(payments []models.Payment, scheduleID, userID string) (models.Payment, bool) {
	for _, p := range payments {
		if p.ScheduleID == scheduleID && p.UserID == userID {
			return p, true
		}
	}
	return models.Payment{}, false
}

// VisiblePayments returns what actor may see: everything for admins, their
// own payments for members.
func VisiblePayments(payments []models.Payment, actor models.User) []models.Payment {
	if actor.IsAdmin() {
		return payments
	}
	out := make([]models.Payment, 0)
	for _, p := range payments {
		if p.UserID == actor.ID {
			out = append(out, p)
		}
	}
	return out
}

// ScheduleCounts holds the counters shown next to the schedule filters.
type ScheduleCounts struct {
	All       int `json:"all"`
	Upcoming  int `json:"upcoming"`
	Completed int `json:"completed"`
}

// CountSchedules counts schedules by completion.
func CountSchedules(schedules []models.Schedule) ScheduleCounts {
	c := ScheduleCounts{All: len(schedules)}
	for _, s := range schedules {
		if s.Completed {
			c.Completed++
		} else {
			c.Upcoming++
		}
	}
	return c
}

// Ledger sums the ledger by direction.
type Ledger struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// LedgerSummary totals income and expense transactions.
func LedgerSummary(txs []models.Transaction) Ledger {
	var l Ledger
	for _, tx := range txs {
		switch tx.Type {
		case models.TransactionIncome:
			l.Income += tx.Amount
		case models.TransactionExpense:
			l.Expense += tx.Amount
		}
	}
	l.Balance = l.Income - l.Expense
	return l
}

func findUser(users []models.User, id string) (models.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}
