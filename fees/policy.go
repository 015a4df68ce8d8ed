// Package fees decides who owes what for a completed session.
// File: fees/policy.go
package fees

import "badminton-club/models"

// Amounts are in VND.
const (
	// SessionFee is owed by a per-session member for each attended session.
	SessionFee int64 = 50000
	// GuestFee is owed by a guest for the session they joined.
	GuestFee int64 = 50000
	// DefaultShuttlecockPrice is the usual price of one shuttlecock.
	DefaultShuttlecockPrice int64 = 15000
	// DefaultMonthlyFee is the usual flat monthly due.
	DefaultMonthlyFee int64 = 50000
)

// ShuttlecockCategory labels the equipment expense recorded on completion.
const ShuttlecockCategory = "Quả cầu"

// Liability is the fee outcome for one attending vote.
type Liability struct {
	Amount int64
	Liable bool // a payment record must exist
	Guest  bool
}

// SessionFeeFor returns what the attendee of vote owes for the session.
// user is the registered user matching the vote, or nil.
//
// Guests always owe GuestFee. Members on the monthly fee owe nothing.
// Members that no longer exist are not billed.
func SessionFeeFor(vote models.Vote, user *models.User) Liability {
	if vote.Attendee.IsGuest() {
		return Liability{Amount: GuestFee, Liable: true, Guest: true}
	}
	if user == nil || user.MonthlyFeePaid {
		return Liability{}
	}
	return Liability{Amount: SessionFee, Liable: true}
}
