// File: club/transitions.go
package club

import (
	"math"
	"strings"

	"badminton-club/fees"
	"badminton-club/models"
)

// ------------------------ session ------------------------

// SetCurrentUser replaces the signed-in user. nil signs out.
func SetCurrentUser(s State, u *models.User) State {
	s.CurrentUser = cloneUser(u)
	return s
}

// Logout clears the signed-in user.
func Logout(s State) State {
	return SetCurrentUser(s, nil)
}

// RegisterUser adds a new member with the given phone and signs them in.
func RegisterUser(s State, name, phone string, env Env) (State, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return s, models.NewError(models.CodeInvalidInput, "name and phone are required")
	}
	for _, u := range s.Users {
		if u.Phone == phone {
			return s, models.WithMetadata(models.CodeDuplicatePhone,
				"phone already registered", map[string]string{"phone": phone})
		}
	}

	u := models.User{
		ID:    env.newID(),
		Name:  name,
		Phone: phone,
		Role:  models.RoleMember,
	}
	s.Users = appendUser(s.Users, u)
	return SetCurrentUser(s, &u), nil
}

// LoginByPhone signs in the user registered with phone.
func LoginByPhone(s State, phone string) (State, error) {
	phone = strings.TrimSpace(phone)
	for _, u := range s.Users {
		if u.Phone == phone {
			return SetCurrentUser(s, &u), nil
		}
	}
	return s, models.WithMetadata(models.CodeNotFound, "phone not registered", map[string]string{"phone": phone})
}

// ------------------------ schedules ------------------------

// ScheduleInput holds the fields an admin fills in for a new session.
type ScheduleInput struct {
	CourtName string
	Location  string
	PlayTime  string
	PlayDate  string
}

// AddSchedule appends a new open schedule created by actorID.
func AddSchedule(s State, in ScheduleInput, actorID string, env Env) (State, error) {
	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return s, err
	}
	court := strings.TrimSpace(in.CourtName)
	if court == "" {
		return s, models.NewError(models.CodeInvalidInput, "court name is required")
	}
	date, err := models.ParseDate(in.PlayDate)
	if err != nil {
		return s, models.WithMetadata(models.CodeInvalidInput, "play date must be YYYY-MM-DD",
			map[string]string{"playDate": in.PlayDate})
	}

	s.Schedules = appendSchedule(s.Schedules, models.Schedule{
		ID:        env.newID(),
		CourtName: court,
		Location:  strings.TrimSpace(in.Location),
		PlayTime:  strings.TrimSpace(in.PlayTime),
		PlayDate:  date,
		CreatedBy: actor.ID,
		Votes:     []models.Vote{},
	})
	return s, nil
}

// openSchedule finds a schedule that still accepts attendance changes.
func (s State) openSchedule(scheduleID string) (int, models.Schedule, error) {
	i := s.scheduleIndex(scheduleID)
	if i < 0 {
		return -1, models.Schedule{}, notFound("schedule", scheduleID)
	}
	sc := s.Schedules[i]
	if sc.Completed {
		return -1, models.Schedule{}, models.WithMetadata(models.CodeAlreadyCompleted,
			"schedule already completed", map[string]string{"scheduleId": scheduleID})
	}
	return i, sc, nil
}

// CastVote records userID's attendance answer. A repeated vote overwrites the
// earlier one in place, keeping its position. Guest votes cannot be recast.
func CastVote(s State, scheduleID, userID, userName string, attending bool) (State, error) {
	i, sc, err := s.openSchedule(scheduleID)
	if err != nil {
		return s, err
	}
	j := sc.VoteIndex(userID)
	if j >= 0 && sc.Votes[j].Attendee.IsGuest() {
		return s, models.WithMetadata(models.CodeInvalidInput,
			"guest votes cannot be changed by voting", map[string]string{"userId": userID})
	}

	vote := models.Vote{Attendee: models.Member(userID, userName), Attending: attending}
	votes := append([]models.Vote(nil), sc.Votes...)
	if j >= 0 {
		votes[j] = vote
	} else {
		votes = append(votes, vote)
	}
	sc.Votes = votes
	return s.withSchedule(i, sc), nil
}

// RemoveVote drops the vote of userID. Removing an absent vote is a no-op.
func RemoveVote(s State, scheduleID, userID, actorID string) (State, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return s, err
	}
	i, sc, err := s.openSchedule(scheduleID)
	if err != nil {
		return s, err
	}
	j := sc.VoteIndex(userID)
	if j < 0 {
		return s, nil
	}

	votes := make([]models.Vote, 0, len(sc.Votes)-1)
	votes = append(votes, sc.Votes[:j]...)
	sc.Votes = append(votes, sc.Votes[j+1:]...)
	return s.withSchedule(i, sc), nil
}

// AddGuest appends an attending vote for a guest with a fresh guest id.
func AddGuest(s State, scheduleID, guestName, actorID string, env Env) (State, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return s, err
	}
	guestName = strings.TrimSpace(guestName)
	if guestName == "" {
		return s, models.NewError(models.CodeInvalidInput, "guest name is required")
	}
	i, sc, err := s.openSchedule(scheduleID)
	if err != nil {
		return s, err
	}

	votes := make([]models.Vote, 0, len(sc.Votes)+1)
	votes = append(votes, sc.Votes...)
	sc.Votes = append(votes, models.Vote{
		Attendee:  models.Guest(models.GuestIDPrefix+env.newID(), guestName),
		Attending: true,
	})
	return s.withSchedule(i, sc), nil
}

// CompleteSchedule finalizes a session. In order it creates the missing
// payments of liable attendees, records the shuttlecock expense, then marks
// the schedule completed with its shuttlecock info.
func CompleteSchedule(s State, scheduleID string, quantity, pricePerUnit int64, actorID string, env Env) (State, error) {
	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return s, err
	}
	if quantity <= 0 {
		return s, models.NewError(models.CodeInvalidQuantity, "shuttlecock quantity must be positive")
	}
	if pricePerUnit <= 0 {
		return s, models.NewError(models.CodeInvalidPrice, "shuttlecock price must be positive")
	}
	if quantity > math.MaxInt64/pricePerUnit {
		return s, models.NewError(models.CodeInvalidAmount, "shuttlecock total cost is too large")
	}
	i, sc, err := s.openSchedule(scheduleID)
	if err != nil {
		return s, err
	}

	next := s
	for _, v := range sc.Votes {
		if !v.Attending {
			continue
		}
		var user *models.User
		if !v.Attendee.IsGuest() {
			if u, ok := s.User(v.UserID()); ok {
				user = &u
			}
		}
		fee := fees.SessionFeeFor(v, user)
		if !fee.Liable || next.paymentIndexFor(sc.ID, v.UserID()) >= 0 {
			continue
		}

		p := models.Payment{
			ID:         env.newID(),
			UserID:     v.UserID(),
			Amount:     fee.Amount,
			ScheduleID: sc.ID,
		}
		if fee.Guest {
			p.UserName = v.UserName()
			p.Reason = fees.GuestReason(sc)
			p.IsGuest = boolPtr(true)
		} else {
			p.UserName = user.Name
			p.Reason = fees.MemberReason(sc)
		}
		next.Payments = appendPayment(next.Payments, p)
	}

	info := models.NewShuttlecockInfo(quantity, pricePerUnit)
	category := fees.ShuttlecockCategory
	next.Transactions = appendTransaction(next.Transactions, models.Transaction{
		ID:              env.newID(),
		Type:            models.TransactionExpense,
		Amount:          info.TotalCost,
		Description:     fees.ShuttlecockDescription(sc, quantity, pricePerUnit),
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		Date:            env.today(),
		Category:        &category,
	})

	sc.Completed = true
	sc.ShuttlecockInfo = &info
	return next.withSchedule(i, sc), nil
}

// ------------------------ payments ------------------------

// TogglePayment sets the paid flag of a payment. Members may change their own
// payments; admins may change anyone's.
func TogglePayment(s State, paymentID string, paid bool, actorID string) (State, error) {
	actor, err := s.requireActor(actorID)
	if err != nil {
		return s, err
	}
	i := s.paymentIndex(paymentID)
	if i < 0 {
		return s, notFound("payment", paymentID)
	}
	p := s.Payments[i]
	if !actor.IsAdmin() && p.UserID != actor.ID {
		return s, models.WithMetadata(models.CodeForbidden,
			"only the owner or an admin may change this payment", map[string]string{"paymentId": paymentID})
	}

	p.Paid = paid
	return s.withPayment(i, p), nil
}

// ToggleGuestPayment flips the paid flag of a guest's payment for a schedule.
// A guest without a payment yet is recorded as having paid on the spot.
func ToggleGuestPayment(s State, scheduleID, guestUserID, actorID string, env Env) (State, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return s, err
	}
	sc, ok := s.Schedule(scheduleID)
	if !ok {
		return s, notFound("schedule", scheduleID)
	}
	j := sc.VoteIndex(guestUserID)
	if j < 0 || !sc.Votes[j].Attendee.IsGuest() {
		return s, notFound("guest", guestUserID)
	}

	if i := s.paymentIndexFor(scheduleID, guestUserID); i >= 0 {
		p := s.Payments[i]
		p.Paid = !p.Paid
		return s.withPayment(i, p), nil
	}

	s.Payments = appendPayment(s.Payments, models.Payment{
		ID:         env.newID(),
		UserID:     guestUserID,
		UserName:   sc.Votes[j].UserName(),
		Amount:     fees.GuestFee,
		Reason:     fees.GuestReason(sc),
		Paid:       true,
		ScheduleID: scheduleID,
		IsGuest:    boolPtr(true),
	})
	return s, nil
}

// ------------------------ members ------------------------

// SetMonthlyFee moves the listed users onto the monthly fee at amount.
// Users already on the monthly fee and unknown ids are left alone.
func SetMonthlyFee(s State, userIDs []string, amount int64, actorID string) (State, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return s, err
	}
	if amount <= 0 {
		return s, models.NewError(models.CodeInvalidAmount, "monthly fee must be positive")
	}

	for _, id := range userIDs {
		i := s.userIndex(id)
		if i < 0 || s.Users[i].MonthlyFeePaid {
			continue
		}
		u := s.Users[i]
		u.MonthlyFeePaid = true
		u.MonthlyFeeAmount = models.Amount(amount)
		s = s.withUser(i, u)
	}
	return s, nil
}

// ClearMonthlyFee moves a user back to paying per session.
func ClearMonthlyFee(s State, userID, actorID string) (State, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return s, err
	}
	i := s.userIndex(userID)
	if i < 0 {
		return s, notFound("user", userID)
	}

	u := s.Users[i]
	u.MonthlyFeePaid = false
	u.MonthlyFeeAmount = nil
	return s.withUser(i, u), nil
}

// DeleteUser removes a non-admin user. Votes, payments and transactions that
// reference the user are kept as history.
func DeleteUser(s State, userID, actorID string) (State, error) {
	if _, err := s.requireAdmin(actorID); err != nil {
		return s, err
	}
	i := s.userIndex(userID)
	if i < 0 {
		return s, notFound("user", userID)
	}
	if s.Users[i].IsAdmin() {
		return s, models.WithMetadata(models.CodeForbidden,
			"admin users cannot be deleted", map[string]string{"userId": userID})
	}

	users := make([]models.User, 0, len(s.Users)-1)
	users = append(users, s.Users[:i]...)
	s.Users = append(users, s.Users[i+1:]...)
	return s, nil
}

// ------------------------ ledger ------------------------

// TransactionInput holds a manual ledger entry.
type TransactionInput struct {
	Type        models.TransactionType
	Amount      int64
	Description string
	Category    string
}

// AddTransaction appends a manual ledger entry dated today.
func AddTransaction(s State, in TransactionInput, actorID string, env Env) (State, error) {
	actor, err := s.requireAdmin(actorID)
	if err != nil {
		return s, err
	}
	if !in.Type.Valid() {
		return s, models.WithMetadata(models.CodeInvalidInput, "transaction type must be income or expense",
			map[string]string{"type": string(in.Type)})
	}
	if in.Amount <= 0 {
		return s, models.NewError(models.CodeInvalidAmount, "amount must be positive")
	}
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return s, models.NewError(models.CodeEmptyDescription, "description is required")
	}

	tx := models.Transaction{
		ID:              env.newID(),
		Type:            in.Type,
		Amount:          in.Amount,
		Description:     description,
		PerformedBy:     actor.ID,
		PerformedByName: actor.Name,
		Date:            env.today(),
	}
	if c := strings.TrimSpace(in.Category); c != "" {
		tx.Category = &c
	}
	s.Transactions = appendTransaction(s.Transactions, tx)
	return s, nil
}
