// Package club holds the club's state and the closed set of transitions over it.
//
// A State is a read-only snapshot. Every transition takes the current state and
// returns a new one; collections that change are copied first, so a state handed
// to callers never changes underneath them. On failure a transition returns the
// input state unchanged together with a *models.Error.
package club

import (
	"time"

	"badminton-club/models"

	"github.com/google/uuid"
)

// State is the full club dataset plus the signed-in user.
type State struct {
	CurrentUser  *models.User         `json:"currentUser"`
	Users        []models.User        `json:"users"`
	Schedules    []models.Schedule    `json:"schedules"`
	Payments     []models.Payment     `json:"payments"`
	Transactions []models.Transaction `json:"transactions"`
}

// Env supplies the clock and id source used by transitions that create records.
// The zero value uses the wall clock and random UUIDs.
type Env struct {
	Now   func() time.Time
	NewID func() string
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

func (e Env) today() models.Date {
	return models.DateOf(e.now())
}

// User returns the user with id.
func (s State) User(id string) (models.User, bool) {
	i := s.userIndex(id)
	if i < 0 {
		return models.User{}, false
	}
	return s.Users[i], true
}

// Schedule returns the schedule with id.
func (s State) Schedule(id string) (models.Schedule, bool) {
	i := s.scheduleIndex(id)
	if i < 0 {
		return models.Schedule{}, false
	}
	return s.Schedules[i], true
}

// Payment returns the payment with id.
func (s State) Payment(id string) (models.Payment, bool) {
	for _, p := range s.Payments {
		if p.ID == id {
			return p, true
		}
	}
	return models.Payment{}, false
}

func (s State) userIndex(id string) int {
	for i, u := range s.Users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (s State) scheduleIndex(id string) int {
	for i, sc := range s.Schedules {
		if sc.ID == id {
			return i
		}
	}
	return -1
}

func (s State) paymentIndex(id string) int {
	for i, p := range s.Payments {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// paymentIndexFor finds the payment of userID for scheduleID.
func (s State) paymentIndexFor(scheduleID, userID string) int {
	for i, p := range s.Payments {
		if p.ScheduleID == scheduleID && p.UserID == userID {
			return i
		}
	}
	return -1
}

// requireActor resolves actorID to an existing user.
func (s State) requireActor(actorID string) (models.User, error) {
	u, ok := s.User(actorID)
	if !ok {
		return models.User{}, models.WithMetadata(models.CodeForbidden,
			"actor is not a registered user", map[string]string{"actorId": actorID})
	}
	return u, nil
}

// requireAdmin resolves actorID to an existing admin user.
func (s State) requireAdmin(actorID string) (models.User, error) {
	u, err := s.requireActor(actorID)
	if err != nil {
		return models.User{}, err
	}
	if !u.IsAdmin() {
		return models.User{}, models.WithMetadata(models.CodeForbidden,
			"admin role required", map[string]string{"actorId": actorID})
	}
	return u, nil
}

func notFound(kind, id string) error {
	return models.WithMetadata(models.CodeNotFound, kind+" not found", map[string]string{kind + "Id": id})
}

// ------------------------ copy-on-write helpers ------------------------

func cloneUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.MonthlyFeeAmount != nil {
		c.MonthlyFeeAmount = models.Amount(*u.MonthlyFeeAmount)
	}
	return &c
}

func (s State) withUser(i int, u models.User) State {
	users := append([]models.User(nil), s.Users...)
	users[i] = u
	s.Users = users
	if s.CurrentUser != nil && s.CurrentUser.ID == u.ID {
		s.CurrentUser = cloneUser(&u)
	}
	return s
}

func (s State) withSchedule(i int, sc models.Schedule) State {
	schedules := append([]models.Schedule(nil), s.Schedules...)
	schedules[i] = sc
	s.Schedules = schedules
	return s
}

func (s State) withPayment(i int, p models.Payment) State {
	payments := append([]models.Payment(nil), s.Payments...)
	payments[i] = p
	s.Payments = payments
	return s
}

func appendUser(users []models.User, u models.User) []models.User {
	out := make([]models.User, 0, len(users)+1)
	return append(append(out, users...), u)
}

func appendSchedule(schedules []models.Schedule, sc models.Schedule) []models.Schedule {
	out := make([]models.Schedule, 0, len(schedules)+1)
	return append(append(out, schedules...), sc)
}

func appendPayment(payments []models.Payment, p models.Payment) []models.Payment {
	out := make([]models.Payment, 0, len(payments)+1)
	return append(append(out, payments...), p)
}

func appendTransaction(txs []models.Transaction, tx models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs)+1)
	return append(append(out, txs...), tx)
}

func boolPtr(v bool) *bool {
	return &v
}
