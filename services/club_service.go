// Package services: services/club_service.go
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"badminton-club/club"
	"badminton-club/logger"
	"badminton-club/metrics"
	"badminton-club/models"
	"badminton-club/storage"
	"badminton-club/websocket"
)

// ClubServiceInterface is what the HTTP layer needs from the club.
type ClubServiceInterface interface {
	State() club.State
	LastSaveError() error

	Register(ctx context.Context, name, phone string) (models.User, error)
	Login(ctx context.Context, phone string) (models.User, error)
	Logout(ctx context.Context, userID string)

	AddSchedule(ctx context.Context, actorID string, in club.ScheduleInput) (models.Schedule, error)
	CastVote(ctx context.Context, scheduleID, userID string, attending bool) error
	RemoveVote(ctx context.Context, actorID, scheduleID, userID string) error
	AddGuest(ctx context.Context, actorID, scheduleID, guestName string) (models.Vote, error)
	CompleteSchedule(ctx context.Context, actorID, scheduleID string, quantity, pricePerUnit int64) (models.Schedule, error)

	TogglePayment(ctx context.Context, actorID, paymentID string, paid bool) (models.Payment, error)
	ToggleGuestPayment(ctx context.Context, actorID, scheduleID, guestID string) (models.Payment, error)

	SetMonthlyFee(ctx context.Context, actorID string, userIDs []string, amount int64) error
	ClearMonthlyFee(ctx context.Context, actorID, userID string) error
	DeleteUser(ctx context.Context, actorID, userID string) error

	AddTransaction(ctx context.Context, actorID string, in club.TransactionInput) (models.Transaction, error)
}

var _ ClubServiceInterface = (*ClubService)(nil)

// ClubServiceOptions wires a ClubService. Zero fields fall back to an
// in-memory store, the default slot, no notifications and no metrics.
type ClubServiceOptions struct {
	Store     storage.SnapshotStore
	Slot      string
	Messenger websocket.Messenger
	Metrics   metrics.Publisher
	Env       club.Env
}

// ClubService owns the single club state. Transitions are serialized; each
// accepted one is saved, counted and announced to dashboards.
type ClubService struct {
	mu          sync.Mutex
	state       club.State
	store       storage.SnapshotStore
	slot        string
	messenger   websocket.Messenger
	metrics     metrics.Publisher
	env         club.Env
	lastSaveErr error
}

// NewClubService creates a service holding the seed dataset until Load runs.
func NewClubService(opts ClubServiceOptions) *ClubService {
	s := &ClubService{
		state:     club.Seed(),
		store:     opts.Store,
		slot:      opts.Slot,
		messenger: opts.Messenger,
		metrics:   opts.Metrics,
		env:       opts.Env,
	}
	if s.store == nil {
		s.store = storage.NewMemoryStore()
	}
	if s.slot == "" {
		s.slot = club.SnapshotSlot
	}
	if s.messenger == nil {
		s.messenger = websocket.NopMessenger{}
	}
	if s.metrics == nil {
		s.metrics = metrics.Noop{}
	}
	return s
}

// Load reads the snapshot slot once. A missing slot starts from the seed
// silently; unreadable or malformed data also starts from the seed and the
// cause is returned for the caller to report.
func (s *ClubService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Load(ctx, s.slot)
	if errors.Is(err, storage.ErrNotFound) {
		logger.Info.Printf("[ClubService.Load] No snapshot in slot %q; starting from seed data", s.slot)
		s.state = club.Seed()
		return nil
	}
	if err != nil {
		logger.Error.Printf("[ClubService.Load] Reading slot %q failed, using seed data: %v", s.slot, err)
		s.state = club.Seed()
		return err
	}

	state, err := club.DecodeOrSeed(data)
	s.state = state
	if err != nil {
		logger.Warn.Printf("[ClubService.Load] Snapshot in slot %q unusable, using seed data: %v", s.slot, err)
		return err
	}
	logger.Info.Printf("[ClubService.Load] Loaded %d users, %d schedules from slot %q",
		len(state.Users), len(state.Schedules), s.slot)
	return nil
}

// State returns the current snapshot. Callers must treat it as read-only.
func (s *ClubService) State() club.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastSaveError returns the error of the most recent save, nil once a save succeeds.
func (s *ClubService) LastSaveError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

// saveTimeout bounds a snapshot save once the caller's context is detached.
const saveTimeout = 10 * time.Second

// errNoChange lets a transition accept without changing anything; apply then
// skips saving, counting and notifying.
var errNoChange = errors.New("no change")

// apply runs a transition under the lock. Accepted states replace the
// current one even when saving fails.
func (s *ClubService) apply(ctx context.Context, op, scheduleID string, fn func(club.State) (club.State, error)) (club.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state)
	if errors.Is(err, errNoChange) {
		return s.state, nil
	}
	if err != nil {
		logger.Debug.Printf("[ClubService.%s] rejected: %v", op, err)
		s.metrics.TransitionRejected(op, string(models.CodeOf(err)))
		return s.state, err
	}

	s.state = next
	s.persist(ctx)
	s.metrics.TransitionApplied(op)
	s.messenger.StateChanged(op, scheduleID)
	return next, nil
}

// persist saves the current state. The save outlives the caller's context so
// an accepted change is written even when the client has gone away.
func (s *ClubService) persist(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	data, err := club.MarshalSnapshot(s.state)
	if err == nil {
		start := time.Now()
		err = s.store.Save(ctx, s.slot, data)
		if err == nil {
			s.lastSaveErr = nil
			s.metrics.SnapshotSaved(time.Since(start))
			return
		}
	}
	logger.Error.Printf("[ClubService.persist] Saving slot %q failed; in-memory state kept: %v", s.slot, err)
	s.lastSaveErr = err
	s.metrics.SnapshotSaveFailed()
}

// ------------------------ session ------------------------

// Register adds a member and records them as the last signed-in user.
func (s *ClubService) Register(ctx context.Context, name, phone string) (models.User, error) {
	next, err := s.apply(ctx, "RegisterUser", "", func(st club.State) (club.State, error) {
		return club.RegisterUser(st, name, phone, s.env)
	})
	if err != nil {
		return models.User{}, err
	}
	logger.Info.Printf("[ClubService.Register] New member %s (%s)", next.CurrentUser.Name, next.CurrentUser.ID)
	return *next.CurrentUser, nil
}

// Login resolves phone to a user and records them as the last signed-in user.
func (s *ClubService) Login(ctx context.Context, phone string) (models.User, error) {
	next, err := s.apply(ctx, "LoginByPhone", "", func(st club.State) (club.State, error) {
		return club.LoginByPhone(st, phone)
	})
	if err != nil {
		return models.User{}, err
	}
	return *next.CurrentUser, nil
}

// Logout clears the recorded signed-in user when it is userID.
func (s *ClubService) Logout(ctx context.Context, userID string) {
	_, _ = s.apply(ctx, "Logout", "", func(st club.State) (club.State, error) {
		if st.CurrentUser == nil || st.CurrentUser.ID != userID {
			return st, errNoChange
		}
		return club.Logout(st), nil
	})
}

// ------------------------ schedules ------------------------

// AddSchedule creates a schedule and returns it.
func (s *ClubService) AddSchedule(ctx context.Context, actorID string, in club.ScheduleInput) (models.Schedule, error) {
	next, err := s.apply(ctx, "AddSchedule", "", func(st club.State) (club.State, error) {
		return club.AddSchedule(st, in, actorID, s.env)
	})
	if err != nil {
		return models.Schedule{}, err
	}
	return next.Schedules[len(next.Schedules)-1], nil
}

// CastVote records the attendance of a registered user, named as they are now.
func (s *ClubService) CastVote(ctx context.Context, scheduleID, userID string, attending bool) error {
	_, err := s.apply(ctx, "CastVote", scheduleID, func(st club.State) (club.State, error) {
		u, ok := st.User(userID)
		if !ok {
			return st, models.WithMetadata(models.CodeForbidden, "actor is not a registered user",
				map[string]string{"actorId": userID})
		}
		return club.CastVote(st, scheduleID, u.ID, u.Name, attending)
	})
	return err
}

func (s *ClubService) RemoveVote(ctx context.Context, actorID, scheduleID, userID string) error {
	_, err := s.apply(ctx, "RemoveVote", scheduleID, func(st club.State) (club.State, error) {
		return club.RemoveVote(st, scheduleID, userID, actorID)
	})
	return err
}

// AddGuest adds a guest vote and returns it.
func (s *ClubService) AddGuest(ctx context.Context, actorID, scheduleID, guestName string) (models.Vote, error) {
	next, err := s.apply(ctx, "AddGuest", scheduleID, func(st club.State) (club.State, error) {
		return club.AddGuest(st, scheduleID, guestName, actorID, s.env)
	})
	if err != nil {
		return models.Vote{}, err
	}
	sc, _ := next.Schedule(scheduleID)
	return sc.Votes[len(sc.Votes)-1], nil
}

// CompleteSchedule finalizes a session and returns the completed schedule.
func (s *ClubService) CompleteSchedule(ctx context.Context, actorID, scheduleID string, quantity, pricePerUnit int64) (models.Schedule, error) {
	next, err := s.apply(ctx, "CompleteSchedule", scheduleID, func(st club.State) (club.State, error) {
		return club.CompleteSchedule(st, scheduleID, quantity, pricePerUnit, actorID, s.env)
	})
	if err != nil {
		return models.Schedule{}, err
	}
	sc, _ := next.Schedule(scheduleID)
	logger.Info.Printf("[ClubService.CompleteSchedule] %s completed by %s: %d shuttlecocks, total %d",
		sc.CourtName, actorID, sc.ShuttlecockInfo.Quantity, sc.ShuttlecockInfo.TotalCost)
	return sc, nil
}

// ------------------------ payments ------------------------

func (s *ClubService) TogglePayment(ctx context.Context, actorID, paymentID string, paid bool) (models.Payment, error) {
	next, err := s.apply(ctx, "TogglePayment", "", func(st club.State) (club.State, error) {
		return club.TogglePayment(st, paymentID, paid, actorID)
	})
	if err != nil {
		return models.Payment{}, err
	}
	p, _ := next.Payment(paymentID)
	return p, nil
}

func (s *ClubService) ToggleGuestPayment(ctx context.Context, actorID, scheduleID, guestID string) (models.Payment, error) {
	next, err := s.apply(ctx, "ToggleGuestPayment", scheduleID, func(st club.State) (club.State, error) {
		return club.ToggleGuestPayment(st, scheduleID, guestID, actorID, s.env)
	})
	if err != nil {
		return models.Payment{}, err
	}
	p, _ := club.PaymentFor(next.Payments, scheduleID, guestID)
	return p, nil
}

// ------------------------ members ------------------------

func (s *ClubService) SetMonthlyFee(ctx context.Context, actorID string, userIDs []string, amount int64) error {
	_, err := s.apply(ctx, "SetMonthlyFee", "", func(st club.State) (club.State, error) {
		return club.SetMonthlyFee(st, userIDs, amount, actorID)
	})
	return err
}

func (s *ClubService) ClearMonthlyFee(ctx context.Context, actorID, userID string) error {
	_, err := s.apply(ctx, "ClearMonthlyFee", "", func(st club.State) (club.State, error) {
		return club.ClearMonthlyFee(st, userID, actorID)
	})
	return err
}

func (s *ClubService) DeleteUser(ctx context.Context, actorID, userID string) error {
	_, err := s.apply(ctx, "DeleteUser", "", func(st club.State) (club.State, error) {
		return club.DeleteUser(st, userID, actorID)
	})
	if err == nil {
		logger.Info.Printf("[ClubService.DeleteUser] User %s removed by %s", userID, actorID)
	}
	return err
}

// ------------------------ ledger ------------------------

func (s *ClubService) AddTransaction(ctx context.Context, actorID string, in club.TransactionInput) (models.Transaction, error) {
	next, err := s.apply(ctx, "AddTransaction", "", func(st club.State) (club.State, error) {
		return club.AddTransaction(st, in, actorID, s.env)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return next.Transactions[len(next.Transactions)-1], nil
}
