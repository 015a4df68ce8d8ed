package services

import (
	"context"

	"badminton-club/club"
	"badminton-club/models"

	"github.com/stretchr/testify/mock"
)

// Ensure MockClubService implements ClubServiceInterface
var _ ClubServiceInterface = (*MockClubService)(nil)

// MockClubService is a mock implementation for handler tests and extends `mock.Mock`
type MockClubService struct {
	mock.Mock
}

func (m *MockClubService) State() club.State {
	args := m.Called()
	return args.Get(0).(club.State)
}

func (m *MockClubService) LastSaveError() error {
	return m.Called().Error(0)
}

func (m *MockClubService) Register(ctx context.Context, name, phone string) (models.User, error) {
	args := m.Called(ctx, name, phone)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockClubService) Login(ctx context.Context, phone string) (models.User, error) {
	args := m.Called(ctx, phone)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockClubService) Logout(ctx context.Context, userID string) {
	m.Called(ctx, userID)
}

func (m *MockClubService) AddSchedule(ctx context.Context, actorID string, in club.ScheduleInput) (models.Schedule, error) {
	args := m.Called(ctx, actorID, in)
	return args.Get(0).(models.Schedule), args.Error(1)
}

func (m *MockClubService) CastVote(ctx context.Context, scheduleID, userID string, attending bool) error {
	return m.Called(ctx, scheduleID, userID, attending).Error(0)
}

func (m *MockClubService) RemoveVote(ctx context.Context, actorID, scheduleID, userID string) error {
	return m.Called(ctx, actorID, scheduleID, userID).Error(0)
}

func (m *MockClubService) AddGuest(ctx context.Context, actorID, scheduleID, guestName string) (models.Vote, error) {
	args := m.Called(ctx, actorID, scheduleID, guestName)
	return args.Get(0).(models.Vote), args.Error(1)
}

func (m *MockClubService) CompleteSchedule(ctx context.Context, actorID, scheduleID string, quantity, pricePerUnit int64) (models.Schedule, error) {
	args := m.Called(ctx, actorID, scheduleID, quantity, pricePerUnit)
	return args.Get(0).(models.Schedule), args.Error(1)
}

func (m *MockClubService) TogglePayment(ctx context.Context, actorID, paymentID string, paid bool) (models.Payment, error) {
	args := m.Called(ctx, actorID, paymentID, paid)
	return args.Get(0).(models.Payment), args.Error(1)
}

func (m *MockClubService) ToggleGuestPayment(ctx context.Context, actorID, scheduleID, guestID string) (models.Payment, error) {
	args := m.Called(ctx, actorID, scheduleID, guestID)
	return args.Get(0).(models.Payment), args.Error(1)
}

func (m *MockClubService) SetMonthlyFee(ctx context.Context, actorID string, userIDs []string, amount int64) error {
	return m.Called(ctx, actorID, userIDs, amount).Error(0)
}

func (m *MockClubService) ClearMonthlyFee(ctx context.Context, actorID, userID string) error {
	return m.Called(ctx, actorID, userID).Error(0)
}

func (m *MockClubService) DeleteUser(ctx context.Context, actorID, userID string) error {
	return m.Called(ctx, actorID, userID).Error(0)
}

func (m *MockClubService) AddTransaction(ctx context.Context, actorID string, in club.TransactionInput) (models.Transaction, error) {
	args := m.Called(ctx, actorID, in)
	return args.Get(0).(models.Transaction), args.Error(1)
}
