// file: services/club_service_test.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"badminton-club/club"
	"badminton-club/models"
	"badminton-club/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ------------------------ test doubles ------------------------

type recordingMessenger struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingMessenger) StateChanged(op, scheduleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, op+":"+scheduleID)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) TransitionApplied(op string) { m.Called(op) }
func (m *mockPublisher) TransitionRejected(op, code string) { m.Called(op, code) }
func (m *mockPublisher) SnapshotSaved(d time.Duration) { m.Called(d) }
func (m *mockPublisher) SnapshotSaveFailed() { m.Called() }
func (m *mockPublisher) DashboardConnections(n int) { m.Called(n) }

// failingStore loads nothing and refuses every save.
type failingStore struct {
	loadErr error
}

func (f failingStore) Load(context.Context, string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return nil, storage.ErrNotFound
}
func (failingStore) Save(context.Context, string, []byte) error { return errors.New("disk full") }
func (failingStore) Close() error { return nil }

func testEnv() club.Env {
	n := 0
	return club.Env{
		Now: func() time.Time { return time.Date(2025, 1, 20, 9, 0, 0, 0, time.UTC) },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func newTestService(t *testing.T, store storage.SnapshotStore) (*ClubService, *recordingMessenger) {
	t.Helper()
	msgr := &recordingMessenger{}
	svc := NewClubService(ClubServiceOptions{Store: store, Messenger: msgr, Env: testEnv()})
	require.NoError(t, svc.Load(context.Background()))
	return svc, msgr
}

// ------------------------ load ------------------------

// Test: an empty slot starts from the seed dataset
func TestLoad_EmptySlotUsesSeed(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	assert.Equal(t, club.Seed(), svc.State())
}

// Test: a malformed snapshot falls back to the seed and reports why
func TestLoad_MalformedSnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), club.SnapshotSlot, []byte("{broken")))

	svc := NewClubService(ClubServiceOptions{Store: store})
	err := svc.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, club.Seed(), svc.State())
}

// Test: a read failure falls back to the seed
func TestLoad_ReadError(t *testing.T) {
	svc := NewClubService(ClubServiceOptions{Store: failingStore{loadErr: errors.New("permission denied")}})
	err := svc.Load(context.Background())
	assert.EqualError(t, err, "permission denied")
	assert.Equal(t, club.Seed(), svc.State())
}

// Test: every accepted change is saved and reloads identically
func TestSaveAfterChange_RoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	svc, _ := newTestService(t, store)
	ctx := context.Background()

	sc, err := svc.AddSchedule(ctx, "1", club.ScheduleInput{CourtName: "Sân XYZ", PlayDate: "2025-02-01", PlayTime: "18:00"})
	require.NoError(t, err)
	require.NoError(t, svc.CastVote(ctx, sc.ID, "3", true))

	reloaded := NewClubService(ClubServiceOptions{Store: store})
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, svc.State(), reloaded.State())
}

// ------------------------ transitions ------------------------

// Test: Scenario A through the service, with notifications
func TestCompleteSchedule_BillsPerSessionMember(t *testing.T) {
	svc, msgr := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	sc, err := svc.AddSchedule(ctx, "1", club.ScheduleInput{CourtName: "Sân XYZ", PlayDate: "2025-02-01"})
	require.NoError(t, err)
	require.NoError(t, svc.CastVote(ctx, sc.ID, "2", true))
	require.NoError(t, svc.CastVote(ctx, sc.ID, "3", true))

	done, err := svc.CompleteSchedule(ctx, "1", sc.ID, 10, 15000)
	require.NoError(t, err)
	assert.True(t, done.Completed)
	assert.Equal(t, int64(150000), done.ShuttlecockInfo.TotalCost)

	p, ok := club.PaymentFor(svc.State().Payments, sc.ID, "3")
	require.True(t, ok)
	assert.Equal(t, int64(50000), p.Amount)
	_, ok = club.PaymentFor(svc.State().Payments, sc.ID, "2")
	assert.False(t, ok)

	assert.Equal(t, []string{
		"AddSchedule:",
		"CastVote:" + sc.ID,
		"CastVote:" + sc.ID,
		"CompleteSchedule:" + sc.ID,
	}, msgr.events)
}

// Test: rejected transitions keep the state and publish nothing
func TestRejectedTransition(t *testing.T) {
	svc, msgr := newTestService(t, storage.NewMemoryStore())
	before := svc.State()

	_, err := svc.AddSchedule(context.Background(), "3", club.ScheduleInput{CourtName: "X", PlayDate: "2025-02-01"})
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Equal(t, before, svc.State())
	assert.Empty(t, msgr.events)
}

// Test: CastVote uses the stored member name and rejects unknown users
func TestCastVote_ResolvesUser(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()
	sc, err := svc.AddSchedule(ctx, "1", club.ScheduleInput{CourtName: "X", PlayDate: "2025-02-01"})
	require.NoError(t, err)

	require.NoError(t, svc.CastVote(ctx, sc.ID, "4", false))
	got, _ := svc.State().Schedule(sc.ID)
	assert.Equal(t, "Lê Văn C", got.Votes[0].UserName())

	err = svc.CastVote(ctx, sc.ID, "nobody", true)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

// Test: register, login and logout track the signed-in user
func TestSessionLifecycle(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	u, err := svc.Register(ctx, "Phạm D", "0911000111")
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)
	assert.Equal(t, u.ID, svc.State().CurrentUser.ID)

	_, err = svc.Register(ctx, "Other", "0911000111")
	assert.ErrorIs(t, err, models.ErrDuplicatePhone)

	admin, err := svc.Login(ctx, "0123456789")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())

	svc.Logout(ctx, u.ID)
	assert.NotNil(t, svc.State().CurrentUser, "logout of another user keeps the current one")
	svc.Logout(ctx, admin.ID)
	assert.Nil(t, svc.State().CurrentUser)
}

// Test: guests, guest payments, member fees and ledger entries
func TestAdminOperations(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()

	sc, err := svc.AddSchedule(ctx, "1", club.ScheduleInput{CourtName: "X", PlayDate: "2025-02-01"})
	require.NoError(t, err)
	guest, err := svc.AddGuest(ctx, "1", sc.ID, "Khách X")
	require.NoError(t, err)
	assert.True(t, guest.Attendee.IsGuest())

	p, err := svc.ToggleGuestPayment(ctx, "1", sc.ID, guest.UserID())
	require.NoError(t, err)
	assert.True(t, p.Paid)

	require.NoError(t, svc.RemoveVote(ctx, "1", sc.ID, guest.UserID()))

	require.NoError(t, svc.SetMonthlyFee(ctx, "1", []string{"3"}, 70000))
	u, _ := svc.State().User("3")
	assert.True(t, u.MonthlyFeePaid)
	require.NoError(t, svc.ClearMonthlyFee(ctx, "1", "3"))

	tx, err := svc.AddTransaction(ctx, "1", club.TransactionInput{Type: models.TransactionIncome, Amount: 100000, Description: "Quỹ"})
	require.NoError(t, err)
	assert.Equal(t, models.Date("2025-01-20"), tx.Date)

	paid, err := svc.TogglePayment(ctx, "3", "1", true)
	require.NoError(t, err)
	assert.True(t, paid.Paid)

	require.NoError(t, svc.DeleteUser(ctx, "1", "4"))
	_, ok := svc.State().User("4")
	assert.False(t, ok)
}

// Test: logging out someone who is not the current user saves and announces nothing
func TestLogout_OtherUserIsNoop(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("TransitionApplied", "LoginByPhone").Return().Once()
	pub.On("SnapshotSaved", mock.Anything).Return().Once()

	store := storage.NewMemoryStore()
	msgr := &recordingMessenger{}
	svc := NewClubService(ClubServiceOptions{Store: store, Messenger: msgr, Metrics: pub, Env: testEnv()})
	require.NoError(t, svc.Load(context.Background()))
	ctx := context.Background()

	_, err := svc.Login(ctx, "0123456789")
	require.NoError(t, err)
	saved, err := store.Load(ctx, club.SnapshotSlot)
	require.NoError(t, err)

	svc.Logout(ctx, "3")

	assert.Equal(t, "1", svc.State().CurrentUser.ID)
	assert.Equal(t, []string{"LoginByPhone:"}, msgr.events)
	after, err := store.Load(ctx, club.SnapshotSlot)
	require.NoError(t, err)
	assert.Equal(t, saved, after)
	pub.AssertExpectations(t)
}

// ------------------------ persistence failures ------------------------

// Test: an accepted change is saved even when the caller's context is cancelled
func TestSave_IgnoresCallerCancellation(t *testing.T) {
	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	svc, _ := newTestService(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sc, err := svc.AddSchedule(ctx, "1", club.ScheduleInput{CourtName: "Sân XYZ", PlayDate: "2025-02-01"})
	require.NoError(t, err)

	assert.NoError(t, svc.LastSaveError())
	data, err := store.Load(context.Background(), club.SnapshotSlot)
	require.NoError(t, err)
	saved, err := club.UnmarshalSnapshot(data)
	require.NoError(t, err)
	_, ok := saved.Schedule(sc.ID)
	assert.True(t, ok)
}

// Test: a failed save keeps the new state, is counted and exposed
func TestSaveFailureKeepsState(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("SnapshotSaveFailed").Return()
	pub.On("TransitionApplied", "AddSchedule").Return()

	svc := NewClubService(ClubServiceOptions{Store: failingStore{}, Metrics: pub, Env: testEnv()})
	require.NoError(t, svc.Load(context.Background()))

	sc, err := svc.AddSchedule(context.Background(), "1", club.ScheduleInput{CourtName: "X", PlayDate: "2025-02-01"})
	require.NoError(t, err)

	_, ok := svc.State().Schedule(sc.ID)
	assert.True(t, ok)
	assert.EqualError(t, svc.LastSaveError(), "disk full")
	pub.AssertExpectations(t)
	pub.AssertNotCalled(t, "SnapshotSaved", mock.Anything)
}

// Test: rejections are counted with their error code
func TestRejectionMetric(t *testing.T) {
	pub := new(mockPublisher)
	pub.On("TransitionRejected", "CompleteSchedule", "NOT_FOUND").Return()

	svc := NewClubService(ClubServiceOptions{Metrics: pub})
	_, err := svc.CompleteSchedule(context.Background(), "1", "missing", 1, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
	pub.AssertExpectations(t)
}

// Test: concurrent votes are serialized without losing any
func TestConcurrentVotes(t *testing.T) {
	svc, _ := newTestService(t, storage.NewMemoryStore())
	ctx := context.Background()
	sc, err := svc.AddSchedule(ctx, "1", club.ScheduleInput{CourtName: "X", PlayDate: "2025-02-01"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, id := range []string{"1", "2", "3", "4"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			assert.NoError(t, svc.CastVote(ctx, sc.ID, id, true))
		}(id)
	}
	wg.Wait()

	got, _ := svc.State().Schedule(sc.ID)
	assert.Len(t, got.Votes, 4)
}
