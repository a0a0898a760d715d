package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/tutor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

// 2030-01-07 is a Monday.
const monday = "2030-01-07"

var testNow = time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func newCreate(repo domain.Repository) *CreateBooking {
	uc := NewCreateBooking(repo, nil, nil, nil, metrics.New(), zap.NewNop())
	uc.now = fixedNow
	return uc
}

func newTransition(repo domain.Repository, now time.Time) *TransitionBooking {
	uc := NewTransitionBooking(repo, domain.Policy{CancellationNotice: 24 * time.Hour}, nil, nil, nil, zap.NewNop())
	uc.now = func() time.Time { return now }
	return uc
}

func input(start, end string, duration float64) CreateBookingInput {
	return CreateBookingInput{TutorID: 10, SubjectID: 3, Date: monday, StartTime: start, EndTime: end, Duration: duration}
}

func requireKind(t *testing.T, err error, kind httperr.Kind, code string) {
	t.Helper()
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok, "expected business error, got %v", err)
	assert.Equal(t, kind, be.Kind)
	assert.Equal(t, code, be.Code)
}

func TestCreateBookingAcceptsSlotInsideAvailability(t *testing.T) {
	repo := newFakeRepo()

	b, err := newCreate(repo).Execute(context.Background(), session.Student{ID: 1}, input("10:00", "11:30", 1.5))
	require.NoError(t, err)

	assert.Equal(t, 1.5, b.Duration)
	assert.Equal(t, 75.0, b.Price)
	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.Equal(t, string(domain.PaymentPending), b.PaymentStatus)
	assert.Equal(t, time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC), b.StartAt.UTC())
	require.NotNil(t, b.Tutor)
	assert.Equal(t, "Bruno", b.Tutor.Name)
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(models.Booking{
		StudentID: 2, TutorID: 10, SubjectID: 3, Date: monday,
		StartTime: "10:00", EndTime: "11:00",
		StartAt: time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2030, 1, 7, 11, 0, 0, 0, time.UTC),
		Status:  string(domain.StatusConfirmed),
	})

	_, err := newCreate(repo).Execute(context.Background(), session.Student{ID: 1}, input("10:30", "11:30", 1))
	requireKind(t, err, httperr.KindSlotConflict, "time_conflict")
}

func TestCreateBookingRejectsNineHours(t *testing.T) {
	repo := newFakeRepo()
	repo.availability[10] = nil

	_, err := newCreate(repo).Execute(context.Background(), session.Student{ID: 1}, input("08:00", "17:00", 9))
	requireKind(t, err, httperr.KindValidation, "invalid_duration")
}

func TestCreateBookingGuards(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreate(repo)
	ctx := context.Background()

	_, err := uc.Execute(ctx, session.Tutor{ID: 10}, input("10:00", "11:00", 1))
	requireKind(t, err, httperr.KindForbidden, "students_only")

	in := input("10:00", "11:00", 1)
	in.TutorID = 99
	_, err = uc.Execute(ctx, session.Student{ID: 1}, in)
	requireKind(t, err, httperr.KindNotFound, "tutor_not_found")

	in = input("10:00", "11:00", 1)
	in.SubjectID = 42
	_, err = uc.Execute(ctx, session.Student{ID: 1}, in)
	requireKind(t, err, httperr.KindValidation, "invalid_subject")

	repo.tutors[10].Subjects = []models.Subject{{ID: 5}}
	_, err = uc.Execute(ctx, session.Student{ID: 1}, input("10:00", "11:00", 1))
	requireKind(t, err, httperr.KindValidation, "subject_not_offered")

	repo.tutors[10].Subjects = nil
	repo.tutors[10].HourlyRate = nil
	_, err = uc.Execute(ctx, session.Student{ID: 1}, input("10:00", "11:00", 1))
	requireKind(t, err, httperr.KindInvalidRate, "invalid_rate")
}

func TestCreateBookingRetriesOnceOnSerializationFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{&pgconn.PgError{Code: "40001"}}

	b, err := newCreate(repo).Execute(context.Background(), session.Student{ID: 1}, input("10:00", "11:00", 1))
	require.NoError(t, err)
	assert.NotZero(t, b.ID)
}

func TestCreateBookingMapsRepeatedExclusionToConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{&pgconn.PgError{Code: "23P01"}, &pgconn.PgError{Code: "23P01"}}

	_, err := newCreate(repo).Execute(context.Background(), session.Student{ID: 1}, input("10:00", "11:00", 1))
	requireKind(t, err, httperr.KindSlotConflict, "time_conflict")
}

func TestCreateBookingMapsRepeatedDeadlockToUnavailable(t *testing.T) {
	repo := newFakeRepo()
	repo.createErrs = []error{&pgconn.PgError{Code: "40P01"}, &pgconn.PgError{Code: "40P01"}}

	_, err := newCreate(repo).Execute(context.Background(), session.Student{ID: 1}, input("10:00", "11:00", 1))
	requireKind(t, err, httperr.KindUnavailable, "booking_contention")
}

type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string) (func(), error) { return nil, cache.ErrLockBusy }

type brokenLocker struct{}

func (brokenLocker) Acquire(context.Context, string) (func(), error) {
	return nil, errors.New("redis down")
}

func TestCreateBookingLockOutcomes(t *testing.T) {
	repo := newFakeRepo()

	uc := NewCreateBooking(repo, busyLocker{}, nil, nil, nil, zap.NewNop())
	uc.now = fixedNow
	_, err := uc.Execute(context.Background(), session.Student{ID: 1}, input("10:00", "11:00", 1))
	requireKind(t, err, httperr.KindUnavailable, "slot_busy")

	uc = NewCreateBooking(repo, brokenLocker{}, nil, nil, nil, zap.NewNop())
	uc.now = fixedNow
	_, err = uc.Execute(context.Background(), session.Student{ID: 1}, input("10:00", "11:00", 1))
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentRequestsOnlyOneWins(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreate(repo)

	const n = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(student uint) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), session.Student{ID: student}, input("14:00", "15:00", 1))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if httperr.IsKind(err, httperr.KindSlotConflict) {
				conflicts++
			}
		}(uint(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)
}

func seedPending(repo *fakeRepo, start, end time.Time) uint {
	return repo.seed(models.Booking{
		StudentID: 1, TutorID: 10, SubjectID: 3,
		Date: start.Format(domain.DateLayout), StartTime: start.Format(domain.ClockLayout), EndTime: end.Format(domain.ClockLayout),
		StartAt: start, EndAt: end, Duration: end.Sub(start).Hours(),
		Status: string(domain.StatusPending), Price: 50,
	})
}

func TestTransitionAcceptThenComplete(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))

	b, err := newTransition(repo, testNow).Execute(context.Background(), session.Tutor{ID: 10}, id, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), b.Status)

	_, err = newTransition(repo, testNow).Execute(context.Background(), session.Tutor{ID: 10}, id, "completed")
	requireKind(t, err, httperr.KindInvalidTransition, "session_not_finished")

	b, err = newTransition(repo, start.Add(2*time.Hour)).Execute(context.Background(), session.Tutor{ID: 10}, id, "completed")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), b.Status)
	assert.NotNil(t, b.CompletedAt)

	_, err = newTransition(repo, start.Add(3*time.Hour)).Execute(context.Background(), session.Tutor{ID: 10}, id, "cancelled")
	requireKind(t, err, httperr.KindInvalidTransition, "invalid_transition")
}

func TestTransitionRejectsOutsiders(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))
	uc := newTransition(repo, testNow)

	_, err := uc.Execute(context.Background(), session.Student{ID: 2}, id, "cancelled")
	requireKind(t, err, httperr.KindForbidden, "not_participant")

	_, err = uc.Execute(context.Background(), session.Student{ID: 1}, id, "confirmed")
	requireKind(t, err, httperr.KindForbidden, "action_not_allowed")

	_, err = uc.Execute(context.Background(), session.Student{ID: 1}, id, "archived")
	requireKind(t, err, httperr.KindValidation, "invalid_status")

	_, err = uc.Execute(context.Background(), session.Student{ID: 1}, 999, "cancelled")
	requireKind(t, err, httperr.KindNotFound, "booking_not_found")
}

func TestTransitionStaleWrite(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))
	repo.staleOnce = true

	_, err := newTransition(repo, testNow).Execute(context.Background(), session.Tutor{ID: 10}, id, "confirmed")
	requireKind(t, err, httperr.KindInvalidTransition, "booking_changed")
}

func TestExpireCancelsStartedPendingBookings(t *testing.T) {
	repo := newFakeRepo()
	past := time.Date(2029, 12, 31, 10, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	stale := seedPending(repo, past, past.Add(time.Hour))
	fresh := seedPending(repo, future, future.Add(time.Hour))

	uc := NewExpireBookings(repo, newTransition(repo, testNow), zap.NewNop())
	n, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, _ := repo.GetBooking(context.Background(), stale)
	assert.Equal(t, string(domain.StatusCancelled), b.Status)
	assert.Nil(t, b.CancelledBy)

	b, _ = repo.GetBooking(context.Background(), fresh)
	assert.Equal(t, string(domain.StatusPending), b.Status)
}

func TestQueryBookings(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))
	uc := NewQueryBookings(repo)
	ctx := context.Background()

	list, err := uc.List(ctx, session.Student{ID: 1}, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = uc.List(ctx, session.Student{ID: 2}, nil)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.Get(ctx, session.Tutor{ID: 11}, id)
	requireKind(t, err, httperr.KindForbidden, "not_participant")

	_, err = uc.Receipt(ctx, session.Student{ID: 1}, id)
	requireKind(t, err, httperr.KindPaymentRequired, "booking_not_paid")

	_, err = uc.Export(ctx, session.Student{ID: 1}, nil)
	requireKind(t, err, httperr.KindForbidden, "tutors_only")

	xlsx, err := uc.Export(ctx, session.Tutor{ID: 10}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, xlsx)
}

func TestGetAvailability(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	seedPending(repo, start, start.Add(time.Hour))

	uc := NewGetAvailability(repo)
	uc.now = fixedNow

	slots, err := uc.Execute(context.Background(), 10, monday, 1)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		assert.False(t, s.Start >= "09:30" && s.Start < "11:00", "slot %s overlaps the 10:00 booking", s.Start)
	}
	assert.Equal(t, "09:00", slots[0].Start)
	assert.Equal(t, "16:00", slots[len(slots)-1].Start)

	_, err = uc.Execute(context.Background(), 10, monday, 9)
	requireKind(t, err, httperr.KindValidation, "invalid_duration")

	_, err = uc.Execute(context.Background(), 99, monday, 1)
	requireKind(t, err, httperr.KindNotFound, "tutor_not_found")
}
