package booking

import (
	"context"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/models"
)

// fakeRepo is an in-memory domain.Repository. WithTutorLock serialises on a
// single mutex, standing in for SELECT ... FOR UPDATE.
type fakeRepo struct {
	mu     sync.Mutex
	lockMu sync.Mutex

	tutors       map[uint]*models.User
	students     map[uint]*models.User
	subjects     map[uint]*models.Subject
	availability map[uint][]models.AvailabilitySlot
	bookings     map[uint]*models.Booking
	nextID       uint

	createErrs []error
	staleOnce  bool
}

func newFakeRepo() *fakeRepo {
	rate := 50.0
	return &fakeRepo{
		tutors: map[uint]*models.User{
			10: {ID: 10, Name: "Bruno", Email: "bruno@example.com", Role: models.RoleTutor, HourlyRate: &rate, Timezone: "UTC"},
		},
		students: map[uint]*models.User{
			1: {ID: 1, Name: "Ana", Email: "ana@example.com", Role: models.RoleStudent},
		},
		subjects: map[uint]*models.Subject{
			3: {ID: 3, Name: "Algebra"},
		},
		availability: map[uint][]models.AvailabilitySlot{
			// Monday 09:00-17:00
			10: {{TutorID: 10, Weekday: 1, StartTime: "09:00", EndTime: "17:00"}},
		},
		bookings: map[uint]*models.Booking{},
	}
}

func (r *fakeRepo) GetTutor(_ context.Context, id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tutors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRepo) GetSubject(_ context.Context, id uint) (*models.Subject, error) {
	s, ok := r.subjects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) ListAvailability(_ context.Context, tutorID uint) ([]models.AvailabilitySlot, error) {
	return r.availability[tutorID], nil
}

func (r *fakeRepo) WithTutorLock(_ context.Context, _ uint, fn func(tx domain.Repository) error) error {
	r.lockMu.Lock()
	defer r.lockMu.Unlock()
	return fn(r)
}

func (r *fakeRepo) ListBlockingForDate(_ context.Context, tutorID uint, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.TutorID == tutorID && b.Date == date && domain.Status(b.Status).Blocking() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	r.nextID++
	b.ID = r.nextID
	b.UpdatedAt = time.Now()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBooking(_ context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	cp.Student = r.students[b.StudentID]
	cp.Tutor = r.tutors[b.TutorID]
	cp.Subject = r.subjects[b.SubjectID]
	return &cp, nil
}

func (r *fakeRepo) SaveTransition(_ context.Context, b *models.Booking, prevStatus domain.Status, prevPayment domain.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.bookings[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.staleOnce {
		r.staleOnce = false
		return domain.ErrStale
	}
	if stored.Status != string(prevStatus) || stored.PaymentStatus != string(prevPayment) {
		return domain.ErrStale
	}
	stored.Status = b.Status
	stored.PaymentStatus = b.PaymentStatus
	stored.CancelledAt = b.CancelledAt
	stored.CancelledBy = b.CancelledBy
	stored.CompletedAt = b.CompletedAt
	stored.PaidAt = b.PaidAt
	return nil
}

func (r *fakeRepo) SavePaymentReference(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.bookings[b.ID]
	stored.PaymentProvider = b.PaymentProvider
	stored.PaymentIntentID = b.PaymentIntentID
	return nil
}

func (r *fakeRepo) ListExpirable(_ context.Context, now time.Time, limit int) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == string(domain.StatusPending) && !b.StartAt.After(now) && len(out) < limit {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListForStudent(_ context.Context, studentID uint) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.StudentID == studentID }), nil
}

func (r *fakeRepo) ListForTutor(_ context.Context, tutorID uint, _ *domain.Period) ([]models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.TutorID == tutorID }), nil
}

func (r *fakeRepo) ListAll(_ context.Context, _ *domain.Period, _ int) ([]models.Booking, error) {
	return r.filter(func(*models.Booking) bool { return true }), nil
}

func (r *fakeRepo) filter(keep func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, *b)
		}
	}
	return out
}

// seed stores b as-is and returns its id.
func (r *fakeRepo) seed(b models.Booking) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b.ID = r.nextID
	if b.PaymentStatus == "" {
		b.PaymentStatus = string(domain.PaymentPending)
	}
	r.bookings[b.ID] = &b
	return b.ID
}

var _ domain.Repository = (*fakeRepo)(nil)
