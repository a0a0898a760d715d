package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tutor-scheduler/internal/session"
)

type fakeGateway struct {
	name    string
	paid    bool
	err     error
	lastReq domain.PaymentRequest
}

func (g *fakeGateway) Name() string { return g.name }

func (g *fakeGateway) CreatePayment(_ context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return &domain.PaymentSession{Provider: g.name, Reference: "ref-1", ClientSecret: "secret"}, nil
}

func (g *fakeGateway) IsPaid(context.Context, string) (bool, error) {
	return g.paid, g.err
}

func newPayments(repo domain.Repository, gw domain.PaymentGateway) *Payments {
	uc := NewPayments(repo, gw, "usd", nil, nil, zap.NewNop())
	uc.now = fixedNow
	return uc
}

func TestPaymentsStartStoresReference(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))
	gw := &fakeGateway{name: "stripe"}

	ps, err := newPayments(repo, gw).Start(context.Background(), session.Student{ID: 1}, id)
	require.NoError(t, err)
	assert.Equal(t, "secret", ps.ClientSecret)

	assert.Equal(t, 50.0, gw.lastReq.Amount)
	assert.Equal(t, "usd", gw.lastReq.Currency)
	assert.Equal(t, "ana@example.com", gw.lastReq.PayerEmail)
	assert.Contains(t, gw.lastReq.Description, "Algebra")

	b, _ := repo.GetBooking(context.Background(), id)
	assert.Equal(t, "ref-1", b.PaymentIntentID)
	assert.Equal(t, "stripe", b.PaymentProvider)
	assert.Equal(t, string(domain.StatusPending), b.Status)
}

func TestPaymentsStartProviderFailure(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))

	_, err := newPayments(repo, &fakeGateway{name: "stripe", err: errors.New("timeout")}).
		Start(context.Background(), session.Student{ID: 1}, id)
	requireKind(t, err, httperr.KindUnavailable, "payment_provider_unavailable")
}

func TestPaymentsConfirmVerifiesWithProvider(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))
	gw := &fakeGateway{name: "stripe"}
	uc := newPayments(repo, gw)
	ctx := context.Background()

	_, err := uc.Confirm(ctx, session.Student{ID: 1}, id)
	requireKind(t, err, httperr.KindPaymentRequired, "payment_not_started")

	_, err = uc.Start(ctx, session.Student{ID: 1}, id)
	require.NoError(t, err)

	_, err = uc.Confirm(ctx, session.Student{ID: 1}, id)
	requireKind(t, err, httperr.KindPaymentRequired, "payment_not_completed")

	gw.paid = true
	b, err := uc.Confirm(ctx, session.Student{ID: 1}, id)
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPaid), b.PaymentStatus)
	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.NotNil(t, b.PaidAt)

	_, err = uc.Confirm(ctx, session.Student{ID: 1}, id)
	requireKind(t, err, httperr.KindInvalidTransition, "already_paid")
}

func TestPaymentsManualProvider(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))
	uc := newPayments(repo, &fakeGateway{name: "manual"})
	ctx := context.Background()

	_, err := uc.Confirm(ctx, session.Tutor{ID: 10}, id)
	requireKind(t, err, httperr.KindForbidden, "action_not_allowed")

	b, err := uc.Confirm(ctx, session.Student{ID: 1}, id)
	require.NoError(t, err)
	assert.Equal(t, "manual", b.PaymentProvider)
	assert.Equal(t, string(domain.PaymentPaid), b.PaymentStatus)
}

func TestPaymentsRejectCancelledBooking(t *testing.T) {
	repo := newFakeRepo()
	start := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	id := seedPending(repo, start, start.Add(time.Hour))
	repo.bookings[id].Status = string(domain.StatusCancelled)

	_, err := newPayments(repo, &fakeGateway{name: "manual"}).Confirm(context.Background(), session.Student{ID: 1}, id)
	requireKind(t, err, httperr.KindInvalidTransition, "booking_cancelled")
}
