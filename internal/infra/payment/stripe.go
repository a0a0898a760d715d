package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v82"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
)

type paymentIntentAPI interface {
	Create(ctx context.Context, params *stripe.PaymentIntentCreateParams) (*stripe.PaymentIntent, error)
	Retrieve(ctx context.Context, id string, params *stripe.PaymentIntentRetrieveParams) (*stripe.PaymentIntent, error)
}

// StripeGateway charges bookings through Stripe payment intents. The client
// confirms the intent with the returned client secret.
type StripeGateway struct {
	intents  paymentIntentAPI
	currency string
}

func NewStripe(secretKey, currency string) *StripeGateway {
	sc := stripe.NewClient(secretKey)
	return &StripeGateway{
		intents:  sc.V1PaymentIntents,
		currency: strings.ToLower(currency),
	}
}

func (g *StripeGateway) Name() string { return "stripe" }

func (g *StripeGateway) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	currency := g.currency
	if req.Currency != "" {
		currency = strings.ToLower(req.Currency)
	}

	params := &stripe.PaymentIntentCreateParams{
		Amount:      stripe.Int64(toMinorUnits(req.Amount)),
		Currency:    stripe.String(currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentCreateAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"booking_id": strconv.FormatUint(uint64(req.BookingID), 10),
		},
	}
	if req.PayerEmail != "" {
		params.ReceiptEmail = stripe.String(req.PayerEmail)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := g.intents.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create payment intent: %w", err)
	}

	return &domain.PaymentSession{
		Provider:     g.Name(),
		Reference:    pi.ID,
		ClientSecret: pi.ClientSecret,
	}, nil
}

func (g *StripeGateway) IsPaid(ctx context.Context, reference string) (bool, error) {
	pi, err := g.intents.Retrieve(ctx, reference, nil)
	if err != nil {
		return false, fmt.Errorf("stripe: retrieve payment intent: %w", err)
	}
	return pi.Status == stripe.PaymentIntentStatusSucceeded, nil
}

var _ domain.PaymentGateway = (*StripeGateway)(nil)
