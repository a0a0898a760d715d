package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	domain "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
)

const mercadoPagoApproved = "approved"

type preferenceAPI interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type paymentSearchAPI interface {
	Search(ctx context.Context, request mppayment.SearchRequest) (*mppayment.SearchResponse, error)
}

// MercadoPagoGateway sends the student to a Checkout Pro preference. The
// booking keeps the preference's external reference, which is later used to
// look up an approved payment.
type MercadoPagoGateway struct {
	preferences preferenceAPI
	payments    paymentSearchAPI
	currency    string
	notifyURL   string
}

func NewMercadoPago(accessToken, currency, notifyURL string) (*MercadoPagoGateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: config: %w", err)
	}

	return &MercadoPagoGateway{
		preferences: preference.NewClient(cfg),
		payments:    mppayment.NewClient(cfg),
		currency:    strings.ToUpper(currency),
		notifyURL:   notifyURL,
	}, nil
}

func (g *MercadoPagoGateway) Name() string { return "mercadopago" }

func (g *MercadoPagoGateway) CreatePayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentSession, error) {
	reference := bookingReference(req.BookingID) + "-" + uuid.NewString()

	currency := g.currency
	if req.Currency != "" {
		currency = strings.ToUpper(req.Currency)
	}

	request := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:         bookingReference(req.BookingID),
				Title:      req.Description,
				Quantity:   1,
				UnitPrice:  req.Amount,
				CurrencyID: currency,
			},
		},
		ExternalReference: reference,
		NotificationURL:   g.notifyURL,
	}
	if req.PayerEmail != "" {
		request.Payer = &preference.PayerRequest{Email: req.PayerEmail}
	}

	resource, err := g.preferences.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("mercadopago: create preference: %w", err)
	}

	return &domain.PaymentSession{
		Provider:    g.Name(),
		Reference:   reference,
		RedirectURL: resource.InitPoint,
	}, nil
}

func (g *MercadoPagoGateway) IsPaid(ctx context.Context, reference string) (bool, error) {
	resource, err := g.payments.Search(ctx, mppayment.SearchRequest{
		Filters: map[string]string{"external_reference": reference},
	})
	if err != nil {
		return false, fmt.Errorf("mercadopago: search payments: %w", err)
	}

	for _, p := range resource.Results {
		if p.Status == mercadoPagoApproved {
			return true, nil
		}
	}
	return false, nil
}

var _ domain.PaymentGateway = (*MercadoPagoGateway)(nil)
