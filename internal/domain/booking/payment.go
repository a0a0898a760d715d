package booking

import "context"

type PaymentRequest struct {
	BookingID      uint
	Amount         float64
	Currency       string
	Description    string
	PayerEmail     string
	IdempotencyKey string
}

// PaymentSession is what the client needs to finish a payment with the
// provider. Reference is stored on the booking and used for verification.
type PaymentSession struct {
	Provider     string `json:"provider"`
	Reference    string `json:"reference"`
	ClientSecret string `json:"clientSecret,omitempty"`
	RedirectURL  string `json:"redirectUrl,omitempty"`
}

type PaymentGateway interface {
	Name() string
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentSession, error)
	IsPaid(ctx context.Context, reference string) (bool, error)
}
