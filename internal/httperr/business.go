package httperr

import (
	"errors"
	"net/http"
)

// Kind classifies a business failure. Every kind maps to one HTTP status.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindSlotConflict
	KindInvalidTransition
	KindNotEligible
	KindDuplicateReview
	KindInvalidRate
	KindForbidden
	KindNotFound
	KindUnauthorized
	KindPaymentRequired
	KindUnavailable
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindSlotConflict, KindInvalidTransition, KindDuplicateReview:
		return http.StatusConflict
	case KindNotEligible, KindForbidden:
		return http.StatusForbidden
	case KindInvalidRate:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPaymentRequired:
		return http.StatusPaymentRequired
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

// ErrBusiness builds a validation failure identified only by its code.
func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func New(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) error {
	return New(KindValidation, code, message)
}

func SlotConflict(code, message string) error {
	return New(KindSlotConflict, code, message)
}

func InvalidTransition(code, message string) error {
	return New(KindInvalidTransition, code, message)
}

func NotEligible(code, message string) error {
	return New(KindNotEligible, code, message)
}

func DuplicateReview(message string) error {
	return New(KindDuplicateReview, "duplicate_review", message)
}

func InvalidRate(message string) error {
	return New(KindInvalidRate, "invalid_rate", message)
}

func Forbidden(code, message string) error {
	return New(KindForbidden, code, message)
}

func NotFoundErr(code, message string) error {
	return New(KindNotFound, code, message)
}

func PaymentRequired(code, message string) error {
	return New(KindPaymentRequired, code, message)
}

func Unavailable(code, message string) error {
	return New(KindUnavailable, code, message)
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
