package booking

import (
	"math"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
)

// Price returns hourlyRate x duration rounded half-up to cents.
//
// The rate is held at cent precision and the duration is a whole number of
// half hours, so the product is exact in half-cents and rounding is done on
// integers.
func Price(hourlyRate *float64, duration float64) (float64, error) {
	if hourlyRate == nil {
		return 0, httperr.InvalidRate("tutor has not set an hourly rate")
	}
	rate := *hourlyRate
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 0 {
		return 0, httperr.InvalidRate("hourly rate must be a non-negative number")
	}

	if duration <= 0 || !isHalfHourMultiple(duration) {
		return 0, httperr.Validation("invalid_duration", "duration must be a positive multiple of 0.5 hours")
	}

	rateCents := int64(math.Round(rate * 100))
	halfHours := int64(math.Round(duration * 2))

	halfCents := rateCents * halfHours
	cents := (halfCents + 1) / 2

	return float64(cents) / 100, nil
}

// RoundCents rounds v half-up to two decimals.
func RoundCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
