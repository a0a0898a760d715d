package review

import "github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"

type Aggregate struct {
	Average float64
	Count   int
}

// Recompute derives a tutor's rating aggregate from every rating they hold.
func Recompute(ratings []int) Aggregate {
	if len(ratings) == 0 {
		return Aggregate{}
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}

	return Aggregate{
		Average: booking.RoundCents(float64(sum) / float64(len(ratings))),
		Count:   len(ratings),
	}
}
