package tutor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BruksfildServices01/tutor-scheduler/internal/httperr"
)

// Filter narrows the tutor listing. All set fields must match.
type Filter struct {
	SubjectID *uint
	MinRating *float64
	MinPrice  *float64
	MaxPrice  *float64
	Name      string
}

// ParseFilter reads the raw query values of the tutor search. Empty values
// are ignored. price is either "lo-hi" or "lo-" for an open upper bound.
func ParseFilter(subject, rating, price, name string) (Filter, error) {
	var f Filter

	if s := strings.TrimSpace(subject); s != "" {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return Filter{}, httperr.Validation("invalid_subject", "subject must be a subject id")
		}
		v := uint(id)
		f.SubjectID = &v
	}

	if r := strings.TrimSpace(rating); r != "" {
		v, err := strconv.ParseFloat(r, 64)
		if err != nil || v < 0 || v > 5 {
			return Filter{}, httperr.Validation("invalid_rating", "rating must be between 0 and 5")
		}
		f.MinRating = &v
	}

	if p := strings.TrimSpace(price); p != "" {
		lo, hi, err := parsePriceRange(p)
		if err != nil {
			return Filter{}, err
		}
		f.MinPrice = lo
		f.MaxPrice = hi
	}

	f.Name = strings.TrimSpace(name)

	return f, nil
}

func parsePriceRange(raw string) (*float64, *float64, error) {
	invalid := httperr.Validation("invalid_price", `price must look like "20-40" or "60-"`)

	loRaw, hiRaw, found := strings.Cut(raw, "-")
	if !found {
		return nil, nil, invalid
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(loRaw), 64)
	if err != nil || lo < 0 {
		return nil, nil, invalid
	}

	hiRaw = strings.TrimSpace(hiRaw)
	if hiRaw == "" {
		return &lo, nil, nil
	}

	hi, err := strconv.ParseFloat(hiRaw, 64)
	if err != nil || hi < lo {
		return nil, nil, invalid
	}

	return &lo, &hi, nil
}

// CacheKey is a stable key for f; equal filters give equal keys.
func (f Filter) CacheKey() string {
	var b strings.Builder
	b.WriteString("tutors:search")

	if f.SubjectID != nil {
		fmt.Fprintf(&b, ":s=%d", *f.SubjectID)
	}
	if f.MinRating != nil {
		fmt.Fprintf(&b, ":r=%g", *f.MinRating)
	}
	if f.MinPrice != nil {
		fmt.Fprintf(&b, ":p=%g-", *f.MinPrice)
		if f.MaxPrice != nil {
			fmt.Fprintf(&b, "%g", *f.MaxPrice)
		}
	}
	if f.Name != "" {
		fmt.Fprintf(&b, ":n=%s", strings.ToLower(f.Name))
	}

	return b.String()
}
