package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/tutor-scheduler/internal/domain/booking"
)

// notFound maps gorm's missing-row error onto the domain sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return booking.ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
