package timezone

import (
	"sync/atomic"
	"time"
)

const FallbackTimezone = "UTC"

var defaultTZ atomic.Value

func init() {
	defaultTZ.Store(FallbackTimezone)
}

// SetDefault changes the zone used for users without a timezone of their
// own. Invalid names are ignored.
func SetDefault(tz string) {
	if IsValid(tz) {
		defaultTZ.Store(tz)
	}
}

func Default() string {
	return defaultTZ.Load().(string)
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(Default())
	if err != nil {
		return time.UTC
	}
	return loc
}

func Now() time.Time {
	return time.Now().In(Location(Default()))
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
