package validators

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/tutor-scheduler/internal/timezone"
)

// RegisterBindings adds the request tags used by the handlers to gin's
// validator: isodate (YYYY-MM-DD), hhmm (24h HH:MM) and tz (IANA zone).
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}

func Register(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"isodate": layout("2006-01-02"),
		"hhmm":    layout("15:04"),
		"tz": func(fl validator.FieldLevel) bool {
			return timezone.IsValid(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

func layout(l string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(l) {
			return false
		}
		_, err := time.Parse(l, s)
		return err == nil
	}
}

// Describe turns binding errors into one readable sentence.
func Describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Invalid request body"
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid e-mail address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "isodate":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", fe.Field())
	case "hhmm":
		return fmt.Sprintf("%s must be a HH:MM time", fe.Field())
	case "tz":
		return fmt.Sprintf("%s must be an IANA timezone", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
