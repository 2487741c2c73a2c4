package validation

import (
	"time"

	"go-hiring-backend/pkg/timezone"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("iana_tz", IANATimezone)
	_ = v.RegisterValidation("future", FutureInstant)
}

// IANATimezone validates that a string names a zone known to the runtime's
// timezone database. Empty is allowed; combine with required when mandatory.
func IANATimezone(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return timezone.Validate(val) == nil
}

// FutureInstant validates that a time.Time field lies strictly in the future.
func FutureInstant(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}
