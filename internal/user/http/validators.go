package http

import (
	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/pool-booking-backend/internal/user"
)

// RegisterValidators adds the user-specific binding tags to v.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return user.ValidPhone(fl.Field().String())
	})
}
