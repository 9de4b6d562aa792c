package user

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern = regexp.MustCompile(`^\+7\d{10}$`)
	validate     = validator.New()
)

// ValidPhone reports whether phone is a +7 number with ten digits after the
// country code. Spaces and dashes between digit groups are ignored.
func ValidPhone(phone string) bool {
	clean := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	return phonePattern.MatchString(clean)
}

// ValidEmail reports whether email is a well-formed address.
func ValidEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
