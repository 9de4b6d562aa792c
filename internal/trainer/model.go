package trainer

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nekogravitycat/pool-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.New(http.StatusNotFound, apperror.KindNotFound, "trainer not found")
	ErrExists               = apperror.New(http.StatusConflict, apperror.KindDuplicate, "trainer with this name already exists")
	ErrEmptyName            = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "last and first name are required")
	ErrInvalidAge           = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "age must be positive")
	ErrInvalidDay           = apperror.New(http.StatusBadRequest, apperror.KindInvalid, "day of week must be within 0..6")
	ErrAvailabilityExists   = apperror.New(http.StatusConflict, apperror.KindDuplicate, "trainer is already available at this time")
	ErrAvailabilityNotFound = apperror.New(http.StatusNotFound, apperror.KindNotFound, "availability entry not found")
)

type Trainer struct {
	ID          string
	LastName    string
	FirstName   string
	MiddleName  string
	Age         int
	Description string
	CreatedAt   time.Time
}

// FullName is "Last First Middle"; it identifies the trainer.
func (t *Trainer) FullName() string {
	return joinNonEmpty(t.LastName, t.FirstName, t.MiddleName)
}

// ShortName is "Last F.M.", or "Last F." without a middle name.
func (t *Trainer) ShortName() string {
	var b strings.Builder
	b.WriteString(t.LastName)
	if r, _ := utf8.DecodeRuneInString(t.FirstName); r != utf8.RuneError {
		b.WriteString(" ")
		b.WriteRune(r)
		b.WriteString(".")
	}
	if r, _ := utf8.DecodeRuneInString(t.MiddleName); r != utf8.RuneError {
		b.WriteRune(r)
		b.WriteString(".")
	}
	return b.String()
}

// Brief identifies a trainer in availability listings.
type Brief struct {
	ID   string
	Name string
}

// Availability is one recurring weekly slot a trainer may be assigned to.
// DayOfWeek runs from 0 (Monday) to 6 (Sunday).
type Availability struct {
	ID          string
	TrainerID   string
	TrainerName string
	DayOfWeek   int
	Time        string
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
