package contactform

import (
	"regexp"
	"sort"
	"strings"

	"github.com/bryllupspakken/backend/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User-facing validation messages.
const (
	MsgNameRequired       = "Vennligst oppgi navnet ditt"
	MsgEmailRequired      = "Vennligst oppgi en gyldig e-postadresse"
	MsgEmailInvalid       = "E-postadressen ser ikke gyldig ut"
	MsgGuestCountNegative = "Antall gjester kan ikke være negativt"
)

// Result is the outcome of Validate. Errors maps field name to message.
type Result struct {
	Valid  bool
	Errors map[string]string
}

// ValidationError carries a failed Result across the service boundary.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid contact request: " + strings.Join(keys, ", ")
}

// Err returns a *ValidationError for an invalid result and nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Fields: r.Errors}
}

// Validate checks every rule and collects all failures.
func Validate(in model.ContactRequestInput) Result {
	errs := make(map[string]string)

	if strings.TrimSpace(in.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}

	email := strings.TrimSpace(in.Email)
	switch {
	case email == "":
		errs[FieldEmail] = MsgEmailRequired
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = MsgEmailInvalid
	}

	if in.GuestCount != nil && *in.GuestCount < 0 {
		errs[FieldGuestCount] = MsgGuestCountNegative
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// IsEmail reports whether s has the local@domain.tld shape accepted by the form.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
