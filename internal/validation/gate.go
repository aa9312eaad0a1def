package validation

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"photoshoot-bot/internal/domain"
)

const (
	minNameLen       = 2
	maxPersonNameLen = 24
	maxStudioNameLen = 64
)

// Gate checks drafts against their field predicates before anything is
// written. Field rules live in `validate` struct tags on the draft types;
// rules that depend on several fields are registered here.
type Gate struct {
	validate *validator.Validate
}

func New() *Gate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(participantRules, domain.ParticipantDraft{})
	return &Gate{validate: v}
}

// Validate returns validator.ValidationErrors describing every failed predicate.
func (g *Gate) Validate(draft any) error {
	return g.validate.Struct(draft)
}

func (g *Gate) IsValid(draft any) bool {
	return g.Validate(draft) == nil
}

// People are named with letters only; studios may carry digits and spaces.
func participantRules(sl validator.StructLevel) {
	d := sl.Current().Interface().(domain.ParticipantDraft)

	if !d.Role.Valid() {
		sl.ReportError(d.Role, "Role", "Role", "role", string(d.Role))
	}

	n := utf8.RuneCountInString(d.Name)
	if d.Role.Person() {
		if n < minNameLen || n > maxPersonNameLen || !letters(d.Name) {
			sl.ReportError(d.Name, "Name", "Name", "personname", "")
		}
		return
	}
	if n < minNameLen || n > maxStudioNameLen {
		sl.ReportError(d.Name, "Name", "Name", "studioname", "")
	}
}

func letters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
