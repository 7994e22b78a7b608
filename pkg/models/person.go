package models

import (
	"regexp"
	"strings"
)

// Validation error codes, keyed per field by Validate.
const (
	ErrRequired      = "Required"
	ErrInvalidFormat = "InvalidFormat"
)

// MemberTypes lists the member types the form suggests. Entries are not
// enforced at validation time; any string is accepted.
var MemberTypes = []string{"Adhérent", "Actif", "Bienfaiteur"}

// Minimal local@domain.tld shape, matching what the form enforces.
// Deliberately loose; the backend is the authority on addresses.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// DraftInput represents in-progress, unvalidated form state.
type DraftInput struct {
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
	TypeMembre string `json:"typeMembre"`
}

// ValidatedRecord is an immutable snapshot of a draft that passed validation,
// ready to be handed to the submission pipeline.
type ValidatedRecord struct {
	Nom        string
	Prenom     string
	Email      string
	Telephone  string
	TypeMembre string
}

// Person represents a record acknowledged by the spreadsheet backend,
// enriched with an id and submission date. Never mutated once logged.
type Person struct {
	ID             string `json:"id"`
	Nom            string `json:"nom"`
	Prenom         string `json:"prenom"`
	Email          string `json:"email"`
	Telephone      string `json:"telephone,omitempty"`
	TypeMembre     string `json:"typeMembre,omitempty"`
	DateSoumission string `json:"dateSoumission"`
}

// Validate checks the draft's required fields and returns an error code per
// failing field. An empty map means the draft is ready to submit. Telephone
// and member type are optional and never fail.
func (d DraftInput) Validate() map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(d.Nom) == "" {
		errs["nom"] = ErrRequired
	}
	if strings.TrimSpace(d.Prenom) == "" {
		errs["prenom"] = ErrRequired
	}
	if strings.TrimSpace(d.Email) == "" {
		errs["email"] = ErrRequired
	} else if !emailPattern.MatchString(d.Email) {
		errs["email"] = ErrInvalidFormat
	}

	return errs
}

// Record freezes the draft into a ValidatedRecord. Callers must have checked
// Validate first; Record performs no checks of its own.
func (d DraftInput) Record() ValidatedRecord {
	return ValidatedRecord{
		Nom:        d.Nom,
		Prenom:     d.Prenom,
		Email:      d.Email,
		Telephone:  d.Telephone,
		TypeMembre: d.TypeMembre,
	}
}
