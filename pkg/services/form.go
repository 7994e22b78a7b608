package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"personentry/pkg/clients/sheets"
	"personentry/pkg/models"
)

// ErrSubmissionInFlight is returned by Submit while a previous submission is
// still waiting on the backend.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ErrUnknownField is returned by UpdateField for a field name the form does
// not have.
var ErrUnknownField = errors.New("unknown form field")

// FormService owns the draft being edited and drives it through validation,
// submission, and resolution. The draft moves between two states: editing
// (the default) and submitting, entered only after validation passes and
// held until the backend resolves. Field values survive a failed submission
// so a retry does not require re-entry.
type FormService struct {
	sheetsClient sheets.Client
	records      *RecordLog
	notifier     *Notifier

	mu          sync.Mutex
	draft       models.DraftInput
	fieldErrors map[string]string
	submitting  bool
	lastID      int64

	now func() time.Time
}

// NewFormService creates a form service over the given backend client,
// record log, and notifier.
func NewFormService(client sheets.Client, records *RecordLog, notifier *Notifier) *FormService {
	return &FormService{
		sheetsClient: client,
		records:      records,
		notifier:     notifier,
		fieldErrors:  make(map[string]string),
		now:          time.Now,
	}
}

// UpdateField sets one draft field and clears that field's validation error,
// leaving errors on other fields untouched. Valid in any state.
func (s *FormService) UpdateField(name, value string) (models.DraftInput, map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case "nom":
		s.draft.Nom = value
	case "prenom":
		s.draft.Prenom = value
	case "email":
		s.draft.Email = value
	case "telephone":
		s.draft.Telephone = value
	case "typeMembre":
		s.draft.TypeMembre = value
	default:
		return s.draft, copyErrors(s.fieldErrors), fmt.Errorf("%w: %s", ErrUnknownField, name)
	}

	delete(s.fieldErrors, name)
	return s.draft, copyErrors(s.fieldErrors), nil
}

// Submit validates the draft and, if it is clean, freezes a snapshot and
// launches the backend exchange on a goroutine. The returned map holds
// per-field errors when validation fails; in that case no network activity
// happens and the draft stays editable. ErrSubmissionInFlight is returned
// while a previous submission is unresolved.
func (s *FormService) Submit() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return nil, ErrSubmissionInFlight
	}

	if errs := s.draft.Validate(); len(errs) > 0 {
		s.fieldErrors = errs
		return copyErrors(errs), nil
	}

	record := s.draft.Record()
	s.fieldErrors = make(map[string]string)
	s.submitting = true

	go s.process(record)

	return nil, nil
}

// Draft returns the current draft, its field errors, and whether a
// submission is in flight.
func (s *FormService) Draft() (models.DraftInput, map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft, copyErrors(s.fieldErrors), s.submitting
}

// process runs the submission workflow for a frozen record: one exchange
// with the backend, then resolution into the record log and a notification.
// No cancellation; once launched it runs to an outcome.
func (s *FormService) process(record models.ValidatedRecord) {
	date := s.now().Format("2006-01-02")

	log.Printf("Submitting entry for %s %s", record.Prenom, record.Nom)

	message, err := s.sheetsClient.Submit(sheets.Submission{
		Nom:            record.Nom,
		Prenom:         record.Prenom,
		Email:          record.Email,
		Telephone:      record.Telephone,
		TypeMembre:     record.TypeMembre,
		DateSoumission: date,
	})
	if err != nil {
		s.resolveFailure(err)
		return
	}

	s.resolveSuccess(record, date, message)
}

// resolveSuccess logs the committed person, resets the draft, and posts the
// success notification.
func (s *FormService) resolveSuccess(record models.ValidatedRecord, date, backendMessage string) {
	s.mu.Lock()
	person := models.Person{
		ID:             s.nextID(),
		Nom:            record.Nom,
		Prenom:         record.Prenom,
		Email:          record.Email,
		Telephone:      record.Telephone,
		TypeMembre:     record.TypeMembre,
		DateSoumission: date,
	}
	s.draft = models.DraftInput{}
	s.submitting = false
	s.mu.Unlock()

	s.records.Add(person)

	text := fmt.Sprintf("Person %s %s added", person.Prenom, person.Nom)
	if person.TypeMembre != "" {
		text += fmt.Sprintf(" as %s", person.TypeMembre)
	}
	if backendMessage == "" {
		backendMessage = "Entry sent to and recorded by the spreadsheet backend."
	}
	text += ". " + backendMessage

	s.notifier.Post(text, models.SeveritySuccess)
	log.Printf("Committed entry %s for %s %s", person.ID, person.Prenom, person.Nom)
}

// resolveFailure returns to editing with the draft intact and posts the
// error notification.
func (s *FormService) resolveFailure(err error) {
	s.mu.Lock()
	s.submitting = false
	s.mu.Unlock()

	log.Printf("Submission failed: %v", err)
	s.notifier.Post(
		fmt.Sprintf("Could not submit the entry: %v. Check the script URL and the Apps Script execution logs.", err),
		models.SeverityError,
	)
}

// nextID returns a process-unique token for a committed record. Nanosecond
// timestamps are already distinct in practice; the bump keeps them strictly
// increasing even if the clock stalls. Callers must hold mu.
func (s *FormService) nextID() string {
	id := s.now().UnixNano()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return strconv.FormatInt(id, 10)
}

func copyErrors(errs map[string]string) map[string]string {
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[k] = v
	}
	return out
}
