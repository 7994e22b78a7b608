package sheets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
)

// maxExcerptLen bounds how much of an unparseable response body is carried
// in the error for diagnostics.
const maxExcerptLen = 1000

// ErrorKind classifies a failed exchange with the backend.
type ErrorKind string

const (
	// KindTransport covers network-level failures: connection refused, DNS,
	// TLS, or anything else raised before a response body could be read.
	KindTransport ErrorKind = "transport"
	// KindMalformedResponse means the backend answered but the body was not
	// valid JSON.
	KindMalformedResponse ErrorKind = "malformed_response"
	// KindBackendRejected means the backend answered with valid JSON whose
	// status was not "success".
	KindBackendRejected ErrorKind = "backend_rejected"
)

// Error is a classified submission failure. Message is human-readable and
// safe to surface to the operator as-is.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Submission is the wire payload the Apps Script endpoint expects. The
// member type is dropped from the body when empty; the sheet treats an
// absent column value and an empty one differently.
type Submission struct {
	Nom            string `json:"nom"`
	Prenom         string `json:"prenom"`
	Email          string `json:"email"`
	Telephone      string `json:"telephone"`
	TypeMembre     string `json:"typeMembre,omitempty"`
	DateSoumission string `json:"dateSoumission"`
}

// Client defines the interface for interacting with the Google Apps Script
// backend that writes rows into the spreadsheet.
type Client interface {
	Submit(sub Submission) (string, error)
}

type clientImpl struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a new Apps Script client for the given deployment URL.
func NewClient(endpoint string) Client {
	return &clientImpl{
		endpoint:   endpoint,
		httpClient: &http.Client{},
	}
}

// Submit performs exactly one POST of the submission to the backend and
// interprets the acknowledgment. On success it returns the backend's
// human-readable message, which may be empty. No retries.
func (c *clientImpl) Submit(sub Submission) (string, error) {
	jsonPayload, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequest("POST", c.endpoint, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	// Apps Script web apps cannot read a JSON-typed body; they expose the
	// raw post contents as text, so the payload goes over as text/plain and
	// the script parses the JSON itself.
	req.Header.Add("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(err)
	}

	// The script reports failures in the body, not the HTTP status code, so
	// the body is parsed regardless of status.
	var result struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Printf("Backend response was not valid JSON: %s", excerpt(body))
		return "", &Error{
			Kind:    KindMalformedResponse,
			Message: fmt.Sprintf("invalid response from backend; check the Apps Script execution logs. Raw response: %s", excerpt(body)),
		}
	}

	if result.Status != "success" {
		if result.Message != "" {
			return "", &Error{Kind: KindBackendRejected, Message: result.Message}
		}
		status := result.Status
		if status == "" {
			status = "unknown"
		}
		return "", &Error{
			Kind:    KindBackendRejected,
			Message: fmt.Sprintf("backend script error: status %s", status),
		}
	}

	log.Printf("Successfully submitted entry to the spreadsheet backend")
	return result.Message, nil
}

// transportError wraps a network-level failure, appending a deployment hint
// when the error text suggests a cross-origin access problem.
func transportError(err error) *Error {
	msg := fmt.Sprintf("error reaching backend: %v", err)
	if looksLikeCORS(err.Error()) {
		msg += " (network errors of this kind are often CORS related; make sure the Apps Script deployment allows access to \"Anyone\")"
	}
	return &Error{Kind: KindTransport, Message: msg}
}

func looksLikeCORS(text string) bool {
	for _, indicator := range []string{"CORS", "NetworkError", "cross-origin", "Access-Control-Allow-Origin"} {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}

func excerpt(body []byte) string {
	if len(body) > maxExcerptLen {
		body = body[:maxExcerptLen]
	}
	return string(body)
}
