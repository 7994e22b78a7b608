package sheets

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitSendsTextPlainJSON(t *testing.T) {
	var (
		gotMethod      string
		gotContentType string
		gotBody        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"status":"success","message":"Done"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	msg, err := client.Submit(Submission{
		Nom:            "Dupont",
		Prenom:         "Marie",
		Email:          "marie@example.org",
		Telephone:      "0600000000",
		DateSoumission: "2026-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Done", msg)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "text/plain", gotContentType)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "Dupont", payload["nom"])
	assert.Equal(t, "Marie", payload["prenom"])
	assert.Equal(t, "marie@example.org", payload["email"])
	assert.Equal(t, "0600000000", payload["telephone"])
	assert.Equal(t, "2026-09-01", payload["dateSoumission"])
	// Empty member type is dropped from the wire payload entirely.
	assert.NotContains(t, payload, "typeMembre")
}

func TestSubmitMalformedResponse(t *testing.T) {
	raw := "not-json " + strings.Repeat("x", 1500)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(raw))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Submit(Submission{Nom: "Dupont"})
	require.Error(t, err)

	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindMalformedResponse, subErr.Kind)
	assert.Contains(t, subErr.Message, "not-json")
	// Only a bounded excerpt of the raw body is carried.
	assert.Contains(t, subErr.Message, raw[:maxExcerptLen])
	assert.NotContains(t, subErr.Message, raw)
}

func TestSubmitBackendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","message":"Duplicate entry"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Submit(Submission{Nom: "Dupont"})
	require.Error(t, err)

	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindBackendRejected, subErr.Kind)
	assert.Equal(t, "Duplicate entry", subErr.Message)
}

func TestSubmitBackendRejectedWithoutMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"status without message", `{"status":"quota_exceeded"}`, "backend script error: status quota_exceeded"},
		{"no status at all", `{"ok":true}`, "backend script error: status unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).Submit(Submission{Nom: "Dupont"})
			var subErr *Error
			require.ErrorAs(t, err, &subErr)
			assert.Equal(t, KindBackendRejected, subErr.Kind)
			assert.Equal(t, tt.want, subErr.Message)
		})
	}
}

func TestSubmitTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse the connection

	_, err := NewClient(srv.URL).Submit(Submission{Nom: "Dupont"})
	require.Error(t, err)

	var subErr *Error
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, KindTransport, subErr.Kind)
}

func TestLooksLikeCORS(t *testing.T) {
	assert.True(t, looksLikeCORS("NetworkError when attempting to fetch resource"))
	assert.True(t, looksLikeCORS("blocked by CORS policy"))
	assert.True(t, looksLikeCORS("No Access-Control-Allow-Origin header present"))
	assert.False(t, looksLikeCORS("dial tcp 127.0.0.1:1: connect: connection refused"))
}

func TestTransportErrorCORSHint(t *testing.T) {
	err := transportError(assert.AnError)
	assert.NotContains(t, err.Message, "CORS related")

	hinted := transportError(&textError{"NetworkError when attempting to fetch resource"})
	assert.Contains(t, hinted.Message, "CORS related")
}

type textError struct{ text string }

func (e *textError) Error() string { return e.text }
