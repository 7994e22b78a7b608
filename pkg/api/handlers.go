package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"personentry/pkg/services"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	form     *services.FormService
	records  *services.RecordLog
	notifier *services.Notifier
}

// NewHandlers creates a new Handlers instance
func NewHandlers(form *services.FormService, records *services.RecordLog, notifier *services.Notifier) *Handlers {
	return &Handlers{
		form:     form,
		records:  records,
		notifier: notifier,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// GetForm returns the current draft, its field errors, and whether a
// submission is in flight.
func (h *Handlers) GetForm(c *gin.Context) {
	draft, fieldErrors, submitting := h.form.Draft()
	c.JSON(http.StatusOK, gin.H{
		"draft":      draft,
		"errors":     fieldErrors,
		"submitting": submitting,
	})
}

// UpdateField sets a single draft field.
func (h *Handlers) UpdateField(c *gin.Context) {
	var input struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Error parsing field update: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	draft, fieldErrors, err := h.form.UpdateField(input.Field, input.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"draft":  draft,
		"errors": fieldErrors,
	})
}

// SubmitForm validates the draft and, if clean, kicks off the backend
// exchange. The request returns as soon as the submission is in flight;
// its outcome lands in the record log and the notification list.
func (h *Handlers) SubmitForm(c *gin.Context) {
	fieldErrors, err := h.form.Submit()
	if err != nil {
		if errors.Is(err, services.ErrSubmissionInFlight) {
			c.JSON(http.StatusConflict, gin.H{"error": "A submission is already in progress"})
			return
		}
		log.Printf("Error submitting form: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Submission unavailable"})
		return
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "success",
		"message": "Submission accepted and processing",
	})
}

// ListPersons returns the entries committed this session, newest first.
func (h *Handlers) ListPersons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"persons": h.records.List(),
	})
}

// ListNotifications returns the active notifications in posting order.
func (h *Handlers) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notifications": h.notifier.List(),
	})
}

// DismissNotification removes a notification. Dismissing an id that already
// expired is fine; the operation is idempotent.
func (h *Handlers) DismissNotification(c *gin.Context) {
	h.notifier.Dismiss(c.Param("id"))
	c.Status(http.StatusNoContent)
}
