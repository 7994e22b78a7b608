package services

import (
	"sync"

	"personentry/pkg/models"
)

// RecordLog holds the persons acknowledged by the backend during this
// process's lifetime, newest first. Nothing is persisted; the log is gone
// when the process exits.
type RecordLog struct {
	mu      sync.RWMutex
	persons []models.Person
}

// NewRecordLog creates an empty record log.
func NewRecordLog() *RecordLog {
	return &RecordLog{}
}

// Add prepends a committed person to the log.
func (l *RecordLog) Add(p models.Person) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.persons = append([]models.Person{p}, l.persons...)
}

// List returns a copy of the log, newest first.
func (l *RecordLog) List() []models.Person {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Person, len(l.persons))
	copy(out, l.persons)
	return out
}

// Len reports how many persons have been logged.
func (l *RecordLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.persons)
}
