package service

import (
	"sync"
	"time"

	"github.com/andresuchdata/smart-inventory/backend-go/internal/domain"
)

// ModelState records whether the forecaster has been trained and when.
type ModelState struct {
	mu          sync.RWMutex
	trained     bool
	lastTrained time.Time
}

func (m *ModelState) MarkTrained(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trained = true
	m.lastTrained = at
}

func (m *ModelState) Status() domain.ModelStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := domain.ModelStatus{IsTrained: m.trained}
	if m.trained {
		t := m.lastTrained
		status.LastTrained = &t
	}
	return status
}
