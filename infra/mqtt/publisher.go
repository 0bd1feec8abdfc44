package mqtt

import (
	"fmt"
	"sync"

	coremqtt "github.com/ridepulse/eta/core/mqtt"
	"github.com/ridepulse/eta/core/model"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher records published predictions for tests.
type MockPublisher struct {
	mu          sync.Mutex
	Predictions []model.Prediction
	FailTrips   map[string]bool
	Closed      bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailTrips: make(map[string]bool)}
}

// PublishPrediction records the prediction or fails when the trip is
// configured to fail.
func (m *MockPublisher) PublishPrediction(p model.Prediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTrips[p.TripID] {
		return fmt.Errorf("publish failed")
	}
	m.Predictions = append(m.Predictions, p)
	return nil
}

// Published returns a copy of the recorded predictions.
func (m *MockPublisher) Published() []model.Prediction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Prediction, len(m.Predictions))
	copy(out, m.Predictions)
	return out
}

// Close marks the publisher as closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
}
