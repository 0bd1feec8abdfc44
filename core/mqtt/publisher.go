package mqtt

import "github.com/ridepulse/eta/core/model"

// Publisher pushes generated predictions to downstream consumers such as
// passenger displays or journey planners.
type Publisher interface {
	// PublishPrediction sends a single prediction. The topic is derived from
	// the trip and stop identifiers carried by the prediction.
	PublishPrediction(p model.Prediction) error

	// Close releases the underlying connection.
	Close()
}
