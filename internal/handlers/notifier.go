package handlers

import "github.com/mcawcutt/socialspark-scheduler/internal/logging"

// OperatorNotifier surfaces engine warnings and errors when the service runs
// the engine itself: logged, counted, and carried to the operator through the
// HTTP error payloads the drop handler returns.
type OperatorNotifier struct {
	logger  logging.Logger
	metrics *SchedulerMetrics
}

// NewOperatorNotifier builds the service-side notifier.
func NewOperatorNotifier(logger logging.Logger, metrics *SchedulerMetrics) *OperatorNotifier {
	return &OperatorNotifier{logger: logger, metrics: metrics}
}

func (n *OperatorNotifier) Warn(message string) {
	n.logger.Warn(message)
	n.metrics.IncNotification("warning")
}

func (n *OperatorNotifier) Error(message string) {
	n.logger.Error(message)
	n.metrics.IncNotification("error")
}
