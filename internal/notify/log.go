package notify

import "screenkeep/internal/catalog"

// LogNotifier is the default scheduler: it records the request in the log
// and nothing else. Delivery mechanics live outside this system; the
// contract is fire-and-forget either way.
type LogNotifier struct {
	logger catalog.Logger
}

func NewLogNotifier(logger catalog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Schedule(screenshotID string, afterHours int) error {
	n.logger.Info("reminder scheduled", "id", screenshotID, "after_hours", afterHours)
	return nil
}

func (n *LogNotifier) Cancel(screenshotID string) error {
	n.logger.Info("reminder cancelled", "id", screenshotID)
	return nil
}

// Compile-time check that LogNotifier implements the catalog.Notifier interface
var _ catalog.Notifier = (*LogNotifier)(nil)
