package catalog

// Notifier schedules review reminders keyed by screenshot ID.
// Scheduling is fire-and-forget: no delivery confirmation flows back into
// the catalog, and Cancel on an unknown ID is a no-op.
type Notifier interface {
	Schedule(screenshotID string, afterHours int) error
	Cancel(screenshotID string) error
}
