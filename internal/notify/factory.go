package notify

import (
	"fmt"

	"screenkeep/internal/catalog"
	"screenkeep/internal/config"
)

// NewNotifierFromConfig creates a Notifier implementation based on the
// notifications config type.
func NewNotifierFromConfig(cfg config.NotificationsConfig, logger catalog.Logger) (catalog.Notifier, error) {
	switch cfg.Type {
	case "", "log":
		return NewLogNotifier(logger), nil
	case "memory":
		return NewMemoryNotifier(), nil
	default:
		return nil, fmt.Errorf("unknown notifier type: %s", cfg.Type)
	}
}
