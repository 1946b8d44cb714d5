package classify

import (
	"fmt"
	"time"

	"screenkeep/internal/catalog"
	"screenkeep/internal/config"
)

// NewClassifierFromConfig creates a Classifier implementation based on the
// classifier config type.
func NewClassifierFromConfig(cfg config.ClassifierConfig) (catalog.Classifier, error) {
	switch cfg.Type {
	case "", "none":
		return NewNoneClassifier(), nil
	case "static":
		if cfg.LabelsPath == "" {
			return nil, fmt.Errorf("static classifier requires labels_path to be set")
		}
		return LoadStaticClassifier(cfg.LabelsPath)
	case "http":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("http classifier requires endpoint to be set")
		}
		return NewHTTPClassifier(cfg.Endpoint, time.Duration(cfg.TimeoutMS)*time.Millisecond), nil
	default:
		return nil, fmt.Errorf("unknown classifier type: %s", cfg.Type)
	}
}
